package main

import "mapmarkers/cmd"

func main() {
	cmd.Execute()
}
