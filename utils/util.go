package utils

import (
	"strconv"
	"strings"

	"github.com/sanity-io/litter"
)

var prettyOpts = litter.Options{
	HidePrivateFields: true,
	StripPackageNames: true,
	Compact:           false,
}

// Dumps any value as readable Go-like syntax, mostly for debugging output.
func Prettify(v any) string {
	return prettyOpts.Sdump(v)
}

// Parses a colour such as "#ff8800" or "0xff8800" into its integer value. Invalid input gives 0.
func HexToInt(hex string) int {
	str := strings.TrimPrefix(strings.TrimPrefix(hex, "#"), "0x")
	output, _ := strconv.ParseUint(str, 16, 32)

	return int(output)
}
