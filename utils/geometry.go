package utils

import "math"

// Calculates the "taxi-cab" distance, which is the distance between two points using the shortest path in a grid like manner.
// As opposed to Euclidean distance, Manhattan avoids diagonal intersections and is generally used for fast measurements where precision isn't required.
//
// For map markers this is the distance we sort by, since a marker's position is only ever a block.
func ManhattanDistance2D(x1, z1, x2, z2 float64) float64 {
	return math.Abs(x2-x1) + math.Abs(z2-z1)
}

// Uses Manhattan geometry to check whether a point is range of another point using a box.
// When both radius inputs are the same, this func essentially checks that the point (X, Z) is within a perfectly square box.
// Otherwise, when the inputs are different, it will check in a rectangular manner, spanning further in one direction than the other.
func WithinManhattanRadius2D(x, z, originX, originZ, radiusX, radiusZ float64) bool {
	return math.Abs(x-originX) <= radiusX && math.Abs(z-originZ) <= radiusZ
}
