// Package internal provides shared leaf types used across the decode
// pipeline packages.
package internal

// Point is a point of interest in an image, in pixel coordinates.
type Point struct {
	X, Y float64
}
