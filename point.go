// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

// Point is a position in normalized device space.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Lerp returns the point at t along the segment from p to q.
// For finite points, t = 0 yields p and t = 1 yields q exactly.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: (1-t)*p.X + t*q.X,
		Y: (1-t)*p.Y + t*q.Y,
	}
}

// flatten appends the x, y pairs of pts to dst as float32.
func flatten(dst []float32, pts []Point) []float32 {
	for _, p := range pts {
		dst = append(dst, float32(p.X), float32(p.Y))
	}
	return dst
}
