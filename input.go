// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

// Rect is the on-screen bounding rectangle of the drawing surface in pixels.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Center returns the pixel at the middle of r.
func (r Rect) Center() (x, y float64) {
	return r.Left + r.Width/2, r.Top + r.Height/2
}

// MapPointer converts a pointer position in pixels to normalized device
// coordinates. Pixel y grows downward; device y grows upward.
//
// The result is not clamped: clicks outside r map outside [-1, 1].
// r must have a non-zero size.
func MapPointer(px, py float64, r Rect) Point {
	return Point{
		X: (px-r.Left)/r.Width*2 - 1,
		Y: (r.Height-(py-r.Top))/r.Height*2 - 1,
	}
}

// UnmapPoint converts a normalized device point back to pixels in r.
// It inverts MapPointer.
func UnmapPoint(p Point, r Rect) (px, py float64) {
	px = (p.X+1)/2*r.Width + r.Left
	py = r.Height - (p.Y+1)/2*r.Height + r.Top
	return px, py
}
