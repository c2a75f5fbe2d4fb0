// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import "math"

// Stroke width limits in pixels.
const (
	MinWidth = 1.0
	MaxWidth = 10.0
)

// StrokeStyle is the color and width the polyline is drawn with.
type StrokeStyle struct {
	Color RGBA
	// Width is the stroke width in pixels, in [MinWidth, MaxWidth].
	Width float64
}

// DefaultStyle returns the initial style: red, 2 pixels wide.
func DefaultStyle() StrokeStyle {
	return StrokeStyle{Color: Red, Width: 2}
}

// ClampWidth limits w to [MinWidth, MaxWidth]. NaN maps to MinWidth.
func ClampWidth(w float64) float64 {
	if math.IsNaN(w) {
		return MinWidth
	}
	return math.Max(MinWidth, math.Min(MaxWidth, w))
}

// WithWidth returns a copy of s with the clamped width.
func (s StrokeStyle) WithWidth(w float64) StrokeStyle {
	s.Width = ClampWidth(w)
	return s
}

// WithColor returns a copy of s with color c.
func (s StrokeStyle) WithColor(c RGBA) StrokeStyle {
	s.Color = c
	return s
}
