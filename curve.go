// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

// Smoothing parameters.
const (
	// MinSmoothPoints is the smallest polyline that smoothing resamples.
	// Shorter polylines are drawn as placed.
	MinSmoothPoints = 4

	// SegmentSamples is the number of samples taken per segment,
	// at t = 0.0, 0.1, ..., 1.0.
	SegmentSamples = 11
)

// SmoothedLen returns the number of vertices Interpolate produces for n
// input points.
func SmoothedLen(n int, smooth bool) int {
	if !smooth || n < MinSmoothPoints {
		return n
	}
	return SegmentSamples*(n-1) + 1
}

// Interpolate returns the vertices to draw for points.
//
// With smoothing off, or with fewer than MinSmoothPoints points, the result
// equals the input. Otherwise each consecutive pair is sampled at
// SegmentSamples evenly spaced parameters by linear interpolation, both
// endpoints included, and the last input point is appended once more. The
// result has SmoothedLen(len(points), true) vertices and its last vertex is
// exactly the last input point.
//
// The resampling is segment-local: it adds vertices but does not change the
// drawn shape. Interpolate is pure and returns a new slice.
func Interpolate(points []Point, smooth bool) []Point {
	if !smooth || len(points) < MinSmoothPoints {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	out := make([]Point, 0, SmoothedLen(len(points), true))
	for i := 0; i+1 < len(points); i++ {
		p0, p1 := points[i], points[i+1]
		for s := range SegmentSamples {
			// Divide per sample so no step error accumulates.
			t := float64(s) / float64(SegmentSamples-1)
			out = append(out, p0.Lerp(p1, t))
		}
	}
	return append(out, points[len(points)-1])
}
