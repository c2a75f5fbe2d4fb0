// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import "slices"

// Polyline is the ordered sequence of points the user placed.
//
// It holds exactly what was appended or loaded: duplicates are kept and
// nothing is reordered. Smoothing works on a snapshot and never mutates it.
// The zero value is an empty polyline ready to use.
type Polyline struct {
	points []Point
}

// Append adds p at the end. It always succeeds.
func (l *Polyline) Append(p Point) {
	l.points = append(l.points, p)
}

// UndoLast removes the last point. It reports false and does nothing when
// the polyline is empty.
func (l *Polyline) UndoLast() bool {
	if len(l.points) == 0 {
		return false
	}
	l.points = l.points[:len(l.points)-1]
	return true
}

// Clear removes all points.
func (l *Polyline) Clear() {
	l.points = l.points[:0]
}

// ReplaceAll discards the current points and copies points in.
func (l *Polyline) ReplaceAll(points []Point) {
	l.points = append(l.points[:0], points...)
}

// Snapshot returns a copy of the points in order.
func (l *Polyline) Snapshot() []Point {
	return slices.Clone(l.points)
}

// Len returns the number of points.
func (l *Polyline) Len() int {
	return len(l.points)
}

// Last returns the last point, or false when empty.
func (l *Polyline) Last() (Point, bool) {
	if len(l.points) == 0 {
		return Point{}, false
	}
	return l.points[len(l.points)-1], true
}
