// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

// SessionOption configures a Session during creation.
//
// Example:
//
//	s, err := trace.NewSession(p,
//	    trace.WithStyle(trace.StrokeStyle{Color: trace.Black, Width: 3}),
//	    trace.WithSmoothing(true))
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	style         StrokeStyle
	smooth        bool
	background    RGBA
	width, height int
}

func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		style:      DefaultStyle(),
		background: White,
	}
}

// WithStyle sets the initial stroke style. The width is clamped.
func WithStyle(s StrokeStyle) SessionOption {
	return func(o *sessionOptions) {
		o.style = s.WithWidth(s.Width)
	}
}

// WithSmoothing sets the initial smoothing mode.
func WithSmoothing(on bool) SessionOption {
	return func(o *sessionOptions) {
		o.smooth = on
	}
}

// WithBackground sets the color each frame is cleared to. Default white.
func WithBackground(c RGBA) SessionOption {
	return func(o *sessionOptions) {
		o.background = c
	}
}

// WithSurfaceSize resizes the pipeline to width x height pixels when the
// session is created. By default the pipeline keeps its own size.
func WithSurfaceSize(width, height int) SessionOption {
	return func(o *sessionOptions) {
		o.width, o.height = width, height
	}
}
