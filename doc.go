// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package trace is an interactive polyline drawing engine.
//
// A user places points with pointer clicks; the points form one polyline,
// optionally smoothed, drawn as a line strip by a GPU pipeline. The package
// holds the engine state and the per-frame logic, and talks to the rendering
// backend only through [gpucore.Pipeline].
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/trace"
//	    "github.com/gogpu/trace/backend"
//	)
//
//	p, _ := backend.Default(800, 600)
//	s, err := trace.NewSession(p)
//	if err != nil {
//	    // *gpucore.ShaderCompileError or *gpucore.ProgramLinkError
//	}
//	defer s.Close()
//
//	_ = s.OnClick(400, 300, trace.Rect{Width: 800, Height: 600})
//	_ = s.OnWidthChange(4)
//	img, _ := s.CaptureFrame()
//
// # Components
//
//   - [Polyline]: the ordered points the user placed. Smoothing never
//     mutates it.
//   - [Interpolate]: segment-local resampling used when smoothing is on.
//   - [Renderer]: clears, sets uniforms, uploads vertices and draws one
//     line strip per frame.
//   - [MapPointer]: pixel to normalized device coordinates.
//   - [Session]: owns all of the above; each mutator re-renders.
//
// # Coordinates
//
// Points live in normalized device space: origin at the surface center, x to
// the right and y up, both in [-1, 1] for points inside the surface. Points
// outside that range are kept and clipped by the rasterizer.
//
// # Logging
//
// The package is silent by default. [SetLogger] enables structured logging
// for the package and for pipelines that accept a logger.
package trace
