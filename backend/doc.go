// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend selects the pipeline a trace.Session draws on.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend is registered on import of this package; the GPU
// backend is registered by importing the gpu package:
//
//	import (
//	    "github.com/gogpu/trace/backend"
//	    _ "github.com/gogpu/trace/gpu"
//	)
//
// # Backend Selection
//
// Default tries gpu first and falls back to software when no adapter can
// be opened. Get requests a specific backend by name:
//
//	p, err := backend.Default(800, 600)
//	p, err := backend.Get("software", 800, 600)
//
// Pipelines come back uninitialized; trace.NewSession initializes them.
package backend
