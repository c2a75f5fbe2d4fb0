// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpucore provides the shared pipeline contract for trace backends.
//
// This package defines the [Pipeline] interface, which abstracts over the
// rendering surfaces a drawing session can target:
//   - internal/gpu (wgpu HAL render pipeline, Vulkan or a host device)
//   - internal/raster (CPU rasterizer, used headless and for the desktop shell)
//
// # Architecture
//
//	               +-----------------+
//	               |  trace.Renderer |
//	               +--------+--------+
//	                        |
//	               +--------v--------+
//	               | gpucore.Pipeline|
//	               +--------+--------+
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	|  gpu.LinePipeline|         | raster.Pipeline |
//	|  (hal.Device)    |         | (x/image/vector)|
//	+-----------------+          +-----------------+
//
// # Program Lifecycle
//
// Every pipeline walks the same state machine:
//
//	StateUninitialized --Init--> StateReady --Destroy--> StateDestroyed
//	StateUninitialized --Init (error)--> StateFailed
//
// Init compiles the vertex and fragment WGSL sources with naga
// ([CompileProgram]). A stage that does not compile yields a
// [*ShaderCompileError] and linking is never attempted. A program whose
// stages do not fit together yields a [*ProgramLinkError]. Both are terminal
// for the pipeline instance: any call other than Destroy afterwards returns
// [ErrInvalidState].
//
// # Uniforms
//
// The line program reads one uniform block at group 0, binding 0:
//
//	struct Uniforms {
//	    color: vec4<f32>,
//	    point_size: f32,
//	}
//
// Vertices carry a single vec2<f32> position at location 0, in normalized
// device coordinates.
package gpucore
