// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu implements the line program on a wgpu HAL device.
//
// LinePipeline satisfies gpucore.Pipeline. It compiles the WGSL stages with
// naga, builds a line strip render pipeline with one uniform block (color
// and point size) and one vertex buffer, and renders into an offscreen
// BGRA8 target that can be read back as an RGBA image.
//
// Each Clear and DrawLineStrip is its own submitted render pass; the draw
// pass loads the previous contents, so a frame is Clear followed by zero or
// one draws. Submission waits on a fence, which keeps frame capture exact.
//
// Allocations are charged to a memory budget (gpucore.WithMemoryBudget);
// a resize or upload that would exceed it fails with gpucore.ErrMemoryBudget
// and leaves the pipeline as it was.
//
// The device and queue are supplied by the caller. Tests use the hal noop
// backend; applications open a Vulkan adapter through the public gpu package.
package gpu
