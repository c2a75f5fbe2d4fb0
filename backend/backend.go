// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"

	"github.com/gogpu/trace/gpucore"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered, or when no registered backend could create a pipeline.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendGPU is the wgpu HAL pipeline, registered by importing
	// github.com/gogpu/trace/gpu.
	BackendGPU = "gpu"

	// BackendSoftware is the CPU pipeline, registered by this package.
	BackendSoftware = "software"
)

// Factory creates an uninitialized pipeline for a width x height surface.
// A factory returns an error when its backend cannot run on this machine,
// for example when no GPU adapter is present.
type Factory func(width, height int, opts ...gpucore.Option) (gpucore.Pipeline, error)
