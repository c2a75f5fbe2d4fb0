// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"github.com/gogpu/trace/gpucore"
	"github.com/gogpu/trace/internal/raster"
)

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func(width, height int, opts ...gpucore.Option) (gpucore.Pipeline, error) {
		return NewSoftware(width, height, opts...)
	})
}

// NewSoftware creates a CPU pipeline. It works everywhere and is the
// fallback when no GPU is available.
func NewSoftware(width, height int, opts ...gpucore.Option) (gpucore.Pipeline, error) {
	p, err := raster.New(width, height, opts...)
	if err != nil {
		return nil, err
	}
	return p, nil
}
