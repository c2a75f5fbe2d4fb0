// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

import (
	"fmt"
	"image"
)

// State is the lifecycle state of a Pipeline.
type State int

const (
	// StateUninitialized is the state before Init is called.
	StateUninitialized State = iota

	// StateReady means the program is linked and the vertex buffer exists.
	StateReady

	// StateFailed means Init reported a compile or link error.
	StateFailed

	// StateDestroyed means all resources were released.
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pipeline is the rendering surface a drawing session draws through.
//
// A Pipeline owns one shader program, one uniform block (point size and
// color) and one dynamically sized vertex buffer. Implementations are safe
// for use from multiple goroutines, but callers are expected to drive a
// frame from a single goroutine.
//
// Every method except Init, State and Destroy returns [ErrInvalidState]
// unless the pipeline is in [StateReady].
type Pipeline interface {
	// Name returns the backend identifier (e.g. "gpu", "software").
	Name() string

	// Init compiles and links the program, resolves attribute and uniform
	// slots and allocates the vertex buffer. It must be called exactly once.
	Init() error

	// State reports the current lifecycle state.
	State() State

	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// Resize rebuilds the render target for new dimensions. The program
	// is kept; no draw observes a partially rebuilt target.
	Resize(width, height int) error

	// Clear fills the whole surface with an RGBA color.
	Clear(color [4]float32) error

	// UploadVertices replaces the vertex buffer contents with interleaved
	// x,y pairs in normalized device coordinates.
	UploadVertices(vertices []float32) error

	// SetPointSize sets the point size uniform.
	SetPointSize(size float32) error

	// SetColor sets the color uniform.
	SetColor(r, g, b, a float32) error

	// DrawLineStrip draws the first count uploaded vertices as a line strip.
	DrawLineStrip(count int) error

	// ReadPixels reads back the current color buffer.
	ReadPixels() (*image.RGBA, error)

	// Destroy releases all resources. Safe to call multiple times.
	Destroy()
}

// Options configures a pipeline implementation.
type Options struct {
	// VertexSource is the WGSL vertex stage. Empty selects LineVertexShader.
	VertexSource string

	// FragmentSource is the WGSL fragment stage. Empty selects LineFragmentShader.
	FragmentSource string

	// MemoryBudget caps the bytes a device-backed pipeline may allocate.
	// Zero selects DefaultMemoryBudget.
	MemoryBudget uint64
}

// DefaultMemoryBudget is the allocation cap of a device-backed pipeline (256 MB).
const DefaultMemoryBudget = 256 << 20

// Option mutates Options.
type Option func(*Options)

// WithShaderSource overrides the WGSL program. Either argument may be empty
// to keep the built-in stage.
func WithShaderSource(vertex, fragment string) Option {
	return func(o *Options) {
		if vertex != "" {
			o.VertexSource = vertex
		}
		if fragment != "" {
			o.FragmentSource = fragment
		}
	}
}

// WithMemoryBudget caps device allocations at bytes. Pipelines without a
// device ignore it.
func WithMemoryBudget(bytes uint64) Option {
	return func(o *Options) {
		o.MemoryBudget = bytes
	}
}

// ApplyOptions returns Options with defaults filled in.
func ApplyOptions(opts ...Option) Options {
	o := Options{
		VertexSource:   LineVertexShader,
		FragmentSource: LineFragmentShader,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MemoryBudget == 0 {
		o.MemoryBudget = DefaultMemoryBudget
	}
	return o
}

// ValidateSize reports ErrInvalidSize for non-positive dimensions.
func ValidateSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}
