// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrInvalidState is returned when a pipeline operation is invoked
	// before Init, after a failed Init, or after Destroy.
	ErrInvalidState = errors.New("gpucore: invalid pipeline state")

	// ErrInvalidSize is returned for non-positive surface dimensions.
	ErrInvalidSize = errors.New("gpucore: invalid surface size")

	// ErrVertexCount is returned when a draw asks for more vertices than
	// were uploaded.
	ErrVertexCount = errors.New("gpucore: vertex count exceeds uploaded data")

	// ErrVertexData is returned when uploaded data is not whole x,y pairs.
	ErrVertexData = errors.New("gpucore: vertex data must be x,y pairs")

	// ErrMemoryBudget is returned when an allocation would exceed the
	// pipeline's memory budget.
	ErrMemoryBudget = errors.New("gpucore: memory budget exceeded")
)

// Stage identifies a shader stage.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota

	// StageFragment is the fragment stage.
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ShaderCompileError reports a shader stage that failed to compile.
// Log carries the compiler diagnostic.
type ShaderCompileError struct {
	Stage Stage
	Log   string
	Err   error
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("gpucore: %s shader compile failed: %s", e.Stage, e.Log)
}

func (e *ShaderCompileError) Unwrap() error { return e.Err }

// ProgramLinkError reports compiled stages that could not be linked into a
// program. Log carries the diagnostic.
type ProgramLinkError struct {
	Log string
	Err error
}

func (e *ProgramLinkError) Error() string {
	return "gpucore: program link failed: " + e.Log
}

func (e *ProgramLinkError) Unwrap() error { return e.Err }

// StateError builds the error returned for an operation attempted in the
// wrong state. cause is the Init error when the pipeline failed, or nil.
func StateError(op string, s State, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s in state %s: %w", ErrInvalidState, op, s, cause)
	}
	return fmt.Errorf("%w: %s in state %s", ErrInvalidState, op, s)
}
