// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"fmt"

	"github.com/gogpu/trace/gpucore"
)

// RenderStats counts what a Renderer has done.
type RenderStats struct {
	// Frames is the number of frames completed.
	Frames int
	// Draws is the number of line strip draw calls issued.
	Draws int
	// SkippedDraws counts frames with fewer than two vertices.
	SkippedDraws int
	// ColorUpdates counts SetColor calls sent to the pipeline.
	ColorUpdates int
}

// Renderer turns a style and a vertex list into one frame on a pipeline.
//
// A Renderer is not safe for concurrent use; Session serializes access.
type Renderer struct {
	pipeline   gpucore.Pipeline
	background RGBA

	lastColor RGBA
	colorSet  bool

	verts []float32
	stats RenderStats
}

// NewRenderer creates a renderer drawing on p. The pipeline must be ready
// before the first Frame.
func NewRenderer(p gpucore.Pipeline, background RGBA) *Renderer {
	return &Renderer{pipeline: p, background: background}
}

// Pipeline returns the pipeline the renderer draws on.
func (r *Renderer) Pipeline() gpucore.Pipeline { return r.pipeline }

// Stats returns the counters accumulated so far.
func (r *Renderer) Stats() RenderStats { return r.stats }

// Invalidate forgets the last applied color so the next frame sets it again.
func (r *Renderer) Invalidate() { r.colorSet = false }

// Frame draws vertices as one line strip:
//
//  1. clear to the background color
//  2. set the point size to style.Width
//  3. set the color, only when it changed since the last frame
//  4. upload the vertices
//  5. draw, only when there are at least two vertices
func (r *Renderer) Frame(style StrokeStyle, vertices []Point) error {
	bg := r.background
	if err := r.pipeline.Clear([4]float32{float32(bg.R), float32(bg.G), float32(bg.B), float32(bg.A)}); err != nil {
		return fmt.Errorf("trace: clear: %w", err)
	}
	if err := r.pipeline.SetPointSize(float32(style.Width)); err != nil {
		return fmt.Errorf("trace: set point size: %w", err)
	}
	if !r.colorSet || r.lastColor != style.Color {
		if err := r.pipeline.SetColor(style.Color.Float32()); err != nil {
			return fmt.Errorf("trace: set color: %w", err)
		}
		r.lastColor = style.Color
		r.colorSet = true
		r.stats.ColorUpdates++
	}

	r.verts = flatten(r.verts[:0], vertices)
	if err := r.pipeline.UploadVertices(r.verts); err != nil {
		return fmt.Errorf("trace: upload vertices: %w", err)
	}

	if len(vertices) >= 2 {
		if err := r.pipeline.DrawLineStrip(len(vertices)); err != nil {
			return fmt.Errorf("trace: draw: %w", err)
		}
		r.stats.Draws++
	} else {
		r.stats.SkippedDraws++
	}
	r.stats.Frames++
	Logger().Debug("trace: frame", "vertices", len(vertices), "width", style.Width)
	return nil
}
