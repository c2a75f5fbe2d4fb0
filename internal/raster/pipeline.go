// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster implements the line program on the CPU.
//
// Pipeline satisfies gpucore.Pipeline without a device. Init still compiles
// and links the WGSL program so a malformed shader fails the same way on
// every backend; drawing then rasterizes the line strip with
// golang.org/x/image/vector into an RGBA image. Each segment is stroked as
// a quad point size pixels thick with square caps, which also closes the
// joins between segments.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/image/vector"

	"github.com/gogpu/trace/gpucore"
)

// BackendName is the identifier reported by Pipeline.Name.
const BackendName = "software"

// Pipeline rasterizes line strips into an in-memory RGBA image.
type Pipeline struct {
	mu sync.Mutex

	opts    gpucore.Options
	state   gpucore.State
	initErr error
	logger  *slog.Logger

	img *image.RGBA
	ras *vector.Rasterizer

	vertices  []float32
	pointSize float32
	color     color.NRGBA
}

var _ gpucore.Pipeline = (*Pipeline)(nil)

// New creates a CPU pipeline for a width x height surface.
func New(width, height int, opts ...gpucore.Option) (*Pipeline, error) {
	if err := gpucore.ValidateSize(width, height); err != nil {
		return nil, err
	}
	return &Pipeline{
		opts:      gpucore.ApplyOptions(opts...),
		img:       image.NewRGBA(image.Rect(0, 0, width, height)),
		ras:       vector.NewRasterizer(width, height),
		pointSize: 1,
		color:     color.NRGBA{A: 0xff},
	}, nil
}

// Name returns the backend identifier.
func (p *Pipeline) Name() string { return BackendName }

// SetLogger sets the logger for pipeline events. nil silences it.
func (p *Pipeline) SetLogger(l *slog.Logger) {
	p.mu.Lock()
	p.logger = l
	p.mu.Unlock()
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// State reports the lifecycle state.
func (p *Pipeline) State() gpucore.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Size returns the surface size in pixels.
func (p *Pipeline) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.img.Bounds()
	return b.Dx(), b.Dy()
}

// Init compiles and links the configured program.
func (p *Pipeline) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != gpucore.StateUninitialized {
		return gpucore.StateError("Init", p.state, p.initErr)
	}
	if _, err := gpucore.CompileProgram(p.opts.VertexSource, p.opts.FragmentSource); err != nil {
		p.state = gpucore.StateFailed
		p.initErr = err
		p.log().Warn("raster: line program failed", "err", err)
		return err
	}
	p.state = gpucore.StateReady
	return nil
}

func (p *Pipeline) checkReady(op string) error {
	if p.state != gpucore.StateReady {
		return gpucore.StateError(op, p.state, p.initErr)
	}
	return nil
}

// Resize reallocates the image. Contents are discarded.
func (p *Pipeline) Resize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("Resize"); err != nil {
		return err
	}
	if err := gpucore.ValidateSize(width, height); err != nil {
		return err
	}
	p.img = image.NewRGBA(image.Rect(0, 0, width, height))
	p.ras.Reset(width, height)
	return nil
}

// Clear fills the image with c.
func (p *Pipeline) Clear(c [4]float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("Clear"); err != nil {
		return err
	}
	fill := toNRGBA(c[0], c[1], c[2], c[3])
	draw.Draw(p.img, p.img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	return nil
}

// UploadVertices replaces the vertex data.
func (p *Pipeline) UploadVertices(vertices []float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("UploadVertices"); err != nil {
		return err
	}
	if len(vertices)%2 != 0 {
		return fmt.Errorf("%w: got %d floats", gpucore.ErrVertexData, len(vertices))
	}
	p.vertices = append(p.vertices[:0], vertices...)
	return nil
}

// SetPointSize sets the stroke thickness in pixels.
func (p *Pipeline) SetPointSize(size float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("SetPointSize"); err != nil {
		return err
	}
	p.pointSize = size
	return nil
}

// SetColor sets the stroke color.
func (p *Pipeline) SetColor(r, g, b, a float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("SetColor"); err != nil {
		return err
	}
	p.color = toNRGBA(r, g, b, a)
	return nil
}

// DrawLineStrip strokes the first count uploaded vertices.
func (p *Pipeline) DrawLineStrip(count int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("DrawLineStrip"); err != nil {
		return err
	}
	if n := len(p.vertices) / 2; count < 0 || count > n {
		return fmt.Errorf("%w: draw %d, uploaded %d", gpucore.ErrVertexCount, count, n)
	}
	if count < 2 {
		return nil
	}

	b := p.img.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	half := p.pointSize / 2
	if half < 0.5 {
		half = 0.5
	}

	p.ras.Reset(b.Dx(), b.Dy())
	p.ras.DrawOp = draw.Over
	x0, y0 := toPixel(p.vertices[0], p.vertices[1], w, h)
	for i := 1; i < count; i++ {
		x1, y1 := toPixel(p.vertices[2*i], p.vertices[2*i+1], w, h)
		strokeSegment(p.ras, x0, y0, x1, y1, half)
		x0, y0 = x1, y1
	}
	p.ras.Draw(p.img, b, image.NewUniform(p.color), image.Point{})
	return nil
}

// ReadPixels returns a copy of the image.
func (p *Pipeline) ReadPixels() (*image.RGBA, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("ReadPixels"); err != nil {
		return nil, err
	}
	out := image.NewRGBA(p.img.Bounds())
	copy(out.Pix, p.img.Pix)
	return out, nil
}

// Destroy releases the image. Safe to call multiple times.
func (p *Pipeline) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = gpucore.StateDestroyed
	p.vertices = nil
}

// toPixel maps clip-space coordinates to pixel coordinates with y down.
func toPixel(x, y, w, h float32) (float32, float32) {
	return (x + 1) / 2 * w, (1 - y) / 2 * h
}

// strokeSegment adds a quad of half-thickness half around the segment,
// extended by half at both ends. Every quad winds the same way, so
// overlapping segments accumulate instead of cancelling.
func strokeSegment(ras *vector.Rasterizer, x0, y0, x1, y1, half float32) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		// Degenerate segment: a square dot.
		dx, dy, length = 1, 0, 1
	}
	ux, uy := dx/length*half, dy/length*half
	nx, ny := -uy, ux

	ax, ay := x0-ux, y0-uy
	bx, by := x1+ux, y1+uy
	ras.MoveTo(ax+nx, ay+ny)
	ras.LineTo(bx+nx, by+ny)
	ras.LineTo(bx-nx, by-ny)
	ras.LineTo(ax-nx, ay-ny)
	ras.ClosePath()
}

func toNRGBA(r, g, b, a float32) color.NRGBA {
	return color.NRGBA{R: unit8(r), G: unit8(g), B: unit8(b), A: unit8(a)}
}

// unit8 converts a [0,1] channel to 8 bits, clamping out-of-range input.
func unit8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*255 + 0.5)
	}
}
