// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/trace/gpucore"
)

// recordingPipeline is a gpucore.Pipeline that records every call.
type recordingPipeline struct {
	state         gpucore.State
	initErr       error
	width, height int

	calls     []string
	uploaded  []float32
	draws     []int
	colors    [][4]float32
	sizes     []float32
	clears    int
	destroyed int
	logger    *slog.Logger
}

var _ gpucore.Pipeline = (*recordingPipeline)(nil)

func newRecordingPipeline() *recordingPipeline {
	return &recordingPipeline{width: 800, height: 600}
}

func (p *recordingPipeline) Name() string             { return "recording" }
func (p *recordingPipeline) State() gpucore.State     { return p.state }
func (p *recordingPipeline) Size() (int, int)         { return p.width, p.height }
func (p *recordingPipeline) SetLogger(l *slog.Logger) { p.logger = l }

func (p *recordingPipeline) record(format string, a ...any) {
	p.calls = append(p.calls, fmt.Sprintf(format, a...))
}

func (p *recordingPipeline) ready(op string) error {
	if p.state != gpucore.StateReady {
		return gpucore.StateError(op, p.state, p.initErr)
	}
	return nil
}

func (p *recordingPipeline) Init() error {
	p.record("Init")
	if p.initErr != nil {
		p.state = gpucore.StateFailed
		return p.initErr
	}
	p.state = gpucore.StateReady
	return nil
}

func (p *recordingPipeline) Resize(w, h int) error {
	if err := p.ready("Resize"); err != nil {
		return err
	}
	if err := gpucore.ValidateSize(w, h); err != nil {
		return err
	}
	p.record("Resize %dx%d", w, h)
	p.width, p.height = w, h
	return nil
}

func (p *recordingPipeline) Clear(c [4]float32) error {
	if err := p.ready("Clear"); err != nil {
		return err
	}
	p.record("Clear")
	p.clears++
	return nil
}

func (p *recordingPipeline) UploadVertices(v []float32) error {
	if err := p.ready("UploadVertices"); err != nil {
		return err
	}
	p.record("Upload %d", len(v)/2)
	p.uploaded = append([]float32(nil), v...)
	return nil
}

func (p *recordingPipeline) SetPointSize(size float32) error {
	if err := p.ready("SetPointSize"); err != nil {
		return err
	}
	p.record("SetPointSize")
	p.sizes = append(p.sizes, size)
	return nil
}

func (p *recordingPipeline) SetColor(r, g, b, a float32) error {
	if err := p.ready("SetColor"); err != nil {
		return err
	}
	p.record("SetColor")
	p.colors = append(p.colors, [4]float32{r, g, b, a})
	return nil
}

func (p *recordingPipeline) DrawLineStrip(count int) error {
	if err := p.ready("DrawLineStrip"); err != nil {
		return err
	}
	if count > len(p.uploaded)/2 {
		return gpucore.ErrVertexCount
	}
	p.record("Draw %d", count)
	p.draws = append(p.draws, count)
	return nil
}

func (p *recordingPipeline) ReadPixels() (*image.RGBA, error) {
	if err := p.ready("ReadPixels"); err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, p.width, p.height)), nil
}

func (p *recordingPipeline) Destroy() {
	p.destroyed++
	p.state = gpucore.StateDestroyed
}

// lastUploadPoints returns the last uploaded vertices as points.
func (p *recordingPipeline) lastUploadPoints() []Point {
	pts := make([]Point, 0, len(p.uploaded)/2)
	for i := 0; i+1 < len(p.uploaded); i += 2 {
		pts = append(pts, Point{X: float64(p.uploaded[i]), Y: float64(p.uploaded[i+1])})
	}
	return pts
}
