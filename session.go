// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/trace/gpucore"
)

// ErrClosed is returned by Session methods after Close.
var ErrClosed = errors.New("trace: session closed")

// Session is one drawing surface: the polyline, its style, the smoothing
// mode and the renderer that draws them.
//
// Every mutator updates state and then renders one frame, so after any
// successful call the pipeline shows the current state. Methods are safe
// for concurrent use; a worker calling CaptureFrame is serialized with
// the UI calls.
type Session struct {
	mu sync.Mutex

	line     Polyline
	style    StrokeStyle
	smooth   bool
	renderer *Renderer
	pipeline gpucore.Pipeline
	closed   bool
}

// NewSession initializes p if needed and renders the first, empty frame.
//
// Shader diagnostics from initialization are returned as
// *gpucore.ShaderCompileError or *gpucore.ProgramLinkError; the pipeline is
// left failed and no draw call is issued. On any error the caller still
// owns p.
func NewSession(p gpucore.Pipeline, opts ...SessionOption) (*Session, error) {
	if p == nil {
		return nil, errors.New("trace: nil pipeline")
	}
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}

	propagateLogger(p)

	if p.State() == gpucore.StateUninitialized {
		if err := p.Init(); err != nil {
			Logger().Warn("trace: pipeline init failed", "pipeline", p.Name(), "err", err)
			return nil, err
		}
	}
	if st := p.State(); st != gpucore.StateReady {
		return nil, gpucore.StateError("NewSession", st, nil)
	}
	if o.width > 0 || o.height > 0 {
		if w, h := p.Size(); w != o.width || h != o.height {
			if err := p.Resize(o.width, o.height); err != nil {
				return nil, fmt.Errorf("trace: resize surface: %w", err)
			}
		}
	}

	s := &Session{
		style:    o.style,
		smooth:   o.smooth,
		renderer: NewRenderer(p, o.background),
		pipeline: p,
	}
	if err := s.render(); err != nil {
		return nil, err
	}
	w, h := p.Size()
	Logger().Info("trace: session ready", "pipeline", p.Name(), "width", w, "height", h)
	return s, nil
}

// OnClick appends the point under the pointer and re-renders.
func (s *Session) OnClick(px, py float64, r Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.line.Append(MapPointer(px, py, r))
	return s.render()
}

// AddPoint appends a point already in normalized device space and re-renders.
func (s *Session) AddPoint(p Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.line.Append(p)
	return s.render()
}

// OnUndo removes the last point and re-renders. It reports whether a point
// was removed; undo on an empty polyline does nothing.
func (s *Session) OnUndo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	if !s.line.UndoLast() {
		return false, nil
	}
	return true, s.render()
}

// OnColorChange sets the stroke color and re-renders.
func (s *Session) OnColorChange(c RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.style.Color = c
	return s.render()
}

// OnColorHex parses a hex color such as "#00ff00" and applies it.
// A malformed string leaves the color unchanged.
func (s *Session) OnColorHex(hex string) error {
	c, err := ParseHex(hex)
	if err != nil {
		return err
	}
	return s.OnColorChange(c)
}

// OnWidthChange sets the stroke width and re-renders. Widths outside
// [MinWidth, MaxWidth] are clamped: 15 becomes 10 and 0 becomes 1.
func (s *Session) OnWidthChange(w float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	clamped := ClampWidth(w)
	if clamped != w {
		Logger().Warn("trace: width clamped", "requested", w, "width", clamped)
	}
	s.style.Width = clamped
	return s.render()
}

// OnSmoothToggle flips the smoothing mode and re-renders.
func (s *Session) OnSmoothToggle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.smooth = !s.smooth
	return s.render()
}

// SetSmoothing sets the smoothing mode and re-renders.
func (s *Session) SetSmoothing(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.smooth = on
	return s.render()
}

// Clear removes every point and re-renders.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.line.Clear()
	return s.render()
}

// ExportPoints returns a copy of the placed points, without smoothing.
func (s *Session) ExportPoints() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line.Snapshot()
}

// ImportPoints replaces the polyline with points and re-renders.
func (s *Session) ImportPoints(points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.line.ReplaceAll(points)
	return s.render()
}

// Load replaces style, smoothing mode and points together and renders once.
// The width is clamped like OnWidthChange.
func (s *Session) Load(style StrokeStyle, smooth bool, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if w := ClampWidth(style.Width); w != style.Width {
		Logger().Warn("trace: width clamped", "requested", style.Width, "width", w)
		style.Width = w
	}
	s.style = style
	s.smooth = smooth
	s.line.ReplaceAll(points)
	return s.render()
}

// Vertices returns what the next frame draws: the points after smoothing.
func (s *Session) Vertices() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Interpolate(s.line.Snapshot(), s.smooth)
}

// Style returns the current stroke style.
func (s *Session) Style() StrokeStyle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// Smoothing reports whether smoothing is on.
func (s *Session) Smoothing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.smooth
}

// Len returns the number of placed points.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line.Len()
}

// Stats returns the renderer counters.
func (s *Session) Stats() RenderStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Stats()
}

// Size returns the surface size in pixels.
func (s *Session) Size() (int, int) {
	return s.pipeline.Size()
}

// Render draws the current state.
func (s *Session) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.render()
}

func (s *Session) render() error {
	return s.renderer.Frame(s.style, Interpolate(s.line.Snapshot(), s.smooth))
}

// CaptureFrame re-renders the current state and reads the surface back.
func (s *Session) CaptureFrame() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.render(); err != nil {
		return nil, err
	}
	img, err := s.pipeline.ReadPixels()
	if err != nil {
		return nil, fmt.Errorf("trace: capture frame: %w", err)
	}
	return img, nil
}

// Resize rebuilds the surface at width x height and re-renders. Points are
// in normalized space, so the drawing scales with the surface.
func (s *Session) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.pipeline.Resize(width, height); err != nil {
		return fmt.Errorf("trace: resize: %w", err)
	}
	s.renderer.Invalidate()
	return s.render()
}

// Close destroys the pipeline. Later calls return ErrClosed.
// Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.pipeline.Destroy()
	Logger().Info("trace: session closed")
	return nil
}
