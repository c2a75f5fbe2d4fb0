// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/trace"
	"github.com/gogpu/trace/export"
	"github.com/gogpu/trace/linefile"
)

// widthStep is how much one [ or ] press changes the line width.
const widthStep = 1

// presets are the colors bound to keys 1 to 6.
var presets = []trace.RGBA{
	trace.Red,
	trace.RGB8(0x00, 0xa0, 0x00),
	trace.RGB8(0x00, 0x66, 0xff),
	trace.Black,
	trace.RGB8(0xff, 0x8c, 0x00),
	trace.RGB8(0x80, 0x00, 0x80),
}

// controller turns window input into session calls. It keeps the last
// captured frame so the window only reads pixels back after a change.
type controller struct {
	session *trace.Session
	cfg     Config
	log     *slog.Logger

	frame *image.RGBA
	dirty bool
}

func newController(s *trace.Session, cfg Config, log *slog.Logger) *controller {
	return &controller{session: s, cfg: cfg, log: log, dirty: true}
}

func (c *controller) surface() trace.Rect {
	w, h := c.session.Size()
	return trace.Rect{Width: float64(w), Height: float64(h)}
}

func (c *controller) changed(err error) error {
	if err == nil {
		c.dirty = true
	}
	return err
}

// Click places a point at pixel (x, y).
func (c *controller) Click(x, y int) error {
	return c.changed(c.session.OnClick(float64(x), float64(y), c.surface()))
}

// Undo removes the last point.
func (c *controller) Undo() error {
	removed, err := c.session.OnUndo()
	if err != nil {
		return err
	}
	if removed {
		c.dirty = true
	}
	return nil
}

// ToggleSmooth flips smoothing.
func (c *controller) ToggleSmooth() error {
	if err := c.changed(c.session.OnSmoothToggle()); err != nil {
		return err
	}
	c.log.Info("smoothing", "on", c.session.Smoothing())
	return nil
}

// StepWidth changes the line width by steps; the session clamps it.
func (c *controller) StepWidth(steps int) error {
	w := c.session.Style().Width + float64(steps)*widthStep
	return c.changed(c.session.OnWidthChange(trace.ClampWidth(w)))
}

// Preset selects color preset i.
func (c *controller) Preset(i int) error {
	if i < 0 || i >= len(presets) {
		return fmt.Errorf("no color preset %d", i+1)
	}
	return c.changed(c.session.OnColorChange(presets[i]))
}

// Clear removes every point.
func (c *controller) Clear() error {
	return c.changed(c.session.Clear())
}

// SaveLines writes the drawing to the configured line file.
func (c *controller) SaveLines() error {
	if err := linefile.Save(c.cfg.Lines, linefile.FromSession(c.session)); err != nil {
		return err
	}
	c.log.Info("lines saved", "path", c.cfg.Lines, "points", c.session.Len())
	return nil
}

// LoadLines replaces the drawing with the configured line file.
func (c *controller) LoadLines() error {
	doc, err := linefile.Load(c.cfg.Lines)
	if err != nil {
		return err
	}
	return c.Apply(doc)
}

// Apply loads doc into the session.
func (c *controller) Apply(doc *linefile.Document) error {
	if err := c.changed(doc.Apply(c.session)); err != nil {
		return err
	}
	c.log.Info("lines loaded", "id", doc.ID, "points", len(doc.Points))
	return nil
}

// ExportImage writes the current frame as PNG or JPEG by extension.
func (c *controller) ExportImage() error {
	img, err := c.session.CaptureFrame()
	if err != nil {
		return err
	}
	if err := export.SaveImage(c.cfg.Image, img); err != nil {
		return err
	}
	c.log.Info("image exported", "path", c.cfg.Image)
	return nil
}

// ExportPDF writes the drawing as a vector PDF.
func (c *controller) ExportPDF() error {
	w, h := c.session.Size()
	opts := export.PDFOptions{Width: float64(w), Height: float64(h), Title: "trace"}
	if err := export.SavePDF(c.cfg.PDF, c.session.Vertices(), c.session.Style(), opts); err != nil {
		return err
	}
	c.log.Info("pdf exported", "path", c.cfg.PDF)
	return nil
}

// Frame returns the current picture, reading it back only when something
// changed since the last call.
func (c *controller) Frame() (*image.RGBA, bool, error) {
	if !c.dirty && c.frame != nil {
		return c.frame, false, nil
	}
	img, err := c.session.CaptureFrame()
	if err != nil {
		return nil, false, err
	}
	c.frame, c.dirty = img, false
	return img, true, nil
}

// Resize rebuilds the surface for a new window size.
func (c *controller) Resize(w, h int) error {
	if cw, ch := c.session.Size(); cw == w && ch == h {
		return nil
	}
	return c.changed(c.session.Resize(w, h))
}
