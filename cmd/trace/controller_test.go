// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/trace"
	"github.com/gogpu/trace/backend"
	"github.com/gogpu/trace/linefile"
)

func newTestController(t *testing.T) *controller {
	t.Helper()
	p, err := backend.Get(backend.BackendSoftware, 200, 100)
	if err != nil {
		t.Fatalf("backend.Get: %v", err)
	}
	s, err := trace.NewSession(p)
	if err != nil {
		p.Destroy()
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Lines = filepath.Join(dir, "lines.json")
	cfg.Image = filepath.Join(dir, "frame.png")
	cfg.PDF = filepath.Join(dir, "drawing.pdf")
	return newController(s, cfg, slog.New(slog.DiscardHandler))
}

func TestControllerDrawing(t *testing.T) {
	c := newTestController(t)

	if err := c.Click(100, 50); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if got := c.session.ExportPoints(); len(got) != 1 || got[0] != trace.Pt(0, 0) {
		t.Errorf("points = %v, want [(0,0)]", got)
	}

	if err := c.StepWidth(20); err != nil {
		t.Fatalf("StepWidth: %v", err)
	}
	if w := c.session.Style().Width; w != trace.MaxWidth {
		t.Errorf("width = %v, want %v", w, trace.MaxWidth)
	}
	if err := c.Preset(2); err != nil {
		t.Fatalf("Preset: %v", err)
	}
	if c.session.Style().Color != presets[2] {
		t.Error("preset color not applied")
	}
	if err := c.Preset(len(presets)); err == nil {
		t.Error("expected error for unknown preset")
	}

	if err := c.ToggleSmooth(); err != nil || !c.session.Smoothing() {
		t.Errorf("ToggleSmooth: %v, smoothing = %v", err, c.session.Smoothing())
	}
	if err := c.Undo(); err != nil || c.session.Len() != 0 {
		t.Errorf("Undo: %v, len = %d", err, c.session.Len())
	}
	if err := c.Undo(); err != nil {
		t.Errorf("Undo on empty: %v", err)
	}
}

func TestControllerFrameCaching(t *testing.T) {
	c := newTestController(t)

	first, changed, err := c.Frame()
	if err != nil || !changed {
		t.Fatalf("first Frame: changed = %v, err = %v", changed, err)
	}
	again, changed, _ := c.Frame()
	if changed || again != first {
		t.Error("Frame without changes should return the cached image")
	}

	_ = c.Click(0, 0)
	_, changed, _ = c.Frame()
	if !changed {
		t.Error("Frame after a click should capture again")
	}

	if err := c.Resize(300, 150); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	img, changed, _ := c.Frame()
	if !changed || img.Bounds().Dx() != 300 {
		t.Errorf("Frame after resize: changed = %v, bounds = %v", changed, img.Bounds())
	}
}

func TestControllerSaveLoad(t *testing.T) {
	c := newTestController(t)

	_ = c.Click(0, 0)
	_ = c.Click(200, 100)
	_ = c.Preset(1)
	if err := c.SaveLines(); err != nil {
		t.Fatalf("SaveLines: %v", err)
	}
	_ = c.Clear()

	if err := c.LoadLines(); err != nil {
		t.Fatalf("LoadLines: %v", err)
	}
	want := []trace.Point{{-1, 1}, {1, -1}}
	got := c.session.ExportPoints()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("points = %v, want %v", got, want)
	}
	if c.session.Style().Color.HexString() != presets[1].HexString() {
		t.Errorf("color = %s, want %s", c.session.Style().Color.HexString(), presets[1].HexString())
	}
}

func TestControllerExports(t *testing.T) {
	c := newTestController(t)
	_ = c.Click(10, 10)
	_ = c.Click(190, 90)

	if err := c.ExportImage(); err != nil {
		t.Fatalf("ExportImage: %v", err)
	}
	if err := c.ExportPDF(); err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	for _, path := range []string{c.cfg.Image, c.cfg.PDF} {
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s: %v", path, err)
		}
	}
}

func TestWatchLines(t *testing.T) {
	c := newTestController(t)
	w, err := watchLines(c.cfg.Lines, c.log)
	if err != nil {
		t.Fatalf("watchLines: %v", err)
	}
	defer w.Close()

	doc := linefile.New([]trace.Point{{0, 0}, {0.5, 0.5}}, trace.DefaultStyle(), false)
	if err := linefile.Save(c.cfg.Lines, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case got := <-w.Docs():
		if got.ID != doc.ID {
			t.Errorf("reloaded ID = %v, want %v", got.ID, doc.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after the file was written")
	}
}
