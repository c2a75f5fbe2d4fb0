// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/wgpu/hal"
)

// textureFailDevice refuses CreateTexture while fail is set.
type textureFailDevice struct {
	hal.Device
	fail bool
}

var errNoTexture = errors.New("texture allocation refused")

func (d *textureFailDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.fail {
		return nil, errNoTexture
	}
	return d.Device.CreateTexture(desc)
}

func TestLinePipelineResizeKeepsTargetOnFailure(t *testing.T) {
	device, queue := newNoopDevice(t)
	dev := &textureFailDevice{Device: device}
	p, err := NewLinePipeline(dev, queue, 100, 80)
	if err != nil {
		t.Fatalf("NewLinePipeline: %v", err)
	}
	defer p.Destroy()
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	before := p.MemoryStats()

	dev.fail = true
	if err := p.Resize(300, 200); !errors.Is(err, errNoTexture) {
		t.Fatalf("Resize: err = %v, want the allocation error", err)
	}
	if w, h := p.Size(); w != 100 || h != 80 {
		t.Errorf("Size after failed resize = %dx%d, want 100x80", w, h)
	}
	if p.target.tex == nil || p.target.view == nil {
		t.Fatal("failed resize released the previous target")
	}
	if p.target.width != 100 || p.target.height != 80 {
		t.Errorf("target = %dx%d, want 100x80", p.target.width, p.target.height)
	}
	if got := p.MemoryStats(); got.UsedBytes != before.UsedBytes || got.Resources[memTarget] != 100*80*4 {
		t.Errorf("target charge changed: %v, want %v", got.Resources, before.Resources)
	}
	if err := p.Clear([4]float32{1, 1, 1, 1}); err != nil {
		t.Errorf("Clear after failed resize: %v", err)
	}
	if err := p.DrawLineStrip(0); err != nil {
		t.Errorf("DrawLineStrip after failed resize: %v", err)
	}

	dev.fail = false
	if err := p.Resize(300, 200); err != nil {
		t.Fatalf("Resize after recovery: %v", err)
	}
	if w, h := p.Size(); w != 300 || h != 200 {
		t.Errorf("Size = %dx%d, want 300x200", w, h)
	}
}

func TestWaitError(t *testing.T) {
	if err := waitError(true, nil); err != nil {
		t.Errorf("signaled fence: %v", err)
	}

	err := waitError(false, nil)
	if !errors.Is(err, hal.ErrTimeout) {
		t.Fatalf("unsignaled fence: err = %v, want hal.ErrTimeout", err)
	}
	if strings.Contains(err.Error(), "%!") {
		t.Errorf("malformed message %q", err)
	}

	err = waitError(false, hal.ErrDeviceLost)
	if !errors.Is(err, hal.ErrDeviceLost) {
		t.Errorf("device error lost: %v", err)
	}
}
