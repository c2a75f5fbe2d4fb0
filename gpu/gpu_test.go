//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/trace"
	"github.com/gogpu/trace/backend"
	"github.com/gogpu/trace/gpucore"
)

func openNoop(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

type halMockProvider struct {
	mockProvider
	device hal.Device
	queue  hal.Queue
}

func (m *halMockProvider) HalDevice() any { return m.device }
func (m *halMockProvider) HalQueue() any  { return m.queue }

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendGPU) {
		t.Error("importing gpu should register the gpu backend")
	}
}

func TestNewFromProvider(t *testing.T) {
	device, queue := openNoop(t)
	provider := &halMockProvider{device: device, queue: queue}

	p, err := NewFromProvider(provider, 320, 240)
	if err != nil {
		t.Fatalf("NewFromProvider: %v", err)
	}
	defer p.Destroy()

	if p.AdapterName() != "" {
		t.Errorf("borrowed device should have no adapter name, got %q", p.AdapterName())
	}
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if p.State() != gpucore.StateReady {
		t.Errorf("State = %v, want ready", p.State())
	}
}

func TestNewFromProviderWithoutHAL(t *testing.T) {
	if _, err := NewFromProvider(&mockProvider{}, 10, 10); !errors.Is(err, ErrNoHAL) {
		t.Errorf("err = %v, want ErrNoHAL", err)
	}
	bad := &halMockProvider{}
	if _, err := NewFromProvider(bad, 10, 10); !errors.Is(err, ErrNoHAL) {
		t.Errorf("nil HAL device: err = %v, want ErrNoHAL", err)
	}
}

func TestSessionOnSharedDevice(t *testing.T) {
	device, queue := openNoop(t)
	p, err := NewWithDevice(device, queue, 800, 600)
	if err != nil {
		t.Fatalf("NewWithDevice: %v", err)
	}

	s, err := trace.NewSession(p, trace.WithSmoothing(true))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	for _, pt := range []trace.Point{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}} {
		if err := s.AddPoint(pt); err != nil {
			t.Fatalf("AddPoint: %v", err)
		}
	}
	// The first point alone is not drawn.
	if got := s.Stats().Draws; got != 3 {
		t.Errorf("Draws = %d, want 3", got)
	}
	img, err := s.CaptureFrame()
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("bounds = %v", b)
	}
}

func TestDestroyReleasesOnce(t *testing.T) {
	device, queue := openNoop(t)
	p, err := NewWithDevice(device, queue, 16, 16)
	if err != nil {
		t.Fatalf("NewWithDevice: %v", err)
	}
	var released int
	p.release = func() { released++ }

	p.Destroy()
	p.Destroy()
	if released != 1 {
		t.Errorf("release called %d times, want 1", released)
	}
}
