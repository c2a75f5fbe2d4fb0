//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu registers the wgpu HAL line pipeline as the "gpu" backend.
//
// Importing this package makes backend.Default prefer the GPU. If no Vulkan
// adapter can be opened, the factory fails and selection falls back to the
// software backend:
//
//	import (
//	    "github.com/gogpu/trace/backend"
//	    _ "github.com/gogpu/trace/gpu" // enable GPU rendering
//	)
//
// Hosts that already own a device (for example a gogpu window) share it with
// NewFromProvider instead of opening a second one.
package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan HAL backend

	"github.com/gogpu/trace"
	"github.com/gogpu/trace/backend"
	"github.com/gogpu/trace/gpucore"
	gpuimpl "github.com/gogpu/trace/internal/gpu"
)

// ErrNoHAL is returned by NewFromProvider when the provider does not expose
// its HAL device and queue.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL types")

// MemoryStats reports the device memory a Pipeline holds against its budget
// (see gpucore.WithMemoryBudget).
type MemoryStats = gpuimpl.MemoryStats

func init() {
	backend.Register(backend.BackendGPU, func(width, height int, opts ...gpucore.Option) (gpucore.Pipeline, error) {
		p, err := Open(width, height, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Pipeline is a line pipeline on a GPU device. It satisfies gpucore.Pipeline.
// When the pipeline opened its own device, Destroy also closes the device.
type Pipeline struct {
	*gpuimpl.LinePipeline

	adapter string
	once    sync.Once
	release func()
}

var _ gpucore.Pipeline = (*Pipeline)(nil)

// AdapterName returns the name of the adapter, or "" for a borrowed device.
func (p *Pipeline) AdapterName() string { return p.adapter }

// Destroy releases the pipeline and, if owned, the device.
func (p *Pipeline) Destroy() {
	p.LinePipeline.Destroy()
	p.once.Do(func() {
		if p.release != nil {
			p.release()
		}
	})
}

// Open opens a Vulkan device, preferring discrete then integrated GPUs, and
// creates a pipeline on it.
func Open(width, height int, opts ...gpucore.Option) (*Pipeline, error) {
	if err := gpucore.ValidateSize(width, height); err != nil {
		return nil, err
	}

	vk, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := vk.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: no GPU adapters found")
	}
	selected := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	lp, err := gpuimpl.NewLinePipeline(openDev.Device, openDev.Queue, width, height, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	trace.Logger().Info("gpu: adapter opened", "adapter", selected.Info.Name)
	return &Pipeline{
		LinePipeline: lp,
		adapter:      selected.Info.Name,
		release: func() {
			openDev.Device.Destroy()
			instance.Destroy()
		},
	}, nil
}

// selectAdapter prefers a discrete or integrated GPU over other adapter
// types such as CPU emulation.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// NewFromProvider creates a pipeline on a device shared by a host
// application. The provider must also expose HalDevice() and HalQueue().
// The device stays owned by the provider.
func NewFromProvider(provider gpucontext.DeviceProvider, width, height int, opts ...gpucore.Option) (*Pipeline, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, fmt.Errorf("gpu: nil provider")
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return NewWithDevice(device, queue, width, height, opts...)
}

// NewWithDevice creates a pipeline on a borrowed device and queue.
func NewWithDevice(device hal.Device, queue hal.Queue, width, height int, opts ...gpucore.Option) (*Pipeline, error) {
	lp, err := gpuimpl.NewLinePipeline(device, queue, width, height, opts...)
	if err != nil {
		return nil, err
	}
	return &Pipeline{LinePipeline: lp}, nil
}
