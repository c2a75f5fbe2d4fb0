// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/trace/gpucore"
	"github.com/gogpu/wgpu/hal"
)

// BackendName is the identifier reported by LinePipeline.Name.
const BackendName = "gpu"

// initialVertexCapacity is the number of vertices the empty vertex buffer
// can hold before its first growth. WebGPU forbids zero-sized buffers.
const initialVertexCapacity = 256

// LinePipeline draws a single line strip through a wgpu HAL render pipeline.
//
// It owns the program objects (shader modules, layouts, render pipeline),
// a uniform buffer holding color and point size, one growable vertex buffer
// and an offscreen color target. The device and queue are borrowed: Destroy
// releases what the pipeline created and leaves the device alone.
//
// All methods lock the pipeline, so Resize rebuilds the target without any
// draw observing a partially built state.
type LinePipeline struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	opts   gpucore.Options

	state   gpucore.State
	initErr error

	// Program objects, created once by Init.
	program       *gpucore.Program
	vsModule      hal.ShaderModule
	fsModule      hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
	uniforms   [gpucore.UniformBlockSize]byte

	vertBuf   hal.Buffer
	vertCap   uint64 // bytes
	vertCount int
	staging   []byte

	target        lineTarget
	width, height uint32

	mem *memoryBudget
}

// Names under which allocations are charged to the memory budget.
const (
	memUniforms = "uniforms"
	memVertices = "vertices"
	memTarget   = "target"
	memStaging  = "staging"
)

var _ gpucore.Pipeline = (*LinePipeline)(nil)

// NewLinePipeline creates a pipeline for a width x height surface on the
// given device. No GPU object is created until Init.
func NewLinePipeline(device hal.Device, queue hal.Queue, width, height int, opts ...gpucore.Option) (*LinePipeline, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("gpu: device and queue are required")
	}
	if err := gpucore.ValidateSize(width, height); err != nil {
		return nil, err
	}
	o := gpucore.ApplyOptions(opts...)
	return &LinePipeline{
		device: device,
		queue:  queue,
		opts:   o,
		width:  uint32(width),  //nolint:gosec // validated positive
		height: uint32(height), //nolint:gosec // validated positive
		mem:    newMemoryBudget(o.MemoryBudget),
	}, nil
}

// Name returns the backend identifier.
func (p *LinePipeline) Name() string { return BackendName }

// SetLogger routes the package log output to l.
func (p *LinePipeline) SetLogger(l *slog.Logger) { setLogger(l) }

// State reports the lifecycle state.
func (p *LinePipeline) State() gpucore.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Size returns the surface size in pixels.
func (p *LinePipeline) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.width), int(p.height)
}

// Init compiles and links the line program and allocates the uniform
// buffer, the empty vertex buffer and the render target.
func (p *LinePipeline) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != gpucore.StateUninitialized {
		return gpucore.StateError("Init", p.state, p.initErr)
	}

	if err := p.init(); err != nil {
		p.destroyResources()
		p.state = gpucore.StateFailed
		p.initErr = err
		slogger().Warn("gpu: line pipeline init failed", "err", err)
		return err
	}

	p.state = gpucore.StateReady
	slogger().Info("gpu: line pipeline ready",
		"width", p.width, "height", p.height,
		"position_location", p.program.PositionLocation)
	return nil
}

func (p *LinePipeline) init() error {
	prog, err := gpucore.CompileProgram(p.opts.VertexSource, p.opts.FragmentSource)
	if err != nil {
		return err
	}
	p.program = prog

	if err := p.createProgram(); err != nil {
		return err
	}
	if err := p.createUniforms(); err != nil {
		return err
	}
	if err := p.growVertexBuffer(initialVertexCapacity * gpucore.VertexStride); err != nil {
		return err
	}
	return p.ensureTarget(p.width, p.height)
}

// ensureTarget sizes the render target, charging it to the budget. A failed
// resize keeps the previous target and its charge.
func (p *LinePipeline) ensureTarget(w, h uint32) error {
	bytes := uint64(w) * uint64(h) * 4
	if err := p.mem.check(memTarget, bytes); err != nil {
		return err
	}
	if err := p.target.ensure(p.device, w, h); err != nil {
		return err
	}
	p.mem.set(memTarget, bytes)
	return nil
}

// MemoryStats reports the device memory held by the pipeline.
func (p *LinePipeline) MemoryStats() MemoryStats {
	return p.mem.stats()
}

// createProgram creates the shader modules, the uniform layout and the line
// strip render pipeline.
func (p *LinePipeline) createProgram() error {
	vs, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "line_vertex",
		Source: hal.ShaderSource{SPIRV: p.program.VertexSPIRV},
	})
	if err != nil {
		return &gpucore.ShaderCompileError{Stage: gpucore.StageVertex, Log: err.Error(), Err: err}
	}
	p.vsModule = vs

	fs, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "line_fragment",
		Source: hal.ShaderSource{SPIRV: p.program.FragmentSPIRV},
	})
	if err != nil {
		return &gpucore.ShaderCompileError{Stage: gpucore.StageFragment, Log: err.Error(), Err: err}
	}
	p.fsModule = fs

	if p.program.UniformGroup != 0 {
		return &gpucore.ProgramLinkError{
			Log: fmt.Sprintf("uniform block must be in @group(0), found @group(%d)", p.program.UniformGroup),
		}
	}

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "line_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    p.program.UniformBinding,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return linkError("create uniform layout", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "line_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return linkError("create pipeline layout", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "line_strip_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vsModule,
			EntryPoint: gpucore.VertexEntryPoint,
			Buffers:    lineVertexLayout(p.program.PositionLocation),
		},
		Fragment: &hal.FragmentState{
			Module:     p.fsModule,
			EntryPoint: gpucore.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyLineStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return linkError("create render pipeline", err)
	}
	p.pipeline = pipeline
	return nil
}

func linkError(step string, err error) error {
	return &gpucore.ProgramLinkError{Log: step + ": " + err.Error(), Err: err}
}

// lineVertexLayout returns the vertex buffer layout: one vec2<f32> position.
func lineVertexLayout(location uint32) []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: gpucore.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: location},
			},
		},
	}
}

func (p *LinePipeline) createUniforms() error {
	if err := p.mem.check(memUniforms, gpucore.UniformBlockSize); err != nil {
		return err
	}
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "line_uniforms",
		Size:  gpucore.UniformBlockSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	p.uniformBuf = buf
	p.mem.set(memUniforms, gpucore.UniformBlockSize)

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "line_uniform_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: p.program.UniformBinding, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: gpucore.UniformBlockSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform bind group: %w", err)
	}
	p.bindGroup = bindGroup

	// Opaque black until the first SetColor, point size 1.
	putFloat32s(p.uniforms[gpucore.UniformColorOffset:], 0, 0, 0, 1)
	putFloat32s(p.uniforms[gpucore.UniformPointSizeOffset:], 1)
	p.queue.WriteBuffer(p.uniformBuf, 0, p.uniforms[:])
	return nil
}

// growVertexBuffer replaces the vertex buffer with one of at least size
// bytes. Capacity doubles so repeated appends reallocate rarely.
func (p *LinePipeline) growVertexBuffer(size uint64) error {
	newCap := p.vertCap
	if newCap == 0 {
		newCap = initialVertexCapacity * gpucore.VertexStride
	}
	for newCap < size {
		newCap *= 2
	}
	if err := p.mem.check(memVertices, newCap); err != nil {
		return err
	}

	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "line_vertices",
		Size:  newCap,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	if p.vertBuf != nil {
		p.device.DestroyBuffer(p.vertBuf)
	}
	p.vertBuf = buf
	if p.vertCap != 0 {
		slogger().Debug("gpu: vertex buffer grown", "from", p.vertCap, "to", newCap)
	}
	p.vertCap = newCap
	p.mem.set(memVertices, newCap)
	return nil
}

// UploadVertices replaces the vertex buffer contents.
func (p *LinePipeline) UploadVertices(vertices []float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("UploadVertices"); err != nil {
		return err
	}
	if len(vertices)%2 != 0 {
		return fmt.Errorf("%w: got %d floats", gpucore.ErrVertexData, len(vertices))
	}

	size := uint64(len(vertices)) * 4
	if size > p.vertCap {
		if err := p.growVertexBuffer(size); err != nil {
			return err
		}
	}
	if cap(p.staging) < int(size) {
		p.staging = make([]byte, size)
	}
	p.staging = p.staging[:size]
	putFloat32s(p.staging, vertices...)
	if size > 0 {
		p.queue.WriteBuffer(p.vertBuf, 0, p.staging)
	}
	p.vertCount = len(vertices) / 2
	return nil
}

// SetPointSize writes the point size uniform.
func (p *LinePipeline) SetPointSize(size float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("SetPointSize"); err != nil {
		return err
	}
	region := p.uniforms[gpucore.UniformPointSizeOffset : gpucore.UniformPointSizeOffset+4]
	putFloat32s(region, size)
	p.queue.WriteBuffer(p.uniformBuf, gpucore.UniformPointSizeOffset, region)
	return nil
}

// SetColor writes the color uniform.
func (p *LinePipeline) SetColor(r, g, b, a float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("SetColor"); err != nil {
		return err
	}
	region := p.uniforms[gpucore.UniformColorOffset : gpucore.UniformColorOffset+16]
	putFloat32s(region, r, g, b, a)
	p.queue.WriteBuffer(p.uniformBuf, gpucore.UniformColorOffset, region)
	return nil
}

// Clear fills the target with color.
func (p *LinePipeline) Clear(color [4]float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("Clear"); err != nil {
		return err
	}
	clearColor := gputypes.Color{
		R: float64(color[0]),
		G: float64(color[1]),
		B: float64(color[2]),
		A: float64(color[3]),
	}
	return p.submitPass("line_clear", gputypes.LoadOpClear, clearColor, nil)
}

// DrawLineStrip draws the first count uploaded vertices as a line strip on
// top of the current target contents.
func (p *LinePipeline) DrawLineStrip(count int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("DrawLineStrip"); err != nil {
		return err
	}
	if count < 0 || count > p.vertCount {
		return fmt.Errorf("%w: draw %d, uploaded %d", gpucore.ErrVertexCount, count, p.vertCount)
	}
	if count == 0 {
		return nil
	}
	slogger().Debug("gpu: draw line strip", "vertices", count)
	return p.submitPass("line_draw", gputypes.LoadOpLoad, gputypes.Color{}, func(rp hal.RenderPassEncoder) {
		rp.SetPipeline(p.pipeline)
		rp.SetBindGroup(0, p.bindGroup, nil)
		rp.SetVertexBuffer(0, p.vertBuf, 0)
		rp.Draw(uint32(count), 1, 0, 0) //nolint:gosec // bounded by vertCount
	})
}

// Resize rebuilds the render target at the new size. The program is kept.
func (p *LinePipeline) Resize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("Resize"); err != nil {
		return err
	}
	if err := gpucore.ValidateSize(width, height); err != nil {
		return err
	}
	w, h := uint32(width), uint32(height) //nolint:gosec // validated positive
	if err := p.ensureTarget(w, h); err != nil {
		return fmt.Errorf("resize target: %w", err)
	}
	p.width, p.height = w, h
	return nil
}

// Destroy releases everything the pipeline created. Safe to call multiple times.
func (p *LinePipeline) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == gpucore.StateDestroyed {
		return
	}
	p.destroyResources()
	p.state = gpucore.StateDestroyed
	slogger().Info("gpu: line pipeline destroyed")
}

func (p *LinePipeline) checkReady(op string) error {
	if p.state != gpucore.StateReady {
		return gpucore.StateError(op, p.state, p.initErr)
	}
	return nil
}

// destroyResources releases GPU objects in reverse creation order.
func (p *LinePipeline) destroyResources() {
	if p.device == nil {
		return
	}
	p.mem.reset()
	p.target.destroy(p.device)
	if p.vertBuf != nil {
		p.device.DestroyBuffer(p.vertBuf)
		p.vertBuf = nil
		p.vertCap = 0
		p.vertCount = 0
	}
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.fsModule != nil {
		p.device.DestroyShaderModule(p.fsModule)
		p.fsModule = nil
	}
	if p.vsModule != nil {
		p.device.DestroyShaderModule(p.vsModule)
		p.vsModule = nil
	}
}

// putFloat32s writes vs as little-endian float32 values into dst.
func putFloat32s(dst []byte, vs ...float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
