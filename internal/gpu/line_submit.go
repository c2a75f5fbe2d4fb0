// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// gpuWaitTimeout bounds every fence wait.
const gpuWaitTimeout = 5 * time.Second

// errWaitTimeout reports a fence that did not signal within gpuWaitTimeout.
var errWaitTimeout = fmt.Errorf("gpu: fence not signaled after %v: %w", gpuWaitTimeout, hal.ErrTimeout)

// submitPass encodes one render pass over the line target, submits it and
// waits for completion. record may be nil for a clear-only pass.
func (p *LinePipeline) submitPass(label string, load gputypes.LoadOp, clearValue gputypes.Color, record func(hal.RenderPassEncoder)) error {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       p.target.view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearValue,
		}},
	})
	if record != nil {
		record(rp)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)
	return p.submitAndWait(cmdBuf)
}

func (p *LinePipeline) submitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := p.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer p.device.DestroyFence(fence)

	if err := p.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return waitError(p.device.Wait(fence, 1, gpuWaitTimeout))
}

// waitError maps the result of a fence wait to an error. A wait that ends
// without the fence signaled is a timeout even when the device reports no
// error.
func waitError(signaled bool, err error) error {
	switch {
	case err != nil:
		return fmt.Errorf("wait for GPU: %w", err)
	case !signaled:
		return errWaitTimeout
	}
	return nil
}

// ReadPixels copies the current target contents into an RGBA image.
func (p *LinePipeline) ReadPixels() (*image.RGBA, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady("ReadPixels"); err != nil {
		return nil, err
	}

	w, h := p.target.width, p.target.height
	bytesPerRow := w * 4
	alignedBytesPerRow := p.target.alignedRowPitch()
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	if err := p.mem.check(memStaging, stagingSize); err != nil {
		return nil, err
	}
	stagingBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "line_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	p.mem.set(memStaging, stagingSize)
	defer func() {
		p.device.DestroyBuffer(stagingBuf)
		p.mem.drop(memStaging)
	}()

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "line_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("line_readback"); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// The target leaves its render pass in attachment layout; copies need
	// copy-source layout, and the next pass needs it back.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: p.target.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(p.target.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: p.target.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: p.target.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	if err := p.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := p.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for row := 0; row < int(h); row++ {
		src := readback[row*int(alignedBytesPerRow) : row*int(alignedBytesPerRow)+int(bytesPerRow)]
		dst := img.Pix[row*img.Stride : row*img.Stride+int(bytesPerRow)]
		convertBGRAToRGBA(src, dst)
	}
	return img, nil
}

// convertBGRAToRGBA swizzles BGRA pixels in src into RGBA pixels in dst.
func convertBGRAToRGBA(src, dst []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}
