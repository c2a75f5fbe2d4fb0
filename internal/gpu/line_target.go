// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// targetFormat is the color format of the offscreen render target.
const targetFormat = gputypes.TextureFormatBGRA8Unorm

// copyPitchAlignment is the WebGPU row alignment for texture-to-buffer copies.
const copyPitchAlignment = 256

// lineTarget is the single-sample color texture the line program draws into.
// CopySrc usage enables readback for frame capture.
type lineTarget struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

// ensure creates or recreates the target if the requested dimensions differ
// from the current size. If dimensions match and the texture exists, this is
// a no-op. The old texture and view are released only once the new pair
// exists; on error the target is left as it was.
func (lt *lineTarget) ensure(device hal.Device, w, h uint32) error {
	if lt.width == w && lt.height == h && lt.tex != nil {
		return nil
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "line_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create line target texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "line_target_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("create line target view: %w", err)
	}

	lt.destroy(device)
	lt.tex, lt.view = tex, view
	lt.width, lt.height = w, h
	return nil
}

// alignedRowPitch returns the padded bytes per row used for readback.
func (lt *lineTarget) alignedRowPitch() uint32 {
	bytesPerRow := lt.width * 4
	return (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// destroy releases the texture and view and resets the size.
func (lt *lineTarget) destroy(device hal.Device) {
	if lt.view != nil {
		device.DestroyTextureView(lt.view)
		lt.view = nil
	}
	if lt.tex != nil {
		device.DestroyTexture(lt.tex)
		lt.tex = nil
	}
	lt.width = 0
	lt.height = 0
}
