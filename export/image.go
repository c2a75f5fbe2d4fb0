// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultJPEGQuality is used by SaveImage for .jpg and .jpeg paths.
const DefaultJPEGQuality = 90

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}

// WriteJPEG encodes img as JPEG with the given quality (1-100).
func WriteJPEG(w io.Writer, img image.Image, quality int) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("export: encode jpeg: %w", err)
	}
	return nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	return saveFile(path, func(w io.Writer) error { return WritePNG(w, img) })
}

// SaveImage writes img to path, choosing the format from the extension.
// .png, .jpg and .jpeg are supported.
func SaveImage(path string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return SavePNG(path, img)
	case ".jpg", ".jpeg":
		return saveFile(path, func(w io.Writer) error { return WriteJPEG(w, img, DefaultJPEGQuality) })
	default:
		return fmt.Errorf("export: unsupported image format %q", filepath.Ext(path))
	}
}

// saveFile creates path and runs write on it, closing the file either way.
func saveFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: %w", cerr)
		}
	}()
	return write(f)
}
