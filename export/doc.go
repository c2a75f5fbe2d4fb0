// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package export writes a drawing to image and document files.
//
// Raster exports (PNG, JPEG) encode a frame captured from a session.
// PDF export redraws the vertices as vector paths with gofpdf, so the
// output stays sharp at any zoom.
package export
