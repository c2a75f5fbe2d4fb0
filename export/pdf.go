// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/trace"
)

// PDFOptions controls the PDF page.
type PDFOptions struct {
	// Width and Height are the page size in points. One point per surface
	// pixel keeps strokes the same width as on screen. Default 800 x 600.
	Width, Height float64
	// Background fills the page. Default white.
	Background *trace.RGBA
	// Title is stored in the document metadata.
	Title string
}

func (o PDFOptions) withDefaults() PDFOptions {
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = 800, 600
	}
	if o.Background == nil {
		bg := trace.White
		o.Background = &bg
	}
	return o
}

// NewPDF builds a one-page PDF drawing vertices as a single open path.
// Vertices are in normalized device space and are mapped onto the page the
// same way the surface maps them onto pixels.
func NewPDF(vertices []trace.Point, style trace.StrokeStyle, opts PDFOptions) *gofpdf.Fpdf {
	opts = opts.withDefaults()

	// Landscape would swap the custom size.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: opts.Width, Ht: opts.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	pdf.SetCreator("trace", true)
	pdf.AddPage()

	r, g, b := rgb255(*opts.Background)
	pdf.SetFillColor(r, g, b)
	pdf.Rect(0, 0, opts.Width, opts.Height, "F")

	if len(vertices) < 2 {
		return pdf
	}

	r, g, b = rgb255(style.Color)
	pdf.SetDrawColor(r, g, b)
	pdf.SetAlpha(style.Color.A, "Normal")
	pdf.SetLineWidth(style.Width)
	pdf.SetLineCapStyle("square")
	pdf.SetLineJoinStyle("miter")

	page := trace.Rect{Width: opts.Width, Height: opts.Height}
	x, y := trace.UnmapPoint(vertices[0], page)
	pdf.MoveTo(x, y)
	for _, v := range vertices[1:] {
		x, y = trace.UnmapPoint(v, page)
		pdf.LineTo(x, y)
	}
	pdf.DrawPath("D")
	return pdf
}

// WritePDF writes the vertices as a vector PDF.
func WritePDF(w io.Writer, vertices []trace.Point, style trace.StrokeStyle, opts PDFOptions) error {
	pdf := NewPDF(vertices, style, opts)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

// SavePDF writes the vertices as a vector PDF file.
func SavePDF(path string, vertices []trace.Point, style trace.StrokeStyle, opts PDFOptions) error {
	pdf := NewPDF(vertices, style, opts)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export: save pdf: %w", err)
	}
	return nil
}

// SessionPDF writes what s currently shows: its smoothed vertices and style
// on a page the size of its surface.
func SessionPDF(w io.Writer, s *trace.Session, title string) error {
	width, height := s.Size()
	return WritePDF(w, s.Vertices(), s.Style(), PDFOptions{
		Width:  float64(width),
		Height: float64(height),
		Title:  title,
	})
}

func rgb255(c trace.RGBA) (r, g, b int) {
	n := c.Color().(color.NRGBA)
	return int(n.R), int(n.G), int(n.B)
}
