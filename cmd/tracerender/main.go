// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command tracerender renders a saved line file without a window.
//
//	tracerender -in drawing.json -png drawing.png -pdf drawing.pdf
//
// Without -in it renders a demo spiral.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/trace"
	"github.com/gogpu/trace/backend"
	"github.com/gogpu/trace/export"
	_ "github.com/gogpu/trace/gpu" // registers the gpu backend
	"github.com/gogpu/trace/gpucore"
	"github.com/gogpu/trace/linefile"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		input   = flag.String("in", "", "line file to render (default: demo spiral)")
		name    = flag.String("backend", "", "pipeline backend, empty picks the best available")
		output  = flag.String("png", "trace.png", "image output, .png or .jpg")
		pdfOut  = flag.String("pdf", "", "optional PDF output")
		verbose = flag.Bool("v", false, "log pipeline events")
	)
	flag.Parse()

	if *verbose {
		trace.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	doc, err := loadDocument(*input)
	if err != nil {
		log.Fatalf("Failed to load: %v", err)
	}

	p, err := openPipeline(*name, *width, *height)
	if err != nil {
		log.Fatalf("Failed to open pipeline: %v", err)
	}
	s, err := trace.NewSession(p)
	if err != nil {
		p.Destroy()
		log.Fatalf("Failed to start session: %v", err)
	}
	defer s.Close()

	if err := doc.Apply(s); err != nil {
		log.Fatalf("Failed to apply %s: %v", doc.ID, err)
	}

	img, err := s.CaptureFrame()
	if err != nil {
		log.Fatalf("Failed to capture: %v", err)
	}
	if err := export.SaveImage(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Rendered %d points with %s to %s (%dx%d)\n", s.Len(), p.Name(), *output, *width, *height)

	if *pdfOut != "" {
		opts := export.PDFOptions{Width: float64(*width), Height: float64(*height), Title: doc.ID.String()}
		if err := export.SavePDF(*pdfOut, s.Vertices(), s.Style(), opts); err != nil {
			log.Fatalf("Failed to save PDF: %v", err)
		}
		log.Printf("PDF saved to %s\n", *pdfOut)
	}
}

func openPipeline(name string, w, h int) (gpucore.Pipeline, error) {
	if name != "" {
		return backend.Get(name, w, h)
	}
	return backend.Default(w, h)
}

func loadDocument(path string) (*linefile.Document, error) {
	if path != "" {
		return linefile.Load(path)
	}
	return spiral(), nil
}

// spiral builds a smoothed demo drawing: an Archimedean spiral sampled
// coarsely so the curve interpolator has something to do.
func spiral() *linefile.Document {
	const (
		turns   = 3
		samples = 36
	)
	points := make([]trace.Point, 0, samples)
	for i := range samples {
		t := float64(i) / float64(samples-1)
		angle := t * turns * 2 * math.Pi
		r := 0.9 * t
		points = append(points, trace.Pt(r*math.Cos(angle), r*math.Sin(angle)))
	}
	style := trace.StrokeStyle{Color: trace.RGB8(0x00, 0x66, 0xff), Width: 3}
	return linefile.New(points, style, true)
}
