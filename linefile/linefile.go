// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package linefile saves and loads drawn lines as JSON.
//
// A document records the placed points (never the smoothed vertices), the
// stroke style and the smoothing mode:
//
//	{
//	  "id": "6f1c...",
//	  "version": 1,
//	  "created": "2026-10-16T09:30:00Z",
//	  "color": "#ff0000",
//	  "width": 2,
//	  "smooth": false,
//	  "points": [[-0.5, -0.5], [0.5, -0.5]]
//	}
//
// Decode also accepts a bare array of [x, y] pairs, which loads with the
// default style.
package linefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/trace"
)

// Version is the document version written by this package.
const Version = 1

// Errors returned when decoding.
var (
	ErrUnsupportedVersion = errors.New("linefile: unsupported version")
	ErrInvalidPoint       = errors.New("linefile: invalid point")
	ErrInvalidStyle       = errors.New("linefile: invalid style")
)

// Document is one saved drawing.
type Document struct {
	ID      uuid.UUID    `json:"id"`
	Version int          `json:"version"`
	Created time.Time    `json:"created"`
	Color   string       `json:"color"`
	Width   float64      `json:"width"`
	Smooth  bool         `json:"smooth"`
	Points  [][2]float64 `json:"points"`
}

// New creates a document with a fresh ID.
func New(points []trace.Point, style trace.StrokeStyle, smooth bool) *Document {
	pairs := make([][2]float64, len(points))
	for i, p := range points {
		pairs[i] = [2]float64{p.X, p.Y}
	}
	return &Document{
		ID:      uuid.New(),
		Version: Version,
		Created: time.Now().UTC().Truncate(time.Second),
		Color:   style.Color.HexString(),
		Width:   style.Width,
		Smooth:  smooth,
		Points:  pairs,
	}
}

// FromSession captures the current state of s.
func FromSession(s *trace.Session) *Document {
	return New(s.ExportPoints(), s.Style(), s.Smoothing())
}

// TracePoints returns the points as trace.Point values.
func (d *Document) TracePoints() []trace.Point {
	pts := make([]trace.Point, len(d.Points))
	for i, p := range d.Points {
		pts[i] = trace.Pt(p[0], p[1])
	}
	return pts
}

// Style returns the stroke style, with the width clamped.
func (d *Document) Style() (trace.StrokeStyle, error) {
	c, err := trace.ParseHex(d.Color)
	if err != nil {
		return trace.StrokeStyle{}, fmt.Errorf("%w: %w", ErrInvalidStyle, err)
	}
	return trace.StrokeStyle{Color: c, Width: trace.ClampWidth(d.Width)}, nil
}

// Validate checks the version, the style and that every coordinate is finite.
func (d *Document) Validate() error {
	if d.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if _, err := d.Style(); err != nil {
		return err
	}
	for i, p := range d.Points {
		if !finite(p[0]) || !finite(p[1]) {
			return fmt.Errorf("%w: points[%d] = (%v, %v)", ErrInvalidPoint, i, p[0], p[1])
		}
	}
	return nil
}

// Apply loads the document into s as one change with a single render. An
// invalid style leaves s untouched.
func (d *Document) Apply(s *trace.Session) error {
	style, err := d.Style()
	if err != nil {
		return err
	}
	return s.Load(style, d.Smooth, d.TracePoints())
}

// Encode validates d and writes it as indented JSON.
func Encode(w io.Writer, d *Document) error {
	if err := d.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("linefile: encode: %w", err)
	}
	return nil
}

// Decode reads and validates a document.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("linefile: read: %w", err)
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var pairs [][2]float64
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return nil, fmt.Errorf("linefile: decode points: %w", err)
		}
		d := New(nil, trace.DefaultStyle(), false)
		d.Points = pairs
		if err := d.Validate(); err != nil {
			return nil, err
		}
		return d, nil
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("linefile: decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return &d, nil
}

// Save writes d to path. The file is replaced atomically.
func Save(path string, d *Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".linefile-*")
	if err != nil {
		return fmt.Errorf("linefile: save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, d); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("linefile: save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("linefile: save: %w", err)
	}
	return nil
}

// Load reads the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("linefile: load: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
