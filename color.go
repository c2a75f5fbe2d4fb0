// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned by ParseHex for malformed color strings.
var ErrInvalidHex = errors.New("trace: invalid hex color")

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Common colors.
var (
	Black = RGBA{0, 0, 0, 1}
	White = RGBA{1, 1, 1, 1}
	Red   = RGBA{1, 0, 0, 1}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// RGB8 creates an opaque color from 8-bit components.
func RGB8(r, g, b uint8) RGBA {
	return RGBA{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// Float32 returns the components as float32 for uniform upload.
func (c RGBA) Float32() (r, g, b, a float32) {
	return float32(c.R), float32(c.G), float32(c.B), float32(c.A)
}

// HexString formats the color as "#rrggbb", or "#rrggbbaa" when not opaque.
func (c RGBA) HexString() string {
	r := int(clamp255(c.R * 255))
	g := int(clamp255(c.G * 255))
	b := int(clamp255(c.B * 255))
	a := int(clamp255(c.A * 255))
	if a == 255 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// Hex creates a color from a hex string, returning opaque black when the
// string cannot be parsed. Use ParseHex to detect errors.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with optional '#'.
func Hex(hex string) RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		return Black
	}
	return c
}

// ParseHex parses a hex color string such as "#ff0000" or "f00".
func ParseHex(hex string) (RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	var digits [4]uint64
	digits[3] = 255
	switch len(s) {
	case 3, 4: // RGB, RGBA
		for i := range len(s) {
			v, err := strconv.ParseUint(s[i:i+1], 16, 8)
			if err != nil {
				return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
			}
			digits[i] = v * 17
		}
	case 6, 8: // RRGGBB, RRGGBBAA
		for i := 0; i < len(s); i += 2 {
			v, err := strconv.ParseUint(s[i:i+2], 16, 8)
			if err != nil {
				return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
			}
			digits[i/2] = v
		}
	default:
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}

	return RGBA{
		R: float64(digits[0]) / 255,
		G: float64(digits[1]) / 255,
		B: float64(digits[2]) / 255,
		A: float64(digits[3]) / 255,
	}, nil
}

// clamp255 rounds x and clamps it to [0, 255].
func clamp255(x float64) float64 {
	return math.Max(0, math.Min(255, math.Round(x)))
}
