// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#ff0000", Red},
		{"ff0000", Red},
		{"#0f0", RGBA{0, 1, 0, 1}},
		{"#000000ff", Black},
		{"#ffffff00", RGBA{1, 1, 1, 0}},
		{" #FFFFFF ", White},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Errorf("ParseHex(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12345", "zzzzzz", "#ff00gg", "+f+f+f"} {
		if _, err := ParseHex(in); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("ParseHex(%q) err = %v, want ErrInvalidHex", in, err)
		}
	}
}

func TestHexFallsBackToBlack(t *testing.T) {
	if got := Hex("not a color"); got != Black {
		t.Errorf("Hex(invalid) = %v, want black", got)
	}
	if got := Hex("#00f"); got != RGB(0, 0, 1) {
		t.Errorf("Hex(#00f) = %v", got)
	}
}

func TestHexString(t *testing.T) {
	tests := []struct {
		c    RGBA
		want string
	}{
		{Red, "#ff0000"},
		{RGB8(0x12, 0x34, 0x56), "#123456"},
		{RGBA{1, 1, 1, 0.5}, "#ffffff80"},
		{RGBA{2, -1, 0, 1}, "#ff0000"},
	}
	for _, tt := range tests {
		if got := tt.c.HexString(); got != tt.want {
			t.Errorf("%v.HexString() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestColorConversion(t *testing.T) {
	c := RGB8(10, 20, 30)
	if got := FromColor(c.Color()); got != c {
		t.Errorf("FromColor(Color()) = %v, want %v", got, c)
	}
	want := color.NRGBA{R: 255, A: 255}
	if got := Red.Color(); got != want {
		t.Errorf("Red.Color() = %v, want %v", got, want)
	}
	r, g, b, a := Red.Float32()
	if r != 1 || g != 0 || b != 0 || a != 1 {
		t.Errorf("Red.Float32() = %v %v %v %v", r, g, b, a)
	}
}
