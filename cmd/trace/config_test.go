// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/trace"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if got := cfg.Style(); got != trace.DefaultStyle() {
		t.Errorf("Style = %+v, want %+v", got, trace.DefaultStyle())
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), false); err == nil {
		t.Error("expected error for a required missing file")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "trace.toml", `
width = 1024
height = 768
backend = "software"
color = "#0066ff"
line_width = 25
smooth = true
lines = "a.json"
log_level = "debug"
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 1024 || cfg.Height != 768 || cfg.Backend != "software" || !cfg.Smooth || cfg.Lines != "a.json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Image != "trace.png" {
		t.Errorf("unset keys should keep defaults, Image = %q", cfg.Image)
	}
	style := cfg.Style()
	if style.Color != trace.RGB8(0x00, 0x66, 0xff) || style.Width != trace.MaxWidth {
		t.Errorf("Style = %+v", style)
	}
	if l, _ := cfg.Level(); l != slog.LevelDebug {
		t.Errorf("Level = %v, want debug", l)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "width = "},
		{"size", "width = 0"},
		{"color", `color = "red"`},
		{"level", `log_level = "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeFile(t, "bad.toml", tt.content), false); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigEncodeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Smooth = true
	cfg.Backend = "gpu"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := LoadConfig(writeFile(t, "dump.toml", string(data)), false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}
