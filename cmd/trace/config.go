// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/trace"
)

// Config holds the window settings. It is read from a TOML file and then
// overridden by command line flags.
//
//	width = 1024
//	height = 768
//	backend = "gpu"
//	color = "#0066ff"
//	line_width = 3
//	smooth = true
//	lines = "drawing.json"
//	image = "drawing.png"
//	pdf = "drawing.pdf"
//	watch = true
//	log_level = "debug"
type Config struct {
	Width     int     `toml:"width"`
	Height    int     `toml:"height"`
	Backend   string  `toml:"backend"`
	Color     string  `toml:"color"`
	LineWidth float64 `toml:"line_width"`
	Smooth    bool    `toml:"smooth"`
	Lines     string  `toml:"lines"`
	Image     string  `toml:"image"`
	PDF       string  `toml:"pdf"`
	Watch     bool    `toml:"watch"`
	LogLevel  string  `toml:"log_level"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Width:     800,
		Height:    600,
		Color:     trace.DefaultStyle().Color.HexString(),
		LineWidth: trace.DefaultStyle().Width,
		Lines:     "trace.json",
		Image:     "trace.png",
		PDF:       "trace.pdf",
		LogLevel:  "info",
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error
// when optional is set.
func LoadConfig(path string, optional bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values a session cannot repair on its own.
// Line widths are clamped later, not rejected.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid window size %dx%d", c.Width, c.Height)
	}
	if _, err := trace.ParseHex(c.Color); err != nil {
		return fmt.Errorf("config: color: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Style returns the initial stroke style.
func (c Config) Style() trace.StrokeStyle {
	return trace.StrokeStyle{
		Color: trace.Hex(c.Color),
		Width: trace.ClampWidth(c.LineWidth),
	}
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return l, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Encode returns the config as TOML, used by -dump-config.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
