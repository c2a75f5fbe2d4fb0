// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command trace opens a window for drawing polylines.
//
// Click to place points. Keys:
//
//	U, Ctrl+Z   undo the last point
//	S           toggle smoothing
//	[ ]         narrower / wider line
//	1-6         color presets
//	C           clear
//	Ctrl+S      save the line file
//	Ctrl+O      load the line file
//	P           export the frame as an image
//	D           export the drawing as PDF
//	Esc         quit
//
// Settings come from a TOML file (-config) and command line flags, flags
// taking precedence.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/trace"
	"github.com/gogpu/trace/backend"
	_ "github.com/gogpu/trace/gpu" // registers the gpu backend
	"github.com/gogpu/trace/gpucore"
)

func main() {
	var (
		configPath = flag.String("config", "trace.toml", "TOML settings file")
		width      = flag.Int("width", 0, "window width (overrides config)")
		height     = flag.Int("height", 0, "window height (overrides config)")
		backendArg = flag.String("backend", "", "pipeline backend, empty picks the best available")
		color      = flag.String("color", "", "initial line color, e.g. #ff0000")
		lineWidth  = flag.Float64("line-width", 0, "initial line width in pixels")
		smooth     = flag.Bool("smooth", false, "start with smoothing on")
		lines      = flag.String("lines", "", "line file for Ctrl+S / Ctrl+O")
		watch      = flag.Bool("watch", false, "reload the line file when it changes")
		verbose    = flag.Bool("v", false, "debug logging")
		dumpConfig = flag.Bool("dump-config", false, "print the effective config as TOML and exit")
		list       = flag.Bool("list-backends", false, "print registered backends and exit")
	)
	flag.Parse()

	if *list {
		for _, name := range backend.Available() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := LoadConfig(*configPath, !isFlagSet("config"))
	if err != nil {
		log.Fatalf("%v", err)
	}
	overrides := map[string]func(){
		"width":      func() { cfg.Width = *width },
		"height":     func() { cfg.Height = *height },
		"backend":    func() { cfg.Backend = *backendArg },
		"color":      func() { cfg.Color = *color },
		"line-width": func() { cfg.LineWidth = *lineWidth },
		"smooth":     func() { cfg.Smooth = *smooth },
		"lines":      func() { cfg.Lines = *lines },
		"watch":      func() { cfg.Watch = *watch },
		"v": func() {
			if *verbose {
				cfg.LogLevel = "debug"
			}
		},
	}
	flag.Visit(func(f *flag.Flag) {
		if set, ok := overrides[f.Name]; ok {
			set()
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	if *dumpConfig {
		out, err := cfg.Encode()
		if err != nil {
			log.Fatalf("%v", err)
		}
		os.Stdout.Write(out)
		return
	}

	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func run(cfg Config) error {
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	trace.SetLogger(logger)

	p, err := openPipeline(cfg)
	if err != nil {
		return err
	}
	s, err := trace.NewSession(p,
		trace.WithStyle(cfg.Style()),
		trace.WithSmoothing(cfg.Smooth),
	)
	if err != nil {
		p.Destroy()
		return err
	}
	defer s.Close()

	ctl := newController(s, cfg, logger)
	if err := ctl.LoadLines(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("trace: line file not loaded", "path", cfg.Lines, "err", err)
	}

	var watcher *lineWatcher
	if cfg.Watch {
		watcher, err = watchLines(cfg.Lines, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	logger.Info("trace: window", "backend", p.Name(), "width", cfg.Width, "height", cfg.Height)
	return newGame(ctl, watcher, logger).run("trace")
}

func openPipeline(cfg Config) (gpucore.Pipeline, error) {
	if cfg.Backend != "" {
		return backend.Get(cfg.Backend, cfg.Width, cfg.Height)
	}
	return backend.Default(cfg.Width, cfg.Height)
}
