// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/trace"
)

// game hosts a session in an ebiten window. The session renders offscreen;
// each changed frame is copied into an ebiten image and blitted.
type game struct {
	ctl     *controller
	watcher *lineWatcher
	log     *slog.Logger

	screen        *ebiten.Image
	width, height int
}

func newGame(ctl *controller, watcher *lineWatcher, log *slog.Logger) *game {
	w, h := ctl.session.Size()
	return &game{ctl: ctl, watcher: watcher, log: log, width: w, height: h}
}

// run opens the window and blocks until it is closed.
func (g *game) run(title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update handles input and reloads. Session errors are logged and the
// window keeps running, except for a closed session.
func (g *game) Update() error {
	if err := g.ctl.Resize(g.width, g.height); err != nil {
		return g.report("resize", err)
	}
	if g.watcher != nil {
		select {
		case doc := <-g.watcher.Docs():
			if err := g.report("reload", g.ctl.Apply(doc)); err != nil {
				return err
			}
		default:
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if err := g.report("click", g.ctl.Click(x, y)); err != nil {
			return err
		}
	}
	for _, b := range g.bindings() {
		if !b.pressed() {
			continue
		}
		if err := g.report(b.name, b.run()); err != nil {
			return err
		}
	}
	return nil
}

// presetKeys select presets[i].
var presetKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6}

type binding struct {
	name    string
	pressed func() bool
	run     func() error
}

func (g *game) bindings() []binding {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	key := func(k ebiten.Key, withCtrl bool) func() bool {
		return func() bool { return ctrl == withCtrl && inpututil.IsKeyJustPressed(k) }
	}
	bs := []binding{
		{"undo", key(ebiten.KeyU, false), g.ctl.Undo},
		{"undo", key(ebiten.KeyZ, true), g.ctl.Undo},
		{"smooth", key(ebiten.KeyS, false), g.ctl.ToggleSmooth},
		{"width", key(ebiten.KeyBracketRight, false), func() error { return g.ctl.StepWidth(1) }},
		{"width", key(ebiten.KeyBracketLeft, false), func() error { return g.ctl.StepWidth(-1) }},
		{"clear", key(ebiten.KeyC, false), g.ctl.Clear},
		{"save", key(ebiten.KeyS, true), g.ctl.SaveLines},
		{"load", key(ebiten.KeyO, true), g.ctl.LoadLines},
		{"export image", key(ebiten.KeyP, false), g.ctl.ExportImage},
		{"export pdf", key(ebiten.KeyD, false), g.ctl.ExportPDF},
		{"quit", key(ebiten.KeyEscape, false), func() error { return ebiten.Termination }},
	}
	for i, k := range presetKeys {
		bs = append(bs, binding{"color", key(k, false), func() error { return g.ctl.Preset(i) }})
	}
	return bs
}

// report logs err and decides whether the game loop stops.
func (g *game) report(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ebiten.Termination), errors.Is(err, trace.ErrClosed):
		return err
	default:
		g.log.Warn("trace: "+op+" failed", "err", err)
		return nil
	}
}

// Draw blits the latest frame.
func (g *game) Draw(screen *ebiten.Image) {
	frame, changed, err := g.ctl.Frame()
	if err != nil {
		g.log.Warn("trace: capture failed", "err", err)
		return
	}
	b := frame.Bounds()
	if g.screen == nil || g.screen.Bounds() != b {
		if g.screen != nil {
			g.screen.Deallocate()
		}
		g.screen = ebiten.NewImage(b.Dx(), b.Dy())
		changed = true
	}
	if changed {
		g.screen.WritePixels(frame.Pix)
	}
	screen.DrawImage(g.screen, nil)
}

// Layout keeps one surface pixel per screen pixel; a resized window
// resizes the surface on the next Update.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}
