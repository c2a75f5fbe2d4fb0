// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/trace/linefile"
)

// lineWatcher reloads a line file whenever it changes on disk.
// Loaded documents are delivered on Docs; the game applies them on the UI
// goroutine.
type lineWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	docs    chan *linefile.Document
	done    chan struct{}
	log     *slog.Logger
}

// watchLines starts watching path. The parent directory is watched so
// editors that save by rename are still seen.
func watchLines(path string, log *slog.Logger) (*lineWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	lw := &lineWatcher{
		path:    abs,
		watcher: w,
		docs:    make(chan *linefile.Document, 1),
		done:    make(chan struct{}),
		log:     log,
	}
	go lw.run()
	return lw, nil
}

// Docs returns the channel of reloaded documents.
func (lw *lineWatcher) Docs() <-chan *linefile.Document { return lw.docs }

func (lw *lineWatcher) run() {
	defer close(lw.done)
	for {
		select {
		case event, ok := <-lw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != lw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			doc, err := linefile.Load(lw.path)
			if err != nil {
				// Half-written files are common mid-save; the next event retries.
				lw.log.Debug("watch: reload skipped", "path", lw.path, "err", err)
				continue
			}
			// Keep only the newest document.
			select {
			case <-lw.docs:
			default:
			}
			lw.docs <- doc
		case err, ok := <-lw.watcher.Errors:
			if !ok {
				return
			}
			lw.log.Warn("watch: error", "err", err)
		}
	}
}

// Close stops watching and waits for the event loop to exit.
func (lw *lineWatcher) Close() error {
	err := lw.watcher.Close()
	<-lw.done
	return err
}
