// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"log/slog"
	"sync/atomic"
)

var (
	discard   = slog.New(slog.DiscardHandler)
	pkgLogger atomic.Pointer[slog.Logger]
)

// slogger returns the package logger, silent until setLogger is called.
func slogger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return discard
}

// setLogger routes package output to l, tagged with the backend name.
// nil silences it again.
func setLogger(l *slog.Logger) {
	if l == nil {
		pkgLogger.Store(nil)
		return
	}
	pkgLogger.Store(l.With("backend", BackendName))
}
