// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for trace and the pipelines of sessions
// created afterwards. By default trace produces no log output.
// Pass nil to restore the silent default.
//
// Log levels used by trace:
//   - [slog.LevelDebug]: per-frame data (vertex counts, buffer growth)
//   - [slog.LevelInfo]: lifecycle (pipeline ready, session closed)
//   - [slog.LevelWarn]: non-fatal issues (width clamped, backend fallback)
//
// Example:
//
//	trace.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages use it to share the
// configuration without import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by pipelines that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands the current logger to p if it accepts one.
func propagateLogger(p any) {
	if ls, ok := p.(loggerSetter); ok {
		ls.SetLogger(Logger())
	}
}
