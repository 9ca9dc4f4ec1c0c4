// Package logger holds the structured logger shared by the mirror packages.
package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting altogether.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(nopHandler{}))
}

// SetLogger installs l as the logger of every mirror package.
// By default nothing is logged; passing nil restores the silent logger.
//
// Levels in use:
//   - [slog.LevelDebug]: skipped frames, surface sizes
//   - [slog.LevelInfo]: session lifecycle (camera granted, playing, stopped)
//   - [slog.LevelWarn]: non-fatal failures such as a brush that failed to load
//   - [slog.LevelError]: camera acquisition failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	current.Store(l)
}

// Logger returns the installed logger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return current.Load()
}
