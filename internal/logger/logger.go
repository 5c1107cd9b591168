// Package logger holds the logger shared by all pitft packages.
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// DebugEnv is the environment variable that enables debug logging to stderr.
const DebugEnv = "PITFT_DEBUG"

// nopHandler discards all records; Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var ptr atomic.Pointer[slog.Logger]

func init() {
	if os.Getenv(DebugEnv) != "" {
		ptr.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		return
	}
	ptr.Store(Nop())
}

// Nop returns a logger that silently discards all output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// Set replaces the shared logger; nil restores the silent default.
func Set(l *slog.Logger) {
	if l == nil {
		l = Nop()
	}
	ptr.Store(l)
}

// Get returns the shared logger.
func Get() *slog.Logger {
	return ptr.Load()
}
