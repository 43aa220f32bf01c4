// Package logging builds the charmbracelet/log loggers used by the server and
// the CLI, and carries them through context.Context.
package logging

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w at the named level ("debug", "info",
// "warn", "error"). Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006/01/02 15:04:05",
		Level:           lvl,
	})
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

type ctxKey int

const loggerKey ctxKey = 0

// WithContext returns a copy of ctx carrying l
func WithContext(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or fallback if none is set
func FromContext(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok && l != nil {
		return l
	}
	return fallback
}
