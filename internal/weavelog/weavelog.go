// Package weavelog adapts log/slog to the vm.Logger capability.
package weavelog

import (
	"log/slog"
	"os"
)

// Logger wraps an *slog.Logger to satisfy vm.Logger and the other
// leveled-logging call sites across the engine and CLI.
type Logger struct {
	base *slog.Logger
}

// New builds a Logger writing leveled, human-readable text to standard
// error. verbose lowers the minimum level to Debug; it is
// Info otherwise.
func New(verbose bool) *Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{base: slog.New(handler)}
}

func (l *Logger) Debug(msg string)   { l.base.Debug(msg) }
func (l *Logger) Info(msg string)    { l.base.Info(msg) }
func (l *Logger) Warning(msg string) { l.base.Warn(msg) }
func (l *Logger) Error(msg string)   { l.base.Error(msg) }

// With returns a Logger with key/value pairs attached to every
// subsequent record, mirroring slog's attribute convention.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{base: l.base.With(args...)}
}
