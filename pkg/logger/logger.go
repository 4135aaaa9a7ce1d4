// Package logger provides opinionated logging for the marq CLI.
//
// Loggers are standard *slog.Logger values. The default handler is the
// charmbracelet/log pretty handler for human-friendly terminal output;
// WithJSON swaps in slog's JSON handler for structured logs.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type config struct {
	level   slog.Level
	json    bool
	source  bool
	writers []io.Writer
}

// New creates a *slog.Logger configured by the given options.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level: slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(c.writers) == 0 {
		c.writers = []io.Writer{os.Stderr}
	}
	w := io.MultiWriter(c.writers...)

	if c.json {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		}))
	}

	// charmbracelet/log levels share slog's numeric values, so the
	// configured slog.Level converts directly.
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(c.level),
		ReportCaller:    c.source,
		ReportTimestamp: false,
	})
	return slog.New(handler)
}

// Nop returns a logger that discards all output. Useful in tests.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
