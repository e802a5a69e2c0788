// Package logging provides the console slog handler used across fmtgate.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// New returns a logger that writes clean, human-readable lines to w.
// Attributes other than errors are only shown at debug level.
func New(w io.Writer, level *slog.LevelVar) *slog.Logger {
	if level == nil {
		level = new(slog.LevelVar)
	}
	return slog.New(&consoleHandler{w: w, level: level, mu: &sync.Mutex{}})
}

type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
	mu    *sync.Mutex
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprintf(c.w, "Error: %s", record.Message)
	case record.Level >= slog.LevelWarn:
		fmt.Fprintf(c.w, "Warning: %s", record.Message)
	default:
		fmt.Fprint(c.w, record.Message)
	}

	for _, a := range c.attrs {
		c.formatAttr(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(a)
		return true
	})

	_, err := fmt.Fprintln(c.w)
	return err
}

func (c *consoleHandler) formatAttr(a slog.Attr) {
	if a.Key == "error" || a.Key == "err" {
		fmt.Fprintf(c.w, ": %v", a.Value)
	} else if c.level.Level() <= slog.LevelDebug {
		fmt.Fprintf(c.w, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	merged = append(merged, c.attrs...)
	merged = append(merged, attrs...)
	return &consoleHandler{w: c.w, level: c.level, attrs: merged, mu: c.mu}
}

// WithGroup is a no-op; console output is flat.
func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	return c
}
