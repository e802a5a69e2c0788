package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleHandler_Levels(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	logger := New(&buf, level)

	logger.Debug("hidden")
	logger.Info("checking files")
	logger.Warn("diff failed", "err", errors.New("bad revision"))
	logger.Error("formatter missing")

	assert.Equal(t,
		"checking files\nWarning: diff failed: bad revision\nError: formatter missing\n",
		buf.String())
}

func TestConsoleHandler_DebugShowsAttrs(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelDebug)
	logger := New(&buf, level).With("component", "gate")

	logger.Debug("Running: git diff", "dir", "/repo")

	assert.Equal(t, "Running: git diff component=gate dir=/repo\n", buf.String())
}

func TestConsoleHandler_InfoHidesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, nil)

	logger.Info("resolved targets", "count", 3)

	assert.Equal(t, "resolved targets\n", buf.String())
}

func TestConsoleHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, nil).WithGroup("ignored")

	logger.Info("hello")

	assert.Equal(t, "hello\n", buf.String())
}
