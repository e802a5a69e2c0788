// Package formatter drives the external code formatter over a list of paths.
package formatter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/samzong/fmtgate/internal/gitcmd"
)

// DefaultBinary is the formatter executable used when none is configured.
const DefaultBinary = "autopep8"

// ErrUnavailable is returned when the formatter binary cannot be executed.
var ErrUnavailable = errors.New("formatter is not available")

// Autopep8 runs autopep8 recursively and in place, exiting non-zero when it
// rewrote something.
type Autopep8 struct {
	Binary    string
	Ignore    []string
	ExtraArgs []string
	Runner    gitcmd.Runner
	Stdout    io.Writer
	Stderr    io.Writer
}

// BuildArgs returns the argument list for one run over paths.
func (a *Autopep8) BuildArgs(paths []string) []string {
	args := []string{"-r"}
	if ignore := joinRules(a.Ignore); ignore != "" {
		args = append(args, "--ignore", ignore)
	}
	args = append(args, "-i", "--exit-code")
	args = append(args, a.ExtraArgs...)
	return append(args, paths...)
}

// Format rewrites paths in place and reports whether any file was modified.
// Any non-zero exit counts as a modification, so a formatter crash also
// blocks the commit.
func (a *Autopep8) Format(ctx context.Context, paths []string) (bool, error) {
	runner := a.Runner
	runner.Program = a.program()

	if _, err := runner.LookPath(); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrUnavailable, runner.Program, err)
	}

	err := runner.RunWithWriters(ctx, true, a.Stdout, a.Stderr, a.BuildArgs(paths)...)
	if err == nil {
		return false, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return true, nil
	}
	return false, fmt.Errorf("%w: %s: %w", ErrUnavailable, runner.Program, err)
}

// Name returns the executable the formatter runs.
func (a *Autopep8) Name() string {
	return a.binary()
}

func (a *Autopep8) binary() string {
	if a.Binary == "" {
		return DefaultBinary
	}
	return a.Binary
}

// program returns the executable to run. A relative path such as
// ./venv/bin/autopep8 is taken relative to the runner's directory, where the
// formatter runs, not to the process working directory.
func (a *Autopep8) program() string {
	binary := a.binary()
	if a.Runner.Dir == "" || filepath.IsAbs(binary) || !strings.ContainsAny(binary, "/"+string(filepath.Separator)) {
		return binary
	}

	path := filepath.Join(a.Runner.Dir, binary)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func joinRules(rules []string) string {
	cleaned := make([]string, 0, len(rules))
	for _, rule := range rules {
		if rule = strings.TrimSpace(rule); rule != "" {
			cleaned = append(cleaned, rule)
		}
	}
	return strings.Join(cleaned, ",")
}
