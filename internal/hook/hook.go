// Package hook renders and installs the git pre-commit hook that runs fmtgate.
package hook

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Name is the git hook fmtgate installs itself as.
const Name = "pre-commit"

// Marker identifies hooks written by fmtgate.
const Marker = "# installed by fmtgate"

// ErrForeignHook is returned when a hook not written by fmtgate is in the way.
var ErrForeignHook = errors.New("a pre-commit hook not managed by fmtgate already exists")

// ErrNotInstalled is returned by Uninstall when there is no fmtgate hook.
var ErrNotInstalled = errors.New("fmtgate pre-commit hook is not installed")

// ScriptOptions controls the flags baked into the hook.
type ScriptOptions struct {
	Binary  string
	All     bool
	Verbose bool
}

// Script renders the POSIX shell hook.
func Script(opts ScriptOptions) string {
	binary := opts.Binary
	if binary == "" {
		binary = "fmtgate"
	}

	args := []string{quote(binary)}
	if opts.All {
		args = append(args, "--all")
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	}

	return fmt.Sprintf(scriptTemplate, Marker, strings.Join(args, " "))
}

// Install writes script into dir/pre-commit on fsys. An existing fmtgate hook
// is replaced; any other hook is left alone unless force is set.
func Install(fsys afero.Fs, dir, script string, force bool) (string, error) {
	path := filepath.Join(dir, Name)

	managed, err := isManaged(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return "", err
	case !managed && !force:
		return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrForeignHook, path)
	}

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create hooks directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, []byte(script), 0o755); err != nil {
		return "", fmt.Errorf("failed to write hook: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := fsys.Chmod(path, 0o755); err != nil {
		return "", fmt.Errorf("failed to make hook executable: %w", err)
	}
	return path, nil
}

// Uninstall removes dir/pre-commit from fsys when fmtgate wrote it.
func Uninstall(fsys afero.Fs, dir string) (string, error) {
	path := filepath.Join(dir, Name)

	managed, err := isManaged(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotInstalled
	}
	if err != nil {
		return "", err
	}
	if !managed {
		return "", fmt.Errorf("%w: %s", ErrForeignHook, path)
	}

	if err := fsys.Remove(path); err != nil {
		return "", fmt.Errorf("failed to remove hook: %w", err)
	}
	return path, nil
}

// IsForeign reports whether dir/pre-commit exists and was not written by
// fmtgate.
func IsForeign(fsys afero.Fs, dir string) (bool, error) {
	managed, err := isManaged(fsys, filepath.Join(dir, Name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !managed, nil
}

func isManaged(fsys afero.Fs, path string) (bool, error) {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return false, err
	}
	return strings.Contains(string(content), Marker), nil
}

// quote wraps s in single quotes for sh.
func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`;&|<>()*?[]#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

const scriptTemplate = `#!/bin/sh
%s
# Blocks the commit when the formatter rewrote files.
exec %s "$@"
`
