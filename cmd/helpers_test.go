package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repo       string
	configFile string
	argsFile   string
}

// newTestEnv creates an isolated repository with a committed "base" tag and a
// config file pointing at a fake formatter that exits with formatterExit.
func newTestEnv(t *testing.T, formatterExit int) *testEnv {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX shell scripts")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, env := range os.Environ() {
		if key, _, _ := strings.Cut(env, "="); strings.HasPrefix(key, "FMTGATE_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}

	env := &testEnv{repo: t.TempDir()}
	tools := t.TempDir()
	env.argsFile = filepath.Join(tools, "args")
	env.configFile = filepath.Join(tools, "config.yaml")

	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > %q\nexit %d\n", env.argsFile, formatterExit)
	formatterPath := filepath.Join(tools, "fake-autopep8")
	require.NoError(t, os.WriteFile(formatterPath, []byte(script), 0o755))

	cfg := fmt.Sprintf("base_ref: base\nformatter: %q\nspinner: false\n", formatterPath)
	require.NoError(t, os.WriteFile(env.configFile, []byte(cfg), 0o600))

	env.git(t, "init", "-q")
	env.git(t, "config", "user.email", "test@example.com")
	env.git(t, "config", "user.name", "Test User")
	env.git(t, "config", "commit.gpgsign", "false")
	env.write(t, "main.py", "x = 1\n")
	env.commit(t, "initial")
	env.git(t, "tag", "base")

	return env
}

func (e *testEnv) git(t *testing.T, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = e.repo
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func (e *testEnv) write(t *testing.T, name, content string) {
	t.Helper()

	path := filepath.Join(e.repo, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (e *testEnv) commit(t *testing.T, message string) {
	t.Helper()

	e.git(t, "add", "-A")
	e.git(t, "commit", "-q", "-m", message)
}

// formatterArgs returns the arguments of the last formatter run, or nil if
// the formatter never ran.
func (e *testEnv) formatterArgs(t *testing.T) []string {
	t.Helper()

	data, err := os.ReadFile(e.argsFile)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// run executes fmtgate against the environment's repository.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	full := append([]string{"--config", e.configFile, "--dir", e.repo}, args...)
	return execute(t, full...)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
