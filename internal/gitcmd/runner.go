package gitcmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultProgram is the executable used when Runner.Program is empty.
const DefaultProgram = "git"

// Runner executes external commands (git by default) with shared logging and output handling.
type Runner struct {
	Program string
	Verbose bool
	Dir     string
	Env     []string
	Logger  *slog.Logger
}

// Result contains captured stdout/stderr for a command.
type Result struct {
	Stdout []byte
	Stderr []byte
}

func (r Result) StdoutString(trim bool) string {
	output := string(r.Stdout)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Result) StderrString(trim bool) string {
	output := string(r.Stderr)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

// LookPath resolves the runner's program on PATH.
func (r Runner) LookPath() (string, error) {
	r = r.withDefaults()
	return exec.LookPath(r.Program)
}

func (r Runner) withDefaults() Runner {
	if r.Program == "" {
		r.Program = DefaultProgram
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	return r
}

func (r Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.Program, args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

func (r Runner) log(args []string) {
	if !r.Verbose {
		return
	}
	r.Logger.Debug("Running: "+r.Program+" "+strings.Join(args, " "), "dir", r.Dir)
}

func (r Runner) prepare(ctx context.Context, args []string, log bool) *exec.Cmd {
	r = r.withDefaults()
	if log {
		r.log(args)
	}
	return r.command(ctx, args...)
}

// Run executes a command and captures stdout/stderr.
func (r Runner) Run(ctx context.Context, args ...string) (Result, error) {
	return r.run(ctx, args, false)
}

// RunLogged executes a command, logs when verbose, and captures stdout/stderr.
func (r Runner) RunLogged(ctx context.Context, args ...string) (Result, error) {
	return r.run(ctx, args, true)
}

// RunWithWriters executes a command, optionally logs, and uses provided writers.
func (r Runner) RunWithWriters(ctx context.Context, log bool, stdout io.Writer, stderr io.Writer, args ...string) error {
	cmd := r.prepare(ctx, args, log)
	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stderr != nil {
		cmd.Stderr = stderr
	}

	return cmd.Run()
}

func (r Runner) run(ctx context.Context, args []string, log bool) (Result, error) {
	cmd := r.prepare(ctx, args, log)
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	return Result{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}, err
}
