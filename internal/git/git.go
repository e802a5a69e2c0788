// Package git wraps the git CLI operations fmtgate depends on.
package git

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/samzong/fmtgate/internal/gitcmd"
	"github.com/samzong/fmtgate/internal/gitutil"
	"github.com/samzong/fmtgate/internal/stringsutil"
)

// Options configures a Client.
type Options struct {
	Verbose bool
	Dir     string
	Logger  *slog.Logger
}

// Client runs git commands in a working directory.
type Client struct {
	runner gitcmd.Runner
}

func NewClient(opts Options) *Client {
	return &Client{
		runner: gitcmd.Runner{
			Program: gitcmd.DefaultProgram,
			Verbose: opts.Verbose,
			Dir:     opts.Dir,
			Logger:  opts.Logger,
		},
	}
}

// ChangedFiles lists the paths that differ between baseRef and HEAD, in git's
// output order. Paths are relative to the repository root and returned as
// stored, without C-style quoting.
func (c *Client) ChangedFiles(ctx context.Context, baseRef string) ([]string, error) {
	if err := gitutil.ValidateRef(baseRef); err != nil {
		return nil, err
	}

	// NUL-separated, unquoted paths: non-ASCII names must keep their suffix.
	result, err := c.runner.RunLogged(ctx, "-c", "core.quotePath=false", "diff", "--name-only", "-z", baseRef+"..")
	if err != nil {
		return nil, gitutil.WrapGitError("git diff failed", result, err)
	}

	return stringsutil.SplitNonEmpty(result.StdoutString(false), "\x00"), nil
}

// IsGitRepository reports whether the client's directory is inside a work tree.
func (c *Client) IsGitRepository(ctx context.Context) bool {
	result, err := c.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && result.StdoutString(true) == "true"
}

// CheckGitRepository returns an error when the directory is not a git work tree.
func (c *Client) CheckGitRepository(ctx context.Context) error {
	result, err := c.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return gitutil.WrapGitError("not a git repository", result, err)
	}
	return nil
}

// RepoRoot returns the top-level directory of the work tree.
func (c *Client) RepoRoot(ctx context.Context) (string, error) {
	result, err := c.runner.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", gitutil.WrapGitError("failed to find git root", result, err)
	}
	return result.StdoutString(true), nil
}

// HooksDir returns the absolute hooks directory, honouring core.hooksPath
// and linked worktrees.
func (c *Client) HooksDir(ctx context.Context) (string, error) {
	result, err := c.runner.Run(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", gitutil.WrapGitError("failed to find hooks directory", result, err)
	}

	dir := result.StdoutString(true)
	if filepath.IsAbs(dir) {
		return dir, nil
	}

	base := c.runner.Dir
	if base == "" {
		base = "."
	}
	return filepath.Abs(filepath.Join(base, dir))
}
