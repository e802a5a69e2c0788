package gate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/samzong/fmtgate/internal/stringsutil"
	"github.com/samzong/fmtgate/internal/ui"
)

// ErrChangedFiles wraps a failed changed-files query in strict mode.
var ErrChangedFiles = errors.New("failed to list changed files")

// Config holds the per-run settings.
type Config struct {
	BaseRef    string
	Extensions []string
	All        bool
	Verbose    bool
	// Strict turns a failed changed-files query into an error instead of an
	// empty target set.
	Strict  bool
	Spinner bool
}

type Options struct {
	Fs        afero.Fs
	Logger    *slog.Logger
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Gate runs the format check for one commit.
type Gate struct {
	changes   ChangedFilesProvider
	formatter Formatter
	cfg       Config
	fs        afero.Fs
	logger    *slog.Logger
	out       io.Writer
	errOut    io.Writer
}

func NewGate(changes ChangedFilesProvider, formatter Formatter, cfg Config, opts Options) *Gate {
	g := &Gate{
		changes:   changes,
		formatter: formatter,
		cfg:       cfg,
		fs:        opts.Fs,
		logger:    opts.Logger,
		out:       opts.OutWriter,
		errOut:    opts.ErrWriter,
	}
	if g.fs == nil {
		g.fs = afero.NewOsFs()
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.out == nil {
		g.out = io.Discard
	}
	if g.errOut == nil {
		g.errOut = io.Discard
	}
	return g
}

// Run resolves the targets, formats them and reports the outcome.
func (g *Gate) Run(ctx context.Context) (RunResult, error) {
	targets, err := g.ResolveTargets(ctx)
	if err != nil {
		return NoChanges, err
	}

	g.ReportTargets(targets)

	result, err := g.RunFormatter(ctx, targets)
	if err != nil {
		return NoChanges, err
	}

	g.ReportResult(result)
	return result, nil
}

// ResolveTargets returns the whole tree in All mode, otherwise the changed
// files with a configured extension that still exist.
func (g *Gate) ResolveTargets(ctx context.Context) (FileSet, error) {
	if g.cfg.All {
		return WholeTree(), nil
	}

	files, err := g.changes.ChangedFiles(ctx, g.cfg.BaseRef)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return FileSet{}, ctxErr
		}
		if g.cfg.Strict {
			return FileSet{}, fmt.Errorf("%w against %s: %w", ErrChangedFiles, g.cfg.BaseRef, err)
		}
		g.logger.Warn("could not list changed files, nothing to check", "err", err)
		return FileSet{}, nil
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		if !stringsutil.HasAnySuffix(file, g.cfg.Extensions) {
			continue
		}

		exists, err := afero.Exists(g.fs, file)
		if err != nil {
			return FileSet{}, fmt.Errorf("failed to check %s: %w", file, err)
		}
		if !exists {
			g.logger.Debug("skipping deleted file", "path", file)
			continue
		}

		paths = append(paths, file)
	}

	g.logger.Debug("resolved targets", "base", g.cfg.BaseRef, "changed", len(files), "targets", len(paths))
	return FileSet{Paths: paths}, nil
}

// RunFormatter invokes the formatter once over targets. An empty set never
// reaches the formatter.
func (g *Gate) RunFormatter(ctx context.Context, targets FileSet) (RunResult, error) {
	if targets.Empty() {
		return NoChanges, nil
	}

	sp := ui.NewSpinner(fmt.Sprintf("Formatting %s...", targets), g.cfg.Spinner)
	sp.Start()
	changed, err := g.formatter.Format(ctx, targets.Args())
	sp.Stop()

	if err != nil {
		return NoChanges, err
	}
	if changed {
		return Modified, nil
	}
	return NoChanges, nil
}
