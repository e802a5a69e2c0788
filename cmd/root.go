package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samzong/fmtgate/internal/config"
	"github.com/samzong/fmtgate/internal/formatter"
	"github.com/samzong/fmtgate/internal/gate"
	"github.com/samzong/fmtgate/internal/git"
	"github.com/samzong/fmtgate/internal/gitcmd"
	"github.com/samzong/fmtgate/internal/logging"
)

// Exit codes returned by the fmtgate binary.
const (
	ExitOK       = 0
	ExitModified = 1
	ExitError    = 2
)

// ExitCodeError carries a process exit code out of a command. A nil Err means
// the command already reported everything it had to say.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// ExitCode maps an Execute error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}

type rootOptions struct {
	cfgFile    string
	dir        string
	all        bool
	verbose    bool
	baseRef    string
	extensions []string
	strict     bool
	noSpinner  bool
	debug      bool
	logLevel   *slog.LevelVar
	configErr  error
}

var (
	cmdCtx  = context.Background()
	rootCmd = NewRootCmd()
)

// SetContext sets the context used by Execute.
func SetContext(ctx context.Context) {
	cmdCtx = ctx
}

func Execute() error {
	return rootCmd.ExecuteContext(cmdCtx)
}

// RootCmd returns the root command, for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}

// NewRootCmd builds the command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{logLevel: new(slog.LevelVar)}

	root := &cobra.Command{
		Use:   "fmtgate",
		Short: "fmtgate - pre-commit format gate",
		Long: `fmtgate runs a code formatter over the files changed since the upstream
branch (or over the whole tree with --all) and fails when the formatter
rewrote anything, so the commit is blocked until the changes are reviewed.`,
		Version: fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				opts.logLevel.Set(slog.LevelDebug)
			}
			opts.configErr = loadConfig(opts.cfgFile)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGate(cmd, opts)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "",
		"Configuration file path (default is $XDG_CONFIG_HOME/fmtgate/config.yaml)")
	pf.StringVarP(&opts.dir, "dir", "C", "", "Run as if fmtgate was started in this directory")
	pf.BoolVar(&opts.debug, "debug", false, "Log the commands fmtgate runs")

	f := root.Flags()
	f.BoolVar(&opts.all, "all", false, "Check every source file instead of only changed ones")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Print the files that will be checked")
	f.StringVar(&opts.baseRef, "base", "", "Upstream reference to diff against (default from config: origin/master)")
	f.StringSliceVar(&opts.extensions, "ext", nil, "Source file extensions to check (default from config: .py)")
	f.BoolVar(&opts.strict, "strict", false, "Fail when the changed files cannot be listed")
	f.BoolVar(&opts.noSpinner, "no-spinner", false, "Disable the progress spinner")

	root.AddCommand(
		newConfigCmd(opts),
		newHookCmd(opts),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root
}

func loadConfig(cfgFile string) error {
	viper.Reset()
	return config.InitConfig(cfgFile)
}

func (o *rootOptions) checkConfig() error {
	if o.configErr != nil {
		return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("configuration error: %w", o.configErr)}
	}
	return nil
}

func newLogger(cmd *cobra.Command, opts *rootOptions) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), opts.logLevel)
}

// workTree returns the repository root for opts.dir, or opts.dir itself when
// it is not inside a git work tree.
func workTree(cmd *cobra.Command, opts *rootOptions, logger *slog.Logger) (string, bool) {
	client := git.NewClient(git.Options{Dir: opts.dir, Verbose: opts.debug, Logger: logger})
	root, err := client.RepoRoot(cmd.Context())
	if err != nil {
		logger.Debug("not inside a git work tree", "err", err)
		return opts.dir, false
	}
	return root, true
}

// effectiveConfig merges the project file and command line flags over the
// loaded configuration.
func effectiveConfig(cmd *cobra.Command, opts *rootOptions, dir string) (*config.Config, error) {
	if dir == "" {
		dir = "."
	}
	if _, err := config.MergeProjectConfig(dir); err != nil {
		return nil, err
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base") {
		cfg.BaseRef = opts.baseRef
	}
	if flags.Changed("ext") {
		cfg.Extensions = opts.extensions
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if opts.noSpinner {
		cfg.Spinner = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGate(cmd *cobra.Command, opts *rootOptions) error {
	if err := opts.checkConfig(); err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := newLogger(cmd, opts)
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	root, inRepo := workTree(cmd, opts, logger)

	cfg, err := effectiveConfig(cmd, opts, root)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("configuration error: %w", err)}
	}

	var fs afero.Fs = afero.NewOsFs()
	if inRepo {
		// git reports paths relative to the repository root.
		fs = afero.NewBasePathFs(fs, root)
	}

	g := gate.NewGate(
		git.NewClient(git.Options{Dir: root, Verbose: opts.debug, Logger: logger}),
		newFormatter(cfg, root, opts, logger, out, errOut),
		gate.Config{
			BaseRef:    cfg.BaseRef,
			Extensions: cfg.Extensions,
			All:        opts.all,
			Verbose:    opts.verbose,
			Strict:     cfg.Strict,
			Spinner:    cfg.Spinner,
		},
		gate.Options{Fs: fs, Logger: logger, OutWriter: out, ErrWriter: errOut},
	)

	result, err := g.Run(ctx)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}
	if result == gate.Modified {
		return &ExitCodeError{Code: ExitModified}
	}
	return nil
}

func newFormatter(cfg *config.Config, dir string, opts *rootOptions, logger *slog.Logger, out, errOut io.Writer) *formatter.Autopep8 {
	return &formatter.Autopep8{
		Binary:    cfg.Formatter,
		Ignore:    cfg.Ignore,
		ExtraArgs: cfg.FormatterArgs,
		Runner: gitcmd.Runner{
			Verbose: opts.debug,
			Dir:     dir,
			Logger:  logger,
		},
		Stdout: out,
		Stderr: errOut,
	}
}
