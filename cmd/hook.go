package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/samzong/fmtgate/internal/git"
	"github.com/samzong/fmtgate/internal/hook"
)

var (
	// isStdinTerminal reports whether hook install may prompt. It can be
	// overridden in tests.
	isStdinTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// confirmOverwrite asks before replacing a hook fmtgate did not write.
	confirmOverwrite = func(path string) (bool, error) {
		var overwrite bool
		err := huh.NewConfirm().
			Title("A pre-commit hook already exists. Overwrite it?").
			Description(path).
			Affirmative("Overwrite").
			Negative("Keep").
			Value(&overwrite).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return overwrite, err
	}
)

type hookOptions struct {
	binary  string
	all     bool
	verbose bool
	force   bool
}

func newHookCmd(opts *rootOptions) *cobra.Command {
	hopts := &hookOptions{}

	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the git pre-commit hook",
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install fmtgate as the repository's pre-commit hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := hooksDir(cmd, opts)
			if err != nil {
				return err
			}

			fsys := afero.NewOsFs()
			force, err := hopts.confirmForce(fsys, dir)
			if err != nil {
				return err
			}

			path, err := hook.Install(fsys, dir, hook.Script(hopts.scriptOptions()), force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed pre-commit hook: %s\n", path)
			return nil
		},
	}
	installCmd.Flags().BoolVar(&hopts.force, "force", false, "Overwrite an existing pre-commit hook")

	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the fmtgate pre-commit hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := hooksDir(cmd, opts)
			if err != nil {
				return err
			}

			path, err := hook.Uninstall(afero.NewOsFs(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed pre-commit hook: %s\n", path)
			return nil
		},
	}

	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the pre-commit hook script",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), hook.Script(hopts.scriptOptions()))
		},
	}

	for _, c := range []*cobra.Command{installCmd, printCmd} {
		c.Flags().StringVar(&hopts.binary, "binary", "fmtgate", "fmtgate executable the hook runs")
		c.Flags().BoolVar(&hopts.all, "all", false, "Make the hook check every source file")
		c.Flags().BoolVarP(&hopts.verbose, "verbose", "v", false, "Make the hook print the files it checks")
	}

	hookCmd.AddCommand(installCmd, uninstallCmd, printCmd)
	return hookCmd
}

func (h *hookOptions) scriptOptions() hook.ScriptOptions {
	return hook.ScriptOptions{Binary: h.binary, All: h.all, Verbose: h.verbose}
}

// confirmForce returns whether a foreign hook may be replaced: always with
// --force, after a prompt on a terminal, never otherwise.
func (h *hookOptions) confirmForce(fsys afero.Fs, dir string) (bool, error) {
	if h.force {
		return true, nil
	}
	foreign, err := hook.IsForeign(fsys, dir)
	if err != nil || !foreign || !isStdinTerminal() {
		return false, err
	}
	return confirmOverwrite(filepath.Join(dir, hook.Name))
}

func hooksDir(cmd *cobra.Command, opts *rootOptions) (string, error) {
	client := git.NewClient(git.Options{Dir: opts.dir, Verbose: opts.debug, Logger: newLogger(cmd, opts)})
	if err := client.CheckGitRepository(cmd.Context()); err != nil {
		return "", err
	}
	return client.HooksDir(cmd.Context())
}
