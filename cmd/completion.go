package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for fmtgate.

Add the following to your shell's rc file:

  # Bash (~/.bashrc)
  source <(fmtgate completion bash)

  # Zsh (~/.zshrc)
  source <(fmtgate completion zsh)

  # Fish (~/.config/fish/config.fish)
  fmtgate completion fish | source

  # PowerShell
  fmtgate completion powershell | Out-String | Invoke-Expression`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		DisableFlagsInUseLine: true,
		RunE:                  runCompletion,
	}
}

func runCompletion(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	out := cmd.OutOrStdout()
	switch args[0] {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	}
	return nil
}
