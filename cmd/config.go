package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/samzong/fmtgate/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage fmtgate configuration",
		Long: `Manage fmtgate configuration.

Settings are read from the user configuration file, then from .fmtgate.yaml
at the repository root, then from FMTGATE_* environment variables.`,
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.checkConfig(); err != nil {
				return err
			}

			logger := newLogger(cmd, opts)
			root, _ := workTree(cmd, opts, logger)
			cfg, err := effectiveConfig(cmd, opts, root)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value in the user configuration file",
		Long: fmt.Sprintf(`Set a configuration value in the user configuration file.

Valid keys: %v
List values (extensions, ignore, formatter_args) are comma separated.`, config.Keys()),
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.checkConfig(); err != nil {
				return err
			}

			key, value := args[0], args[1]
			if err := config.SetConfigValue(key, value); err != nil {
				return err
			}
			if _, err := config.GetConfig(); err != nil {
				return err
			}
			if err := config.SaveConfig(key); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the user configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.ConfigFileUsed()
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	configCmd.AddCommand(getCmd, setCmd, pathCmd)
	return configCmd
}
