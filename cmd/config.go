package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/teamrelay/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the config file",
	}

	cmd.AddCommand(
		newConfigInitCmd(opts),
		newConfigShowCmd(opts),
	)

	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var (
		force bool
		token string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}

			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home directory: %w", err)
			}

			cfg := config.Defaults(homeDir)
			cfg.Telegram.Token = token
			if err := config.WriteFile(path, cfg, force); err != nil {
				return err
			}
			return printf(cmd.OutOrStdout(), "wrote %s\n", path)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&token, "token", "", "Telegram bot token to store")

	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			source := cfg.Path
			if source == "" {
				source = "(defaults and environment)"
			}
			data, err := config.Marshal(cfg.Redacted())
			if err != nil {
				return err
			}
			return printf(cmd.OutOrStdout(), "# source: %s\n%s", source, data)
		},
	}
}
