package cmd

import "github.com/spf13/cobra"

type rootOptions struct {
	configPath string
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "teamrelay",
		Short:         "teamrelay: run a team of Claude workers from Telegram",
		Long:          "teamrelay relays a Telegram chat to named Claude workers running in tmux sessions, tracks who is busy, and sends their replies back to the chat.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/teamrelay/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(opts),
		newHookCmd(opts),
		newNotifyCmd(opts),
		newTeamCmd(opts),
		newHireCmd(opts),
		newEndCmd(opts),
		newConfigCmd(opts),
		newWebhookCmd(opts),
	)

	return rootCmd
}
