package cmd

import (
	"fmt"
	"net/url"

	"github.com/bnema/teamrelay/internal/adapters/telegram"
	"github.com/spf13/cobra"
)

func newWebhookCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}

	cmd.AddCommand(newWebhookSetCmd(opts))

	return cmd
}

func newWebhookSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <url>",
		Short: "Point the bot's webhook at a public URL of this server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			webhookURL, err := url.Parse(args[0])
			if err != nil || webhookURL.Scheme != "https" || webhookURL.Host == "" {
				return fmt.Errorf("webhook url %q must be an absolute https URL", args[0])
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := cfg.RequireToken(); err != nil {
				return err
			}

			bot := &telegram.Client{BaseURL: cfg.Telegram.APIBaseURL, Token: cfg.Telegram.Token}
			if err := bot.SetWebhook(cmd.Context(), webhookURL.String(), cfg.Telegram.WebhookSecret); err != nil {
				return err
			}

			verification := "without secret verification"
			if cfg.Telegram.WebhookSecret != "" {
				verification = "with secret verification"
			}
			return printf(cmd.OutOrStdout(), "webhook set to %s %s\n", webhookURL, verification)
		},
	}
}
