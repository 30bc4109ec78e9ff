package cmd

import (
	"strings"

	"github.com/bnema/teamrelay/internal/adapters/httpapi"
	"github.com/spf13/cobra"
)

func newNotifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "notify <text>",
		Short: "Send a notice to every chat through the running server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			client := &httpapi.Client{BaseURL: cfg.BaseURL()}
			resp, err := client.Notify(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printf(cmd.OutOrStdout(), "sent to %d of %d chats\n", resp.Sent, resp.Total)
		},
	}
}
