package cmd

import (
	"fmt"

	"github.com/bnema/teamrelay/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return err
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include commit and build date")

	return cmd
}
