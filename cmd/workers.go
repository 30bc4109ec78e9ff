package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bnema/teamrelay/internal/config"
	"github.com/bnema/teamrelay/internal/domain"
	"github.com/spf13/cobra"
)

// withApp loads the config, wires the services, runs fn and closes them.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	return withConfiguredApp(cmd, cfg, fn)
}

func withConfiguredApp(cmd *cobra.Command, cfg config.Config, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	a, err := wireApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(ctx, a)
}

func newTeamCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "team",
		Aliases: []string{"list"},
		Short:   "Show registered workers and unclaimed Claude sessions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				status, err := a.lifecycle.Team(ctx)
				if err != nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(status)
				}

				rendered, err := a.teamRenderer(status)
				if err != nil {
					return fmt.Errorf("render team: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newHireCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hire <name>",
		Short: "Start a new worker session running Claude",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := domain.ValidateNewName(args[0])
			if err != nil {
				return fmt.Errorf("hire %q: %w", name.String(), err)
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				err := runHireSpinner(ctx, cmd.ErrOrStderr(), name, func(ctx context.Context) error {
					_, err := a.lifecycle.Hire(ctx, name.String(), 0)
					return err
				})
				if err != nil {
					return err
				}
				return printf(cmd.OutOrStdout(), "%s is added in session %s.\n", name, a.core.Directory.SessionFor(name))
			})
		},
	}
}

func newEndCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "end <name>",
		Aliases: []string{"kill"},
		Short:   "Offboard a worker and kill its session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				name, err := a.lifecycle.End(ctx, args[0])
				if err != nil {
					return err
				}
				return printf(cmd.OutOrStdout(), "%s removed from your team.\n", name)
			})
		},
	}
}

func printf(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
