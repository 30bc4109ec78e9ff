package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bnema/teamrelay/internal/adapters/claude"
	"github.com/bnema/teamrelay/internal/adapters/httpapi"
	"github.com/bnema/teamrelay/internal/adapters/tmux"
	"github.com/bnema/teamrelay/internal/application"
	"github.com/bnema/teamrelay/internal/domain"
	"github.com/spf13/cobra"
)

func newHookCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Send the worker's finished turn to the server (run as the Claude stop hook)",
		Long:  "hook reads the stop hook payload from stdin, extracts the last assistant reply from the transcript and posts it to the running server. Sessions outside the team are ignored.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHook(cmd, opts)
		},
	}

	cmd.AddCommand(newHookInstallCmd())

	return cmd
}

func runHook(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	input, err := claude.ParseStopHookInput(cmd.InOrStdin())
	if err != nil {
		return err
	}

	envWorker := os.Getenv(application.EnvWorker)
	var session string
	if envWorker == "" {
		session, err = tmux.NewClient(cfg.Tmux.Bin).CurrentSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("resolve worker session: %w", err)
		}
	}
	worker, err := claude.ResolveWorker(envWorker, session, cfg.Tmux.Prefix)
	if errors.Is(err, domain.ErrWorkerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	reply, err := claude.ReadTranscriptReply(input.TranscriptPath)
	if err != nil {
		return err
	}

	client := &httpapi.Client{BaseURL: cfg.BaseURL()}
	return client.PostResponse(cmd.Context(), worker.String(), reply)
}

func newHookInstallCmd() *cobra.Command {
	var (
		settingsPath string
		command      string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register the stop hook in the Claude settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := settingsPath
			if path == "" {
				var err error
				if path, err = claude.DefaultSettingsPath(); err != nil {
					return err
				}
			}

			result, err := claude.InstallStopHook(path, command)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.AlreadyInstalled {
				_, err = fmt.Fprintf(out, "stop hook already installed in %s\n", result.Path)
				return err
			}
			_, err = fmt.Fprintf(out, "installed stop hook %q in %s (%d other stop hooks kept)\n", command, result.Path, result.Preserved)
			return err
		},
	}

	cmd.Flags().StringVar(&settingsPath, "settings", "", "Claude settings file (default ~/.claude/settings.json)")
	cmd.Flags().StringVar(&command, "command", claude.HookCommand, "command the stop hook runs")

	return cmd
}
