package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/teamrelay/internal/adapters/httpapi"
	"github.com/bnema/teamrelay/internal/application"
	"github.com/bnema/teamrelay/internal/version"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server that relays chat to your workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := wireApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			a.logger.Warn("close services", "error", err)
		}
	}()

	server, err := httpapi.Listen(cfg.Addr(), a.handler)
	if err != nil {
		return err
	}

	if name, err := a.lifecycle.FocusFirst(ctx); err != nil {
		a.logger.Warn("focus first worker", "error", err)
	} else if name != "" {
		a.logger.Info("focused worker", "worker", name)
	}
	if err := a.lifecycle.RefreshCommands(ctx); err != nil {
		a.logger.Warn("refresh bot commands", "error", err)
	}

	a.logger.Info("teamrelay listening",
		"addr", server.Addr(),
		"version", version.Version,
		"backend", cfg.State.Backend,
		"prefix", cfg.Tmux.Prefix,
		"sessions_dir", cfg.State.SessionsDir,
		"webhook_secret", cfg.Telegram.WebhookSecret != "",
	)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if sent, total, err := a.notifier.Broadcast(shutdownCtx, application.ShutdownNotice); err != nil {
		a.logger.Warn("send shutdown notice", "sent", sent, "total", total, "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return <-errCh
}
