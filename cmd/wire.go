package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/teamrelay/internal/adapters/httpapi"
	"github.com/bnema/teamrelay/internal/adapters/render/team"
	"github.com/bnema/teamrelay/internal/adapters/render/telegramhtml"
	statefile "github.com/bnema/teamrelay/internal/adapters/state/file"
	statesqlite "github.com/bnema/teamrelay/internal/adapters/state/sqlite"
	"github.com/bnema/teamrelay/internal/adapters/telegram"
	"github.com/bnema/teamrelay/internal/adapters/tmux"
	"github.com/bnema/teamrelay/internal/application"
	"github.com/bnema/teamrelay/internal/config"
	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
	"github.com/bnema/teamrelay/internal/tracing"
	"github.com/bnema/teamrelay/internal/version"
	"github.com/spf13/viper"
)

type app struct {
	logger       *slog.Logger
	tracing      *tracing.Provider
	core         *application.Core
	lifecycle    *application.Lifecycle
	notifier     *application.Notifier
	handler      *httpapi.Handler
	teamRenderer func(application.TeamStatus) (string, error)
	closeStore   func() error
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(viper.New(), opts.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", cfg.Level, err)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unsupported log.format %q (want text or json)", cfg.Format)
	}
}

// wireApp builds every service from cfg. The Telegram client is only wired
// when a bot token is configured.
func wireApp(ctx context.Context, cfg config.Config, stderr io.Writer) (*app, error) {
	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}

	provider, err := tracing.NewProvider(ctx, tracing.Config{
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		Writer:       stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("wire tracing: %w", err)
	}

	store, closeStore, err := openStateStore(cfg.State)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	opts := []application.Option{
		application.WithLogger(logger),
		application.WithTracer(provider.Tracer()),
	}

	mux := tmux.NewClient(cfg.Tmux.Bin)
	var messenger ports.Messenger
	if cfg.Telegram.Token != "" {
		messenger = &telegram.Client{BaseURL: cfg.Telegram.APIBaseURL, Token: cfg.Telegram.Token}
	}

	pending := application.NewPendingStore(store, ports.SystemClock{}, opts...)
	core := &application.Core{
		Mux:       mux,
		Messenger: messenger,
		Directory: application.NewDirectory(mux, cfg.Tmux.Prefix, cfg.Agent.ProcessMatch),
		Focus:     application.NewFocusState(),
		Pending:   pending,
		Typing:    application.NewTypingIndicator(messenger, pending, cfg.Typing.Interval, opts...),
		Locks:     application.NewLockTable(),
		Admin:     application.NewAdminGate(domain.ChatID(cfg.Telegram.AdminChatID)),
	}

	agent := application.DefaultAgentConfig()
	agent.Command = cfg.Agent.Command
	agent.Env = hookEnv(cfg)

	inbox := application.NewInbox(cfg.Media.InboxRoot)
	lifecycle := application.NewLifecycle(core, inbox, agent, opts...)
	relay := application.NewRelay(core, telegramhtml.Formatter{}, imageRoots(cfg), opts...)
	notifier := application.NewNotifier(core, opts...)
	router := application.NewRouter(core, lifecycle, inbox, application.Settings{
		Version:       version.Version,
		Token:         cfg.Telegram.Token,
		WebhookSecret: cfg.Telegram.WebhookSecret,
		SessionsDir:   cfg.State.SessionsDir,
		Prefix:        cfg.Tmux.Prefix,
		Backend:       cfg.State.Backend,
		Port:          cfg.Server.Port,
	}, opts...)

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Router:        router,
		Relay:         relay,
		Notifier:      notifier,
		WebhookSecret: cfg.Telegram.WebhookSecret,
		Version:       version.Version,
		Logger:        logger,
		Tracer:        provider.Tracer(),
	})

	return &app{
		logger:       logger,
		tracing:      provider,
		core:         core,
		lifecycle:    lifecycle,
		notifier:     notifier,
		handler:      handler,
		teamRenderer: team.Render,
		closeStore:   closeStore,
	}, nil
}

// Close stops background typing loops, flushes spans and closes the store.
func (a *app) Close(ctx context.Context) error {
	a.core.Typing.Stop()

	var errs []error
	if err := a.tracing.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
	}
	if err := a.closeStore(); err != nil {
		errs = append(errs, fmt.Errorf("close state store: %w", err))
	}
	return errors.Join(errs...)
}

func openStateStore(cfg config.StateConfig) (ports.StateStore, func() error, error) {
	if cfg.Backend == config.BackendSQLite {
		store, err := statesqlite.Open(cfg.SQLitePath, ports.SystemClock{})
		if err != nil {
			return nil, nil, fmt.Errorf("wire sqlite state store: %w", err)
		}
		return store, store.Close, nil
	}
	return statefile.NewStore(cfg.SessionsDir), func() error { return nil }, nil
}

// hookEnv is exported into every worker shell so the stop hook finds this
// server even when it runs with a different config.
func hookEnv(cfg config.Config) []application.EnvVar {
	return []application.EnvVar{
		{Key: config.EnvName(config.KeyServerPort), Value: strconv.Itoa(cfg.Server.Port)},
		{Key: config.EnvName(config.KeyTmuxPrefix), Value: cfg.Tmux.Prefix},
		{Key: config.EnvName(config.KeySessionsDir), Value: cfg.State.SessionsDir},
	}
}

// imageRoots are the directories workers may send images from.
func imageRoots(cfg config.Config) []string {
	roots := []string{cfg.Media.ScratchRoot, cfg.State.SessionsDir}
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}
	return roots
}
