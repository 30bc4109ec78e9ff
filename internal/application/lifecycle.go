package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bnema/teamrelay/internal/domain"
)

const (
	DefaultAgentCommand = "claude --dangerously-skip-permissions"
	keyEscape           = "Escape"
)

type EnvVar struct {
	Key   string
	Value string
}

// AgentConfig describes how a worker's agent is started inside its session.
type AgentConfig struct {
	Command string
	// Env is exported in the session shell before the agent starts so the
	// stop hook can find the server.
	Env    []EnvVar
	Width  int
	Height int
	// AcceptKeys answer the agent's startup confirmation.
	AcceptKeys []string

	SessionDelay time.Duration
	EnvDelay     time.Duration
	AcceptDelay  time.Duration
	KeyDelay     time.Duration
	WelcomeDelay time.Duration
}

func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Command:      DefaultAgentCommand,
		Width:        200,
		Height:       50,
		AcceptKeys:   []string{"2", keyEnter},
		SessionDelay: 500 * time.Millisecond,
		EnvDelay:     300 * time.Millisecond,
		AcceptDelay:  1500 * time.Millisecond,
		KeyDelay:     300 * time.Millisecond,
		WelcomeDelay: 2 * time.Second,
	}
}

// MemberStatus is one registered worker as seen by /team.
type MemberStatus struct {
	Worker       domain.Worker
	Focused      bool
	Working      bool
	Online       bool
	AgentRunning bool
}

type TeamStatus struct {
	Focused   domain.WorkerName
	Members   []MemberStatus
	Unclaimed []string
}

type ProgressReport struct {
	Name    domain.WorkerName
	Working bool
	Online  bool
	Ready   bool
}

// Lifecycle hires, claims, focuses and offboards workers.
type Lifecycle struct {
	core  *Core
	inbox *Inbox
	agent AgentConfig
	sleep func(ctx context.Context, d time.Duration) error
	instrumentation
}

func NewLifecycle(core *Core, inbox *Inbox, agent AgentConfig, opts ...Option) *Lifecycle {
	if agent.Command == "" {
		agent.Command = DefaultAgentCommand
	}
	return &Lifecycle{
		core:            core,
		inbox:           inbox,
		agent:           agent,
		sleep:           sleepContext,
		instrumentation: newInstrumentation(opts),
	}
}

// Hire creates a session for a new worker, starts its agent and focuses it.
// Invalid or reserved names fail before anything is created.
func (l *Lifecycle) Hire(ctx context.Context, raw string, chat domain.ChatID) (domain.WorkerName, error) {
	name, err := domain.ValidateNewName(raw)
	if err != nil {
		return name, err
	}

	worker := domain.Worker{Name: name, Session: l.core.Directory.SessionFor(name)}
	if l.core.Mux.HasSession(ctx, worker.Session) {
		return name, fmt.Errorf("hire %s: %w", name, domain.ErrWorkerExists)
	}

	if err := l.core.Mux.NewSession(ctx, worker.Session, l.agent.Width, l.agent.Height); err != nil {
		return name, fmt.Errorf("hire %s: %w", name, err)
	}
	l.logger.Info("worker session created", "worker", name, "session", worker.Session)

	if err := l.startAgent(ctx, worker, true); err != nil {
		return name, fmt.Errorf("hire %s: %w", name, err)
	}

	if err := l.sleep(ctx, l.agent.WelcomeDelay); err != nil {
		return name, err
	}
	if err := l.core.SendLine(ctx, worker, domain.WelcomeMessage); err != nil {
		return name, fmt.Errorf("hire %s: %w", name, err)
	}

	_ = l.core.Focus.WithLock(func(tx FocusTx) error {
		tx.SetActive(name)
		return nil
	})
	l.core.Pending.RememberChat(ctx, name, chat)
	l.refreshCommands(ctx)

	return name, nil
}

// Claim renames the session offered for claiming to the worker naming
// convention. Validation errors leave the offer in place.
func (l *Lifecycle) Claim(ctx context.Context, raw string, chat domain.ChatID) (domain.WorkerName, error) {
	name, err := domain.ValidateNewName(raw)
	if err != nil {
		return name, err
	}

	roster, err := l.core.Directory.Scan(ctx)
	if err != nil {
		return name, err
	}
	if roster.Has(name) {
		return name, fmt.Errorf("claim %s: %w", name, domain.ErrWorkerExists)
	}

	worker := domain.Worker{Name: name, Session: l.core.Directory.SessionFor(name)}
	err = l.core.Focus.WithLock(func(tx FocusTx) error {
		session := tx.PendingRegistration()
		if session == "" {
			return domain.ErrNoPendingClaim
		}
		// The offered session may have been killed or claimed since it was
		// offered. Drop the offer so the message routes normally.
		if !slices.Contains(roster.Unclaimed, session) {
			l.logger.Info("withdraw claim offer for vanished session", "session", session)
			tx.SetPendingRegistration("")
			return fmt.Errorf("claim %s: %w", session, domain.ErrNoPendingClaim)
		}
		if err := l.core.Mux.RenameSession(ctx, session, worker.Session); err != nil {
			if !l.core.Mux.HasSession(ctx, session) {
				l.logger.Info("withdraw claim offer for vanished session", "session", session, "error", err)
				tx.SetPendingRegistration("")
				return fmt.Errorf("claim %s: %w", session, domain.ErrNoPendingClaim)
			}
			return fmt.Errorf("claim %s: %w", session, err)
		}
		tx.SetActive(name)
		tx.SetPendingRegistration("")
		return nil
	})
	if err != nil {
		return name, err
	}
	l.logger.Info("worker claimed", "worker", name, "session", worker.Session)

	if err := l.exportEnv(ctx, worker); err != nil {
		l.logger.Warn("export hook environment", "worker", name, "error", err)
	}
	l.core.Pending.RememberChat(ctx, name, chat)
	l.refreshCommands(ctx)

	return name, nil
}

func (l *Lifecycle) Focus(ctx context.Context, raw string) (domain.WorkerName, error) {
	name := domain.SanitizeName(strings.TrimSpace(raw))
	if _, err := l.core.Directory.Find(ctx, name); err != nil {
		return name, err
	}

	_ = l.core.Focus.WithLock(func(tx FocusTx) error {
		tx.SetActive(name)
		return nil
	})
	return name, nil
}

// End kills the worker's session and drops its pending state and inbox.
func (l *Lifecycle) End(ctx context.Context, raw string) (domain.WorkerName, error) {
	name := domain.SanitizeName(strings.TrimSpace(raw))
	worker, err := l.core.Directory.Find(ctx, name)
	if err != nil {
		return name, err
	}

	if err := l.core.Mux.KillSession(ctx, worker.Session); err != nil {
		return name, fmt.Errorf("end %s: %w", name, err)
	}
	l.core.Settle(ctx, name)
	if l.inbox != nil {
		if err := l.inbox.Remove(name); err != nil {
			l.logger.Warn("remove inbox", "worker", name, "error", err)
		}
	}

	_ = l.core.Focus.WithLock(func(tx FocusTx) error {
		if tx.Active() == name {
			tx.SetActive("")
		}
		return nil
	})
	l.logger.Info("worker ended", "worker", name)
	l.refreshCommands(ctx)

	return name, nil
}

// Relaunch restarts the agent inside the focused worker's existing session.
func (l *Lifecycle) Relaunch(ctx context.Context) (domain.WorkerName, error) {
	worker, _, err := l.FocusedWorker(ctx)
	if err != nil {
		return worker.Name, err
	}
	if !l.core.Directory.Alive(ctx, worker) {
		return worker.Name, domain.ErrNotRunning
	}
	if l.core.Directory.AgentRunning(ctx, worker) {
		return worker.Name, domain.ErrAgentRunning
	}

	if err := l.startAgent(ctx, worker, false); err != nil {
		return worker.Name, fmt.Errorf("relaunch %s: %w", worker.Name, err)
	}
	return worker.Name, nil
}

// Pause interrupts the focused worker and forgets its pending delivery.
func (l *Lifecycle) Pause(ctx context.Context) (domain.WorkerName, error) {
	worker, _, err := l.FocusedWorker(ctx)
	if err != nil {
		return worker.Name, err
	}

	if err := l.core.SendKey(ctx, worker, keyEscape); err != nil {
		return worker.Name, err
	}
	l.core.Settle(ctx, worker.Name)
	return worker.Name, nil
}

func (l *Lifecycle) Progress(ctx context.Context) (ProgressReport, error) {
	worker, _, err := l.FocusedWorker(ctx)
	if err != nil {
		return ProgressReport{Name: worker.Name}, err
	}

	report := ProgressReport{
		Name:    worker.Name,
		Working: l.core.Pending.IsPending(ctx, worker.Name),
		Online:  l.core.Directory.Alive(ctx, worker),
	}
	if report.Online {
		report.Ready = l.core.Directory.AgentRunning(ctx, worker)
	}
	return report, nil
}

func (l *Lifecycle) Team(ctx context.Context) (TeamStatus, error) {
	roster, active, err := l.ResolveFocus(ctx)
	if err != nil {
		return TeamStatus{}, err
	}

	status := TeamStatus{Focused: active, Unclaimed: roster.Unclaimed}
	for _, worker := range roster.Workers {
		member := MemberStatus{
			Worker:  worker,
			Focused: worker.Name == active,
			Working: l.core.Pending.IsPending(ctx, worker.Name),
			Online:  l.core.Directory.Alive(ctx, worker),
		}
		if member.Online {
			member.AgentRunning = l.core.Directory.AgentRunning(ctx, worker)
		}
		status.Members = append(status.Members, member)
	}
	return status, nil
}

// ResolveFocus scans the team and clears the focus if that worker is gone.
func (l *Lifecycle) ResolveFocus(ctx context.Context) (Roster, domain.WorkerName, error) {
	roster, err := l.core.Directory.Scan(ctx)
	if err != nil {
		return Roster{}, "", err
	}

	var active domain.WorkerName
	_ = l.core.Focus.WithLock(func(tx FocusTx) error {
		if current := tx.Active(); current != "" && !roster.Has(current) {
			l.logger.Info("focused worker disappeared", "worker", current)
			tx.SetActive("")
		}
		active = tx.Active()
		return nil
	})
	return roster, active, nil
}

func (l *Lifecycle) FocusedWorker(ctx context.Context) (domain.Worker, Roster, error) {
	roster, active, err := l.ResolveFocus(ctx)
	if err != nil {
		return domain.Worker{}, roster, err
	}
	if active == "" {
		return domain.Worker{}, roster, domain.ErrNoFocus
	}
	worker, _ := roster.Find(active)
	return worker, roster, nil
}

// FocusFirst focuses the first registered worker when nothing is focused.
func (l *Lifecycle) FocusFirst(ctx context.Context) (domain.WorkerName, error) {
	roster, err := l.core.Directory.Scan(ctx)
	if err != nil {
		return "", err
	}

	var active domain.WorkerName
	_ = l.core.Focus.WithLock(func(tx FocusTx) error {
		if tx.Active() == "" && len(roster.Workers) > 0 {
			tx.SetActive(roster.Workers[0].Name)
		}
		active = tx.Active()
		return nil
	})
	return active, nil
}

// RefreshCommands publishes the fixed bot commands plus one shortcut per
// worker.
func (l *Lifecycle) RefreshCommands(ctx context.Context) error {
	if l.core.Messenger == nil {
		return nil
	}

	roster, err := l.core.Directory.Scan(ctx)
	if err != nil {
		return err
	}

	commands := append([]domain.BotCommand(nil), domain.BotCommands...)
	for _, name := range roster.Names() {
		commands = append(commands, domain.BotCommand{Command: name.String(), Description: "Message " + name.String()})
	}
	if err := l.core.Messenger.SetCommands(ctx, commands); err != nil {
		return fmt.Errorf("set bot commands: %w", err)
	}
	return nil
}

func (l *Lifecycle) refreshCommands(ctx context.Context) {
	if err := l.RefreshCommands(ctx); err != nil {
		l.logger.Warn("refresh bot commands", "error", err)
	}
}

func (l *Lifecycle) startAgent(ctx context.Context, worker domain.Worker, fresh bool) error {
	if fresh {
		if err := l.sleep(ctx, l.agent.SessionDelay); err != nil {
			return err
		}
	}
	if err := l.exportEnv(ctx, worker); err != nil {
		return err
	}
	if err := l.sleep(ctx, l.agent.EnvDelay); err != nil {
		return err
	}
	if err := l.core.SendLine(ctx, worker, l.agent.Command); err != nil {
		return err
	}
	if !fresh || len(l.agent.AcceptKeys) == 0 {
		return nil
	}

	if err := l.sleep(ctx, l.agent.AcceptDelay); err != nil {
		return err
	}
	for i, key := range l.agent.AcceptKeys {
		if i > 0 {
			if err := l.sleep(ctx, l.agent.KeyDelay); err != nil {
				return err
			}
		}
		if err := l.core.SendKey(ctx, worker, key); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lifecycle) exportEnv(ctx context.Context, worker domain.Worker) error {
	env := append(append([]EnvVar(nil), l.agent.Env...), EnvVar{Key: EnvWorker, Value: worker.Name.String()})
	return l.core.SendLine(ctx, worker, ExportLine(env))
}

// EnvWorker carries the worker name into the stop hook.
const EnvWorker = "TEAMRELAY_WORKER"

// ExportLine renders a POSIX shell export statement with single-quoted values.
func ExportLine(env []EnvVar) string {
	parts := make([]string, 0, len(env))
	for _, v := range env {
		parts = append(parts, v.Key+"="+shellQuote(v.Value))
	}
	return "export " + strings.Join(parts, " ")
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsValidationError reports errors caused by the name the manager chose.
func IsValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrReservedName) ||
		errors.Is(err, domain.ErrWorkerExists)
}
