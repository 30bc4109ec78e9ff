package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
	"github.com/bnema/teamrelay/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const ackReaction = "👀"

// InboundMessage is a chat message after transport decoding.
type InboundMessage struct {
	ChatID    domain.ChatID
	MessageID int64
	// Text holds the message text or the media caption.
	Text    string
	Image   *InboundImage
	ReplyTo *ReplyMessage
}

type InboundImage struct {
	FileID string
	Ext    string
}

type ReplyMessage struct {
	Text    string
	FromBot bool
}

// Router decides which worker receives each inbound message.
type Router struct {
	core      *Core
	lifecycle *Lifecycle
	inbox     *Inbox
	settings  Settings
	announced atomic.Bool
	instrumentation
}

func NewRouter(core *Core, lifecycle *Lifecycle, inbox *Inbox, settings Settings, opts ...Option) *Router {
	return &Router{
		core:            core,
		lifecycle:       lifecycle,
		inbox:           inbox,
		settings:        settings,
		instrumentation: newInstrumentation(opts),
	}
}

// Handle routes one message. Failures are reported to the chat; the returned
// error is for logging only.
func (r *Router) Handle(ctx context.Context, msg InboundMessage) error {
	ctx, span := r.tracer.Start(ctx, "router.handle",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int64(tracing.AttrChatID, int64(msg.ChatID))),
	)
	defer span.End()

	route, err := r.dispatch(ctx, msg)
	span.SetAttributes(attribute.String(tracing.AttrRoute, route))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	r.logger.Debug("message routed", "chat_id", msg.ChatID, "route", route)
	return err
}

func (r *Router) dispatch(ctx context.Context, msg InboundMessage) (string, error) {
	if msg.ChatID == 0 {
		return "ignored", nil
	}
	if !r.core.Admin.Admit(msg.ChatID) {
		r.logger.Info("rejected message from non-admin chat", "chat_id", msg.ChatID)
		return "rejected", nil
	}

	if msg.Image != nil {
		return "image", r.handleImage(ctx, msg)
	}

	text := msg.Text
	if strings.TrimSpace(text) == "" {
		return "ignored", nil
	}

	r.announce(ctx, msg.ChatID)

	if r.core.Focus.PendingRegistration() != "" && r.tryClaim(ctx, msg) {
		return "claim", nil
	}

	if cmd, ok := domain.ParseSlashCommand(text); ok {
		if handled, err := r.handleCommand(ctx, msg, cmd); handled {
			return "command", err
		}
	}

	if body, ok := domain.ParseBroadcast(text); ok {
		return "broadcast", r.broadcast(ctx, msg, body)
	}

	roster, err := r.core.Directory.Scan(ctx)
	if err != nil {
		r.reply(ctx, msg.ChatID, "Could not list your team. "+err.Error())
		return "error", err
	}

	var (
		replyContext string
		replyTarget  domain.Worker
		hasTarget    bool
	)
	if msg.ReplyTo != nil {
		replyContext = strings.TrimSpace(msg.ReplyTo.Text)
		if msg.ReplyTo.FromBot {
			if name, ok := domain.ParseWorkerPrefix(replyContext); ok {
				replyTarget, hasTarget = roster.Find(name)
			}
		}
	}

	// A bare "@name" only addresses the worker when it answers a quoted
	// message; the quote is then the whole payload.
	if name, rest, ok := domain.ParseMention(text); ok && (strings.TrimSpace(rest) != "" || replyContext != "") {
		if worker, found := roster.Find(name); found {
			body := rest
			if replyContext != "" {
				body = domain.FormatReplyContext(strings.TrimSpace(rest), replyContext)
			}
			return "mention", r.deliver(ctx, msg, worker, body)
		}
	}

	if replyContext != "" {
		body := domain.FormatReplyContext(strings.TrimSpace(text), replyContext)
		if hasTarget {
			return "reply", r.deliver(ctx, msg, replyTarget, body)
		}
		return "focus", r.routeToFocus(ctx, msg, body)
	}

	return "focus", r.routeToFocus(ctx, msg, text)
}

func (r *Router) announce(ctx context.Context, chat domain.ChatID) {
	if !r.announced.CompareAndSwap(false, true) {
		return
	}
	roster, active, err := r.lifecycle.ResolveFocus(ctx)
	if err != nil {
		r.logger.Warn("scan team for startup message", "error", err)
	}
	r.reply(ctx, chat, formatStartup(roster, active))
}

type claimPayload struct {
	Name *string `json:"name"`
}

// tryClaim reports whether msg was consumed as a claim. Anything that is not
// a claim payload, or names an unusable worker, falls through.
func (r *Router) tryClaim(ctx context.Context, msg InboundMessage) bool {
	var payload claimPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(msg.Text)), &payload); err != nil || payload.Name == nil {
		return false
	}

	name, err := r.lifecycle.Claim(ctx, *payload.Name, msg.ChatID)
	switch {
	case err == nil:
		r.reply(ctx, msg.ChatID, fmt.Sprintf("%s is now on your team and assigned.", name))
		return true
	case errors.Is(err, domain.ErrInvalidName):
		r.reply(ctx, msg.ChatID, textInvalidName)
		return false
	case errors.Is(err, domain.ErrReservedName):
		r.reply(ctx, msg.ChatID, textReserved(name))
		return false
	case errors.Is(err, domain.ErrWorkerExists):
		r.reply(ctx, msg.ChatID, fmt.Sprintf("Worker name %q is already on the team. Choose another.", name.String()))
		return false
	case errors.Is(err, domain.ErrNoPendingClaim):
		return false
	default:
		r.logger.Warn("claim worker", "worker", name, "error", err)
		r.reply(ctx, msg.ChatID, "Could not claim that worker. "+err.Error())
		return true
	}
}

func (r *Router) handleCommand(ctx context.Context, msg InboundMessage, cmd domain.SlashCommand) (bool, error) {
	if kind, ok := cmd.Kind(); ok {
		return true, r.runCommand(ctx, msg, kind, cmd.Arg)
	}
	if cmd.Blocked() {
		r.reply(ctx, msg.ChatID, textBlocked(cmd.Name))
		return true, nil
	}
	return r.workerShortcut(ctx, msg, cmd)
}

// workerShortcut handles "/<worker> [message]": it focuses the worker and
// delivers the rest of the line.
func (r *Router) workerShortcut(ctx context.Context, msg InboundMessage, cmd domain.SlashCommand) (bool, error) {
	name := domain.WorkerName(cmd.Name)
	if !name.Valid() {
		return false, nil
	}
	roster, err := r.core.Directory.Scan(ctx)
	if err != nil {
		return false, err
	}
	worker, ok := roster.Find(name)
	if !ok {
		return false, nil
	}

	var previous domain.WorkerName
	_ = r.core.Focus.WithLock(func(tx FocusTx) error {
		previous = tx.Active()
		tx.SetActive(name)
		return nil
	})

	if cmd.Arg == "" {
		r.reply(ctx, msg.ChatID, textNowTalking(name))
		return true, nil
	}
	if previous != name {
		r.reply(ctx, msg.ChatID, textNowTalking(name))
	}
	return true, r.deliver(ctx, msg, worker, cmd.Arg)
}

func (r *Router) runCommand(ctx context.Context, msg InboundMessage, kind domain.CommandKind, arg string) error {
	chat := msg.ChatID

	switch kind {
	case domain.CommandTeam:
		status, err := r.lifecycle.Team(ctx)
		if err != nil {
			r.reply(ctx, chat, "Could not list your team. "+err.Error())
			return err
		}
		r.reply(ctx, chat, FormatTeam(status))

	case domain.CommandFocus:
		if arg == "" {
			r.reply(ctx, chat, "Usage: /focus <name>")
			return nil
		}
		name, err := r.lifecycle.Focus(ctx, arg)
		if err != nil {
			r.reply(ctx, chat, fmt.Sprintf("Could not focus %q. %s", name.String(), describe(name, err)))
			return nil
		}
		r.reply(ctx, chat, textNowTalking(name))

	case domain.CommandProgress:
		report, err := r.lifecycle.Progress(ctx)
		if errors.Is(err, domain.ErrNoFocus) {
			r.reply(ctx, chat, "No one assigned. Who should I talk to? Use /team or /focus <name>.")
			return nil
		}
		if err != nil {
			r.reply(ctx, chat, "Can't find them. Check /team for who's available.")
			return err
		}
		r.reply(ctx, chat, FormatProgress(report))

	case domain.CommandLearn:
		return r.learn(ctx, msg, arg)

	case domain.CommandPause:
		name, err := r.lifecycle.Pause(ctx)
		if errors.Is(err, domain.ErrNoFocus) {
			r.reply(ctx, chat, textNoOneAssigned)
			return nil
		}
		if err != nil {
			r.reply(ctx, chat, fmt.Sprintf("Could not pause %q. %s", name.String(), err))
			return err
		}
		r.reply(ctx, chat, fmt.Sprintf("%s is paused. I'll pick up where we left off.", name))

	case domain.CommandRelaunch:
		name, err := r.lifecycle.Relaunch(ctx)
		if errors.Is(err, domain.ErrNoFocus) {
			r.reply(ctx, chat, textNoOneAssigned)
			return nil
		}
		if err != nil {
			r.reply(ctx, chat, fmt.Sprintf("Could not relaunch %q. %s", name.String(), describe(name, err)))
			return nil
		}
		r.reply(ctx, chat, fmt.Sprintf("Bringing %s back online...", name))

	case domain.CommandSettings:
		roster, active, err := r.lifecycle.ResolveFocus(ctx)
		if err != nil {
			r.logger.Warn("scan team for settings", "error", err)
		}
		admin, _ := r.core.Admin.Chat()
		r.reply(ctx, chat, FormatSettings(r.settings, admin, active, roster.Names(), r.core.Focus.PendingRegistration()))

	case domain.CommandHire:
		if arg == "" {
			r.reply(ctx, chat, "Usage: /hire <name>")
			return nil
		}
		name, err := r.lifecycle.Hire(ctx, arg, chat)
		switch {
		case errors.Is(err, domain.ErrInvalidName):
			r.reply(ctx, chat, textInvalidName)
		case errors.Is(err, domain.ErrReservedName):
			r.reply(ctx, chat, textReserved(name))
		case errors.Is(err, domain.ErrWorkerExists):
			r.reply(ctx, chat, fmt.Sprintf("Could not hire %q. %s", name.String(), describe(name, err)))
		case err != nil:
			r.logger.Warn("hire worker", "worker", name, "error", err)
			r.reply(ctx, chat, fmt.Sprintf("Could not hire %q. Could not start the worker workspace", name.String()))
		default:
			r.reply(ctx, chat, fmt.Sprintf("%s is added and assigned. %s", name, persistenceNote))
		}

	case domain.CommandEnd:
		if arg == "" {
			r.reply(ctx, chat, "Offboarding is permanent. Usage: /end <name>")
			return nil
		}
		name, err := r.lifecycle.End(ctx, arg)
		if err != nil {
			r.reply(ctx, chat, fmt.Sprintf("Could not offboard %q. %s", name.String(), describe(name, err)))
			return nil
		}
		r.reply(ctx, chat, fmt.Sprintf("%s removed from your team.", name))
	}

	return nil
}

func (r *Router) learn(ctx context.Context, msg InboundMessage, topic string) error {
	worker, _, err := r.lifecycle.FocusedWorker(ctx)
	if errors.Is(err, domain.ErrNoFocus) {
		r.reply(ctx, msg.ChatID, "No one assigned. Who should I talk to?")
		return nil
	}
	if err != nil {
		r.reply(ctx, msg.ChatID, "Can't find them. Check /team.")
		return err
	}
	if !r.core.Directory.Alive(ctx, worker) || !r.core.Directory.AgentRunning(ctx, worker) {
		r.reply(ctx, msg.ChatID, textOffline(worker.Name))
		return nil
	}
	return r.deliver(ctx, msg, worker, domain.LearnPrompt(strings.TrimSpace(topic)))
}

// broadcast delivers body to every live worker, each under its own lock and
// pending marker.
func (r *Router) broadcast(ctx context.Context, msg InboundMessage, body string) error {
	roster, err := r.core.Directory.Scan(ctx)
	if err != nil {
		r.reply(ctx, msg.ChatID, "Could not list your team. "+err.Error())
		return err
	}
	if len(roster.Workers) == 0 {
		r.reply(ctx, msg.ChatID, textNoTeam)
		return nil
	}

	var (
		sent int
		errs []error
	)
	for _, worker := range roster.Workers {
		if !r.core.Directory.Alive(ctx, worker) || !r.core.Directory.AgentRunning(ctx, worker) {
			continue
		}
		if err := r.deliver(ctx, msg, worker, body); err != nil {
			errs = append(errs, err)
		}
		sent++
	}
	if sent == 0 {
		r.reply(ctx, msg.ChatID, textNoOneOnline)
	}
	return errors.Join(errs...)
}

// routeToFocus delivers text to the focused worker. Without one it offers an
// unclaimed session for claiming or asks who to talk to.
func (r *Router) routeToFocus(ctx context.Context, msg InboundMessage, text string) error {
	roster, active, err := r.lifecycle.ResolveFocus(ctx)
	if err != nil {
		r.reply(ctx, msg.ChatID, "Could not list your team. "+err.Error())
		return err
	}

	if active != "" {
		worker, _ := roster.Find(active)
		return r.deliver(ctx, msg, worker, text)
	}

	switch {
	case len(roster.Unclaimed) > 0:
		_ = r.core.Focus.WithLock(func(tx FocusTx) error {
			tx.SetPendingRegistration(roster.Unclaimed[0])
			return nil
		})
		r.reply(ctx, msg.ChatID, textClaimPrompt)
	case len(roster.Workers) > 0:
		r.reply(ctx, msg.ChatID, textNoOneAssignedTeam(roster.Names()))
	default:
		r.reply(ctx, msg.ChatID, textNoTeam)
	}
	return nil
}

func (r *Router) handleImage(ctx context.Context, msg InboundMessage) error {
	roster, active, err := r.lifecycle.ResolveFocus(ctx)
	if err != nil {
		r.reply(ctx, msg.ChatID, "Could not list your team. "+err.Error())
		return err
	}
	if active == "" {
		r.reply(ctx, msg.ChatID, textImageNoFocus)
		return nil
	}

	dest, err := r.inbox.PathFor(active, msg.Image.Ext)
	if err == nil {
		err = r.core.Messenger.DownloadFile(ctx, msg.Image.FileID, dest, domain.MaxImageSize)
	}
	if err != nil {
		r.logger.Warn("download inbound image", "worker", active, "error", err)
		r.reply(ctx, msg.ChatID, textImageDownload)
		return err
	}

	worker, _ := roster.Find(active)
	return r.deliver(ctx, msg, worker, domain.ImageReceivedPrompt(strings.TrimSpace(msg.Text), dest))
}

// deliver types text into the worker's pane and acknowledges the message.
func (r *Router) deliver(ctx context.Context, msg InboundMessage, worker domain.Worker, text string) error {
	ctx, span := r.tracer.Start(ctx, "router.deliver",
		trace.WithAttributes(attribute.String(tracing.AttrWorker, worker.Name.String())),
	)
	defer span.End()

	if !r.core.Directory.Alive(ctx, worker) {
		r.reply(ctx, msg.ChatID, textOffline(worker.Name))
		return nil
	}

	_ = r.core.Pending.Mark(ctx, worker.Name, msg.ChatID)
	r.core.Typing.Start(ctx, msg.ChatID, worker.Name)

	if err := r.core.SendLine(ctx, worker, text); err != nil {
		r.core.Settle(ctx, worker.Name)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Warn("deliver message", "worker", worker.Name, "chat_id", msg.ChatID, "error", err)
		r.reply(ctx, msg.ChatID, fmt.Sprintf("Could not reach %s. %s", worker.Name, err))
		return err
	}
	r.logger.Info("message delivered", "worker", worker.Name, "chat_id", msg.ChatID, "chars", len(text))

	if msg.MessageID != 0 {
		if err := r.core.Messenger.SetReaction(ctx, msg.ChatID, msg.MessageID, ackReaction); err != nil {
			r.logger.Debug("acknowledge message", "chat_id", msg.ChatID, "error", err)
		}
	}
	return nil
}

func (r *Router) reply(ctx context.Context, chat domain.ChatID, text string) {
	if err := r.core.Messenger.SendMessage(ctx, chat, text, ports.ParseModePlain); err != nil {
		r.logger.Warn("send reply", "chat_id", chat, "error", err)
	}
}

// describe turns lifecycle errors into the sentence shown after "Could not
// <verb> "<name>".".
func describe(name domain.WorkerName, err error) string {
	switch {
	case errors.Is(err, domain.ErrWorkerNotFound):
		return fmt.Sprintf("Worker '%s' not found", name)
	case errors.Is(err, domain.ErrWorkerExists):
		return fmt.Sprintf("Worker '%s' already exists", name)
	case errors.Is(err, domain.ErrNotRunning):
		return "Worker workspace is not running"
	case errors.Is(err, domain.ErrAgentRunning):
		return "Worker is already running"
	default:
		return err.Error()
	}
}
