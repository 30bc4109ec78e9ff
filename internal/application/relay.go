package application

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
	"github.com/bnema/teamrelay/internal/tracing"
	"github.com/charmbracelet/x/ansi"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// First split size for worker text. Rendered chunks that still exceed the
// message limit are split further.
const relayChunkLength = 3500

// AgentReply is the payload a worker's stop hook posts back.
type AgentReply struct {
	Worker string
	Text   string
}

// Relay forwards worker output to the chat that owns the worker.
type Relay struct {
	core      *Core
	formatter ports.Formatter
	roots     []string
	instrumentation
}

// NewRelay builds a relay that only sends images located under one of roots.
func NewRelay(core *Core, formatter ports.Formatter, roots []string, opts ...Option) *Relay {
	if formatter == nil {
		formatter = escapeFormatter{}
	}
	return &Relay{
		core:            core,
		formatter:       formatter,
		roots:           roots,
		instrumentation: newInstrumentation(opts),
	}
}

func (r *Relay) Handle(ctx context.Context, reply AgentReply) error {
	ctx, span := r.tracer.Start(ctx, "relay.handle",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String(tracing.AttrWorker, reply.Worker)),
	)
	defer span.End()

	err := r.handle(ctx, reply, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}

func (r *Relay) handle(ctx context.Context, reply AgentReply, span trace.Span) error {
	worker := domain.WorkerName(strings.TrimSpace(reply.Worker))
	if !worker.Valid() {
		return fmt.Errorf("relay for %q: %w", reply.Worker, domain.ErrInvalidName)
	}
	defer r.core.Settle(ctx, worker)

	chat, ok := r.core.Pending.ChatFor(ctx, worker)
	if !ok {
		r.logger.Info("drop reply without chat record", "worker", worker)
		return fmt.Errorf("relay for %s: %w", worker, domain.ErrNoChatRecord)
	}
	span.SetAttributes(attribute.Int64(tracing.AttrChatID, int64(chat)))

	output := domain.ParseWorkerOutput(ansi.Strip(reply.Text))
	span.SetAttributes(attribute.Int(tracing.AttrImages, len(output.Images)))

	var errs []error
	if output.Text != "" {
		if err := r.sendText(ctx, chat, worker, output.Text); err != nil {
			errs = append(errs, err)
		}
	}
	for _, image := range output.Images {
		if err := r.sendImage(ctx, chat, worker, image); err != nil {
			errs = append(errs, err)
		}
	}

	r.logger.Info("relayed reply", "worker", worker, "chat_id", chat, "chars", len(output.Text), "images", len(output.Images))
	return errors.Join(errs...)
}

func (r *Relay) sendText(ctx context.Context, chat domain.ChatID, worker domain.WorkerName, text string) error {
	for _, message := range r.renderMessages(workerLabel(worker)+"\n", text, relayChunkLength) {
		if err := r.core.Messenger.SendMessage(ctx, chat, message, ports.ParseModeHTML); err != nil {
			r.logger.Warn("send reply text", "worker", worker, "chat_id", chat, "error", err)
			return fmt.Errorf("send reply from %s: %w", worker, err)
		}
	}
	return nil
}

// renderMessages splits text into labelled HTML messages that each fit the
// Telegram limit once rendered. Escaping can grow a chunk several times over,
// so an oversized chunk is split again at a proportionally smaller size. The
// client must never cut rendered HTML, it would land inside a tag or entity.
func (r *Relay) renderMessages(label, text string, limit int) []string {
	budget := domain.MaxMessageLength - utf8.RuneCountInString(label)

	var messages []string
	for _, chunk := range domain.SplitMessage(text, limit) {
		rendered := r.formatter.Format(chunk)
		size := utf8.RuneCountInString(rendered)
		if size <= budget {
			messages = append(messages, label+rendered)
			continue
		}

		chunkLen := utf8.RuneCountInString(chunk)
		smaller := min(chunkLen*budget/size, chunkLen-1)
		if smaller < 1 || len(domain.SplitMessage(chunk, smaller)) < 2 {
			// A single grapheme cluster that renders past the limit.
			messages = append(messages, label+rendered)
			continue
		}
		messages = append(messages, r.renderMessages(label, chunk, smaller)...)
	}
	return messages
}

func (r *Relay) sendImage(ctx context.Context, chat domain.ChatID, worker domain.WorkerName, image domain.ImageRef) error {
	caption := worker.String() + ":"
	if image.Caption != "" {
		caption += " " + image.Caption
	}

	path, err := r.ValidateImage(image.Path)
	if err == nil {
		err = r.core.Messenger.SendPhoto(ctx, chat, path, caption)
	}
	if err == nil {
		return nil
	}

	r.logger.Warn("send reply image", "worker", worker, "path", image.Path, "error", err)
	notice := fmt.Sprintf("%s [Image failed: %s]", workerLabel(worker), html.EscapeString(image.Path))
	if sendErr := r.core.Messenger.SendMessage(ctx, chat, notice, ports.ParseModeHTML); sendErr != nil {
		return errors.Join(err, sendErr)
	}
	return nil
}

// ValidateImage resolves path and checks it is a small enough image file
// inside one of the allowed roots. It returns the resolved path.
func (r *Relay) ValidateImage(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrImageRejected, path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s does not exist", domain.ErrImageRejected, path)
	}

	if !domain.IsAllowedImageExt(abs) || !domain.IsAllowedImageExt(resolved) {
		return "", fmt.Errorf("%w: %s is not an allowed image type", domain.ErrImageRejected, path)
	}
	if !r.allowed(resolved) {
		return "", fmt.Errorf("%w: %s is outside the allowed directories", domain.ErrImageRejected, path)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrImageRejected, path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", domain.ErrImageRejected, path)
	}
	if info.Size() > domain.MaxImageSize {
		return "", fmt.Errorf("%w: %s is larger than 20 MiB", domain.ErrImageRejected, path)
	}

	return resolved, nil
}

func (r *Relay) allowed(path string) bool {
	for _, root := range r.roots {
		if root == "" {
			continue
		}
		resolvedRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			continue
		}
		if domain.IsWithinRoot(path, filepath.Clean(resolvedRoot)) {
			return true
		}
	}
	return false
}

func workerLabel(worker domain.WorkerName) string {
	return "<b>" + html.EscapeString(worker.String()) + ":</b>"
}

type escapeFormatter struct{}

func (escapeFormatter) Format(markdown string) string {
	return html.EscapeString(markdown)
}
