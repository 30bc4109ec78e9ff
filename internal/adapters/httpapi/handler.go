package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/teamrelay/internal/application"
	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/tracing"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

	maxBodyBytes = 1 << 20
	dedupeWindow = 10 * time.Minute
)

type MessageRouter interface {
	Handle(ctx context.Context, msg application.InboundMessage) error
}

type ReplyRelay interface {
	Handle(ctx context.Context, reply application.AgentReply) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, text string) (sent int, total int, err error)
}

// HandlerConfig configures the HTTP endpoints.
type HandlerConfig struct {
	Router   MessageRouter
	Relay    ReplyRelay
	Notifier Broadcaster
	// WebhookSecret, when set, must match the secret header of every update.
	WebhookSecret string
	Version       string
	Logger        *slog.Logger
	Tracer        trace.Tracer
}

// Handler serves the Telegram webhook and the local hook endpoints.
type Handler struct {
	cfg    HandlerConfig
	logger *slog.Logger
	tracer trace.Tracer
	seen   *cache.Cache
	wg     sync.WaitGroup
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}

	return &Handler{
		cfg:    cfg,
		logger: logger,
		tracer: tracer,
		seen:   cache.New(dedupeWindow, dedupeWindow),
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Banner)
	mux.HandleFunc("POST /response", h.Response)
	mux.HandleFunc("POST /notify", h.Notify)
	// Telegram may be pointed at any path.
	mux.HandleFunc("POST /", h.Webhook)

	return mux
}

// Wait blocks until every accepted update has been routed.
func (h *Handler) Wait() {
	h.wg.Wait()
}

type ResponseRequest struct {
	Session string `json:"session"`
	Text    string `json:"text"`
}

type NotifyRequest struct {
	Text string `json:"text"`
}

type NotifyResponse struct {
	Sent  int `json:"sent"`
	Total int `json:"total"`
}

type StatusResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *Handler) Banner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "teamrelay %s\n", h.cfg.Version)
}

// Response relays a worker's finished turn to the chat that addressed it.
func (h *Handler) Response(w http.ResponseWriter, r *http.Request) {
	var req ResponseRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Session == "" {
		h.writeError(w, http.StatusBadRequest, "validation_error", "session is required")
		return
	}

	err := h.cfg.Relay.Handle(r.Context(), application.AgentReply{
		Worker: req.Session,
		Text:   req.Text,
	})
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, StatusResponse{OK: true})
	case errors.Is(err, domain.ErrInvalidName):
		h.writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrNoChatRecord):
		h.logger.Debug("dropped reply without chat record", "worker", req.Session)
		h.writeError(w, http.StatusNotFound, "no_chat_record", err.Error())
	default:
		h.logger.Warn("relay reply failed", "worker", req.Session, "error", err)
		h.writeError(w, http.StatusBadGateway, "relay_failed", err.Error())
	}
}

// Notify sends an operator notice to every known chat.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	sent, total, err := h.cfg.Notifier.Broadcast(r.Context(), req.Text)
	switch {
	case errors.Is(err, application.ErrEmptyNotice):
		h.writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case err != nil && sent == 0:
		h.logger.Warn("notify failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "notify_failed", err.Error())
	default:
		if err != nil {
			h.logger.Warn("notify partially failed", "sent", sent, "total", total, "error", err)
		}
		h.writeJSON(w, http.StatusOK, NotifyResponse{Sent: sent, Total: total})
	}
}

// Webhook accepts a Telegram update and routes it in the background so the
// Bot API gets its acknowledgement quickly.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.logger.Warn("rejected webhook with bad secret", "remote", r.RemoteAddr)
		h.writeError(w, http.StatusForbidden, "forbidden", "invalid secret token")
		return
	}

	var upd update
	if err := decodeBody(w, r, &upd); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if upd.UpdateID != 0 {
		if err := h.seen.Add(strconv.FormatInt(upd.UpdateID, 10), struct{}{}, cache.DefaultExpiration); err != nil {
			h.logger.Debug("ignored duplicate update", "update_id", upd.UpdateID)
			h.writeJSON(w, http.StatusOK, StatusResponse{OK: true})
			return
		}
	}

	msg, ok := upd.inbound()
	if ok {
		ctx := context.WithoutCancel(r.Context())
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.route(ctx, upd.UpdateID, msg)
		}()
	}

	h.writeJSON(w, http.StatusOK, StatusResponse{OK: true})
}

func (h *Handler) route(ctx context.Context, updateID int64, msg application.InboundMessage) {
	ctx, span := h.tracer.Start(ctx, "webhook.update",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.Int64("telegram.update_id", updateID),
			attribute.Int64(tracing.AttrChatID, int64(msg.ChatID)),
		),
	)
	defer span.End()

	if err := h.cfg.Router.Handle(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Warn("route update failed", "update_id", updateID, "chat_id", msg.ChatID, "error", err)
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.cfg.WebhookSecret == "" {
		return true
	}
	got := r.Header.Get(SecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.cfg.WebhookSecret)) == 1
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("encode JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
