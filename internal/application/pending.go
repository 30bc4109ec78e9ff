package application

import (
	"context"
	"errors"
	"sort"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
)

// PendingStore tracks outstanding deliveries and the chat each worker answers
// to. Storage failures are logged and never block delivery.
type PendingStore struct {
	store ports.StateStore
	clock ports.Clock
	instrumentation
}

func NewPendingStore(store ports.StateStore, clock ports.Clock, opts ...Option) *PendingStore {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &PendingStore{
		store:           store,
		clock:           clock,
		instrumentation: newInstrumentation(opts),
	}
}

// Mark records a pending delivery for worker and remembers chat as its owner
// if none is known yet.
func (p *PendingStore) Mark(ctx context.Context, worker domain.WorkerName, chat domain.ChatID) error {
	p.RememberChat(ctx, worker, chat)

	if err := p.store.Set(ctx, worker, domain.FieldPending, domain.FormatTimestamp(p.clock.Now())); err != nil {
		p.logger.Warn("set pending marker", "worker", worker, "error", err)
		return err
	}
	return nil
}

func (p *PendingStore) Clear(ctx context.Context, worker domain.WorkerName) {
	if err := p.store.Delete(ctx, worker, domain.FieldPending); err != nil {
		p.logger.Warn("clear pending marker", "worker", worker, "error", err)
	}
}

// IsPending reports a fresh marker. Stale or unreadable markers are removed.
func (p *PendingStore) IsPending(ctx context.Context, worker domain.WorkerName) bool {
	raw, err := p.store.Get(ctx, worker, domain.FieldPending)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			p.logger.Warn("read pending marker", "worker", worker, "error", err)
		}
		return false
	}

	createdAt, err := domain.ParseTimestamp(raw)
	if err != nil {
		p.logger.Warn("discard unreadable pending marker", "worker", worker, "error", err)
		p.Clear(ctx, worker)
		return false
	}

	marker := domain.PendingMarker{Worker: worker, CreatedAt: createdAt}
	if marker.Stale(p.clock.Now()) {
		p.logger.Info("discard stale pending marker", "worker", worker, "age", p.clock.Now().Sub(createdAt).String())
		p.Clear(ctx, worker)
		return false
	}

	return true
}

// RememberChat writes the chat record once. An existing record is kept.
func (p *PendingStore) RememberChat(ctx context.Context, worker domain.WorkerName, chat domain.ChatID) {
	if chat == 0 {
		return
	}
	exists, err := p.store.Exists(ctx, worker, domain.FieldChatID)
	if err != nil {
		p.logger.Warn("check chat record", "worker", worker, "error", err)
		return
	}
	if exists {
		return
	}
	if err := p.store.Set(ctx, worker, domain.FieldChatID, domain.FormatChatID(chat)); err != nil {
		p.logger.Warn("write chat record", "worker", worker, "error", err)
	}
}

func (p *PendingStore) ChatFor(ctx context.Context, worker domain.WorkerName) (domain.ChatID, bool) {
	raw, err := p.store.Get(ctx, worker, domain.FieldChatID)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			p.logger.Warn("read chat record", "worker", worker, "error", err)
		}
		return 0, false
	}
	chat, err := domain.ParseChatID(raw)
	if err != nil {
		p.logger.Warn("parse chat record", "worker", worker, "error", err)
		return 0, false
	}
	return chat, true
}

// KnownChats lists every distinct chat with a record, sorted.
func (p *PendingStore) KnownChats(ctx context.Context) []domain.ChatID {
	workers, err := p.store.Workers(ctx)
	if err != nil {
		p.logger.Warn("list state workers", "error", err)
		return nil
	}

	seen := make(map[domain.ChatID]struct{}, len(workers))
	var chats []domain.ChatID
	for _, worker := range workers {
		chat, ok := p.ChatFor(ctx, worker)
		if !ok {
			continue
		}
		if _, dup := seen[chat]; dup {
			continue
		}
		seen[chat] = struct{}{}
		chats = append(chats, chat)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })
	return chats
}
