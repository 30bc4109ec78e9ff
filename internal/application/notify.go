package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
)

const ShutdownNotice = "Going offline briefly. Your team stays the same."

var ErrEmptyNotice = errors.New("notice text is empty")

// Notifier sends one text to every chat that owns a worker and to the admin.
type Notifier struct {
	core *Core
	instrumentation
}

func NewNotifier(core *Core, opts ...Option) *Notifier {
	return &Notifier{core: core, instrumentation: newInstrumentation(opts)}
}

func (n *Notifier) Recipients(ctx context.Context) []domain.ChatID {
	chats := n.core.Pending.KnownChats(ctx)
	admin, ok := n.core.Admin.Chat()
	if !ok {
		return chats
	}
	for _, chat := range chats {
		if chat == admin {
			return chats
		}
	}
	return append(chats, admin)
}

// Broadcast returns how many chats accepted the text and how many were tried.
func (n *Notifier) Broadcast(ctx context.Context, text string) (int, int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, 0, ErrEmptyNotice
	}

	recipients := n.Recipients(ctx)
	sent := 0
	var errs []error
	for _, chat := range recipients {
		if err := n.core.Messenger.SendMessage(ctx, chat, text, ports.ParseModePlain); err != nil {
			n.logger.Warn("send notice", "chat_id", chat, "error", err)
			errs = append(errs, fmt.Errorf("chat %d: %w", chat, err))
			continue
		}
		sent++
	}

	n.logger.Info("notice sent", "sent", sent, "recipients", len(recipients))
	return sent, len(recipients), errors.Join(errs...)
}
