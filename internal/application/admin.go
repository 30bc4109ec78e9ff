package application

import (
	"sync"

	"github.com/bnema/teamrelay/internal/domain"
)

// AdminGate admits a single chat. Without a configured chat the first one to
// write is adopted.
type AdminGate struct {
	mu   sync.Mutex
	chat domain.ChatID
}

func NewAdminGate(configured domain.ChatID) *AdminGate {
	return &AdminGate{chat: configured}
}

func (g *AdminGate) Admit(chat domain.ChatID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.chat == 0 {
		g.chat = chat
		return true
	}
	return g.chat == chat
}

func (g *AdminGate) Chat() (domain.ChatID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.chat, g.chat != 0
}
