package application

import (
	"sync"

	"github.com/bnema/teamrelay/internal/domain"
)

// FocusState is the process-wide focused worker and the unclaimed session
// currently offered for claiming. All access goes through the guard.
type FocusState struct {
	mu                  sync.Mutex
	active              domain.WorkerName
	pendingRegistration string
}

// FocusTx exposes FocusState inside WithLock. It must not escape the callback.
type FocusTx struct {
	state *FocusState
}

func NewFocusState() *FocusState {
	return &FocusState{}
}

// WithLock runs fn while holding the focus guard so read-modify-write
// sequences cannot interleave.
func (f *FocusState) WithLock(fn func(tx FocusTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(FocusTx{state: f})
}

func (f *FocusState) Active() domain.WorkerName {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *FocusState) PendingRegistration() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingRegistration
}

func (tx FocusTx) Active() domain.WorkerName {
	return tx.state.active
}

func (tx FocusTx) SetActive(name domain.WorkerName) {
	tx.state.active = name
}

func (tx FocusTx) PendingRegistration() string {
	return tx.state.pendingRegistration
}

func (tx FocusTx) SetPendingRegistration(session string) {
	tx.state.pendingRegistration = session
}
