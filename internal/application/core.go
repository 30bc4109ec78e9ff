package application

import (
	"context"
	"fmt"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
)

const keyEnter = "Enter"

// Core is the state shared by the router, relay and lifecycle services.
type Core struct {
	Mux       ports.Multiplexer
	Messenger ports.Messenger
	Directory *Directory
	Focus     *FocusState
	Pending   *PendingStore
	Typing    *TypingIndicator
	Locks     *LockTable
	Admin     *AdminGate
}

// SendLine types text into the worker's pane and submits it. Both keystrokes
// happen under the worker lock so concurrent lines never interleave.
func (c *Core) SendLine(ctx context.Context, worker domain.Worker, text string) error {
	release := c.Locks.Acquire(worker.Name)
	defer release()

	if err := c.Mux.SendLiteral(ctx, worker.Session, text); err != nil {
		return fmt.Errorf("type into %s: %w", worker.Name, err)
	}
	if err := c.Mux.SendKey(ctx, worker.Session, keyEnter); err != nil {
		return fmt.Errorf("submit to %s: %w", worker.Name, err)
	}
	return nil
}

// SendKey presses a single named key in the worker's pane.
func (c *Core) SendKey(ctx context.Context, worker domain.Worker, key string) error {
	release := c.Locks.Acquire(worker.Name)
	defer release()

	if err := c.Mux.SendKey(ctx, worker.Session, key); err != nil {
		return fmt.Errorf("send %s to %s: %w", key, worker.Name, err)
	}
	return nil
}

// Settle drops the pending marker and stops the typing loop for worker.
func (c *Core) Settle(ctx context.Context, worker domain.WorkerName) {
	c.Pending.Clear(ctx, worker)
	if c.Typing != nil {
		c.Typing.Cancel(worker)
	}
}
