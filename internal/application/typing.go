package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
)

const DefaultTypingInterval = 4 * time.Second

// TypingIndicator keeps a "typing" chat action going while a worker has a
// pending marker. At most one loop runs per worker.
type TypingIndicator struct {
	messenger ports.Messenger
	pending   *PendingStore
	interval  time.Duration
	instrumentation

	mu    sync.Mutex
	tasks map[domain.WorkerName]*typingTask
	wg    sync.WaitGroup
}

type typingTask struct {
	chat    domain.ChatID
	cancel  context.CancelFunc
	rearmed bool
}

func NewTypingIndicator(messenger ports.Messenger, pending *PendingStore, interval time.Duration, opts ...Option) *TypingIndicator {
	if interval <= 0 {
		interval = DefaultTypingInterval
	}
	return &TypingIndicator{
		messenger:       messenger,
		pending:         pending,
		interval:        interval,
		instrumentation: newInstrumentation(opts),
		tasks:           make(map[domain.WorkerName]*typingTask),
	}
}

// Start begins signalling for worker. If a loop already runs for worker it is
// pointed at chat and kept alive instead of starting a second one.
func (t *TypingIndicator) Start(ctx context.Context, chat domain.ChatID, worker domain.WorkerName) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task, ok := t.tasks[worker]; ok {
		task.chat = chat
		task.rearmed = true
		return
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	task := &typingTask{chat: chat, cancel: cancel}
	t.tasks[worker] = task

	t.wg.Add(1)
	go t.loop(loopCtx, worker, task)
}

// Cancel stops the loop for worker, if any.
func (t *TypingIndicator) Cancel(worker domain.WorkerName) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task, ok := t.tasks[worker]; ok {
		task.cancel()
		delete(t.tasks, worker)
	}
}

// Running reports whether a loop is registered for worker.
func (t *TypingIndicator) Running(worker domain.WorkerName) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tasks[worker]
	return ok
}

// Stop cancels every loop and waits for them to exit.
func (t *TypingIndicator) Stop() {
	t.mu.Lock()
	for worker, task := range t.tasks {
		task.cancel()
		delete(t.tasks, worker)
	}
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *TypingIndicator) loop(ctx context.Context, worker domain.WorkerName, task *typingTask) {
	defer t.wg.Done()
	defer task.cancel()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			t.release(worker, task)
			return
		case <-timer.C:
		}

		if !t.pending.IsPending(ctx, worker) {
			if t.finish(worker, task) {
				return
			}
			timer.Reset(0)
			continue
		}

		t.mu.Lock()
		chat := task.chat
		t.mu.Unlock()

		if err := t.messenger.SendChatAction(ctx, chat, ports.ChatActionTyping); err != nil && ctx.Err() == nil {
			t.logger.Debug("send typing action", "worker", worker, "chat_id", chat, "error", err)
		}
		timer.Reset(t.interval)
	}
}

// finish unregisters task unless Start re-armed it since the last check.
func (t *TypingIndicator) finish(worker domain.WorkerName, task *typingTask) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task.rearmed {
		task.rearmed = false
		return false
	}
	if t.tasks[worker] == task {
		delete(t.tasks, worker)
	}
	return true
}

func (t *TypingIndicator) release(worker domain.WorkerName, task *typingTask) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tasks[worker] == task {
		delete(t.tasks, worker)
	}
}
