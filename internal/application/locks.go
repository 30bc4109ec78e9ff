package application

import (
	"sync"

	"github.com/bnema/teamrelay/internal/domain"
)

// LockTable holds one mutex per worker name. Entries live for the whole
// process.
type LockTable struct {
	mu    sync.Mutex
	locks map[domain.WorkerName]*sync.Mutex
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[domain.WorkerName]*sync.Mutex)}
}

// Acquire blocks until the worker's lock is held and returns its release.
func (t *LockTable) Acquire(name domain.WorkerName) func() {
	t.mu.Lock()
	lock, ok := t.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[name] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
