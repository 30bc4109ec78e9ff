package ports

import (
	"context"

	"github.com/bnema/teamrelay/internal/domain"
)

// StateStore is a small durable key-value store addressed by (worker, field).
// Get returns an error wrapping domain.ErrStateNotFound for missing entries.
type StateStore interface {
	Get(ctx context.Context, worker domain.WorkerName, field domain.StateField) (string, error)
	Set(ctx context.Context, worker domain.WorkerName, field domain.StateField, value string) error
	Delete(ctx context.Context, worker domain.WorkerName, field domain.StateField) error
	Exists(ctx context.Context, worker domain.WorkerName, field domain.StateField) (bool, error)
	Workers(ctx context.Context) ([]domain.WorkerName, error)
}
