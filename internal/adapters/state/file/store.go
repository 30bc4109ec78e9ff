package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
)

const (
	storeDirMode  = 0o700
	stateFileMode = 0o600
)

// Store keeps one directory per worker under root and one file per field:
// <root>/<worker>/pending and <root>/<worker>/chat_id.
type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.StateStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Set(ctx context.Context, worker domain.WorkerName, field domain.StateField, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(worker, field)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create worker state directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(value), stateFileMode); err != nil {
		return fmt.Errorf("write %s for %q: %w", field, worker, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, worker domain.WorkerName, field domain.StateField) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathFor(worker, field)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s for %q: %w", field, worker, domain.ErrStateNotFound)
		}
		return "", fmt.Errorf("read %s for %q: %w", field, worker, err)
	}

	return string(data), nil
}

func (s *Store) Exists(ctx context.Context, worker domain.WorkerName, field domain.StateField) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	path, err := s.pathFor(worker, field)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s for %q: %w", field, worker, err)
}

func (s *Store) Delete(ctx context.Context, worker domain.WorkerName, field domain.StateField) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(worker, field)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s for %q: %w", field, worker, err)
	}

	return nil
}

func (s *Store) Workers(ctx context.Context) ([]domain.WorkerName, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list worker state: %w", err)
	}

	workers := make([]domain.WorkerName, 0, len(entries))
	for _, entry := range entries {
		name := domain.WorkerName(entry.Name())
		if !entry.IsDir() || !name.Valid() {
			continue
		}
		workers = append(workers, name)
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i] < workers[j] })

	return workers, nil
}

func (s *Store) pathFor(worker domain.WorkerName, field domain.StateField) (string, error) {
	if err := domain.ValidateStateKey(worker, field); err != nil {
		return "", err
	}

	return filepath.Join(s.root, string(worker), string(field)), nil
}
