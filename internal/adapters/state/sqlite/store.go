package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
)

const (
	dbDirMode  = 0o700
	dbFileMode = 0o600
	memoryPath = ":memory:"
)

const schema = `
CREATE TABLE IF NOT EXISTS worker_state (
	worker     TEXT    NOT NULL,
	field      TEXT    NOT NULL,
	value      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (worker, field)
)`

// Store keeps worker state in a single embedded SQLite table. It is a drop-in
// replacement for the file store when many workers churn on slow disks.
type Store struct {
	db    *sql.DB
	clock ports.Clock
}

var _ ports.StateStore = (*Store)(nil)

func Open(path string, clock ports.Clock) (*Store, error) {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	dsn := memoryPath
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), dbDirMode); err != nil {
			return nil, fmt.Errorf("create state database directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	// One connection keeps :memory: databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state schema: %w", err)
	}

	if path != memoryPath {
		if err := os.Chmod(path, dbFileMode); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("chmod state database: %w", err)
		}
	}

	return &Store{db: db, clock: clock}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Set(ctx context.Context, worker domain.WorkerName, field domain.StateField, value string) error {
	if err := domain.ValidateStateKey(worker, field); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO worker_state (worker, field, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (worker, field) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		string(worker), string(field), value, s.clock.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("write %s for %q: %w", field, worker, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, worker domain.WorkerName, field domain.StateField) (string, error) {
	if err := domain.ValidateStateKey(worker, field); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM worker_state WHERE worker = ? AND field = ?`,
		string(worker), string(field),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s for %q: %w", field, worker, domain.ErrStateNotFound)
		}
		return "", fmt.Errorf("read %s for %q: %w", field, worker, err)
	}

	return value, nil
}

func (s *Store) Exists(ctx context.Context, worker domain.WorkerName, field domain.StateField) (bool, error) {
	if err := domain.ValidateStateKey(worker, field); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM worker_state WHERE worker = ? AND field = ?`,
		string(worker), string(field),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("stat %s for %q: %w", field, worker, err)
	}

	return count > 0, nil
}

func (s *Store) Delete(ctx context.Context, worker domain.WorkerName, field domain.StateField) error {
	if err := domain.ValidateStateKey(worker, field); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM worker_state WHERE worker = ? AND field = ?`,
		string(worker), string(field),
	)
	if err != nil {
		return fmt.Errorf("delete %s for %q: %w", field, worker, err)
	}

	return nil
}

func (s *Store) Workers(ctx context.Context) ([]domain.WorkerName, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT worker FROM worker_state ORDER BY worker`)
	if err != nil {
		return nil, fmt.Errorf("list worker state: %w", err)
	}
	defer rows.Close()

	var workers []domain.WorkerName
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan worker state: %w", err)
		}
		workers = append(workers, domain.WorkerName(name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list worker state: %w", err)
	}

	return workers, nil
}
