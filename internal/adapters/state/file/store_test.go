package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		worker  domain.WorkerName
		field   domain.StateField
		wantErr string
	}{
		{name: "empty", worker: "", field: domain.FieldPending, wantErr: "worker name is empty"},
		{name: "whitespace", worker: "   ", field: domain.FieldPending, wantErr: "worker name is empty"},
		{name: "absolute", worker: "/absolute/path", field: domain.FieldPending, wantErr: "invalid worker name"},
		{name: "traversal", worker: "../escape", field: domain.FieldPending, wantErr: "invalid worker name"},
		{name: "unknown field", worker: "alice", field: domain.StateField("../../etc"), wantErr: "unknown state field"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Set(context.Background(), tc.worker, tc.field, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStoreSetGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	err := store.Set(context.Background(), "alice", domain.FieldChatID, "4242")
	require.NoError(t, err)

	got, err := store.Get(context.Background(), "alice", domain.FieldChatID)
	require.NoError(t, err)
	assert.Equal(t, "4242", got)

	info, err := os.Stat(filepath.Join(root, "alice", "chat_id"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(stateFileMode), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Join(root, "alice"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(storeDirMode), dirInfo.Mode().Perm())
}

func TestStoreGetMissingWrapsNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Get(context.Background(), "alice", domain.FieldPending)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	exists, err := store.Exists(context.Background(), "alice", domain.FieldPending)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreDeleteIsIdempotentWhenEntryMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Delete(context.Background(), "alice", domain.FieldPending))
	require.NoError(t, store.Set(context.Background(), "alice", domain.FieldPending, "1"))
	require.NoError(t, store.Delete(context.Background(), "alice", domain.FieldPending))
	require.NoError(t, store.Delete(context.Background(), "alice", domain.FieldPending))
}

func TestStoreWorkersListsValidDirectoriesSorted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "bob", domain.FieldChatID, "1"))
	require.NoError(t, store.Set(ctx, "alice", domain.FieldChatID, "1"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Not Valid"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, "port"), []byte("8080"), 0o600))

	workers, err := store.Workers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.WorkerName{"alice", "bob"}, workers)
}

func TestStoreWorkersOnMissingRoot(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "missing"))
	workers, err := store.Workers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestStoreConcurrentWritersDoNotCrossWorkers(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ctx := context.Background()
	names := []domain.WorkerName{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name domain.WorkerName) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = store.Set(ctx, name, domain.FieldChatID, string(name))
			}
		}(name)
	}
	wg.Wait()

	for _, name := range names {
		got, err := store.Get(ctx, name, domain.FieldChatID)
		require.NoError(t, err)
		assert.Equal(t, string(name), got)
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Set(ctx, "alice", domain.FieldPending, "1")
	assert.ErrorIs(t, err, context.Canceled)
}
