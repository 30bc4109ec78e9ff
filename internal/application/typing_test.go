package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypingIndicatorSignalsWhilePending(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	typing := NewTypingIndicator(env.messenger, env.core.Pending, 10*time.Millisecond)
	t.Cleanup(typing.Stop)

	require.NoError(t, env.core.Pending.Mark(ctx, "alice", testChat))
	typing.Start(ctx, testChat, "alice")

	assert.Eventually(t, func() bool { return env.messenger.actionCount() >= 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, typing.Running("alice"))

	typing.Cancel("alice")
	assert.False(t, typing.Running("alice"))
}

func TestTypingIndicatorStopsWhenMarkerClears(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	typing := NewTypingIndicator(env.messenger, env.core.Pending, 10*time.Millisecond)
	t.Cleanup(typing.Stop)

	require.NoError(t, env.core.Pending.Mark(ctx, "alice", testChat))
	typing.Start(ctx, testChat, "alice")
	assert.Eventually(t, func() bool { return env.messenger.actionCount() >= 1 }, time.Second, 5*time.Millisecond)

	env.core.Pending.Clear(ctx, "alice")
	assert.Eventually(t, func() bool { return !typing.Running("alice") }, time.Second, 5*time.Millisecond)
}

func TestTypingIndicatorKeepsOneLoopPerWorker(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	typing := NewTypingIndicator(env.messenger, env.core.Pending, time.Hour)

	require.NoError(t, env.core.Pending.Mark(ctx, "alice", testChat))
	require.NoError(t, env.core.Pending.Mark(ctx, "bob", testChat))
	typing.Start(ctx, testChat, "alice")
	typing.Start(ctx, testChat, "alice")
	typing.Start(ctx, testChat, "bob")

	typing.mu.Lock()
	assert.Len(t, typing.tasks, 2)
	typing.mu.Unlock()

	typing.Stop()
	assert.False(t, typing.Running("alice"))
	assert.False(t, typing.Running("bob"))
}

func TestTypingIndicatorOutlivesRequestContext(t *testing.T) {
	env := newTestEnv(t, nil)
	typing := NewTypingIndicator(env.messenger, env.core.Pending, 10*time.Millisecond)
	t.Cleanup(typing.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, env.core.Pending.Mark(ctx, "alice", testChat))
	typing.Start(ctx, testChat, "alice")
	cancel()

	before := env.messenger.actionCount()
	assert.Eventually(t, func() bool { return env.messenger.actionCount() > before+1 }, time.Second, 5*time.Millisecond)
}
