package application

import (
	"context"
	"testing"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierBroadcastReachesOwnersAndAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.core.Admin = NewAdminGate(7)
	env.core.Pending.RememberChat(ctx, "alice", 10)
	env.core.Pending.RememberChat(ctx, "bob", 10)
	env.core.Pending.RememberChat(ctx, "carol", 20)

	notifier := NewNotifier(env.core)
	assert.Equal(t, []domain.ChatID{10, 20, 7}, notifier.Recipients(ctx))

	sent, total, err := notifier.Broadcast(ctx, ShutdownNotice)
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{ShutdownNotice, ShutdownNotice, ShutdownNotice}, env.messenger.texts())
}

func TestNotifierBroadcastContinuesPastFailures(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.core.Pending.RememberChat(ctx, "alice", 10)
	env.core.Pending.RememberChat(ctx, "bob", 20)
	env.messenger.failChats = map[domain.ChatID]bool{10: true}

	sent, total, err := NewNotifier(env.core).Broadcast(ctx, "deploy finished")

	require.Error(t, err)
	assert.ErrorContains(t, err, "chat 10")
	assert.Equal(t, 1, sent)
	assert.Equal(t, 2, total)
}

func TestNotifierRejectsEmptyText(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := NewNotifier(env.core).Broadcast(context.Background(), " \n")
	assert.ErrorIs(t, err, ErrEmptyNotice)
}

func TestNotifierAdminAlreadyKnown(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.core.Admin = NewAdminGate(10)
	env.core.Pending.RememberChat(ctx, "alice", 10)

	assert.Equal(t, []domain.ChatID{10}, NewNotifier(env.core).Recipients(ctx))
}
