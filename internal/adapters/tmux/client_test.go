package tmux

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientListSessionsParsesNames(t *testing.T) {
	t.Parallel()

	client := &Client{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			assert.Equal(t, []string{"list-sessions", "-F", "#{session_name}"}, args)
			return "claude-alice\nscratch\n\nclaude-bob\n", "", nil
		},
	}

	sessions, err := client.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"claude-alice", "scratch", "claude-bob"}, sessions)
}

func TestClientListSessionsWithoutServerIsEmpty(t *testing.T) {
	t.Parallel()

	client := &Client{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			return "", "no server running on /tmp/tmux-1000/default", errors.New("exit status 1")
		},
	}

	sessions, err := client.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestClientSendLiteralUsesLiteralFlagAndExactTarget(t *testing.T) {
	t.Parallel()

	called := false
	client := &Client{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, []string{"send-keys", "-t", "=claude-alice:", "-l", "--", "-rf Enter"}, args)
			return "", "", nil
		},
	}

	err := client.SendLiteral(context.Background(), "claude-alice", "-rf Enter")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestClientCommandArguments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		call func(*Client) error
		want []string
	}{
		{
			name: "new session",
			call: func(c *Client) error { return c.NewSession(context.Background(), "claude-alice", 200, 50) },
			want: []string{"new-session", "-d", "-s", "claude-alice", "-x", "200", "-y", "50"},
		},
		{
			name: "rename",
			call: func(c *Client) error { return c.RenameSession(context.Background(), "claude", "claude-bob") },
			want: []string{"rename-session", "-t", "=claude", "claude-bob"},
		},
		{
			name: "kill",
			call: func(c *Client) error { return c.KillSession(context.Background(), "claude-bob") },
			want: []string{"kill-session", "-t", "=claude-bob"},
		},
		{
			name: "key",
			call: func(c *Client) error { return c.SendKey(context.Background(), "claude-bob", "Escape") },
			want: []string{"send-keys", "-t", "=claude-bob:", "Escape"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			client := &Client{
				run: func(ctx context.Context, args ...string) (string, string, error) {
					got = args
					return "", "", nil
				},
			}
			require.NoError(t, tc.call(client))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClientPaneCommandTrimsOutput(t *testing.T) {
	t.Parallel()

	client := &Client{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			assert.Equal(t, []string{"display-message", "-p", "-t", "=claude-alice:", "#{pane_current_command}"}, args)
			return "claude\n", "", nil
		},
	}

	cmd, err := client.PaneCommand(context.Background(), "claude-alice")
	require.NoError(t, err)
	assert.Equal(t, "claude", cmd)
}

func TestClientHasSession(t *testing.T) {
	t.Parallel()

	client := &Client{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			if args[2] == "=claude-alice" {
				return "", "", nil
			}
			return "", "can't find session", errors.New("exit status 1")
		},
	}

	assert.True(t, client.HasSession(context.Background(), "claude-alice"))
	assert.False(t, client.HasSession(context.Background(), "claude-al"))
}

func TestClientErrorIncludesStderr(t *testing.T) {
	t.Parallel()

	client := &Client{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			return "", "duplicate session: claude-alice", errors.New("exit status 1")
		},
	}

	err := client.NewSession(context.Background(), "claude-alice", 0, 0)
	require.Error(t, err)
	assert.EqualError(t, err, `tmux new-session "claude-alice": exit status 1: duplicate session: claude-alice`)
}
