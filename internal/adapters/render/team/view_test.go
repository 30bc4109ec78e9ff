package team

import (
	"testing"

	"github.com/bnema/teamrelay/internal/application"
	"github.com/bnema/teamrelay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(name string, focused, working, online, running bool) application.MemberStatus {
	return application.MemberStatus{
		Worker:       domain.Worker{Name: domain.WorkerName(name), Session: "claude-" + name},
		Focused:      focused,
		Working:      working,
		Online:       online,
		AgentRunning: running,
	}
}

func TestRenderTeamWithMembers(t *testing.T) {
	output, err := Render(application.TeamStatus{
		Focused: "alice",
		Members: []application.MemberStatus{
			member("alice", true, true, true, true),
			member("bob", false, false, true, true),
			member("carol", false, false, true, false),
			member("dave", false, false, false, false),
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "workers: 4  focused: alice")
	assert.Contains(t, output, "* alice [working] (claude-alice)")
	assert.Contains(t, output, "bob [available] (claude-bob)")
	assert.Contains(t, output, "carol [needs relaunch]")
	assert.Contains(t, output, "dave [offline]")
	assert.NotContains(t, output, "Unclaimed")
}

func TestRenderTeamWithUnclaimedSessions(t *testing.T) {
	output, err := Render(application.TeamStatus{Unclaimed: []string{"scratch"}})

	require.NoError(t, err)
	assert.Contains(t, output, "focused: (none)")
	assert.Contains(t, output, "Unclaimed running Claude (needs a name):")
	assert.Contains(t, output, "scratch")
}

func TestRenderEmptyTeam(t *testing.T) {
	output, err := Render(application.TeamStatus{})

	require.NoError(t, err)
	assert.Contains(t, output, "workers: 0")
	assert.Contains(t, output, "No team members yet.")
}
