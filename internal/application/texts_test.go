package application

import (
	"testing"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatTeam(t *testing.T) {
	t.Parallel()

	assert.Equal(t, textNoTeam, FormatTeam(TeamStatus{}))

	got := FormatTeam(TeamStatus{
		Focused: "alice",
		Members: []MemberStatus{
			{Worker: domain.Worker{Name: "alice"}, Focused: true, Working: true},
			{Worker: domain.Worker{Name: "bob"}},
		},
		Unclaimed: []string{"scratch"},
	})
	assert.Equal(t, "Your team:\n"+
		"Focused: alice\n"+
		"Workers:\n"+
		"- alice (focused, working)\n"+
		"- bob (available)\n"+
		"\n"+
		"Unclaimed running Claude (needs a name):\n"+
		"- scratch", got)
}

func TestFormatProgress(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		report ProgressReport
		want   string
	}{
		{
			name:   "ready",
			report: ProgressReport{Name: "alice", Working: true, Online: true, Ready: true},
			want:   "Progress for focused worker: alice\nFocused: yes\nWorking: yes\nOnline: yes\nReady: yes",
		},
		{
			name:   "agent exited",
			report: ProgressReport{Name: "alice", Online: true},
			want: "Progress for focused worker: alice\nFocused: yes\nWorking: no\nOnline: yes\nReady: no\n" +
				"Needs attention: worker app is not running. Use /relaunch.",
		},
		{
			name:   "offline",
			report: ProgressReport{Name: "alice"},
			want:   "Progress for focused worker: alice\nFocused: yes\nWorking: no\nOnline: no",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FormatProgress(tc.report))
		})
	}
}

func TestFormatSettingsRedactsSecrets(t *testing.T) {
	t.Parallel()

	got := FormatSettings(Settings{
		Version:     "1.0.0",
		Token:       "123456789:abcdefgh",
		SessionsDir: "/home/me/.claude/telegram/sessions",
		Prefix:      "claude-",
		Backend:     "file",
		Port:        8080,
	}, 0, "", []domain.WorkerName{"alice", "bob"}, "")

	assert.Contains(t, got, "teamrelay v1.0.0")
	assert.Contains(t, got, "Bot token: 1234...efgh")
	assert.NotContains(t, got, "123456789:abcdefgh")
	assert.Contains(t, got, "Admin: (auto-learn)")
	assert.Contains(t, got, "Webhook verification: (disabled)")
	assert.Contains(t, got, "Port: 8080")
	assert.Contains(t, got, "Focused worker: (none)")
	assert.Contains(t, got, "Workers: alice, bob")
	assert.Contains(t, got, "Pending claim: (none)")
}

func TestExportLineQuotesValues(t *testing.T) {
	t.Parallel()

	got := ExportLine([]EnvVar{
		{Key: "TEAMRELAY_STATE_SESSIONS_DIR", Value: "/home/me/my sessions"},
		{Key: "TEAMRELAY_WORKER", Value: "it's"},
	})
	assert.Equal(t, `export TEAMRELAY_STATE_SESSIONS_DIR='/home/me/my sessions' TEAMRELAY_WORKER='it'\''s'`, got)
}
