package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/teamrelay/internal/adapters/httpapi"
	"github.com/bnema/teamrelay/internal/config"
	"github.com/bnema/teamrelay/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	newHome(t)

	stdout, _, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)

	stdout, _, err = executeCLI(t, "version", "--verbose")
	require.NoError(t, err)
	assert.Equal(t, version.String()+"\n", stdout)
}

func TestUnknownCommandFails(t *testing.T) {
	newHome(t)
	_, _, err := executeCLI(t, "recruit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestServeRequiresToken(t *testing.T) {
	newHome(t)
	_, _, err := executeCLI(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEAMRELAY_TELEGRAM_TOKEN")
}

func TestConfigInitThenShowRedactsToken(t *testing.T) {
	home := newHome(t)
	path := filepath.Join(home, "teamrelay.toml")

	stdout, _, err := executeCLI(t, "--config", path, "config", "init", "--token", "1234567890abcdefgh")
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", stdout)

	_, _, err = executeCLI(t, "--config", path, "config", "init")
	require.ErrorIs(t, err, config.ErrConfigExists)

	stdout, _, err = executeCLI(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "# source: "+path+"\n"))
	assert.Contains(t, stdout, "1234...efgh")
	assert.NotContains(t, stdout, "1234567890abcdefgh")

	_, _, err = executeCLI(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShowWithoutFile(t *testing.T) {
	newHome(t)
	stdout, _, err := executeCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# source: (defaults and environment)")
	assert.Contains(t, stdout, "claude-")
}

func TestHireRejectsReservedName(t *testing.T) {
	newHome(t)
	_, _, err := executeCLI(t, "hire", "team")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `hire "team": reserved worker name`)
}

func TestHookInstallIsIdempotent(t *testing.T) {
	home := newHome(t)
	settings := filepath.Join(home, "settings.json")
	require.NoError(t, os.WriteFile(settings, []byte(`{"model":"opus","hooks":{"Stop":[{"hooks":[{"type":"command","command":"notify-send done"}]}]}}`), 0o600))

	stdout, _, err := executeCLI(t, "hook", "install", "--settings", settings)
	require.NoError(t, err)
	assert.Equal(t, `installed stop hook "teamrelay hook" in `+settings+" (1 other stop hooks kept)\n", stdout)

	stdout, _, err = executeCLI(t, "hook", "install", "--settings", settings)
	require.NoError(t, err)
	assert.Equal(t, "stop hook already installed in "+settings+"\n", stdout)

	data, err := os.ReadFile(settings)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"model": "opus"`)
	assert.Contains(t, string(data), "notify-send done")
}

func TestHookPostsLastReplyToServer(t *testing.T) {
	home := newHome(t)
	server := newRecordingServer(t, `{"ok":true}`)

	transcript := filepath.Join(home, "transcript.jsonl")
	require.NoError(t, os.WriteFile(transcript, []byte(strings.Join([]string{
		`{"type":"user","message":{"content":"old question"}}`,
		`{"type":"assistant","message":{"content":"old answer"}}`,
		`{"type":"user","message":{"content":"new question"}}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"first part"},{"type":"tool_use","name":"Bash"}]}}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"second part"}]}}`,
	}, "\n")), 0o600))

	t.Setenv("TEAMRELAY_WORKER", "alice")
	t.Setenv("TEAMRELAY_SERVER_PORT", server.port(t))

	stdin := `{"session_id":"abc","transcript_path":"` + transcript + `","stop_hook_active":false}`
	_, _, err := executeCLIWithInput(t, stdin, "hook")
	require.NoError(t, err)

	requests := server.requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "/response", requests[0].Path)

	var got httpapi.ResponseRequest
	require.NoError(t, json.Unmarshal(requests[0].Body, &got))
	assert.Equal(t, httpapi.ResponseRequest{Session: "alice", Text: "first part\n\nsecond part"}, got)
}

func TestHookIgnoresSessionsOutsideTheTeam(t *testing.T) {
	newHome(t)
	server := newRecordingServer(t, `{"ok":true}`)

	t.Setenv("TEAMRELAY_TMUX_BIN", writeFakeTmux(t))
	t.Setenv("TEAMRELAY_SERVER_PORT", server.port(t))

	stdin := `{"session_id":"abc","transcript_path":"/does/not/exist.jsonl"}`
	_, _, err := executeCLIWithInput(t, stdin, "hook")
	require.NoError(t, err)
	assert.Empty(t, server.requests())
}

func TestHookRejectsEmptyInput(t *testing.T) {
	newHome(t)
	_, _, err := executeCLIWithInput(t, "", "hook")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop hook input is empty")
}

func TestNotifyReportsDelivery(t *testing.T) {
	newHome(t)
	server := newRecordingServer(t, `{"sent":2,"total":3}`)
	t.Setenv("TEAMRELAY_SERVER_PORT", server.port(t))

	stdout, _, err := executeCLI(t, "notify", "deploy", "finished")
	require.NoError(t, err)
	assert.Equal(t, "sent to 2 of 3 chats\n", stdout)

	requests := server.requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "/notify", requests[0].Path)
	assert.JSONEq(t, `{"text":"deploy finished"}`, string(requests[0].Body))
}

func TestTeamListsWorkersFromTmux(t *testing.T) {
	home := newHome(t)
	sessions := filepath.Join(home, "sessions")
	t.Setenv("TEAMRELAY_TMUX_BIN", writeFakeTmux(t))
	t.Setenv("TEAMRELAY_STATE_SESSIONS_DIR", sessions)

	require.NoError(t, os.MkdirAll(filepath.Join(sessions, "alice"), 0o700))
	now := strconv.FormatInt(time.Now().Unix(), 10)
	require.NoError(t, os.WriteFile(filepath.Join(sessions, "alice", "pending"), []byte(now), 0o600))

	stdout, _, err := executeCLI(t, "team")
	require.NoError(t, err)
	assert.Contains(t, stdout, "workers: 2")
	assert.Contains(t, stdout, "alice [working] (claude-alice)")
	assert.Contains(t, stdout, "bob [needs relaunch] (claude-bob)")
	assert.Contains(t, stdout, "scratch")
}

func TestTeamJSONOutput(t *testing.T) {
	home := newHome(t)
	t.Setenv("TEAMRELAY_TMUX_BIN", writeFakeTmux(t))
	t.Setenv("TEAMRELAY_STATE_SESSIONS_DIR", filepath.Join(home, "sessions"))

	stdout, _, err := executeCLI(t, "team", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, `"Session": "claude-alice"`)
	assert.Contains(t, stdout, `"Unclaimed": [`)
}

func TestWebhookSetRequiresHTTPS(t *testing.T) {
	newHome(t)
	t.Setenv("TEAMRELAY_TELEGRAM_TOKEN", "123:abc")

	_, _, err := executeCLI(t, "webhook", "set", "http://example.com/hook")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an absolute https URL")
}

func TestWebhookSetRegistersURLWithSecret(t *testing.T) {
	newHome(t)
	server := newRecordingServer(t, `{"ok":true,"result":true}`)
	t.Setenv("TEAMRELAY_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TEAMRELAY_TELEGRAM_WEBHOOK_SECRET", "s3cret")
	t.Setenv("TEAMRELAY_TELEGRAM_API_BASE_URL", server.URL)

	stdout, _, err := executeCLI(t, "webhook", "set", "https://relay.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "webhook set to https://relay.example.com/ with secret verification\n", stdout)

	requests := server.requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "/bot123:abc/setWebhook", requests[0].Path)
	assert.JSONEq(t, `{"url":"https://relay.example.com/","secret_token":"s3cret"}`, string(requests[0].Body))
}

type recordedRequest struct {
	Path string
	Body []byte
}

type recordingServer struct {
	*httptest.Server

	mu   sync.Mutex
	seen []recordedRequest
}

func newRecordingServer(t *testing.T, reply string) *recordingServer {
	t.Helper()

	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.seen = append(rs.seen, recordedRequest{Path: r.URL.Path, Body: body})
		rs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) requests() []recordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]recordedRequest(nil), rs.seen...)
}

func (rs *recordingServer) port(t *testing.T) string {
	t.Helper()
	parsed, err := url.Parse(rs.URL)
	require.NoError(t, err)
	return parsed.Port()
}

// writeFakeTmux installs a script that answers like a tmux server with two
// workers and one unclaimed Claude session. Only alice runs the agent.
func writeFakeTmux(t *testing.T) string {
	t.Helper()

	script := `#!/bin/sh
case "$1" in
list-sessions)
	printf 'claude-alice\nclaude-bob\nscratch\nnotes\n'
	;;
has-session)
	exit 0
	;;
display-message)
	if [ "$3" = "-t" ]; then
		case "$4" in
		*claude-alice*|*scratch*) echo claude ;;
		*) echo zsh ;;
		esac
	else
		echo notes
	fi
	;;
*)
	exit 1
	;;
esac
`
	path := filepath.Join(t.TempDir(), "tmux")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, "", args...)
}

func executeCLIWithInput(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// newHome returns a fresh HOME with every variable the config layer reads
// blanked, so the developer's own settings never leak into a test.
func newHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, name := range []string{
		"TEAMRELAY_TELEGRAM_TOKEN", "TEAMRELAY_TELEGRAM_WEBHOOK_SECRET", "TEAMRELAY_TELEGRAM_ADMIN_CHAT_ID",
		"TEAMRELAY_TELEGRAM_API_BASE_URL", "TEAMRELAY_SERVER_PORT", "TEAMRELAY_SERVER_HOST",
		"TEAMRELAY_TMUX_BIN", "TEAMRELAY_TMUX_PREFIX", "TEAMRELAY_STATE_SESSIONS_DIR",
		"TEAMRELAY_STATE_BACKEND", "TEAMRELAY_WORKER",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_SECRET", "ADMIN_CHAT_ID", "PORT", "TMUX_PREFIX", "SESSIONS_DIR",
	} {
		t.Setenv(name, "")
	}
	return home
}
