package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	statefile "github.com/bnema/teamrelay/internal/adapters/state/file"
	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
)

// keystroke is one call into a pane: either literal text or a named key.
type keystroke struct {
	Session string
	Literal string
	Key     string
}

// fakeMux is an in-memory multiplexer. Each session maps to the command
// running in its pane.
type fakeMux struct {
	mu       sync.Mutex
	sessions map[string]string
	log      []keystroke
	created  []string
	failSend error

	failRename error
}

var _ ports.Multiplexer = (*fakeMux)(nil)

func newFakeMux(sessions map[string]string) *fakeMux {
	m := &fakeMux{sessions: make(map[string]string)}
	for session, command := range sessions {
		m.sessions[session] = command
	}
	return m
}

func (m *fakeMux) ListSessions(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sessions))
	for session := range m.sessions {
		out = append(out, session)
	}
	sort.Strings(out)
	return out, nil
}

func (m *fakeMux) HasSession(ctx context.Context, session string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[session]
	return ok
}

func (m *fakeMux) NewSession(ctx context.Context, session string, width, height int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session]; ok {
		return errors.New("duplicate session")
	}
	m.sessions[session] = "bash"
	m.created = append(m.created, session)
	return nil
}

func (m *fakeMux) RenameSession(ctx context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRename != nil {
		return m.failRename
	}
	command, ok := m.sessions[from]
	if !ok {
		return errors.New("can't find session: " + from)
	}
	delete(m.sessions, from)
	m.sessions[to] = command
	return nil
}

func (m *fakeMux) KillSession(ctx context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session]; !ok {
		return errors.New("can't find session: " + session)
	}
	delete(m.sessions, session)
	return nil
}

func (m *fakeMux) SendLiteral(ctx context.Context, session, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend != nil {
		return m.failSend
	}
	m.log = append(m.log, keystroke{Session: session, Literal: text})
	return nil
}

func (m *fakeMux) SendKey(ctx context.Context, session, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend != nil {
		return m.failSend
	}
	m.log = append(m.log, keystroke{Session: session, Key: key})
	return nil
}

func (m *fakeMux) PaneCommand(ctx context.Context, session string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	command, ok := m.sessions[session]
	if !ok {
		return "", errors.New("can't find session: " + session)
	}
	return command, nil
}

func (m *fakeMux) keystrokes() []keystroke {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]keystroke(nil), m.log...)
}

// literals lists the text typed into session, in order.
func (m *fakeMux) literals(session string) []string {
	var out []string
	for _, k := range m.keystrokes() {
		if k.Session == session && k.Literal != "" {
			out = append(out, k.Literal)
		}
	}
	return out
}

func (m *fakeMux) createdSessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.created...)
}

type sentMessage struct {
	Chat domain.ChatID
	Text string
	Mode ports.ParseMode
}

type sentPhoto struct {
	Chat    domain.ChatID
	Path    string
	Caption string
}

type fakeMessenger struct {
	mu        sync.Mutex
	messages  []sentMessage
	photos    []sentPhoto
	reactions []int64
	actions   []domain.ChatID
	commands  [][]domain.BotCommand
	failChats map[domain.ChatID]bool
	download  func(fileID, dest string) error
}

var _ ports.Messenger = (*fakeMessenger)(nil)

func (f *fakeMessenger) SendMessage(ctx context.Context, chat domain.ChatID, text string, mode ports.ParseMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failChats[chat] {
		return errors.New("telegram: chat not found")
	}
	f.messages = append(f.messages, sentMessage{Chat: chat, Text: text, Mode: mode})
	return nil
}

func (f *fakeMessenger) SendPhoto(ctx context.Context, chat domain.ChatID, path string, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, sentPhoto{Chat: chat, Path: path, Caption: caption})
	return nil
}

func (f *fakeMessenger) SetReaction(ctx context.Context, chat domain.ChatID, messageID int64, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, messageID)
	return nil
}

func (f *fakeMessenger) SendChatAction(ctx context.Context, chat domain.ChatID, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, chat)
	return nil
}

func (f *fakeMessenger) SetCommands(ctx context.Context, commands []domain.BotCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, commands)
	return nil
}

func (f *fakeMessenger) DownloadFile(ctx context.Context, fileID string, dest string, maxBytes int64) error {
	if f.download != nil {
		return f.download(fileID, dest)
	}
	return errors.New("download not configured")
}

func (f *fakeMessenger) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.Text)
	}
	return out
}

func (f *fakeMessenger) lastText() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (f *fakeMessenger) sentPhotos() []sentPhoto {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentPhoto(nil), f.photos...)
}

func (f *fakeMessenger) actionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.actions)
}

func (f *fakeMessenger) lastCommands() []domain.BotCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.commands) == 0 {
		return nil
	}
	return f.commands[len(f.commands)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	mux       *fakeMux
	messenger *fakeMessenger
	store     *statefile.Store
	clock     *fakeClock
	core      *Core
	inbox     *Inbox
	lifecycle *Lifecycle
	router    *Router
}

const testChat domain.ChatID = 42

func newTestEnv(t *testing.T, sessions map[string]string) *testEnv {
	t.Helper()

	mux := newFakeMux(sessions)
	messenger := &fakeMessenger{}
	store := statefile.NewStore(t.TempDir())
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	pending := NewPendingStore(store, clock)
	typing := NewTypingIndicator(messenger, pending, time.Hour)
	t.Cleanup(typing.Stop)

	core := &Core{
		Mux:       mux,
		Messenger: messenger,
		Directory: NewDirectory(mux, domain.DefaultSessionPrefix, "claude"),
		Focus:     NewFocusState(),
		Pending:   pending,
		Typing:    typing,
		Locks:     NewLockTable(),
		Admin:     NewAdminGate(0),
	}
	inbox := NewInbox(t.TempDir())
	lifecycle := NewLifecycle(core, inbox, AgentConfig{
		Command:    "claude",
		Env:        []EnvVar{{Key: "TEAMRELAY_SERVER_PORT", Value: "8080"}},
		Width:      200,
		Height:     50,
		AcceptKeys: []string{"2", keyEnter},
	})
	router := NewRouter(core, lifecycle, inbox, Settings{Version: "test", Prefix: domain.DefaultSessionPrefix, Backend: "file", Port: 8080})

	return &testEnv{
		mux:       mux,
		messenger: messenger,
		store:     store,
		clock:     clock,
		core:      core,
		inbox:     inbox,
		lifecycle: lifecycle,
		router:    router,
	}
}

func (e *testEnv) focus(name domain.WorkerName) {
	_ = e.core.Focus.WithLock(func(tx FocusTx) error {
		tx.SetActive(name)
		return nil
	})
}

func (e *testEnv) send(t *testing.T, text string) {
	t.Helper()
	_ = e.router.Handle(context.Background(), InboundMessage{ChatID: testChat, MessageID: 1, Text: text})
}
