package ports

import "context"

// Multiplexer controls the terminal sessions hosting worker agents.
type Multiplexer interface {
	ListSessions(ctx context.Context) ([]string, error)
	HasSession(ctx context.Context, session string) bool
	NewSession(ctx context.Context, session string, width, height int) error
	RenameSession(ctx context.Context, from, to string) error
	KillSession(ctx context.Context, session string) error
	// SendLiteral types text without interpreting key names.
	SendLiteral(ctx context.Context, session, text string) error
	SendKey(ctx context.Context, session, key string) error
	PaneCommand(ctx context.Context, session string) (string, error)
}
