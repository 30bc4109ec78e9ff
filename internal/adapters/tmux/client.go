package tmux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bnema/teamrelay/internal/ports"
)

var ErrUnavailable = errors.New("tmux command not found")

type runFunc func(ctx context.Context, args ...string) (stdout string, stderr string, err error)

// Client drives a tmux server through its command line.
type Client struct {
	run runFunc
}

var _ ports.Multiplexer = (*Client)(nil)

func NewClient(bin string) *Client {
	if bin == "" {
		bin = "tmux"
	}
	return &Client{run: commandRunner(bin)}
}

func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stdout, stderr, err := c.run(ctx, "list-sessions", "-F", "#{session_name}")
	if err != nil {
		if noServer(stderr) {
			return nil, nil
		}
		return nil, formatError("list-sessions", "", err, stderr)
	}

	var sessions []string
	for _, line := range strings.Split(stdout, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			sessions = append(sessions, name)
		}
	}
	return sessions, nil
}

func (c *Client) HasSession(ctx context.Context, session string) bool {
	if ctx.Err() != nil {
		return false
	}
	_, _, err := c.run(ctx, "has-session", "-t", sessionTarget(session))
	return err == nil
}

func (c *Client) NewSession(ctx context.Context, session string, width, height int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	args := []string{"new-session", "-d", "-s", session}
	if width > 0 && height > 0 {
		args = append(args, "-x", strconv.Itoa(width), "-y", strconv.Itoa(height))
	}
	if _, stderr, err := c.run(ctx, args...); err != nil {
		return formatError("new-session", session, err, stderr)
	}
	return nil
}

func (c *Client) RenameSession(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, stderr, err := c.run(ctx, "rename-session", "-t", sessionTarget(from), to); err != nil {
		return formatError("rename-session", from, err, stderr)
	}
	return nil
}

func (c *Client) KillSession(ctx context.Context, session string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, stderr, err := c.run(ctx, "kill-session", "-t", sessionTarget(session)); err != nil {
		return formatError("kill-session", session, err, stderr)
	}
	return nil
}

func (c *Client) SendLiteral(ctx context.Context, session, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, stderr, err := c.run(ctx, "send-keys", "-t", paneTarget(session), "-l", "--", text); err != nil {
		return formatError("send-keys", session, err, stderr)
	}
	return nil
}

func (c *Client) SendKey(ctx context.Context, session, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, stderr, err := c.run(ctx, "send-keys", "-t", paneTarget(session), key); err != nil {
		return formatError("send-keys", session, err, stderr)
	}
	return nil
}

func (c *Client) PaneCommand(ctx context.Context, session string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := c.run(ctx, "display-message", "-p", "-t", paneTarget(session), "#{pane_current_command}")
	if err != nil {
		return "", formatError("display-message", session, err, stderr)
	}
	return strings.TrimSpace(stdout), nil
}

// CurrentSession names the session the calling process runs in.
func (c *Client) CurrentSession(ctx context.Context) (string, error) {
	stdout, stderr, err := c.run(ctx, "display-message", "-p", "#{session_name}")
	if err != nil {
		return "", formatError("display-message", "", err, stderr)
	}
	return strings.TrimSpace(stdout), nil
}

// "=" forces an exact session match; tmux otherwise accepts prefixes.
func sessionTarget(session string) string {
	return "=" + session
}

func paneTarget(session string) string {
	return "=" + session + ":"
}

func noServer(stderr string) bool {
	return strings.Contains(stderr, "no server running") ||
		strings.Contains(stderr, "no sessions") ||
		strings.Contains(stderr, "error connecting to")
}

func commandRunner(bin string) runFunc {
	return func(ctx context.Context, args ...string) (string, string, error) {
		path, err := exec.LookPath(bin)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return "", "", ErrUnavailable
			}
			return "", "", fmt.Errorf("locate tmux command: %w", err)
		}

		cmd := exec.CommandContext(ctx, path, args...)

		var stdout bytes.Buffer
		var stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err = cmd.Run()
		return stdout.String(), strings.TrimSpace(stderr.String()), err
	}
}

func formatError(op string, session string, err error, stderr string) error {
	target := ""
	if session != "" {
		target = fmt.Sprintf(" %q", session)
	}
	if stderr == "" {
		return fmt.Errorf("tmux %s%s: %w", op, target, err)
	}

	return fmt.Errorf("tmux %s%s: %w: %s", op, target, err, stderr)
}
