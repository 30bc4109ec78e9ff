package claude

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/teamrelay/internal/config"
)

const (
	// HookCommand is registered as the agent's stop hook.
	HookCommand = "teamrelay hook"

	settingsDir  = ".claude"
	settingsFile = "settings.json"
	stopEvent    = "Stop"
)

// DefaultSettingsPath is ~/.claude/settings.json.
func DefaultSettingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, settingsDir, settingsFile), nil
}

type InstallResult struct {
	Path string
	// AlreadyInstalled is set when command was registered before.
	AlreadyInstalled bool
	// Preserved counts other stop hooks kept next to the new entry.
	Preserved int
}

// InstallStopHook registers command as a stop hook in the agent settings
// file, keeping every other setting. Running it twice is a no-op.
func InstallStopHook(path, command string) (InstallResult, error) {
	result := InstallResult{Path: path}

	settings := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return result, fmt.Errorf("read agent settings: %w", err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &settings); err != nil {
			return result, fmt.Errorf("decode agent settings: %w", err)
		}
		if settings == nil {
			settings = map[string]any{}
		}
	}

	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}
	stops, _ := hooks[stopEvent].([]any)

	if hasHookCommand(stops, command) {
		result.AlreadyInstalled = true
		return result, nil
	}

	entry := map[string]any{"type": "command", "command": command}
	if len(stops) > 0 {
		if first, ok := stops[0].(map[string]any); ok {
			inner, _ := first["hooks"].([]any)
			result.Preserved = len(inner)
			first["hooks"] = append(inner, entry)
		} else {
			stops = append(stops, map[string]any{"hooks": []any{entry}})
		}
	} else {
		stops = []any{map[string]any{"hooks": []any{entry}}}
	}
	hooks[stopEvent] = stops

	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return result, fmt.Errorf("encode agent settings: %w", err)
	}
	if err := config.WriteFileAtomic(path, append(out, '\n')); err != nil {
		return result, fmt.Errorf("write agent settings: %w", err)
	}
	return result, nil
}

func hasHookCommand(stops []any, command string) bool {
	for _, stop := range stops {
		group, ok := stop.(map[string]any)
		if !ok {
			continue
		}
		inner, _ := group["hooks"].([]any)
		for _, hook := range inner {
			entry, ok := hook.(map[string]any)
			if !ok {
				continue
			}
			if cmd, _ := entry["command"].(string); cmd == command {
				return true
			}
		}
	}
	return false
}
