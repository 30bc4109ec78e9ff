package config

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

const currentSchemaVersion = 1

var ErrConfigExists = errors.New("config file already exists")

type fileSchema struct {
	Version  int            `toml:"version"`
	Telegram telegramSchema `toml:"telegram"`
	Server   serverSchema   `toml:"server"`
	Tmux     tmuxSchema     `toml:"tmux"`
	Agent    agentSchema    `toml:"agent"`
	State    stateSchema    `toml:"state"`
	Media    mediaSchema    `toml:"media"`
	Typing   typingSchema   `toml:"typing"`
	Log      logSchema      `toml:"log"`
	Tracing  tracingSchema  `toml:"tracing"`
}

type telegramSchema struct {
	Token         string `toml:"token"`
	WebhookSecret string `toml:"webhook_secret"`
	AdminChatID   int64  `toml:"admin_chat_id"`
	APIBaseURL    string `toml:"api_base_url"`
}

type serverSchema struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type tmuxSchema struct {
	Bin    string `toml:"bin"`
	Prefix string `toml:"prefix"`
}

type agentSchema struct {
	Command      string `toml:"command"`
	ProcessMatch string `toml:"process_match"`
}

type stateSchema struct {
	Backend     string `toml:"backend"`
	SessionsDir string `toml:"sessions_dir"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
}

type mediaSchema struct {
	InboxRoot   string `toml:"inbox_root"`
	ScratchRoot string `toml:"scratch_root"`
}

// Durations are written in their string form so viper can read them back.
type typingSchema struct {
	Interval string `toml:"interval"`
}

type logSchema struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type tracingSchema struct {
	Exporter   string  `toml:"exporter"`
	Endpoint   string  `toml:"endpoint"`
	SampleRate float64 `toml:"sample_rate"`
}

func toSchema(c Config) fileSchema {
	return fileSchema{
		Version: currentSchemaVersion,
		Telegram: telegramSchema{
			Token:         c.Telegram.Token,
			WebhookSecret: c.Telegram.WebhookSecret,
			AdminChatID:   c.Telegram.AdminChatID,
			APIBaseURL:    c.Telegram.APIBaseURL,
		},
		Server: serverSchema{Host: c.Server.Host, Port: c.Server.Port},
		Tmux:   tmuxSchema{Bin: c.Tmux.Bin, Prefix: c.Tmux.Prefix},
		Agent:  agentSchema{Command: c.Agent.Command, ProcessMatch: c.Agent.ProcessMatch},
		State: stateSchema{
			Backend:     c.State.Backend,
			SessionsDir: c.State.SessionsDir,
			SQLitePath:  c.State.SQLitePath,
		},
		Media:   mediaSchema{InboxRoot: c.Media.InboxRoot, ScratchRoot: c.Media.ScratchRoot},
		Typing:  typingSchema{Interval: c.Typing.Interval.String()},
		Log:     logSchema{Level: c.Log.Level, Format: c.Log.Format},
		Tracing: tracingSchema{Exporter: c.Tracing.Exporter, Endpoint: c.Tracing.Endpoint, SampleRate: c.Tracing.SampleRate},
	}
}

// Marshal encodes c as a config file.
func Marshal(c Config) ([]byte, error) {
	data, err := toml.Marshal(toSchema(c))
	if err != nil {
		return nil, fmt.Errorf("encode config file: %w", err)
	}
	return data, nil
}

// WriteFile writes c to path atomically. Existing files are kept unless force
// is set.
func WriteFile(path string, c Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}

	data, err := Marshal(c)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// CheckVersion rejects config files written by a newer schema.
func CheckVersion(data []byte) error {
	var header struct {
		Version int `toml:"version"`
	}
	if err := toml.Unmarshal(data, &header); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	if header.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", header.Version, currentSchemaVersion)
	}
	return nil
}
