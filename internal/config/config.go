package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = "teamrelay"
	envPrefix  = "TEAMRELAY"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Keys exported into worker sessions so the stop hook reaches this server.
const (
	KeyServerPort  = "server.port"
	KeyTmuxPrefix  = "tmux.prefix"
	KeySessionsDir = "state.sessions_dir"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Server   ServerConfig   `mapstructure:"server"`
	Tmux     TmuxConfig     `mapstructure:"tmux"`
	Agent    AgentConfig    `mapstructure:"agent"`
	State    StateConfig    `mapstructure:"state"`
	Media    MediaConfig    `mapstructure:"media"`
	Typing   TypingConfig   `mapstructure:"typing"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`

	// Path is the config file that was read, empty when none was found.
	Path string `mapstructure:"-"`
}

type TelegramConfig struct {
	Token         string `mapstructure:"token"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	AdminChatID   int64  `mapstructure:"admin_chat_id"`
	APIBaseURL    string `mapstructure:"api_base_url"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type TmuxConfig struct {
	Bin    string `mapstructure:"bin"`
	Prefix string `mapstructure:"prefix"`
}

type AgentConfig struct {
	Command      string `mapstructure:"command"`
	ProcessMatch string `mapstructure:"process_match"`
}

type StateConfig struct {
	Backend     string `mapstructure:"backend"`
	SessionsDir string `mapstructure:"sessions_dir"`
	SQLitePath  string `mapstructure:"sqlite_path"`
}

type MediaConfig struct {
	InboxRoot   string `mapstructure:"inbox_root"`
	ScratchRoot string `mapstructure:"scratch_root"`
}

type TypingConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Exporter   string  `mapstructure:"exporter"`
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// BaseURL is where local clients such as the stop hook reach the server.
func (c Config) BaseURL() string {
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

// legacyEnv maps keys to the unprefixed variables older deployments used.
var legacyEnv = map[string]string{
	"telegram.token":          "TELEGRAM_BOT_TOKEN",
	"telegram.webhook_secret": "TELEGRAM_WEBHOOK_SECRET",
	"telegram.admin_chat_id":  "ADMIN_CHAT_ID",
	KeyServerPort:             "PORT",
	KeyTmuxPrefix:             "TMUX_PREFIX",
	KeySessionsDir:            "SESSIONS_DIR",
}

// EnvName is the prefixed environment variable that overrides key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// DefaultPath is ~/.config/teamrelay/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, configDir, configName+"."+configType), nil
}

// Load reads the config file (path, or the default location when empty),
// applies environment overrides and defaults, and validates the result.
// A missing config file is not an error.
func Load(cfg *viper.Viper, path string) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigType(configType)
	if path != "" {
		cfg.SetConfigFile(path)
	} else {
		cfg.SetConfigName(configName)
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.AddConfigPath(filepath.Join(dir, configDir))
		}
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := cfg.BindEnv(key, EnvName(key), legacy); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(cfg, homeDir)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var out Config
	if err := cfg.Unmarshal(&out); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	out.Path = cfg.ConfigFileUsed()
	if out.Path != "" {
		data, err := os.ReadFile(out.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			out.Path = ""
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := CheckVersion(data); err != nil {
				return Config{}, err
			}
		}
	}

	out.State.SessionsDir = expandHome(out.State.SessionsDir, homeDir)
	out.State.SQLitePath = expandHome(out.State.SQLitePath, homeDir)
	out.Media.InboxRoot = expandHome(out.Media.InboxRoot, homeDir)
	out.Media.ScratchRoot = expandHome(out.Media.ScratchRoot, homeDir)
	if out.State.SQLitePath == "" {
		out.State.SQLitePath = filepath.Join(out.State.SessionsDir, "state.db")
	}

	if err := out.Validate(); err != nil {
		return Config{}, err
	}
	return out, nil
}

func setDefaults(cfg *viper.Viper, homeDir string) {
	defaults := Defaults(homeDir)
	cfg.SetDefault("telegram.token", defaults.Telegram.Token)
	cfg.SetDefault("telegram.webhook_secret", defaults.Telegram.WebhookSecret)
	cfg.SetDefault("telegram.admin_chat_id", defaults.Telegram.AdminChatID)
	cfg.SetDefault("telegram.api_base_url", defaults.Telegram.APIBaseURL)
	cfg.SetDefault("server.host", defaults.Server.Host)
	cfg.SetDefault(KeyServerPort, defaults.Server.Port)
	cfg.SetDefault("tmux.bin", defaults.Tmux.Bin)
	cfg.SetDefault(KeyTmuxPrefix, defaults.Tmux.Prefix)
	cfg.SetDefault("agent.command", defaults.Agent.Command)
	cfg.SetDefault("agent.process_match", defaults.Agent.ProcessMatch)
	cfg.SetDefault("state.backend", defaults.State.Backend)
	cfg.SetDefault(KeySessionsDir, defaults.State.SessionsDir)
	cfg.SetDefault("state.sqlite_path", defaults.State.SQLitePath)
	cfg.SetDefault("media.inbox_root", defaults.Media.InboxRoot)
	cfg.SetDefault("media.scratch_root", defaults.Media.ScratchRoot)
	cfg.SetDefault("typing.interval", defaults.Typing.Interval)
	cfg.SetDefault("log.level", defaults.Log.Level)
	cfg.SetDefault("log.format", defaults.Log.Format)
	cfg.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	cfg.SetDefault("tracing.endpoint", defaults.Tracing.Endpoint)
	cfg.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
}

// Defaults is the configuration used when nothing is set.
func Defaults(homeDir string) Config {
	return Config{
		Telegram: TelegramConfig{APIBaseURL: "https://api.telegram.org"},
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080},
		Tmux:     TmuxConfig{Bin: "tmux", Prefix: domain.DefaultSessionPrefix},
		Agent: AgentConfig{
			Command:      "claude --dangerously-skip-permissions",
			ProcessMatch: "claude",
		},
		State: StateConfig{
			Backend:     BackendFile,
			SessionsDir: filepath.Join(homeDir, ".claude", "telegram", "sessions"),
		},
		Media:   MediaConfig{InboxRoot: filepath.Join(os.TempDir(), "teamrelay"), ScratchRoot: os.TempDir()},
		Typing:  TypingConfig{Interval: 4 * time.Second},
		Log:     LogConfig{Level: "info", Format: "text"},
		Tracing: TracingConfig{Exporter: "none", Endpoint: "localhost:4317", SampleRate: 1},
	}
}

func (c Config) Validate() error {
	if c.Tmux.Prefix == "" {
		return errors.New("tmux.prefix must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.State.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unsupported state.backend %q (want %s or %s)", c.State.Backend, BackendFile, BackendSQLite)
	}
	if c.State.SessionsDir == "" {
		return errors.New("state.sessions_dir must not be empty")
	}
	if c.Typing.Interval <= 0 {
		return errors.New("typing.interval must be positive")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate %v must be within [0, 1]", c.Tracing.SampleRate)
	}
	return nil
}

// RequireToken reports a missing bot token for commands that talk to Telegram.
func (c Config) RequireToken() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram bot token is required (set %s or telegram.token)", EnvName("telegram.token"))
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	c.Telegram.Token = domain.Redact(c.Telegram.Token)
	if c.Telegram.WebhookSecret != "" {
		c.Telegram.WebhookSecret = domain.Redact(c.Telegram.WebhookSecret)
	}
	return c
}

func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
