// Package config loads the dispatcher daemon's YAML configuration file,
// following a "parse once, validate, return *Config" shape.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TelemetryConfig configures the optional OpenTelemetry export path
// (wired into the telemetry package).
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Exporter    string  `yaml:"exporter"` // "otlp-http", "stdout", or "none"
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	SampleRate  float64 `yaml:"sample_rate"`
}

// FSMConfig configures the FSM storage backend and the janitor sweep.
type FSMConfig struct {
	// Backend selects the fsm.Storage implementation: "sqlite"
	// (fsm/sqlitestore, durable, the default) or "memory" (fsm/memstore,
	// process-local, for tests and local development).
	Backend string `yaml:"backend"`
	// DSN is the sqlite3 data source name used by fsm/sqlitestore; unused
	// when Backend is "memory".
	DSN string `yaml:"dsn"`
	// Destiny is the default FSM namespace when a registration omits one.
	Destiny string `yaml:"destiny"`
	// JanitorIntervalSeconds is how often the TTL sweep runs; <= 0 disables it.
	JanitorIntervalSeconds int `yaml:"janitor_interval_seconds"`
	// JanitorTTLSeconds is how long an empty FSM row survives before the
	// janitor removes it; <= 0 disables the sweep regardless of interval.
	JanitorTTLSeconds int `yaml:"janitor_ttl_seconds"`
}

// Config is the dispatcher daemon's full configuration.
type Config struct {
	// BotTokenEnv names the environment variable holding the Telegram bot
	// token; the token itself is never written to the config file.
	BotTokenEnv string `yaml:"bot_token_env"`

	// PollTimeoutSeconds is the long-poll timeout sent with every
	// getUpdates call.
	PollTimeoutSeconds int `yaml:"poll_timeout_seconds"`
	// BackoffOnErrorSeconds is the sleep before retrying after a
	// getUpdates network error.
	BackoffOnErrorSeconds int `yaml:"backoff_on_error_seconds"`
	// ShutdownDrainSeconds bounds how long the dispatcher waits for
	// outstanding per-update tasks to finish during graceful shutdown.
	ShutdownDrainSeconds int `yaml:"shutdown_drain_seconds"`

	LogLevel string `yaml:"log_level"`

	FSM       FSMConfig       `yaml:"fsm"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// Load reads and validates a YAML config file at path, filling in defaults
// for anything left unset.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	normalize(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		BotTokenEnv:           "TGDISPATCH_BOT_TOKEN",
		PollTimeoutSeconds:    30,
		BackoffOnErrorSeconds: 5,
		ShutdownDrainSeconds:  10,
		LogLevel:              "info",

		FSM: FSMConfig{
			Backend:                "sqlite",
			DSN:                    "tgdispatch_fsm.db",
			Destiny:                "default",
			JanitorIntervalSeconds: 0,
			JanitorTTLSeconds:      0,
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Exporter: "none",
		},
	}
}

func normalize(cfg *Config) {
	if cfg.BotTokenEnv == "" {
		cfg.BotTokenEnv = "TGDISPATCH_BOT_TOKEN"
	}
	if cfg.PollTimeoutSeconds <= 0 {
		cfg.PollTimeoutSeconds = 30
	}
	if cfg.BackoffOnErrorSeconds <= 0 {
		cfg.BackoffOnErrorSeconds = 5
	}
	if cfg.ShutdownDrainSeconds <= 0 {
		cfg.ShutdownDrainSeconds = 10
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.FSM.Backend == "" {
		cfg.FSM.Backend = "sqlite"
	}
	if cfg.FSM.DSN == "" {
		cfg.FSM.DSN = "tgdispatch_fsm.db"
	}
	if cfg.FSM.Destiny == "" {
		cfg.FSM.Destiny = "default"
	}
	if cfg.Telemetry.Exporter == "" {
		cfg.Telemetry.Exporter = "none"
	}
}

func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q", cfg.LogLevel)
	}
	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "otlp-http", "stdout", "none":
		default:
			return fmt.Errorf("config: invalid telemetry.exporter %q", cfg.Telemetry.Exporter)
		}
	}
	if cfg.FSM.JanitorIntervalSeconds < 0 {
		return fmt.Errorf("config: fsm.janitor_interval_seconds must be >= 0")
	}
	switch cfg.FSM.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("config: invalid fsm.backend %q", cfg.FSM.Backend)
	}
	return nil
}

// PollTimeout returns the configured long-poll timeout as a Duration.
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// BackoffOnError returns the configured error backoff as a Duration.
func (c *Config) BackoffOnError() time.Duration {
	return time.Duration(c.BackoffOnErrorSeconds) * time.Second
}

// ShutdownDrain returns the configured shutdown drain bound as a Duration.
func (c *Config) ShutdownDrain() time.Duration {
	return time.Duration(c.ShutdownDrainSeconds) * time.Second
}

// JanitorInterval returns the configured janitor tick interval, or 0 if
// disabled.
func (c *Config) JanitorInterval() time.Duration {
	if c.FSM.JanitorIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.FSM.JanitorIntervalSeconds) * time.Second
}

// JanitorTTL returns the configured FSM row TTL, or 0 if disabled.
func (c *Config) JanitorTTL() time.Duration {
	if c.FSM.JanitorTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.FSM.JanitorTTLSeconds) * time.Second
}

// BotToken resolves the bot token from the environment variable named by
// BotTokenEnv.
func (c *Config) BotToken() (string, error) {
	v := os.Getenv(c.BotTokenEnv)
	if v == "" {
		return "", fmt.Errorf("config: environment variable %s is not set", c.BotTokenEnv)
	}
	return v, nil
}
