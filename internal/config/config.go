// Package config loads engine configuration via viper, layering defaults,
// an optional YAML config file, and SWARM_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete engine configuration.
type Config struct {
	Coordination CoordinationConfig `mapstructure:"coordination"`
	Registry     RegistryConfig     `mapstructure:"registry"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// CoordinationConfig controls the coordinator's retry discipline and where
// shared state lives.
type CoordinationConfig struct {
	// DataDir is the shared directory holding the ledger snapshot,
	// telemetry stream, and agent registry. All agents coordinating on the
	// same work must point at the same directory.
	DataDir string `mapstructure:"data_dir"`
	// MaxAttempts is the number of snapshot-commit attempts before an
	// operation fails with retry exhaustion.
	MaxAttempts int `mapstructure:"max_attempts"`
	// BackoffBaseMs is the initial retry backoff in milliseconds.
	BackoffBaseMs int `mapstructure:"backoff_base_ms"`
	// BackoffMaxMs caps the retry backoff in milliseconds.
	BackoffMaxMs int `mapstructure:"backoff_max_ms"`
}

// RegistryConfig controls agent liveness accounting.
type RegistryConfig struct {
	// HeartbeatTimeoutSeconds is how long an agent may go without a
	// heartbeat before it is excluded from active reporting.
	HeartbeatTimeoutSeconds int `mapstructure:"heartbeat_timeout_seconds"`
	// PruneAfterSeconds is how long a silent agent is retained in the
	// roster before pruning removes it (0 = never prune).
	PruneAfterSeconds int `mapstructure:"prune_after_seconds"`
}

// LoggingConfig controls engine logging.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// ToFile writes logs into the data directory instead of stderr.
	ToFile bool `mapstructure:"to_file"`
}

// BackoffBase returns the backoff base as a time.Duration.
func (c *CoordinationConfig) BackoffBase() time.Duration {
	return time.Duration(c.BackoffBaseMs) * time.Millisecond
}

// BackoffMax returns the backoff cap as a time.Duration.
func (c *CoordinationConfig) BackoffMax() time.Duration {
	return time.Duration(c.BackoffMaxMs) * time.Millisecond
}

// HeartbeatTimeout returns the heartbeat timeout as a time.Duration.
func (c *RegistryConfig) HeartbeatTimeout() time.Duration {
	return time.Duration(c.HeartbeatTimeoutSeconds) * time.Second
}

// PruneAfter returns the prune retention as a time.Duration.
func (c *RegistryConfig) PruneAfter() time.Duration {
	return time.Duration(c.PruneAfterSeconds) * time.Second
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Coordination: CoordinationConfig{
			DataDir:       ".swarm",
			MaxAttempts:   5,
			BackoffBaseMs: 10,
			BackoffMaxMs:  250,
		},
		Registry: RegistryConfig{
			HeartbeatTimeoutSeconds: 60,
			PruneAfterSeconds:       3600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			ToFile: true,
		},
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("coordination.data_dir", defaults.Coordination.DataDir)
	viper.SetDefault("coordination.max_attempts", defaults.Coordination.MaxAttempts)
	viper.SetDefault("coordination.backoff_base_ms", defaults.Coordination.BackoffBaseMs)
	viper.SetDefault("coordination.backoff_max_ms", defaults.Coordination.BackoffMaxMs)

	viper.SetDefault("registry.heartbeat_timeout_seconds", defaults.Registry.HeartbeatTimeoutSeconds)
	viper.SetDefault("registry.prune_after_seconds", defaults.Registry.PruneAfterSeconds)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.to_file", defaults.Logging.ToFile)
}

// Load reads the configuration from viper and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Coordination.DataDir == "" {
		return fmt.Errorf("coordination.data_dir must not be empty")
	}
	if c.Coordination.MaxAttempts < 1 {
		return fmt.Errorf("coordination.max_attempts must be at least 1, got %d", c.Coordination.MaxAttempts)
	}
	if c.Coordination.BackoffBaseMs < 1 {
		return fmt.Errorf("coordination.backoff_base_ms must be positive, got %d", c.Coordination.BackoffBaseMs)
	}
	if c.Coordination.BackoffMaxMs < c.Coordination.BackoffBaseMs {
		return fmt.Errorf("coordination.backoff_max_ms (%d) must be >= backoff_base_ms (%d)",
			c.Coordination.BackoffMaxMs, c.Coordination.BackoffBaseMs)
	}
	if c.Registry.HeartbeatTimeoutSeconds < 1 {
		return fmt.Errorf("registry.heartbeat_timeout_seconds must be positive, got %d", c.Registry.HeartbeatTimeoutSeconds)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "swarm")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".swarm"
	}
	return filepath.Join(home, ".config", "swarm")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
