package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Coordination.DataDir != ".swarm" {
		t.Errorf("data_dir = %q", cfg.Coordination.DataDir)
	}
	if cfg.Coordination.MaxAttempts != 5 {
		t.Errorf("max_attempts = %d", cfg.Coordination.MaxAttempts)
	}
	if cfg.Coordination.BackoffBase() != 10*time.Millisecond {
		t.Errorf("backoff base = %v", cfg.Coordination.BackoffBase())
	}
	if cfg.Registry.HeartbeatTimeout() != time.Minute {
		t.Errorf("heartbeat timeout = %v", cfg.Registry.HeartbeatTimeout())
	}
	if cfg.Registry.PruneAfter() != time.Hour {
		t.Errorf("prune retention = %v", cfg.Registry.PruneAfter())
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()
	viper.Set("coordination.max_attempts", 9)
	viper.Set("logging.level", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Coordination.MaxAttempts != 9 {
		t.Errorf("max_attempts = %d, want 9", cfg.Coordination.MaxAttempts)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.Coordination.DataDir = "" }},
		{"zero attempts", func(c *Config) { c.Coordination.MaxAttempts = 0 }},
		{"zero backoff base", func(c *Config) { c.Coordination.BackoffBaseMs = 0 }},
		{"backoff max below base", func(c *Config) {
			c.Coordination.BackoffBaseMs = 100
			c.Coordination.BackoffMaxMs = 50
		}},
		{"zero heartbeat timeout", func(c *Config) { c.Registry.HeartbeatTimeoutSeconds = 0 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}
