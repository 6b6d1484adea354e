package cmd

import (
	"fmt"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/config"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/coordination"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/logging"
)

// openHub builds a coordination hub from the loaded configuration.
// Callers must Stop the hub when done.
func openHub() (*coordination.Hub, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logDir := ""
	if cfg.Logging.ToFile {
		logDir = cfg.Coordination.DataDir
	}
	logger, err := logging.NewLogger(logDir, cfg.Logging.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	hub, err := coordination.NewHub(coordination.HubConfig{
		DataDir:          cfg.Coordination.DataDir,
		Logger:           logger,
		HeartbeatTimeout: cfg.Registry.HeartbeatTimeout(),
		CoordinatorOptions: []coordination.Option{
			coordination.WithMaxAttempts(cfg.Coordination.MaxAttempts),
			coordination.WithBackoff(cfg.Coordination.BackoffBase(), cfg.Coordination.BackoffMax()),
		},
	})
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}
	return hub, cfg, nil
}
