package coordination

import "time"

// Defaults for the commit retry loop.
const (
	defaultMaxAttempts = 5
	defaultBackoffBase = 10 * time.Millisecond
	defaultBackoffMax  = 250 * time.Millisecond
)

// coordinatorConfig holds tunable coordinator behavior.
type coordinatorConfig struct {
	maxAttempts int
	backoffBase time.Duration
	backoffMax  time.Duration
}

// Option configures a Coordinator.
type Option func(*coordinatorConfig)

// WithMaxAttempts sets the number of snapshot-commit attempts before an
// operation returns ErrRetryExhausted. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *coordinatorConfig) {
		if n >= 1 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the base and cap of the randomized exponential backoff
// between stale-commit retries. Non-positive values are ignored.
func WithBackoff(base, max time.Duration) Option {
	return func(c *coordinatorConfig) {
		if base > 0 {
			c.backoffBase = base
		}
		if max > 0 {
			c.backoffMax = max
		}
	}
}

func newCoordinatorConfig(opts []Option) coordinatorConfig {
	cfg := coordinatorConfig{
		maxAttempts: defaultMaxAttempts,
		backoffBase: defaultBackoffBase,
		backoffMax:  defaultBackoffMax,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.backoffMax < cfg.backoffBase {
		cfg.backoffMax = cfg.backoffBase
	}
	return cfg
}
