package coordination

import (
	"time"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/errors"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/event"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/ledger"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/logging"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/registry"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/telemetry"
)

// HubConfig holds the required inputs for creating a Hub.
type HubConfig struct {
	// DataDir is where the ledger snapshot, telemetry stream, and agent
	// registry live. Every agent process coordinating on the same work
	// points at the same directory.
	DataDir string

	// Logger receives engine logs. Nil disables logging.
	Logger *logging.Logger

	// HeartbeatTimeout bounds agent liveness; agents silent for longer are
	// excluded from ActiveAgents. Zero selects a default of one minute.
	HeartbeatTimeout time.Duration

	// CoordinatorOptions tune the commit retry loop.
	CoordinatorOptions []Option
}

// defaultHeartbeatTimeout is used when HubConfig leaves it zero.
const defaultHeartbeatTimeout = time.Minute

// Hub wires the coordination engine together for one data directory: the
// file-backed ledger store, the agent registry, the telemetry recorder,
// the event bus, and the snapshot watcher. It owns their lifecycle.
type Hub struct {
	dataDir          string
	heartbeatTimeout time.Duration

	bus         *event.Bus
	store       *ledger.FileStore
	watcher     *ledger.Watcher
	recorder    *telemetry.FileRecorder
	reg         *registry.Registry
	coordinator *Coordinator
	logger      *logging.Logger

	started bool
}

// NewHub creates a Hub rooted at cfg.DataDir.
func NewHub(cfg HubConfig) (*Hub, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("coordination: DataDir is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	heartbeat := cfg.HeartbeatTimeout
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatTimeout
	}

	bus := event.NewBus()

	store, err := ledger.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	recorder, err := telemetry.NewFileRecorder(cfg.DataDir, logger)
	if err != nil {
		return nil, errors.Wrap(err, "coordination: create telemetry recorder")
	}

	reg, err := registry.NewRegistry(cfg.DataDir, registry.WithBus(bus))
	if err != nil {
		_ = recorder.Close()
		return nil, errors.Wrap(err, "coordination: open agent registry")
	}

	watcher, err := ledger.NewWatcher(store, bus)
	if err != nil {
		_ = recorder.Close()
		return nil, errors.Wrap(err, "coordination: create ledger watcher")
	}

	coordinator := NewCoordinator(store, recorder, bus, logger, cfg.CoordinatorOptions...)

	return &Hub{
		dataDir:          cfg.DataDir,
		heartbeatTimeout: heartbeat,
		bus:              bus,
		store:            store,
		watcher:          watcher,
		recorder:         recorder,
		reg:              reg,
		coordinator:      coordinator,
		logger:           logger,
	}, nil
}

// Start begins the ledger watcher. It is an error to start a started hub.
func (h *Hub) Start() error {
	if h.started {
		return errors.New("coordination: hub already started")
	}
	h.watcher.Start()
	h.started = true
	return nil
}

// Stop tears down the watcher and telemetry stream. It is idempotent.
func (h *Hub) Stop() error {
	if !h.started {
		return h.recorder.Close()
	}
	h.watcher.Stop()
	h.started = false
	return h.recorder.Close()
}

// Coordinator returns the hub's coordinator.
func (h *Hub) Coordinator() *Coordinator { return h.coordinator }

// Registry returns the hub's agent registry.
func (h *Hub) Registry() *registry.Registry { return h.reg }

// Bus returns the hub's event bus.
func (h *Hub) Bus() *event.Bus { return h.bus }

// Store returns the hub's ledger store.
func (h *Hub) Store() *ledger.FileStore { return h.store }

// HeartbeatTimeout returns the configured agent liveness window.
func (h *Hub) HeartbeatTimeout() time.Duration { return h.heartbeatTimeout }

// ActiveAgents returns agents heard from within the heartbeat timeout.
func (h *Hub) ActiveAgents() []*registry.Agent {
	return h.reg.ActiveAgents(time.Now(), h.heartbeatTimeout)
}
