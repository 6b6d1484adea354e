// Package registry tracks the liveness of registered agents. Agents
// register once, then heartbeat periodically; reporting consumers ask for
// the set of agents heard from within a timeout window. The registry has
// no effect on ledger conflict resolution.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/errors"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/event"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/identity"
)

// RegistryFileName is the durable agent roster within a data directory.
const RegistryFileName = "agents.yaml"

// AgentStatus is the reported health of an agent.
type AgentStatus string

const (
	// AgentActive indicates the agent is processing work.
	AgentActive AgentStatus = "active"

	// AgentIdle indicates the agent is registered but waiting for work.
	AgentIdle AgentStatus = "idle"

	// AgentError indicates the agent reported a fault on its last heartbeat.
	AgentError AgentStatus = "error"
)

// Valid returns true if this is a recognized agent status.
func (s AgentStatus) Valid() bool {
	switch s {
	case AgentActive, AgentIdle, AgentError:
		return true
	}
	return false
}

// Agent is one registered worker process.
type Agent struct {
	// ID is the opaque unique token assigned at registration.
	ID string `yaml:"id"`

	// Team is the logical group the agent works for.
	Team string `yaml:"team"`

	// Capacity is how many work items the agent claims to handle at once.
	Capacity int `yaml:"capacity"`

	// Status is the agent's reported health.
	Status AgentStatus `yaml:"status"`

	// LastHeartbeat is the most recent time the agent checked in.
	LastHeartbeat time.Time `yaml:"last_heartbeat"`
}

// registryState is the serializable representation of the roster.
type registryState struct {
	Agents map[string]*Agent `yaml:"agents"`
}

// Registry is a durable, heartbeat-based agent roster. All methods are safe
// for concurrent use; state is persisted to a YAML file with atomic
// temp-and-rename writes.
type Registry struct {
	mu     sync.Mutex
	path   string
	agents map[string]*Agent
	bus    *event.Bus
}

// Option configures a Registry.
type Option func(*Registry)

// WithBus attaches an event bus; the registry publishes
// AgentRegisteredEvent on successful registration.
func WithBus(bus *event.Bus) Option {
	return func(r *Registry) {
		r.bus = bus
	}
}

// NewRegistry creates a Registry persisted under dir, loading any existing
// roster. A missing roster file yields an empty registry; an unreadable one
// is an error so stale state is never silently discarded.
func NewRegistry(dir string, opts ...Option) (*Registry, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create registry directory: %w", err)
	}

	r := &Registry{
		path:   filepath.Join(dir, RegistryFileName),
		agents: make(map[string]*Agent),
	}
	for _, opt := range opts {
		opt(r)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read agent registry: %w", err)
	}

	var state registryState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal agent registry: %w", err)
	}
	if state.Agents != nil {
		r.agents = state.Agents
	}
	return r, nil
}

// Register adds a new agent to the roster and returns its record. The ID is
// generated here; callers never pick their own. Status starts idle with the
// heartbeat set to now.
func (r *Registry) Register(team string, capacity int) (*Agent, error) {
	if team == "" {
		return nil, fmt.Errorf("team must not be empty")
	}
	if capacity <= 0 {
		capacity = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	agent := &Agent{
		ID:            identity.NewWithPrefix("agent"),
		Team:          team,
		Capacity:      capacity,
		Status:        AgentIdle,
		LastHeartbeat: time.Now(),
	}
	r.agents[agent.ID] = agent

	if err := r.saveLocked(); err != nil {
		delete(r.agents, agent.ID)
		return nil, err
	}

	if r.bus != nil {
		r.bus.Publish(event.NewAgentRegisteredEvent(agent.ID, agent.Team))
	}

	cp := *agent
	return &cp, nil
}

// Heartbeat refreshes an agent's liveness timestamp and optionally updates
// its reported status. An empty status leaves the current one in place.
func (r *Registry) Heartbeat(agentID string, status AgentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrAgentNotFound, agentID)
	}

	if status != "" {
		if !status.Valid() {
			return fmt.Errorf("unknown agent status %q", status)
		}
		agent.Status = status
	}
	agent.LastHeartbeat = time.Now()

	return r.saveLocked()
}

// Get returns a copy of the agent record, or ErrAgentNotFound.
func (r *Registry) Get(agentID string) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrAgentNotFound, agentID)
	}
	cp := *agent
	return &cp, nil
}

// ActiveAgents returns copies of all agents whose last heartbeat is within
// timeout of now, sorted by ID for stable reporting output.
func (r *Registry) ActiveAgents(now time.Time, timeout time.Duration) []*Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-timeout)
	var active []*Agent
	for _, agent := range r.agents {
		if agent.LastHeartbeat.After(cutoff) {
			cp := *agent
			active = append(active, &cp)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active
}

// Prune removes agents silent for longer than retention and returns the
// removed IDs. Used to keep the roster from accumulating dead agents.
func (r *Registry) Prune(now time.Time, retention time.Duration) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-retention)
	var removed []string
	for id, agent := range r.agents {
		if agent.LastHeartbeat.Before(cutoff) {
			delete(r.agents, id)
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}
	sort.Strings(removed)

	if err := r.saveLocked(); err != nil {
		return nil, err
	}
	return removed, nil
}

// Count returns the total number of registered agents.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.agents)
}

// saveLocked persists the roster atomically. Callers must hold r.mu.
func (r *Registry) saveLocked() error {
	data, err := yaml.Marshal(registryState{Agents: r.agents})
	if err != nil {
		return fmt.Errorf("marshal agent registry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".agents-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp registry file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp registry file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp registry file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp registry file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp registry file: %w", err)
	}
	return nil
}
