// Package event defines the event bus and event types that decouple the
// coordinator from reporting and monitoring consumers. Dashboard readers
// subscribe here rather than polling the ledger.
package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "work.claimed", "agent.registered").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Work Item Lifecycle Events
// -----------------------------------------------------------------------------

// WorkClaimedEvent is emitted after a claim commits to the ledger.
type WorkClaimedEvent struct {
	baseEvent
	WorkItemID string // Unique identifier of the committed work item
	WorkType   string // Work type the claim was made against
	Priority   string // Priority at claim time
	AgentID    string // Claiming agent
	TraceID    string // Correlation token fixed for the item's lifecycle
}

// NewWorkClaimedEvent creates a WorkClaimedEvent.
func NewWorkClaimedEvent(workItemID, workType, priority, agentID, traceID string) WorkClaimedEvent {
	return WorkClaimedEvent{
		baseEvent:  newBaseEvent("work.claimed"),
		WorkItemID: workItemID,
		WorkType:   workType,
		Priority:   priority,
		AgentID:    agentID,
		TraceID:    traceID,
	}
}

// WorkProgressedEvent is emitted after a progress update commits.
type WorkProgressedEvent struct {
	baseEvent
	WorkItemID string
	Percent    int    // Reported completion percentage
	Note       string // Audit note attached to the update
	TraceID    string
}

// NewWorkProgressedEvent creates a WorkProgressedEvent.
func NewWorkProgressedEvent(workItemID string, percent int, note, traceID string) WorkProgressedEvent {
	return WorkProgressedEvent{
		baseEvent:  newBaseEvent("work.progressed"),
		WorkItemID: workItemID,
		Percent:    percent,
		Note:       note,
		TraceID:    traceID,
	}
}

// WorkCompletedEvent is emitted after a work item reaches completed.
type WorkCompletedEvent struct {
	baseEvent
	WorkItemID string
	Result     string
	Score      int
	TraceID    string
}

// NewWorkCompletedEvent creates a WorkCompletedEvent.
func NewWorkCompletedEvent(workItemID, result string, score int, traceID string) WorkCompletedEvent {
	return WorkCompletedEvent{
		baseEvent:  newBaseEvent("work.completed"),
		WorkItemID: workItemID,
		Result:     result,
		Score:      score,
		TraceID:    traceID,
	}
}

// WorkFailedEvent is emitted after a work item reaches failed.
type WorkFailedEvent struct {
	baseEvent
	WorkItemID string
	Reason     string
	TraceID    string
}

// NewWorkFailedEvent creates a WorkFailedEvent.
func NewWorkFailedEvent(workItemID, reason, traceID string) WorkFailedEvent {
	return WorkFailedEvent{
		baseEvent:  newBaseEvent("work.failed"),
		WorkItemID: workItemID,
		Reason:     reason,
		TraceID:    traceID,
	}
}

// -----------------------------------------------------------------------------
// Ledger Events
// -----------------------------------------------------------------------------

// LedgerChangedEvent is emitted by the ledger watcher when the persisted
// snapshot is replaced, typically by another process.
type LedgerChangedEvent struct {
	baseEvent
	Path string // Path of the snapshot file that changed
}

// NewLedgerChangedEvent creates a LedgerChangedEvent.
func NewLedgerChangedEvent(path string) LedgerChangedEvent {
	return LedgerChangedEvent{
		baseEvent: newBaseEvent("ledger.changed"),
		Path:      path,
	}
}

// -----------------------------------------------------------------------------
// Agent Events
// -----------------------------------------------------------------------------

// AgentRegisteredEvent is emitted when an agent joins the registry.
type AgentRegisteredEvent struct {
	baseEvent
	AgentID string
	Team    string
}

// NewAgentRegisteredEvent creates an AgentRegisteredEvent.
func NewAgentRegisteredEvent(agentID, team string) AgentRegisteredEvent {
	return AgentRegisteredEvent{
		baseEvent: newBaseEvent("agent.registered"),
		AgentID:   agentID,
		Team:      team,
	}
}
