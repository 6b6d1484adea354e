package ledger

import (
	"fmt"
	"time"
)

// Priority represents the urgency of a work item. High and critical
// priorities make the item's work type exclusive: at most one such item may
// be active at a time.
type Priority string

const (
	// PriorityLow is for background work; any number of claims may coexist.
	PriorityLow Priority = "low"

	// PriorityMedium is for routine work; claims are not restricted.
	PriorityMedium Priority = "medium"

	// PriorityHigh marks the work type exclusive while the item is active.
	PriorityHigh Priority = "high"

	// PriorityCritical marks the work type exclusive while the item is active.
	PriorityCritical Priority = "critical"
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Valid returns true if this is a recognized priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Exclusive returns true if items at this priority admit at most one
// active claim per work type.
func (p Priority) Exclusive() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Status represents the current state of a work item.
type Status string

const (
	// StatusPending indicates the item is waiting to be claimed.
	StatusPending Status = "pending"

	// StatusClaimed indicates an agent has claimed the item but has not
	// yet reported progress.
	StatusClaimed Status = "claimed"

	// StatusInProgress indicates the claiming agent is actively working.
	StatusInProgress Status = "in_progress"

	// StatusCompleted indicates the item finished successfully.
	StatusCompleted Status = "completed"

	// StatusFailed indicates the item was abandoned or failed.
	StatusFailed Status = "failed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid returns true if this is a recognized status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusClaimed, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsActive returns true if an agent currently holds the item.
func (s Status) IsActive() bool {
	return s == StatusClaimed || s == StatusInProgress
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition: pending/claimed -> in_progress -> completed/failed.
// Terminal states admit no further transitions.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending, StatusClaimed:
		return next == StatusInProgress || next == StatusCompleted || next == StatusFailed
	case StatusInProgress:
		return next == StatusInProgress || next == StatusCompleted || next == StatusFailed
	}
	return false
}

// AuditNote is an append-only progress annotation on a work item.
type AuditNote struct {
	// At is when the note was recorded.
	At time.Time `json:"at"`

	// Percent is the completion percentage reported with the note.
	Percent int `json:"percent"`

	// Note is free-form text from the reporting agent.
	Note string `json:"note,omitempty"`
}

// WorkItem is a unit of claimable, trackable work. Items are only ever
// replaced as part of a whole-snapshot commit, never mutated in place by
// multiple writers.
type WorkItem struct {
	// WorkItemID is globally unique for the lifetime of the ledger.
	WorkItemID string `json:"work_item_id"`

	// WorkType groups items subject to the same conflict rule.
	WorkType string `json:"work_type"`

	// Description is free-form text describing the work.
	Description string `json:"description,omitempty"`

	// Priority determines exclusivity under the conflict policy.
	Priority Priority `json:"priority"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// ClaimedBy is the agent ID holding the claim, empty if unclaimed.
	ClaimedBy string `json:"claimed_by,omitempty"`

	// ClaimedAt is when the item was claimed.
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`

	// CompletedAt is when the item reached a terminal state.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Result is the outcome recorded at completion.
	Result string `json:"result,omitempty"`

	// Score is the self-reported quality score recorded at completion.
	Score int `json:"score,omitempty"`

	// Progress is the most recent completion percentage.
	Progress int `json:"progress,omitempty"`

	// Notes is the append-only audit trail of progress updates.
	Notes []AuditNote `json:"notes,omitempty"`

	// TraceID is fixed at claim time and immutable for the item's
	// remaining lifecycle.
	TraceID string `json:"trace_id"`

	// CoordinationID uniquely identifies the coordination transaction
	// that created the item.
	CoordinationID string `json:"coordination_id"`
}

// Validate checks that the item's identifying fields and enumerations are
// well-formed. Malformed records are rejected at the storage boundary
// rather than propagated.
func (w *WorkItem) Validate() error {
	if w.WorkItemID == "" {
		return fmt.Errorf("work_item_id must not be empty")
	}
	if w.WorkType == "" {
		return fmt.Errorf("work item %s: work_type must not be empty", w.WorkItemID)
	}
	if !w.Priority.Valid() {
		return fmt.Errorf("work item %s: unknown priority %q", w.WorkItemID, w.Priority)
	}
	if !w.Status.Valid() {
		return fmt.Errorf("work item %s: unknown status %q", w.WorkItemID, w.Status)
	}
	if w.TraceID == "" {
		return fmt.Errorf("work item %s: trace_id must not be empty", w.WorkItemID)
	}
	if w.CoordinationID == "" {
		return fmt.Errorf("work item %s: coordination_id must not be empty", w.WorkItemID)
	}
	return nil
}

// Clone returns a deep copy of the work item.
func (w *WorkItem) Clone() WorkItem {
	cp := *w
	if w.ClaimedAt != nil {
		t := *w.ClaimedAt
		cp.ClaimedAt = &t
	}
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		cp.CompletedAt = &t
	}
	if w.Notes != nil {
		cp.Notes = make([]AuditNote, len(w.Notes))
		copy(cp.Notes, w.Notes)
	}
	return cp
}
