// Package ledger defines the shared work-item ledger and its storage
// backends. The ledger is the single shared mutable resource of the
// coordination engine: an ordered, append-biased collection of work items
// persisted as one atomically-replaceable snapshot.
//
// All coordination happens through the Store contract: read a complete
// snapshot plus an opaque version, compute a new ledger, and commit it back
// only if no other commit landed in between. Readers never observe a
// partially written ledger.
package ledger

import "time"

// Ledger is an ordered collection of work items. It is a plain value: the
// Store owns persistence and concurrency, the Ledger just holds state.
type Ledger struct {
	Items []WorkItem `json:"items"`
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{Items: []WorkItem{}}
}

// Clone returns a deep copy. Coordinator operations mutate a clone and
// commit it, leaving the snapshot they read from untouched.
func (l *Ledger) Clone() *Ledger {
	items := make([]WorkItem, len(l.Items))
	for i := range l.Items {
		items[i] = l.Items[i].Clone()
	}
	return &Ledger{Items: items}
}

// Find returns a pointer to the item with the given ID, or nil.
// The pointer aliases the ledger's backing slice, so mutations through it
// are visible in the ledger.
func (l *Ledger) Find(workItemID string) *WorkItem {
	for i := range l.Items {
		if l.Items[i].WorkItemID == workItemID {
			return &l.Items[i]
		}
	}
	return nil
}

// Append adds an item to the end of the ledger.
func (l *Ledger) Append(item WorkItem) {
	l.Items = append(l.Items, item)
}

// HasActiveExclusive reports whether any item of the given work type is
// currently claimed or in progress at an exclusive priority.
func (l *Ledger) HasActiveExclusive(workType string) bool {
	for i := range l.Items {
		it := &l.Items[i]
		if it.WorkType == workType && it.Status.IsActive() && it.Priority.Exclusive() {
			return true
		}
	}
	return false
}

// ActiveByType returns the IDs of items of the given work type that are
// currently claimed or in progress.
func (l *Ledger) ActiveByType(workType string) []string {
	var ids []string
	for i := range l.Items {
		it := &l.Items[i]
		if it.WorkType == workType && it.Status.IsActive() {
			ids = append(ids, it.WorkItemID)
		}
	}
	return ids
}

// Validate checks every item and enforces work_item_id uniqueness.
func (l *Ledger) Validate() error {
	seen := make(map[string]struct{}, len(l.Items))
	for i := range l.Items {
		if err := l.Items[i].Validate(); err != nil {
			return err
		}
		id := l.Items[i].WorkItemID
		if _, dup := seen[id]; dup {
			return errDuplicateID(id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Counts is a snapshot of ledger state totals, used by status reporting.
type Counts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Claimed    int `json:"claimed"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// Counts tallies items by status.
func (l *Ledger) Counts() Counts {
	var c Counts
	c.Total = len(l.Items)
	for i := range l.Items {
		switch l.Items[i].Status {
		case StatusPending:
			c.Pending++
		case StatusClaimed:
			c.Claimed++
		case StatusInProgress:
			c.InProgress++
		case StatusCompleted:
			c.Completed++
		case StatusFailed:
			c.Failed++
		}
	}
	return c
}

// StaleClaims returns the IDs of items claimed before the cutoff that have
// never reported progress. Used to recover claims held by dead agents.
func (l *Ledger) StaleClaims(cutoff time.Time) []string {
	var ids []string
	for i := range l.Items {
		it := &l.Items[i]
		if it.Status == StatusClaimed && it.ClaimedAt != nil && it.ClaimedAt.Before(cutoff) {
			ids = append(ids, it.WorkItemID)
		}
	}
	return ids
}
