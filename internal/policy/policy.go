// Package policy decides whether a candidate claim is admissible against a
// ledger snapshot. It is a pure function of its inputs: no I/O, no clock,
// no side effects, so admission rules are unit-testable independent of
// storage.
package policy

import (
	"fmt"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/errors"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/ledger"
)

// Admit evaluates a candidate work item against the ledger snapshot.
//
// A high or critical candidate is rejected with errors.ErrConflict when the
// ledger already holds an active (claimed or in_progress) item of the same
// work type; these "exclusive" work types admit at most one active claim.
// Low and medium candidates are always admitted.
func Admit(l *ledger.Ledger, candidate ledger.WorkItem) error {
	if !candidate.Priority.Exclusive() {
		return nil
	}

	for i := range l.Items {
		existing := &l.Items[i]
		if existing.WorkType != candidate.WorkType {
			continue
		}
		if existing.Status.IsActive() {
			return fmt.Errorf("%w: work_type %q held by item %s (status %s)",
				errors.ErrConflict, candidate.WorkType, existing.WorkItemID, existing.Status)
		}
	}
	return nil
}
