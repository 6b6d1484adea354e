package ledger

import (
	"fmt"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/errors"
)

// Version is an opaque marker identifying one persisted ledger state.
// Two snapshots with equal versions hold identical contents.
type Version string

// VersionEmpty is the version of a ledger that has never been committed.
const VersionEmpty Version = "empty"

// Store is the optimistic-concurrency contract every ledger backend must
// honor, whether file-based, in-memory, or a transactional KV store.
type Store interface {
	// Snapshot returns a complete copy of the current ledger plus the
	// version it was read at. The returned ledger is owned by the caller
	// and safe to mutate.
	Snapshot() (*Ledger, Version, error)

	// CommitIfUnchanged atomically replaces the persisted ledger with
	// newLedger iff no other commit has occurred since version was read.
	// Returns errors.ErrStaleSnapshot (and performs no write) otherwise.
	CommitIfUnchanged(version Version, newLedger *Ledger) error
}

// errDuplicateID reports a work_item_id uniqueness violation.
func errDuplicateID(id string) error {
	return fmt.Errorf("%w: duplicate work_item_id %s", errors.ErrLedgerCorrupted, id)
}
