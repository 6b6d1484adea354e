package ledger

import (
	"fmt"
	"sync"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/errors"
)

// MemoryStore is an in-process Store backend holding authoritative state
// behind a mutex. It honors the same OCC contract as FileStore and suits
// tests and embedded single-process deployments where file durability is
// not needed.
type MemoryStore struct {
	mu      sync.Mutex
	ledger  *Ledger
	version uint64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ledger: NewLedger()}
}

// Snapshot returns a deep copy of the current ledger and its version.
func (ms *MemoryStore) Snapshot() (*Ledger, Version, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.ledger.Clone(), ms.versionLocked(), nil
}

// CommitIfUnchanged replaces the ledger iff no commit happened since
// version was read.
func (ms *MemoryStore) CommitIfUnchanged(version Version, newLedger *Ledger) error {
	if err := newLedger.Validate(); err != nil {
		return errors.Wrap(err, "refusing to commit invalid ledger")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if current := ms.versionLocked(); current != version {
		return fmt.Errorf("%w: snapshot read at %s, ledger now at %s",
			errors.ErrStaleSnapshot, version, current)
	}

	ms.ledger = newLedger.Clone()
	ms.version++
	return nil
}

// versionLocked formats the commit counter as a Version.
func (ms *MemoryStore) versionLocked() Version {
	if ms.version == 0 {
		return VersionEmpty
	}
	return Version(fmt.Sprintf("mem-%d", ms.version))
}
