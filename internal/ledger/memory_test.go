package ledger

import (
	"sync"
	"testing"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/errors"
)

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	ms := NewMemoryStore()

	l, v, err := ms.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if v != VersionEmpty {
		t.Errorf("initial version = %q, want %q", v, VersionEmpty)
	}

	l.Append(validItem("work-1"))
	if err := ms.CommitIfUnchanged(v, l); err != nil {
		t.Fatalf("CommitIfUnchanged: %v", err)
	}

	// Mutating the committed ledger afterward must not leak into the store.
	l.Find("work-1").Status = StatusFailed

	snap, _, _ := ms.Snapshot()
	if snap.Items[0].Status != StatusClaimed {
		t.Error("store state should be isolated from the caller's ledger")
	}
}

func TestMemoryStore_StaleCommit(t *testing.T) {
	ms := NewMemoryStore()

	l1, v1, _ := ms.Snapshot()
	l2, v2, _ := ms.Snapshot()

	l1.Append(validItem("work-1"))
	if err := ms.CommitIfUnchanged(v1, l1); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	l2.Append(validItem("work-2"))
	if err := ms.CommitIfUnchanged(v2, l2); !errors.Is(err, errors.ErrStaleSnapshot) {
		t.Fatalf("second commit error = %v, want ErrStaleSnapshot", err)
	}
}

func TestMemoryStore_ConcurrentCommits_NoLostUpdates(t *testing.T) {
	ms := NewMemoryStore()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := validItem("work-" + string(rune('a'+n)))
			// Retry until the commit wins.
			for {
				l, v, err := ms.Snapshot()
				if err != nil {
					t.Error(err)
					return
				}
				l.Append(id)
				err = ms.CommitIfUnchanged(v, l)
				if err == nil {
					return
				}
				if !errors.Is(err, errors.ErrStaleSnapshot) {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	final, _, _ := ms.Snapshot()
	if len(final.Items) != writers {
		t.Errorf("final ledger has %d items, want %d", len(final.Items), writers)
	}
}
