package ledger

import (
	"testing"
)

func TestFileLock_LockUnlock(t *testing.T) {
	fl := NewFileLock(t.TempDir())
	if err := fl.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if err := fl.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
}

func TestFileLock_TryLock_Contended(t *testing.T) {
	dir := t.TempDir()

	holder := NewFileLock(dir)
	if err := holder.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer func() { _ = holder.Unlock() }()

	// flock is per-open-file, so a second descriptor contends even within
	// one process.
	other := NewFileLock(dir)
	ok, err := other.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if ok {
		_ = other.Unlock()
		t.Fatal("TryLock should fail while the lock is held")
	}
}

func TestFileLock_TryLock_AfterRelease(t *testing.T) {
	dir := t.TempDir()

	holder := NewFileLock(dir)
	if err := holder.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if err := holder.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}

	other := NewFileLock(dir)
	ok, err := other.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if !ok {
		t.Fatal("TryLock should succeed after release")
	}
	_ = other.Unlock()
}

func TestFileLock_Unlock_WithoutLock(t *testing.T) {
	fl := NewFileLock(t.TempDir())
	if err := fl.Unlock(); err != nil {
		t.Errorf("Unlock without Lock should be a no-op, got %v", err)
	}
}
