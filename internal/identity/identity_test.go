package identity

import (
	"strings"
	"sync"
	"testing"
)

func TestNew_Format(t *testing.T) {
	id := New()
	parts := strings.Split(id, "-")
	if len(parts) != 2 {
		t.Fatalf("New() = %q, want <nanos>-<suffix>", id)
	}
	if len(parts[1]) != suffixBytes*2 {
		t.Errorf("suffix %q length = %d, want %d hex chars", parts[1], len(parts[1]), suffixBytes*2)
	}
}

func TestNewWithPrefix(t *testing.T) {
	id := NewWithPrefix("agent")
	if !strings.HasPrefix(id, "agent-") {
		t.Errorf("NewWithPrefix = %q, want agent- prefix", id)
	}
}

func TestNew_UniqueUnderConcurrency(t *testing.T) {
	const (
		goroutines = 16
		perG       = 500
	)

	ids := make(chan string, goroutines*perG)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				ids <- New()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, goroutines*perG)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
