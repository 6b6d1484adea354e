package errors

import (
	"strings"
	"testing"
)

func TestCoordinationError_Format(t *testing.T) {
	err := NewCoordinationError("claim did not commit", ErrRetryExhausted).
		WithWorkItemID("work-1").
		WithWorkType("deploy").
		WithTraceID("trace-1").
		WithAttempts(5)

	msg := err.Error()
	for _, want := range []string{"work_item=work-1", "work_type=deploy", "trace=trace-1", "attempts=5", "claim did not commit"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestCoordinationError_NoContext(t *testing.T) {
	err := NewCoordinationError("something failed", nil)
	msg := err.Error()
	if strings.Contains(msg, "[") {
		t.Errorf("Error() = %q, should omit empty context brackets", msg)
	}
}

func TestCoordinationError_Unwrap(t *testing.T) {
	err := NewCoordinationError("claim did not commit", Join(ErrRetryExhausted, ErrStaleSnapshot))
	if !Is(err, ErrRetryExhausted) {
		t.Error("Is(ErrRetryExhausted) should be true")
	}
	if !Is(err, ErrStaleSnapshot) {
		t.Error("Is(ErrStaleSnapshot) should be true through Join")
	}

	var ce *CoordinationError
	if !As(err, &ce) {
		t.Fatal("As(*CoordinationError) should succeed")
	}
}

func TestStorageError_Format(t *testing.T) {
	err := NewStorageError("read ledger snapshot", New("permission denied")).WithPath("/data/ledger.json")
	msg := err.Error()
	if !strings.Contains(msg, "path=/data/ledger.json") || !strings.Contains(msg, "permission denied") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"stale snapshot", ErrStaleSnapshot, true},
		{"wrapped stale snapshot", Wrap(ErrStaleSnapshot, "commit"), true},
		{"conflict", ErrConflict, false},
		{"retry exhausted", ErrRetryExhausted, false},
		{"not found", ErrNotFound, false},
		{"corrupted", ErrLedgerCorrupted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		terminal bool
	}{
		{"nil", nil, false},
		{"conflict", ErrConflict, true},
		{"not found", ErrNotFound, true},
		{"agent not found", ErrAgentNotFound, true},
		{"corrupted", ErrLedgerCorrupted, true},
		{"invalid transition", ErrInvalidTransition, true},
		{"stale snapshot", ErrStaleSnapshot, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTerminal(tt.err); got != tt.terminal {
				t.Errorf("IsTerminal = %v, want %v", got, tt.terminal)
			}
		})
	}
}

func TestWrap_NilPassthrough(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
}
