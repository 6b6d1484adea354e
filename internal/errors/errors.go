// Package errors provides centralized error definitions for the coordination
// engine. It defines the error taxonomy shared by the ledger store, the
// coordinator, and the agent registry, along with classification helpers
// that drive retry behavior.
//
// The taxonomy is deliberately small:
//
//   - ErrConflict: an exclusive work type already has an active claim.
//     Returned immediately and never retried, since retrying without caller
//     input cannot change the outcome.
//   - ErrStaleSnapshot: another commit landed between snapshot and commit.
//     Fully recovered by bounded retry inside the coordinator.
//   - ErrRetryExhausted: contention outlasted the retry budget.
//   - ErrNotFound / ErrAgentNotFound: unknown work item or agent; fatal to
//     the operation, never retried.
//   - ErrLedgerCorrupted: the persisted snapshot is unreadable or malformed.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience so callers can
// import only this package for error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Coordination sentinel errors.
var (
	// ErrConflict indicates an exclusive work type already has an active claim.
	ErrConflict = New("work type has an active exclusive claim")
	// ErrStaleSnapshot indicates a concurrent commit invalidated the snapshot.
	ErrStaleSnapshot = New("ledger snapshot is stale")
	// ErrRetryExhausted indicates the commit retry budget ran out under contention.
	ErrRetryExhausted = New("retry attempts exhausted")
	// ErrNotFound indicates an unknown work item ID.
	ErrNotFound = New("work item not found")
	// ErrInvalidTransition indicates a disallowed work item status transition.
	ErrInvalidTransition = New("invalid status transition")
)

// Storage and registry sentinel errors.
var (
	// ErrLedgerCorrupted indicates the persisted ledger snapshot is unreadable
	// or structurally invalid.
	ErrLedgerCorrupted = New("ledger snapshot corrupted")
	// ErrAgentNotFound indicates an unknown agent ID.
	ErrAgentNotFound = New("agent not found")
)

// CoordinationError represents a failed coordinator operation with the
// identifying context needed for debugging multi-agent races.
//
// Example:
//
//	err := errors.NewCoordinationError("claim failed", errors.ErrRetryExhausted).
//		WithWorkItemID("work-123").WithTraceID("trace-abc")
type CoordinationError struct {
	message    string
	cause      error
	WorkItemID string
	WorkType   string
	TraceID    string
	Attempts   int
}

// NewCoordinationError creates a CoordinationError wrapping cause.
func NewCoordinationError(message string, cause error) *CoordinationError {
	return &CoordinationError{message: message, cause: cause, Attempts: -1}
}

// WithWorkItemID adds a work item ID to the error context.
func (e *CoordinationError) WithWorkItemID(id string) *CoordinationError {
	e.WorkItemID = id
	return e
}

// WithWorkType adds a work type to the error context.
func (e *CoordinationError) WithWorkType(workType string) *CoordinationError {
	e.WorkType = workType
	return e
}

// WithTraceID adds a trace ID to the error context.
func (e *CoordinationError) WithTraceID(id string) *CoordinationError {
	e.TraceID = id
	return e
}

// WithAttempts records how many commit attempts were made.
func (e *CoordinationError) WithAttempts(n int) *CoordinationError {
	e.Attempts = n
	return e
}

// Error returns the formatted error message.
func (e *CoordinationError) Error() string {
	var parts []string
	if e.WorkItemID != "" {
		parts = append(parts, fmt.Sprintf("work_item=%s", e.WorkItemID))
	}
	if e.WorkType != "" {
		parts = append(parts, fmt.Sprintf("work_type=%s", e.WorkType))
	}
	if e.TraceID != "" {
		parts = append(parts, fmt.Sprintf("trace=%s", e.TraceID))
	}
	if e.Attempts >= 0 {
		parts = append(parts, fmt.Sprintf("attempts=%d", e.Attempts))
	}

	prefix := "coordination error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("coordination error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying error.
func (e *CoordinationError) Unwrap() error { return e.cause }

// Is checks if this error matches the target.
func (e *CoordinationError) Is(target error) bool {
	if _, ok := target.(*CoordinationError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// StorageError represents a ledger store failure. Storage errors are fatal
// to the current operation and are never silently retried, so corruption is
// never masked.
type StorageError struct {
	message string
	cause   error
	Path    string
}

// NewStorageError creates a StorageError wrapping cause.
func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{message: message, cause: cause}
}

// WithPath adds the affected file path to the error context.
func (e *StorageError) WithPath(path string) *StorageError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *StorageError) Error() string {
	prefix := "storage error"
	if e.Path != "" {
		prefix = fmt.Sprintf("storage error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error { return e.cause }

// Is checks if this error matches the target.
func (e *StorageError) Is(target error) bool {
	if _, ok := target.(*StorageError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// IsRetryable returns true if the error represents a transient condition
// that the coordinator's snapshot-commit loop may recover from. Only stale
// snapshots are retryable: conflicts, missing records, and storage failures
// cannot change their outcome on retry.
func IsRetryable(err error) bool {
	return err != nil && Is(err, ErrStaleSnapshot)
}

// IsTerminal returns true if the error should be surfaced to the caller
// without further attempts.
func IsTerminal(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrConflict) || Is(err, ErrNotFound) ||
		Is(err, ErrAgentNotFound) || Is(err, ErrLedgerCorrupted) ||
		Is(err, ErrInvalidTransition)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
