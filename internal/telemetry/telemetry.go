// Package telemetry records correlation spans for coordinator operations.
// The span stream is append-only: spans are emitted at the moment an
// operation commits, never mutated, never deleted, and never backfilled
// after the fact. Emission is best-effort; a failing recorder must not
// fail a coordination operation that already committed.
package telemetry

import (
	"time"

	"github.com/google/uuid"
)

// Span statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Span is one correlation record in a work item's lifecycle. All spans for
// a given work item carry the identical trace_id established at claim time.
type Span struct {
	// TraceID correlates every span of one work item's lifecycle.
	TraceID string `json:"trace_id"`

	// SpanID uniquely identifies this span.
	SpanID string `json:"span_id"`

	// Operation is the coordinator verb: "claim", "progress", "complete", "fail".
	Operation string `json:"operation"`

	// Timestamp is when the span was emitted.
	Timestamp time.Time `json:"timestamp"`

	// Status is "ok" or "error".
	Status string `json:"status"`

	// Tags carries operation-specific context such as work_item_id.
	Tags map[string]string `json:"tags,omitempty"`
}

// NewSpan builds a span for the given trace and operation with a fresh
// span ID and the current time.
func NewSpan(traceID, operation, status string, tags map[string]string) Span {
	return Span{
		TraceID:   traceID,
		SpanID:    uuid.NewString(),
		Operation: operation,
		Timestamp: time.Now(),
		Status:    status,
		Tags:      tags,
	}
}

// Recorder appends spans to an event stream. Implementations must be safe
// for concurrent, unordered writers and must swallow their own failures.
type Recorder interface {
	Emit(span Span)
}

// NopRecorder discards all spans.
type NopRecorder struct{}

// Emit discards the span.
func (NopRecorder) Emit(Span) {}
