package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/logging"
)

// StreamFileName is the append-only span stream within a data directory,
// one JSON object per line.
const StreamFileName = "telemetry.jsonl"

// FileRecorder appends spans to a JSONL file. Each span is written as a
// single O_APPEND write, which the kernel keeps atomic for line-sized
// records, so concurrent uncoordinated writers never interleave.
type FileRecorder struct {
	path   string
	logger *logging.Logger
	mu     sync.Mutex
	file   *os.File
}

// NewFileRecorder creates a FileRecorder writing to dir/telemetry.jsonl.
// The logger receives emission failures; it may be nil.
func NewFileRecorder(dir string, logger *logging.Logger) (*FileRecorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, StreamFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &FileRecorder{path: path, logger: logger, file: f}, nil
}

// Emit appends the span to the stream. Failures are logged and swallowed:
// telemetry never blocks or fails a committed coordination operation.
func (r *FileRecorder) Emit(span Span) {
	data, err := json.Marshal(span)
	if err != nil {
		r.logger.Warn("failed to marshal telemetry span",
			"trace_id", span.TraceID, "operation", span.Operation, "error", err.Error())
		return
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return
	}
	if _, err := r.file.Write(data); err != nil {
		r.logger.Warn("failed to append telemetry span",
			"trace_id", span.TraceID, "operation", span.Operation, "error", err.Error())
	}
}

// Close closes the underlying stream file. Spans emitted after Close are
// dropped silently.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Path returns the stream file path.
func (r *FileRecorder) Path() string {
	return r.path
}

// ReadSpans loads every span from a stream file, in emission order.
// Intended for the read-only reporting consumers; the engine itself never
// reads spans back.
func ReadSpans(path string) ([]Span, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spans []Span
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var s Span
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
		spans = append(spans, s)
	}
	return spans, nil
}

// MemoryRecorder collects spans in memory for tests.
type MemoryRecorder struct {
	mu    sync.Mutex
	spans []Span
}

// NewMemoryRecorder returns an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Emit appends the span.
func (r *MemoryRecorder) Emit(span Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = append(r.spans, span)
}

// Spans returns a copy of all recorded spans.
func (r *MemoryRecorder) Spans() []Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Span, len(r.spans))
	copy(out, r.spans)
	return out
}

// ByTrace returns all spans recorded for the given trace ID.
func (r *MemoryRecorder) ByTrace(traceID string) []Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Span
	for _, s := range r.spans {
		if s.TraceID == traceID {
			out = append(out, s)
		}
	}
	return out
}
