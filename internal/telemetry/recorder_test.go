package telemetry

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNewSpan_Fields(t *testing.T) {
	s := NewSpan("trace-1", "claim", StatusOK, map[string]string{"work_item_id": "work-1"})

	if s.TraceID != "trace-1" || s.Operation != "claim" || s.Status != StatusOK {
		t.Errorf("span = %+v", s)
	}
	if s.SpanID == "" {
		t.Error("span_id should be assigned")
	}
	if s.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}

	other := NewSpan("trace-1", "claim", StatusOK, nil)
	if other.SpanID == s.SpanID {
		t.Error("span IDs should be unique")
	}
}

func TestFileRecorder_EmitAndReadBack(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewFileRecorder(dir, nil)
	if err != nil {
		t.Fatalf("NewFileRecorder: %v", err)
	}
	defer func() { _ = rec.Close() }()

	rec.Emit(NewSpan("trace-1", "claim", StatusOK, map[string]string{"work_item_id": "work-1"}))
	rec.Emit(NewSpan("trace-1", "progress", StatusOK, nil))
	rec.Emit(NewSpan("trace-2", "claim", StatusOK, nil))

	spans, err := ReadSpans(rec.Path())
	if err != nil {
		t.Fatalf("ReadSpans: %v", err)
	}
	if len(spans) != 3 {
		t.Fatalf("read %d spans, want 3", len(spans))
	}
	if spans[0].Operation != "claim" || spans[1].Operation != "progress" {
		t.Errorf("emission order not preserved: %+v", spans)
	}
	if spans[0].Tags["work_item_id"] != "work-1" {
		t.Errorf("tags = %v", spans[0].Tags)
	}
}

func TestFileRecorder_AppendsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileRecorder(dir, nil)
	if err != nil {
		t.Fatalf("NewFileRecorder: %v", err)
	}
	first.Emit(NewSpan("trace-1", "claim", StatusOK, nil))
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := NewFileRecorder(dir, nil)
	if err != nil {
		t.Fatalf("NewFileRecorder: %v", err)
	}
	second.Emit(NewSpan("trace-1", "complete", StatusOK, nil))
	_ = second.Close()

	spans, err := ReadSpans(filepath.Join(dir, StreamFileName))
	if err != nil {
		t.Fatalf("ReadSpans: %v", err)
	}
	if len(spans) != 2 {
		t.Errorf("read %d spans, want 2; reopening must append, not truncate", len(spans))
	}
}

func TestFileRecorder_EmitAfterClose(t *testing.T) {
	rec, err := NewFileRecorder(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileRecorder: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Dropped silently, never panics.
	rec.Emit(NewSpan("trace-1", "claim", StatusOK, nil))

	spans, err := ReadSpans(rec.Path())
	if err != nil {
		t.Fatalf("ReadSpans: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("read %d spans, want 0", len(spans))
	}
}

func TestFileRecorder_ConcurrentEmit(t *testing.T) {
	rec, err := NewFileRecorder(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileRecorder: %v", err)
	}
	defer func() { _ = rec.Close() }()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Emit(NewSpan("trace-1", "progress", StatusOK, nil))
		}()
	}
	wg.Wait()

	spans, err := ReadSpans(rec.Path())
	if err != nil {
		t.Fatalf("ReadSpans after concurrent writes: %v", err)
	}
	if len(spans) != writers {
		t.Errorf("read %d spans, want %d", len(spans), writers)
	}
}

func TestReadSpans_MissingFile(t *testing.T) {
	_, err := ReadSpans(filepath.Join(t.TempDir(), "missing.jsonl"))
	if !os.IsNotExist(err) {
		t.Errorf("ReadSpans = %v, want not-exist error", err)
	}
}

func TestMemoryRecorder_ByTrace(t *testing.T) {
	rec := NewMemoryRecorder()
	rec.Emit(NewSpan("trace-1", "claim", StatusOK, nil))
	rec.Emit(NewSpan("trace-2", "claim", StatusOK, nil))
	rec.Emit(NewSpan("trace-1", "complete", StatusOK, nil))

	spans := rec.ByTrace("trace-1")
	if len(spans) != 2 {
		t.Fatalf("ByTrace returned %d spans, want 2", len(spans))
	}
	if spans[0].Operation != "claim" || spans[1].Operation != "complete" {
		t.Errorf("spans = %+v", spans)
	}
	if len(rec.Spans()) != 3 {
		t.Errorf("Spans returned %d, want 3", len(rec.Spans()))
	}
}
