package lode

import (
	"context"
	"errors"
	"testing"

	"github.com/pithecene-io/hmvalidate/metrics"
	"github.com/pithecene-io/hmvalidate/types"
	"github.com/pithecene-io/hmvalidate/validator"
)

// failingSink is a test double that returns errors on writes.
type failingSink struct {
	writeErr error
	closed   bool
}

func (s *failingSink) WriteResult(_ context.Context, _ *validator.Result, _ types.Classification) error {
	return s.writeErr
}

func (s *failingSink) WriteBatch(_ context.Context, _ BatchRecord) error {
	return s.writeErr
}

func (s *failingSink) Close() error {
	s.closed = true
	return nil
}

// successSink is a test double that accepts all writes.
type successSink struct {
	resultCalls int
	batchCalls  int
	closed      bool
}

func (s *successSink) WriteResult(_ context.Context, _ *validator.Result, _ types.Classification) error {
	s.resultCalls++
	return nil
}

func (s *successSink) WriteBatch(_ context.Context, _ BatchRecord) error {
	s.batchCalls++
	return nil
}

func (s *successSink) Close() error {
	s.closed = true
	return nil
}

func TestInstrumentedSink_WriteResultSuccess(t *testing.T) {
	inner := &successSink{}
	collector := metrics.NewCollector("hm_final", "fs", "run-001")
	sink := NewInstrumentedSink(inner, collector)

	res := newTestResult("/data/PGS000001_h38_v1.txt", "PGS000001")
	if err := sink.WriteResult(t.Context(), res, types.ClassInvalid); err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}
	if err := sink.WriteBatch(t.Context(), BatchRecord{}); err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	if inner.resultCalls != 1 || inner.batchCalls != 1 {
		t.Errorf("inner calls = %d/%d, want 1/1", inner.resultCalls, inner.batchCalls)
	}
	s := collector.Snapshot()
	if s.LodeWriteSuccess != 2 {
		t.Errorf("LodeWriteSuccess = %d, want 2", s.LodeWriteSuccess)
	}
	if s.LodeWriteFailure != 0 {
		t.Errorf("LodeWriteFailure = %d, want 0", s.LodeWriteFailure)
	}
}

func TestInstrumentedSink_WriteFailure(t *testing.T) {
	writeErr := NewStorageError(ErrDiskFull, "write", "p", errors.New("no space left on device"))
	inner := &failingSink{writeErr: writeErr}
	collector := metrics.NewCollector("hm_final", "fs", "run-001")
	sink := NewInstrumentedSink(inner, collector)

	err := sink.WriteResult(t.Context(), newTestResult("/data/x.txt", "PGS000001"), types.ClassValid)
	if !errors.Is(err, ErrDiskFull) {
		t.Errorf("expected the inner error, got %v", err)
	}
	_ = sink.WriteBatch(t.Context(), BatchRecord{})

	s := collector.Snapshot()
	if s.LodeWriteFailure != 2 {
		t.Errorf("LodeWriteFailure = %d, want 2", s.LodeWriteFailure)
	}
	if s.LodeWriteSuccess != 0 {
		t.Errorf("LodeWriteSuccess = %d, want 0", s.LodeWriteSuccess)
	}
}

func TestInstrumentedSink_NilCollector(t *testing.T) {
	inner := &successSink{}
	sink := NewInstrumentedSink(inner, nil)

	if err := sink.WriteResult(t.Context(), newTestResult("/data/x.txt", "PGS000001"), types.ClassValid); err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !inner.closed {
		t.Error("Close should reach the inner sink")
	}
}
