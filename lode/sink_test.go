package lode

import (
	"testing"
	"time"

	"github.com/pithecene-io/hmvalidate/types"
)

func TestSink_WriteResult(t *testing.T) {
	client := NewStubClient()
	cfg := testConfig("run-123")
	sink := NewSink(cfg, client)
	sink.now = func() time.Time { return time.Date(2026, 10, 19, 8, 30, 0, 0, time.FixedZone("CEST", 7200)) }

	res := newTestResult("/data/PGS000001_h38_v1.txt.gz", "PGS000001")
	if err := sink.WriteResult(t.Context(), res, types.ClassInvalid); err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}

	if len(client.Verdicts) != 1 {
		t.Fatalf("expected 1 verdict record, got %d", len(client.Verdicts))
	}
	v := client.Verdicts[0]
	if v.RunID != "run-123" || v.Format != "hm_final" || v.Day != "2026-10-19" {
		t.Errorf("partition keys = %q/%q/%q", v.RunID, v.Format, v.Day)
	}
	if v.ValidatedAt != "2026-10-19T06:30:00Z" {
		t.Errorf("ValidatedAt = %q, want UTC timestamp", v.ValidatedAt)
	}
	if v.Classification != "invalid" {
		t.Errorf("Classification = %q, want invalid", v.Classification)
	}
	if len(client.Findings) != 3 {
		t.Errorf("expected 3 finding records, got %d", len(client.Findings))
	}
}

func TestSink_WriteBatchStampsPartitions(t *testing.T) {
	client := NewStubClient()
	sink := NewSink(testConfig("run-9"), client)

	if err := sink.WriteBatch(t.Context(), BatchRecord{Total: 2, RunID: "ignored"}); err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}
	if len(client.Batches) != 1 {
		t.Fatalf("expected 1 batch record, got %d", len(client.Batches))
	}
	b := client.Batches[0]
	if b.RecordKind != RecordKindBatch || b.RunID != "run-9" || b.Format != "hm_final" {
		t.Errorf("batch = %+v", b)
	}
}

func TestSink_Close(t *testing.T) {
	client := NewStubClient()
	sink := NewSink(testConfig("run-123"), client)

	if client.Closed {
		t.Error("client should not be closed before Close()")
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !client.Closed {
		t.Error("client should be closed after Close()")
	}
}

func TestDeriveDay(t *testing.T) {
	at := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	if got := DeriveDay(at); got != "2026-10-20" {
		t.Errorf("DeriveDay = %q, want 2026-10-20 (UTC)", got)
	}
}
