package lode

import (
	"errors"
	"testing"
	"time"

	"github.com/pithecene-io/hmvalidate/types"
	"github.com/pithecene-io/hmvalidate/validator"
)

func TestNewVerdictRecord_ErroredResult(t *testing.T) {
	res := &validator.Result{
		File:     "/data/PGS000009_h38_v1.csv",
		Format:   types.FormatFinal,
		Verdict:  types.VerdictErrored,
		FileName: validator.FileName{PgsID: "PGS000009"},
		Err:      errors.New("bad file extension: Invalid file extension"),
	}

	rec := NewVerdictRecord(res, types.ClassOther, testConfig("run-1"), time.Now())

	if rec.PgsID != "PGS000009" {
		t.Errorf("PgsID = %q, want the file name identifier when metadata is absent", rec.PgsID)
	}
	if rec.Error == "" {
		t.Error("Error should carry the operational cause")
	}
	if rec.LogFile != "" {
		t.Errorf("LogFile = %q, want empty without a log path", rec.LogFile)
	}

	m := toVerdictRecordMap(rec)
	if _, ok := m["log_file"]; ok {
		t.Error("empty log_file should be omitted from the stored record")
	}
	if m["error"] != rec.Error {
		t.Errorf("error = %v, want %q", m["error"], rec.Error)
	}
	for _, key := range hiveLayout {
		if _, ok := m[key]; !ok {
			t.Errorf("record missing partition key %q", key)
		}
	}
}

func TestToFindingRecordMap_OmitsEmptyLocation(t *testing.T) {
	m := toFindingRecordMap(FindingRecord{
		RunID: "run-1", File: "f", Seq: 1, Severity: "error", Stage: "header",
		Message: "Required headers: effect_weight", Format: "hm_final", Day: "2026-10-19",
	})
	if _, ok := m["row"]; ok {
		t.Error("row should be omitted for non-row findings")
	}
	if _, ok := m["column"]; ok {
		t.Error("column should be omitted when empty")
	}
	if m["record_kind"] != RecordKindFinding {
		t.Errorf("record_kind = %v", m["record_kind"])
	}
}

func TestNewFindingRecords_Empty(t *testing.T) {
	if got := NewFindingRecords(&validator.Result{}, testConfig("run-1")); got != nil {
		t.Errorf("expected nil for a result without findings, got %v", got)
	}
}
