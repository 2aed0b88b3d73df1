package lode

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/hmvalidate/types"
	"github.com/pithecene-io/hmvalidate/validator"
)

// sharedFactory returns a StoreFactory that always returns the given store.
// This allows write and read datasets to share the same in-memory state.
func sharedFactory(store lode.Store) lode.StoreFactory {
	return func() (lode.Store, error) { return store, nil }
}

func testConfig(runID string) Config {
	return Config{
		Dataset: "hmvalidate",
		Format:  string(types.FormatFinal),
		Day:     "2026-10-19",
		RunID:   runID,
	}
}

// newTestResult builds an invalid result with one warning and two errors.
func newTestResult(file, pgsID string) *validator.Result {
	md := types.NewFileMetadata()
	md.PgsID = pgsID
	md.HmBuild = "GRCh38"
	return &validator.Result{
		File:    file,
		LogPath: "/logs/" + validator.BaseName(file) + "_log.txt",
		Format:  types.FormatFinal,
		Verdict: types.VerdictInvalid,
		Findings: []types.Finding{
			{Severity: types.SeverityWarn, Stage: types.StageCompanion, Message: "Native scoring file can't be found"},
			{Severity: types.SeverityError, Stage: types.StageRows, Row: 3, Column: "hm_chr", Message: "- Variant line 3 | hm_chr: bad"},
			{Severity: types.SeverityError, Stage: types.StageRows, Row: 7, Column: "effect_weight", Message: "- Variant line 7 | effect_weight: bad"},
		},
		ErrorCount:    2,
		ContentErrors: 2,
		RowsScanned:   10,
		Metadata:      md,
		Duration:      1500 * time.Millisecond,
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := testConfig("run-1").Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"dataset", func(c *Config) { c.Dataset = "" }},
		{"format", func(c *Config) { c.Format = "" }},
		{"day", func(c *Config) { c.Day = "" }},
		{"run_id", func(c *Config) { c.RunID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("run-1")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrMissingPartition) {
				t.Fatalf("expected ErrMissingPartition, got %v", err)
			}
			if _, err := NewLodeClientWithFactory(cfg, lode.NewMemoryFactory()); !errors.Is(err, ErrMissingPartition) {
				t.Errorf("client creation should reject the config, got %v", err)
			}
		})
	}
}

func TestLodeClient_WriteVerdict(t *testing.T) {
	store := lode.NewMemory()
	cfg := testConfig("run-123")

	client, err := NewLodeClientWithFactory(cfg, sharedFactory(store))
	if err != nil {
		t.Fatalf("NewLodeClientWithFactory failed: %v", err)
	}

	res := newTestResult("/data/PGS000001_h38_v1.txt.gz", "PGS000001")
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	verdict := NewVerdictRecord(res, types.ClassInvalid, cfg, at)

	if err := client.WriteVerdict(t.Context(), verdict, NewFindingRecords(res, cfg)); err != nil {
		t.Fatalf("WriteVerdict failed: %v", err)
	}

	ds, err := NewReadDataset(cfg.Dataset, sharedFactory(store))
	if err != nil {
		t.Fatalf("NewReadDataset failed: %v", err)
	}
	latest, err := ds.Latest(t.Context())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	data, err := ds.Read(t.Context(), latest.ID)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(data) != 4 {
		t.Fatalf("Read returned %d items, want 4 (1 verdict + 3 findings)", len(data))
	}

	kinds := map[any]int{}
	for _, item := range data {
		record, ok := item.(map[string]any)
		if !ok {
			t.Fatalf("record type = %T, want map[string]any", item)
		}
		kinds[record["record_kind"]]++
		if record["run_id"] != "run-123" {
			t.Errorf("run_id = %v, want run-123", record["run_id"])
		}
	}
	if kinds[RecordKindVerdict] != 1 || kinds[RecordKindFinding] != 3 {
		t.Errorf("record kinds = %v, want 1 verdict and 3 findings", kinds)
	}

	for _, kind := range []string{RecordKindVerdict, RecordKindFinding} {
		if !snapshotMatchesFilter(latest, "record_kind", kind) {
			t.Errorf("manifest should contain a record_kind=%s partition", kind)
		}
	}
	if !snapshotMatchesFilter(latest, "format", "hm_final") {
		t.Error("manifest should contain a format=hm_final partition")
	}
}

func TestLodeClient_WriteBatch(t *testing.T) {
	store := lode.NewMemory()
	cfg := testConfig("run-b")

	client, err := NewLodeClientWithFactory(cfg, sharedFactory(store))
	if err != nil {
		t.Fatalf("NewLodeClientWithFactory failed: %v", err)
	}
	sink := NewSink(cfg, client)

	err = sink.WriteBatch(t.Context(), BatchRecord{
		Total:        3,
		Valid:        1,
		Invalid:      1,
		Other:        1,
		InvalidFiles: []string{"PGS000002_h38_v1.txt.gz"},
		StartedAt:    "2026-10-19T12:00:00Z",
		CompletedAt:  "2026-10-19T12:00:05Z",
	})
	if err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	ds, err := NewReadDataset(cfg.Dataset, sharedFactory(store))
	if err != nil {
		t.Fatalf("NewReadDataset failed: %v", err)
	}
	batch, err := QueryLatestBatch(t.Context(), ds, "")
	if err != nil {
		t.Fatalf("QueryLatestBatch failed: %v", err)
	}
	if batch.RunID != "run-b" || batch.Format != "hm_final" || batch.Day != "2026-10-19" {
		t.Errorf("partition fields not stamped: %+v", batch)
	}
	if batch.Total != 3 || batch.Invalid != 1 {
		t.Errorf("counts = %d/%d, want 3/1", batch.Total, batch.Invalid)
	}
	if len(batch.InvalidFiles) != 1 || batch.InvalidFiles[0] != "PGS000002_h38_v1.txt.gz" {
		t.Errorf("InvalidFiles = %v", batch.InvalidFiles)
	}
}

func TestLodeClient_PutFile(t *testing.T) {
	store := lode.NewMemory()
	cfg := testConfig("run-f")

	client, err := NewLodeClientWithFactory(cfg, sharedFactory(store))
	if err != nil {
		t.Fatalf("NewLodeClientWithFactory failed: %v", err)
	}

	content := []byte("INFO\tFile is valid\n")
	if err := client.PutFile(t.Context(), "PGS000001_h38_v1_log.txt", "text/plain", content); err != nil {
		t.Fatalf("PutFile failed: %v", err)
	}

	want := "datasets/hmvalidate/partitions/format=hm_final/day=2026-10-19/run_id=run-f/files/PGS000001_h38_v1_log.txt"
	if got := FilePath(cfg, "PGS000001_h38_v1_log.txt"); got != want {
		t.Errorf("FilePath = %q, want %q", got, want)
	}

	rc, err := store.Get(t.Context(), want)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer func() { _ = rc.Close() }()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("stored content = %q, want %q", got, content)
	}
}

func TestLodeClient_PutFileRejectsPaths(t *testing.T) {
	client, err := NewLodeClientWithFactory(testConfig("run-f"), lode.NewMemoryFactory())
	if err != nil {
		t.Fatalf("NewLodeClientWithFactory failed: %v", err)
	}

	for _, name := range []string{"", "../escape.txt", "dir/log.txt", `dir\log.txt`, "a..b"} {
		if err := client.PutFile(t.Context(), name, "text/plain", []byte("x")); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("PutFile(%q) = %v, want ErrInvalidFilename", name, err)
		}
	}
}

func TestNewLodeClient_FS(t *testing.T) {
	root := t.TempDir() + "/nested/store"
	cfg := testConfig("run-fs")

	client, err := NewLodeClient(cfg, root)
	if err != nil {
		t.Fatalf("NewLodeClient failed: %v", err)
	}
	defer func() { _ = client.Close() }()

	res := newTestResult("/data/PGS000003_h38_v1.txt", "PGS000003")
	verdict := NewVerdictRecord(res, types.ClassInvalid, cfg, time.Now())
	if err := client.WriteVerdict(t.Context(), verdict, nil); err != nil {
		t.Fatalf("WriteVerdict failed: %v", err)
	}

	ds, err := NewReadDatasetFS(cfg.Dataset, root)
	if err != nil {
		t.Fatalf("NewReadDatasetFS failed: %v", err)
	}
	got, err := QueryVerdicts(t.Context(), ds, VerdictFilter{})
	if err != nil {
		t.Fatalf("QueryVerdicts failed: %v", err)
	}
	if len(got) != 1 || got[0].PgsID != "PGS000003" {
		t.Errorf("QueryVerdicts = %+v, want one PGS000003 verdict", got)
	}
}
