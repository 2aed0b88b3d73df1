package batch

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.xlsx")
	if err := ExportXLSX(testReport(), path); err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	if got, _ := f.GetCellValue(summarySheet, "B1"); got != "run-001" {
		t.Errorf("Summary!B1 = %q, want run-001", got)
	}
	if got, _ := f.GetCellValue(summarySheet, "B7"); got != "2" {
		t.Errorf("Summary!B7 (invalid) = %q, want 2", got)
	}

	rows, err := f.GetRows(filesSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("Files rows = %d, want header + 4", len(rows))
	}
	if rows[0][0] != "file" || rows[2][0] != "b.txt" || rows[2][1] != "invalid" {
		t.Errorf("Files sheet = %v", rows[:3])
	}
}

func TestExportParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.parquet")
	if err := ExportParquet(testReport(), path); err != nil {
		t.Fatalf("ExportParquet: %v", err)
	}

	rows, err := parquet.ReadFile[ParquetRow](path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[1].File != "b.txt" || rows[1].ErrorCount != 4 || rows[1].RunID != "run-001" {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[3].Classification != "other" {
		t.Errorf("row 3 classification = %q", rows[3].Classification)
	}
}

func TestParquetRows_Schema(t *testing.T) {
	schema := parquet.SchemaOf(ParquetRow{})
	columns := map[string]bool{}
	for _, field := range schema.Fields() {
		columns[field.Name()] = true
	}
	for _, want := range []string{"run_id", "file", "classification", "error_count", "error"} {
		if !columns[want] {
			t.Errorf("schema missing %s", want)
		}
	}
}
