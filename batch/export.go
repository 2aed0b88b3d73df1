package batch

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the spreadsheet export.
const (
	summarySheet = "Summary"
	filesSheet   = "Files"
)

var fileColumns = []string{
	"file", "classification", "verdict", "error_count", "content_errors",
	"rows_scanned", "truncated", "duration_ms", "log_path", "error",
}

// ExportXLSX writes the report as a workbook with a Summary sheet and one
// row per file on a Files sheet.
func ExportXLSX(report *BatchReport, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	summary := [][]any{
		{"run_id", report.RunID},
		{"format", report.Format},
		{"started_at", report.StartedAt},
		{"completed_at", report.CompletedAt},
		{"total", report.Total},
		{"valid", report.Valid},
		{"invalid", report.Invalid},
		{"other", report.Other},
		{"invalid_files", strings.Join(report.InvalidFiles, ", ")},
		{"errors_mean", report.ErrorStats.Mean},
		{"errors_median", report.ErrorStats.Median},
		{"errors_p90", report.ErrorStats.P90},
		{"errors_max", report.ErrorStats.Max},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	idx, err := f.NewSheet(filesSheet)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	rows := make([][]any, 0, len(report.Files)+1)
	header := make([]any, len(fileColumns))
	for i, c := range fileColumns {
		header[i] = c
	}
	rows = append(rows, header)
	for _, o := range report.Files {
		rows = append(rows, []any{
			o.File, string(o.Classification), string(o.Verdict), o.ErrorCount,
			o.ContentErrors, o.RowsScanned, o.Truncated, o.DurationMs, o.LogPath, o.Error,
		})
	}
	if err := writeRows(f, filesSheet, rows); err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("xlsx: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("xlsx: %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

// ParquetRow is one file of a batch in the columnar export.
type ParquetRow struct {
	RunID          string `parquet:"run_id"`
	Format         string `parquet:"format"`
	File           string `parquet:"file"`
	Classification string `parquet:"classification"`
	Verdict        string `parquet:"verdict"`
	ErrorCount     int64  `parquet:"error_count"`
	ContentErrors  int64  `parquet:"content_errors"`
	RowsScanned    int64  `parquet:"rows_scanned"`
	Truncated      bool   `parquet:"truncated"`
	DurationMs     int64  `parquet:"duration_ms"`
	Error          string `parquet:"error,optional"`
}

// ParquetRows flattens the report into one row per file.
func ParquetRows(report *BatchReport) []ParquetRow {
	rows := make([]ParquetRow, 0, len(report.Files))
	for _, o := range report.Files {
		rows = append(rows, ParquetRow{
			RunID:          report.RunID,
			Format:         report.Format,
			File:           o.File,
			Classification: string(o.Classification),
			Verdict:        string(o.Verdict),
			ErrorCount:     int64(o.ErrorCount),
			ContentErrors:  int64(o.ContentErrors),
			RowsScanned:    int64(o.RowsScanned),
			Truncated:      o.Truncated,
			DurationMs:     o.DurationMs,
			Error:          o.Error,
		})
	}
	return rows
}

// ExportParquet writes one row per file to a Parquet file.
func ExportParquet(report *BatchReport, path string) error {
	if err := parquet.WriteFile(path, ParquetRows(report)); err != nil {
		return fmt.Errorf("parquet: write %s: %w", path, err)
	}
	return nil
}
