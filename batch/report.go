package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/pithecene-io/hmvalidate/metrics"
	"github.com/pithecene-io/hmvalidate/types"
)

var reportJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// BatchReport is the structured JSON report written by --report.
type BatchReport struct {
	ReportVersion string `json:"report_version"`
	RunID         string `json:"run_id"`
	Format        string `json:"format"`
	ExitCode      int    `json:"exit_code"`
	StartedAt     string `json:"started_at"`
	CompletedAt   string `json:"completed_at"`
	DurationMs    int64  `json:"duration_ms"`

	Total        int      `json:"total"`
	Valid        int      `json:"valid"`
	Invalid      int      `json:"invalid"`
	Other        int      `json:"other"`
	InvalidFiles []string `json:"invalid_files,omitempty"`
	OtherFiles   []string `json:"other_files,omitempty"`

	ErrorStats ErrorStats        `json:"error_stats"`
	Metrics    *metrics.Snapshot `json:"metrics"`
	Storage    *ReportStorage    `json:"storage,omitempty"`
	Files      []FileOutcome     `json:"files"`
}

// ReportStorage records where verdicts were persisted.
type ReportStorage struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
	Dataset string `json:"dataset"`
}

// BuildBatchReport composes a report from a summary and metrics snapshot.
// exitCode is the process exit code that will be returned to the caller.
func BuildBatchReport(sum *Summary, snap metrics.Snapshot, exitCode int) *BatchReport {
	return &BatchReport{
		ReportVersion: types.ReportVersion,
		RunID:         sum.RunID,
		Format:        sum.Format.String(),
		ExitCode:      exitCode,
		StartedAt:     formatTime(sum.StartedAt),
		CompletedAt:   formatTime(sum.CompletedAt),
		DurationMs:    sum.Duration().Milliseconds(),
		Total:         sum.Total,
		Valid:         sum.Valid,
		Invalid:       sum.Invalid,
		Other:         sum.Other,
		InvalidFiles:  sum.InvalidFiles,
		OtherFiles:    sum.OtherFiles,
		ErrorStats:    sum.ErrorStats(),
		Metrics:       &snap,
		Files:         sum.Files,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// WriteBatchReport writes the report as JSON to the specified path.
// If path is "-", writes to stderr.
func WriteBatchReport(report *BatchReport, path string) error {
	if path == "" {
		return errors.New("report path must not be empty")
	}

	if path == "-" {
		if err := writeBatchReportTo(report, os.Stderr); err != nil {
			return fmt.Errorf("failed to write report to stderr: %w", err)
		}
		return nil
	}

	data, err := marshalReport(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// writeBatchReportTo writes report JSON to any writer (for testing).
func writeBatchReportTo(report *BatchReport, w io.Writer) error {
	data, err := marshalReport(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshalReport(report *BatchReport) ([]byte, error) {
	data, err := reportJSON.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadBatchReport loads a report written by WriteBatchReport.
func ReadBatchReport(path string) (*BatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return ParseBatchReport(data)
}

// ParseBatchReport decodes report JSON.
func ParseBatchReport(data []byte) (*BatchReport, error) {
	var report BatchReport
	if err := reportJSON.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("invalid report JSON: %w", err)
	}
	if report.RunID == "" {
		return nil, errors.New("invalid report: missing run_id")
	}
	return &report, nil
}

// WriteText writes the table form of the report: the run header, the
// summary block and the error distribution.
func (r *BatchReport) WriteText(w io.Writer, _ bool) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	printf("Run ID:    %s\n", r.RunID)
	printf("Format:    %s\n", r.Format)
	printf("Started:   %s\n", r.StartedAt)
	printf("Duration:  %s\n", time.Duration(r.DurationMs)*time.Millisecond)
	printf("Exit code: %d\n", r.ExitCode)
	printf("Files:     %d (valid %d, invalid %d, other %d)\n", r.Total, r.Valid, r.Invalid, r.Other)
	if r.ErrorStats.Files > 0 {
		printf("Errors:    %d total, mean %.1f, median %.1f, p90 %.1f, max %.0f\n",
			r.ErrorStats.TotalErrors, r.ErrorStats.Mean, r.ErrorStats.Median, r.ErrorStats.P90, r.ErrorStats.Max)
	}
	if r.Storage != nil {
		printf("Storage:   %s %s (dataset %s)\n", r.Storage.Backend, r.Storage.Path, r.Storage.Dataset)
	}
	if len(r.InvalidFiles) > 0 {
		printf("Invalid files:\n")
		for _, f := range r.InvalidFiles {
			printf("  %s\n", f)
		}
	}
	if len(r.OtherFiles) > 0 {
		printf("Other issues:\n")
		for _, f := range r.OtherFiles {
			printf("  %s\n", f)
		}
	}
	return err
}
