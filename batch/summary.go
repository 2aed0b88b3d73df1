package batch

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/pithecene-io/hmvalidate/types"
	"github.com/pithecene-io/hmvalidate/validator"
)

// FileOutcome is the judged result of one file in a batch.
type FileOutcome struct {
	File           string               `json:"file"`
	Path           string               `json:"path"`
	LogPath        string               `json:"log_path"`
	Classification types.Classification `json:"classification"`
	Verdict        types.Verdict        `json:"verdict"`
	LogFound       bool                 `json:"log_found"`
	ErrorCount     int                  `json:"error_count"`
	ContentErrors  int                  `json:"content_errors"`
	RowsScanned    int                  `json:"rows_scanned"`
	Truncated      bool                 `json:"truncated"`
	DurationMs     int64                `json:"duration_ms"`
	Error          string               `json:"error,omitempty"`
}

func newFileOutcome(path string, res *validator.Result, class types.Classification, logFound bool) FileOutcome {
	o := FileOutcome{
		File:           filepath.Base(path),
		Path:           path,
		LogPath:        res.LogPath,
		Classification: class,
		Verdict:        res.Verdict,
		LogFound:       logFound,
		ErrorCount:     res.ErrorCount,
		ContentErrors:  res.ContentErrors,
		RowsScanned:    res.RowsScanned,
		Truncated:      res.Truncated,
		DurationMs:     res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		o.Error = res.Err.Error()
	}
	return o
}

// Summary is the tally of a batch. The driver returns it; nothing else
// holds batch state.
type Summary struct {
	RunID        string        `json:"run_id"`
	Format       types.Format  `json:"format"`
	Total        int           `json:"total"`
	Valid        int           `json:"valid"`
	Invalid      int           `json:"invalid"`
	Other        int           `json:"other"`
	InvalidFiles []string      `json:"invalid_files,omitempty"`
	OtherFiles   []string      `json:"other_files,omitempty"`
	Files        []FileOutcome `json:"files"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  time.Time     `json:"completed_at"`
}

func newSummary(runID string, format types.Format, startedAt time.Time) *Summary {
	return &Summary{
		RunID:     runID,
		Format:    format,
		Files:     []FileOutcome{},
		StartedAt: startedAt,
	}
}

func (s *Summary) add(o FileOutcome) {
	s.Total++
	s.Files = append(s.Files, o)
	switch o.Classification {
	case types.ClassValid:
		s.Valid++
	case types.ClassInvalid:
		s.Invalid++
		s.InvalidFiles = append(s.InvalidFiles, o.File)
	default:
		s.Other++
		s.OtherFiles = append(s.OtherFiles, o.File)
	}
}

// Duration is the wall time of the batch.
func (s *Summary) Duration() time.Duration {
	if s.CompletedAt.IsZero() {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}

// WriteText writes the human summary block. Buckets with no files are
// omitted.
func (s *Summary) WriteText(w io.Writer) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	printf("\nSummary:\n")
	if s.Valid > 0 {
		printf("- Valid: %d/%d\n", s.Valid, s.Total)
	}
	if s.Invalid > 0 {
		printf("- Invalid: %d/%d\n", s.Invalid, s.Total)
	}
	if s.Other > 0 {
		printf("- Other issues: %d/%d\n", s.Other, s.Total)
	}
	if len(s.InvalidFiles) > 0 {
		printf("Invalid files:\n")
		for _, f := range s.InvalidFiles {
			printf("%s\n", f)
		}
	}
	return err
}

// ErrorStats describes the distribution of error counts over the files
// that received a verdict (valid or invalid).
type ErrorStats struct {
	Files       int     `json:"files"`
	TotalErrors int     `json:"total_errors"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	P90         float64 `json:"p90"`
	Max         float64 `json:"max"`
}

// ErrorStats computes the error distribution. Files bucketed as other are
// excluded since their error count says nothing about content.
func (s *Summary) ErrorStats() ErrorStats {
	var data stats.Float64Data
	out := ErrorStats{}
	for _, f := range s.Files {
		if f.Classification == types.ClassOther {
			continue
		}
		data = append(data, float64(f.ErrorCount))
		out.TotalErrors += f.ErrorCount
	}
	out.Files = len(data)
	if len(data) == 0 {
		return out
	}
	// Errors are impossible for non-empty input.
	out.Mean, _ = stats.Mean(data)
	out.Median, _ = stats.Median(data)
	out.P90, _ = stats.Percentile(data, 90)
	out.Max, _ = stats.Max(data)
	return out
}
