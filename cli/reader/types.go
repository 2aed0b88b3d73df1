// Package reader provides the read-side data access layer for the CLI.
//
// Read-only commands (inspect, history, summary) go through this package
// exclusively. Log artifacts are parsed from disk; stored verdicts come
// from a Lode dataset through a Reader.
package reader

import (
	"fmt"
	"io"
)

// LogEntry is one line of a validation log.
type LogEntry struct {
	Line      int    `json:"line"`
	Timestamp string `json:"timestamp,omitempty"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// InspectLogResponse is the inspect view of one log artifact.
// Classification follows the same last-line contract as the batch driver.
type InspectLogResponse struct {
	Path           string     `json:"path"`
	Classification string     `json:"classification"`
	LastLine       string     `json:"last_line"`
	Lines          int        `json:"lines"`
	Errors         int        `json:"errors"`
	Warnings       int        `json:"warnings"`
	Truncated      bool       `json:"truncated"`
	Findings       []LogEntry `json:"findings"`
}

// WriteText writes the table form: a header block, then one line per
// warning or error.
func (r *InspectLogResponse) WriteText(w io.Writer, _ bool) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	printf("Log:       %s\n", r.Path)
	printf("Result:    %s\n", r.Classification)
	printf("Last line: %s\n", r.LastLine)
	printf("Errors:    %d\n", r.Errors)
	printf("Warnings:  %d\n", r.Warnings)
	if r.Truncated {
		printf("Scan stopped at the error limit\n")
	}
	if len(r.Findings) > 0 {
		printf("\n")
	}
	for _, e := range r.Findings {
		printf("%6d  %-5s  %s\n", e.Line, e.Level, e.Message)
	}
	return err
}

// HistoryOptions filters stored verdicts.
type HistoryOptions struct {
	RunID          string
	Format         string
	PgsID          string
	Classification string
	Limit          int
}

// HistoryItem is a thin view of a stored verdict.
type HistoryItem struct {
	RunID          string `json:"run_id"`
	Day            string `json:"day"`
	Format         string `json:"format"`
	File           string `json:"file"`
	PgsID          string `json:"pgs_id"`
	Classification string `json:"classification"`
	Errors         int    `json:"errors"`
	Rows           int    `json:"rows"`
	ValidatedAt    string `json:"validated_at"`
}

// FindingItem is a stored warning or error of one file.
type FindingItem struct {
	File     string `json:"file"`
	Seq      int    `json:"seq"`
	Severity string `json:"severity"`
	Stage    string `json:"stage"`
	Row      int    `json:"row,omitempty"`
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`
}

// BatchItem is the stored record of a finished batch.
type BatchItem struct {
	RunID        string   `json:"run_id"`
	Format       string   `json:"format"`
	Day          string   `json:"day"`
	Total        int      `json:"total"`
	Valid        int      `json:"valid"`
	Invalid      int      `json:"invalid"`
	Other        int      `json:"other"`
	InvalidFiles []string `json:"invalid_files"`
	StartedAt    string   `json:"started_at"`
	CompletedAt  string   `json:"completed_at"`
}
