package validator

import (
	"time"

	"github.com/pithecene-io/hmvalidate/types"
)

// Result is the in-process outcome of a session. The log artifact carries
// the same verdict through its last line.
type Result struct {
	File    string        `json:"file"`
	LogPath string        `json:"log_path,omitempty"`
	Format  types.Format  `json:"format"`
	Verdict types.Verdict `json:"verdict"`

	// Findings are the warnings and errors written to the log, in order.
	Findings []types.Finding `json:"findings,omitempty"`
	// ErrorCount counts every error, including content errors past the
	// ceiling that were not logged.
	ErrorCount int `json:"error_count"`
	// ContentErrors counts row-level errors, logged or not.
	ContentErrors int `json:"content_errors"`
	// RowsScanned is the number of data rows read.
	RowsScanned int `json:"rows_scanned"`
	// Truncated is set when the error ceiling stopped the scan.
	Truncated bool `json:"truncated"`

	Metadata *types.FileMetadata `json:"metadata,omitempty"`
	FileName FileName            `json:"-"`

	// Err is the operational cause of an Errored verdict.
	Err      error         `json:"-"`
	Duration time.Duration `json:"-"`
}

// Classification returns the bucket the log contract yields for this
// result.
func (r *Result) Classification() types.Classification {
	return r.Verdict.Classify()
}

// Errors returns the logged error findings.
func (r *Result) Errors() []types.Finding {
	var out []types.Finding
	for _, f := range r.Findings {
		if f.IsError() {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns the logged warning findings.
func (r *Result) Warnings() []types.Finding {
	var out []types.Finding
	for _, f := range r.Findings {
		if f.Severity == types.SeverityWarn {
			out = append(out, f)
		}
	}
	return out
}
