package tui

import (
	"fmt"
	"strings"
)

// View types.
const (
	ViewInspectLog    = "inspect_log"
	ViewSummaryReport = "summary_report"
	ViewSummaryBatch  = "summary_batch"
)

// Run starts the appropriate TUI based on the view type.
// Returns an error if the view type doesn't support TUI.
func Run(viewType string, data any) error {
	if !IsTUISupported(viewType) {
		return fmt.Errorf("TUI mode is not supported for %s", viewType)
	}

	if strings.HasPrefix(viewType, "inspect_") {
		return RunInspectTUI(viewType, data)
	}
	return RunSummaryTUI(viewType, data)
}

// IsTUISupported returns true if the view type supports TUI mode.
// Only inspect and summary views do.
func IsTUISupported(viewType string) bool {
	for _, v := range SupportedTUIViews() {
		if v == viewType {
			return true
		}
	}
	return false
}

// SupportedTUIViews returns a list of view types that support TUI.
func SupportedTUIViews() []string {
	return []string{
		ViewInspectLog,
		ViewSummaryReport,
		ViewSummaryBatch,
	}
}
