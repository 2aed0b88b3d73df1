package batch

import (
	"github.com/pithecene-io/hmvalidate/types"
)

// Exit codes of a validate invocation.
const (
	ExitCodeValid       = 0 // every file valid
	ExitCodeInvalid     = 1 // at least one file invalid or other
	ExitCodeOperational = 2 // bad arguments or setup failure, no file judged
)

// Progress lines printed after each file, keyed by classification.
const (
	progressValid      = "> valid"
	progressInvalid    = "#### invalid! ####"
	progressOther      = "!! validation process had an issue. Please look at the logs."
	progressMissingLog = "!! validation process had an issue: the log file can't be found"
)

// ProgressLine returns the line printed after a file was classified.
// logFound is false when no log was produced at all.
func ProgressLine(class types.Classification, logFound bool) string {
	if !logFound {
		return progressMissingLog
	}
	switch class {
	case types.ClassValid:
		return progressValid
	case types.ClassInvalid:
		return progressInvalid
	default:
		return progressOther
	}
}

// ExitCode maps a batch tally to the process exit code.
// An empty batch is treated as valid.
func ExitCode(s *Summary) int {
	if s == nil {
		return ExitCodeOperational
	}
	if s.Invalid > 0 || s.Other > 0 {
		return ExitCodeInvalid
	}
	return ExitCodeValid
}
