package validator

import "errors"

// Operational errors. A session that hits one of these ends with an
// Errored verdict; they are available on Result.Err for errors.Is checks.
var (
	// ErrNoLogPath is returned when neither a log path nor a logger is set.
	ErrNoLogPath = errors.New("missing log path")

	// ErrNoFile is returned when the file path is empty.
	ErrNoFile = errors.New("missing file path")

	// ErrFileNotFound is returned when the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrBadExtension is returned when the file extension is not accepted.
	ErrBadExtension = errors.New("unsupported file extension")

	// ErrUnreadable is returned when the file cannot be opened or decoded.
	ErrUnreadable = errors.New("unreadable file")

	// ErrNoHeader is returned when no header line follows the metadata.
	ErrNoHeader = errors.New("no header line")
)
