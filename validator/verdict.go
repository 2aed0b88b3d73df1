package validator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pithecene-io/hmvalidate/iox"
	"github.com/pithecene-io/hmvalidate/types"
)

// Terminal log lines. The last line of every log is one of these; drivers
// classify files by it.
const (
	ValidSentinel   = "File is valid"
	InvalidSentinel = "File is invalid"
	// ExitNotice ends the log when validation could not proceed. It matches
	// neither sentinel, so drivers bucket the file as other.
	ExitNotice = "Exiting before any further checks"
)

// ClassifyLastLine classifies a log by its last line. The invalid sentinel
// is matched first, then the valid one; anything else is other.
func ClassifyLastLine(line string) types.Classification {
	switch {
	case strings.Contains(line, InvalidSentinel):
		return types.ClassInvalid
	case strings.Contains(line, ValidSentinel):
		return types.ClassValid
	default:
		return types.ClassOther
	}
}

// ClassifyLog reads the last line of the log at path and classifies it.
// A missing or unreadable log is other.
func ClassifyLog(path string) types.Classification {
	line, err := LastLine(path)
	if err != nil {
		return types.ClassOther
	}
	return ClassifyLastLine(line)
}

// lastLineChunk is the initial tail size read by LastLine.
const lastLineChunk = 4096

// LastLine returns the last non-empty line of the file at path, without
// its line terminator. Only the tail of the file is read.
func LastLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer iox.DiscardClose(f)

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	size := info.Size()
	if size == 0 {
		return "", nil
	}

	for chunk := int64(lastLineChunk); ; chunk *= 2 {
		chunk = min(chunk, size)
		buf := make([]byte, chunk)
		if _, err := f.ReadAt(buf, size-chunk); err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read log tail: %w", err)
		}

		trimmed := bytes.TrimRight(buf, "\r\n")
		idx := bytes.LastIndexByte(trimmed, '\n')
		if idx >= 0 || chunk == size {
			return string(bytes.TrimRight(trimmed[idx+1:], "\r")), nil
		}
	}
}
