package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pithecene-io/hmvalidate/iox"
	"github.com/pithecene-io/hmvalidate/validator"
)

// Log levels as written by the console encoder.
const (
	levelDebug = "DEBUG"
	levelInfo  = "INFO"
	levelWarn  = "WARN"
	levelError = "ERROR"
)

// truncationMarker appears in the warning logged when the error ceiling
// stopped the scan.
const truncationMarker = "Error limit of"

func isLevel(s string) bool {
	switch s {
	case levelDebug, levelInfo, levelWarn, levelError:
		return true
	}
	return false
}

// ParseLogLine splits one log line into its parts. Lines are either
// "LEVEL<TAB>message" or "timestamp<TAB>LEVEL<TAB>message". Anything else
// is returned as an INFO message.
func ParseLogLine(line string) LogEntry {
	parts := strings.SplitN(line, "\t", 3)
	switch {
	case len(parts) >= 2 && isLevel(parts[0]):
		return LogEntry{Level: parts[0], Message: strings.Join(parts[1:], "\t")}
	case len(parts) == 3 && isLevel(parts[1]):
		return LogEntry{Timestamp: parts[0], Level: parts[1], Message: parts[2]}
	default:
		return LogEntry{Level: levelInfo, Message: line}
	}
}

// ParseLog reads every non-empty line of a log.
func ParseLog(r io.Reader) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16<<20)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		e := ParseLogLine(line)
		e.Line = n
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return entries, nil
}

// InspectLog parses the log at path and classifies it by its last line.
func InspectLog(path string) (*InspectLogResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("log file '%s' can't be found: %w", path, err)
	}
	defer iox.DiscardClose(f)

	entries, err := ParseLog(f)
	if err != nil {
		return nil, err
	}
	return newInspectLogResponse(path, entries), nil
}

func newInspectLogResponse(path string, entries []LogEntry) *InspectLogResponse {
	resp := &InspectLogResponse{
		Path:     path,
		Lines:    len(entries),
		Findings: []LogEntry{},
	}
	if len(entries) > 0 {
		resp.LastLine = entries[len(entries)-1].Message
	}
	resp.Classification = string(validator.ClassifyLastLine(resp.LastLine))
	for _, e := range entries {
		switch e.Level {
		case levelError:
			resp.Errors++
		case levelWarn:
			resp.Warnings++
			if strings.Contains(e.Message, truncationMarker) {
				resp.Truncated = true
			}
		default:
			continue
		}
		resp.Findings = append(resp.Findings, e)
	}
	return resp
}
