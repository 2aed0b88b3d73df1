// Package adapter defines the notification boundary for batch completion.
//
// Adapters publish one event per validation batch to a downstream system.
// The CLI owns adapter lifecycle; users provide configuration only.
package adapter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// ContractVersion is the version of the BatchCompletedEvent shape.
const ContractVersion = "1.0.0"

// EventTypeBatchCompleted is the event_type of every published event.
const EventTypeBatchCompleted = "batch_completed"

// BatchCompletedEvent is the payload published when a batch finishes.
type BatchCompletedEvent struct {
	ContractVersion string   `json:"contract_version"`
	EventType       string   `json:"event_type"` // always "batch_completed"
	RunID           string   `json:"run_id"`
	Format          string   `json:"format"`
	Day             string   `json:"day"`
	Total           int      `json:"total"`
	Valid           int      `json:"valid"`
	Invalid         int      `json:"invalid"`
	Other           int      `json:"other"`
	InvalidFiles    []string `json:"invalid_files,omitempty"`
	LogDir          string   `json:"log_dir"`
	StoragePath     string   `json:"storage_path,omitempty"`
	ExitCode        int      `json:"exit_code"`
	Timestamp       string   `json:"timestamp"` // ISO 8601
	DurationMs      int64    `json:"duration_ms"`
}

// Failed reports whether the batch ended with a non-zero exit code.
func (e *BatchCompletedEvent) Failed() bool { return e.ExitCode != 0 }

// Attributes returns the routing attributes of the event: run id, format,
// exit code and invalid file count. Transports expose them outside the
// body (HTTP headers, channel names) so receivers can route without
// decoding the payload.
func (e *BatchCompletedEvent) Attributes() map[string]string {
	return map[string]string{
		"run-id":        e.RunID,
		"format":        e.Format,
		"exit-code":     strconv.Itoa(e.ExitCode),
		"invalid-files": strconv.Itoa(len(e.InvalidFiles)),
	}
}

// Adapter publishes batch completion events to a downstream system.
// Implementations must be safe for single-use per batch.
type Adapter interface {
	// Publish sends a batch completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *BatchCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}

var eventJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode returns the JSON wire form of event.
func Encode(event *BatchCompletedEvent) ([]byte, error) {
	return eventJSON.Marshal(event)
}

// Backoff returns the wait before retry attempt i (1-based):
// 500ms, 1s, 2s, ...
func Backoff(i int) time.Duration {
	if i < 1 {
		return 0
	}
	return time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
}

// Wait sleeps for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry calls attempt up to 1+retries times with Backoff between calls.
// It stops early when attempt succeeds, when permanent reports the error
// as not worth retrying, or when ctx is done. The returned error names
// the transport.
func Retry(ctx context.Context, transport string, retries int, permanent func(error) bool, attempt func(context.Context) error) error {
	attempts := 1 + retries
	var lastErr error
	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: context canceled: %w", transport, err)
		}
		if err := Wait(ctx, Backoff(i)); err != nil {
			return fmt.Errorf("%s: context canceled during backoff: %w", transport, err)
		}
		lastErr = attempt(ctx)
		if lastErr == nil {
			return nil
		}
		if permanent != nil && permanent(lastErr) {
			return fmt.Errorf("%s: non-retriable error: %w", transport, lastErr)
		}
	}
	return fmt.Errorf("%s: failed after %d attempts: %w", transport, attempts, lastErr)
}
