// Package metrics provides per-batch metrics collection.
//
// The Collector accumulates counters while a batch of files is validated.
// It is a leaf package with no internal dependencies; callers translate
// validation results into counter increments.
package metrics

import (
	"maps"
	"sync"
)

// Snapshot is an immutable point-in-time view of all batch metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// File lifecycle
	FilesStarted int64 `json:"files_started"`
	FilesValid   int64 `json:"files_valid"`
	FilesInvalid int64 `json:"files_invalid"`
	FilesOther   int64 `json:"files_other"`

	// Content
	RowsScanned   int64            `json:"rows_scanned"`
	ContentErrors int64            `json:"content_errors"`
	Truncations   int64            `json:"truncations"`
	ErrorsByStage map[string]int64 `json:"errors_by_stage"`

	// Lode / Storage
	LodeWriteSuccess int64 `json:"lode_write_success"`
	LodeWriteFailure int64 `json:"lode_write_failure"`

	// Notifications
	PublishSuccess int64 `json:"publish_success"`
	PublishFailure int64 `json:"publish_failure"`

	// Dimensions (informational, set at construction)
	Format         string `json:"format"`
	StorageBackend string `json:"storage_backend"`
	RunID          string `json:"run_id"`
}

// Collector accumulates metrics during a single batch.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	filesStarted int64
	filesValid   int64
	filesInvalid int64
	filesOther   int64

	rowsScanned   int64
	contentErrors int64
	truncations   int64
	errorsByStage map[string]int64

	lodeWriteSuccess int64
	lodeWriteFailure int64

	publishSuccess int64
	publishFailure int64

	format         string
	storageBackend string
	runID          string
}

// NewCollector creates a Collector with dimension labels.
// storageBackend is "none" when verdicts are not persisted.
func NewCollector(format, storageBackend, runID string) *Collector {
	return &Collector{
		errorsByStage:  make(map[string]int64),
		format:         format,
		storageBackend: storageBackend,
		runID:          runID,
	}
}

// add must only be called on a non-nil receiver.
func (c *Collector) add(field *int64, n int64) {
	c.mu.Lock()
	*field += n
	c.mu.Unlock()
}

// --- File lifecycle ---

// IncFileStarted records the start of one file validation.
func (c *Collector) IncFileStarted() {
	if c == nil {
		return
	}
	c.add(&c.filesStarted, 1)
}

// IncFileValid records a file whose log ended with the valid sentinel.
func (c *Collector) IncFileValid() {
	if c == nil {
		return
	}
	c.add(&c.filesValid, 1)
}

// IncFileInvalid records a file whose log ended with the invalid sentinel.
func (c *Collector) IncFileInvalid() {
	if c == nil {
		return
	}
	c.add(&c.filesInvalid, 1)
}

// IncFileOther records a file whose log matched neither sentinel.
func (c *Collector) IncFileOther() {
	if c == nil {
		return
	}
	c.add(&c.filesOther, 1)
}

// --- Content ---

// ObserveRows adds the data rows scanned in one file and the content errors
// found there. truncated marks a scan stopped by the error ceiling.
func (c *Collector) ObserveRows(rows, contentErrors int64, truncated bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.rowsScanned += rows
	c.contentErrors += contentErrors
	if truncated {
		c.truncations++
	}
	c.mu.Unlock()
}

// AddStageErrors adds n error findings attributed to stage.
func (c *Collector) AddStageErrors(stage string, n int64) {
	if c == nil || n == 0 {
		return
	}
	c.mu.Lock()
	c.errorsByStage[stage] += n
	c.mu.Unlock()
}

// --- Lode / Storage ---
// Lode counters are per-call, not per-record. A single WriteVerdicts call
// with N records counts as 1 success.

// IncLodeWriteSuccess records a successful Lode write operation (per-call).
func (c *Collector) IncLodeWriteSuccess() {
	if c == nil {
		return
	}
	c.add(&c.lodeWriteSuccess, 1)
}

// IncLodeWriteFailure records a failed Lode write operation (per-call).
func (c *Collector) IncLodeWriteFailure() {
	if c == nil {
		return
	}
	c.add(&c.lodeWriteFailure, 1)
}

// --- Notifications ---

// IncPublishSuccess records a delivered completion notification.
func (c *Collector) IncPublishSuccess() {
	if c == nil {
		return
	}
	c.add(&c.publishSuccess, 1)
}

// IncPublishFailure records a notification that could not be delivered.
func (c *Collector) IncPublishFailure() {
	if c == nil {
		return
	}
	c.add(&c.publishFailure, 1)
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		FilesStarted: c.filesStarted,
		FilesValid:   c.filesValid,
		FilesInvalid: c.filesInvalid,
		FilesOther:   c.filesOther,

		RowsScanned:   c.rowsScanned,
		ContentErrors: c.contentErrors,
		Truncations:   c.truncations,
		ErrorsByStage: maps.Clone(c.errorsByStage),

		LodeWriteSuccess: c.lodeWriteSuccess,
		LodeWriteFailure: c.lodeWriteFailure,

		PublishSuccess: c.publishSuccess,
		PublishFailure: c.publishFailure,

		Format:         c.format,
		StorageBackend: c.storageBackend,
		RunID:          c.runID,
	}
}
