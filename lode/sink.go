// Package lode persists validation verdicts to a Lode dataset.
//
// Each validated file produces one verdict record and one finding record per
// logged warning or error. A batch record closes every run. Records are
// Hive-partitioned by format, day, run_id and record_kind; the per-file logs
// are stored next to them as sidecar files.
package lode

import (
	"context"
	"time"

	"github.com/pithecene-io/hmvalidate/types"
	"github.com/pithecene-io/hmvalidate/validator"
)

// DefaultDataset is the dataset ID used when none is configured.
const DefaultDataset = "hmvalidate"

// DeriveDay computes the partition day from the batch start time.
// Format: YYYY-MM-DD in UTC.
func DeriveDay(startTime time.Time) string {
	return startTime.UTC().Format("2006-01-02")
}

// Config holds Lode sink configuration. All partition keys are required.
type Config struct {
	// Dataset is the Lode dataset ID.
	Dataset string
	// Format is the partition key for the validated format (hm_pos, hm_final).
	Format string
	// Day is the partition key derived from the batch start time.
	Day string
	// RunID is the partition key for the batch run.
	RunID string
}

// ResultSink receives validation outcomes.
type ResultSink interface {
	// WriteResult persists one validated file. class is the bucket the
	// driver derived from the file's log.
	WriteResult(ctx context.Context, res *validator.Result, class types.Classification) error
	// WriteBatch persists the closing batch record.
	WriteBatch(ctx context.Context, batch BatchRecord) error
	// Close releases sink resources.
	Close() error
}

// Sink is a Lode-backed ResultSink.
type Sink struct {
	config Config
	client Client
	now    func() time.Time
}

// Client abstracts the Lode storage client.
// Real implementations connect to Lode; stubs are used for testing.
type Client interface {
	// WriteVerdict writes a verdict and its findings as one snapshot.
	WriteVerdict(ctx context.Context, verdict VerdictRecord, findings []FindingRecord) error

	// WriteBatch writes the batch record.
	WriteBatch(ctx context.Context, batch BatchRecord) error

	// Close releases client resources.
	Close() error
}

// NewSink creates a new Lode sink.
func NewSink(config Config, client Client) *Sink {
	return &Sink{
		config: config,
		client: client,
		now:    time.Now,
	}
}

// WriteResult implements ResultSink.
func (s *Sink) WriteResult(ctx context.Context, res *validator.Result, class types.Classification) error {
	verdict := NewVerdictRecord(res, class, s.config, s.now())
	return s.client.WriteVerdict(ctx, verdict, NewFindingRecords(res, s.config))
}

// WriteBatch implements ResultSink.
func (s *Sink) WriteBatch(ctx context.Context, batch BatchRecord) error {
	batch.RecordKind = RecordKindBatch
	batch.RunID = s.config.RunID
	batch.Format = s.config.Format
	batch.Day = s.config.Day
	return s.client.WriteBatch(ctx, batch)
}

// Close implements ResultSink.
func (s *Sink) Close() error {
	return s.client.Close()
}

// Verify Sink implements ResultSink.
var _ ResultSink = (*Sink)(nil)

// StubClient is a test client that accepts writes without persisting.
type StubClient struct {
	Verdicts []VerdictRecord
	Findings []FindingRecord
	Batches  []BatchRecord
	Closed   bool
}

// NewStubClient creates a new stub client.
func NewStubClient() *StubClient {
	return &StubClient{}
}

// WriteVerdict implements Client.
func (c *StubClient) WriteVerdict(_ context.Context, verdict VerdictRecord, findings []FindingRecord) error {
	c.Verdicts = append(c.Verdicts, verdict)
	c.Findings = append(c.Findings, findings...)
	return nil
}

// WriteBatch implements Client.
func (c *StubClient) WriteBatch(_ context.Context, batch BatchRecord) error {
	c.Batches = append(c.Batches, batch)
	return nil
}

// Close implements Client.
func (c *StubClient) Close() error {
	c.Closed = true
	return nil
}

// Verify StubClient implements Client.
var _ Client = (*StubClient)(nil)
