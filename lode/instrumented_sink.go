package lode

import (
	"context"

	"github.com/pithecene-io/hmvalidate/metrics"
	"github.com/pithecene-io/hmvalidate/types"
	"github.com/pithecene-io/hmvalidate/validator"
)

// InstrumentedSink wraps a ResultSink and records write metrics.
// Each WriteResult/WriteBatch call increments lode_write_success or
// lode_write_failure on the metrics collector.
type InstrumentedSink struct {
	inner     ResultSink
	collector *metrics.Collector
}

// NewInstrumentedSink wraps a sink with metrics instrumentation.
func NewInstrumentedSink(inner ResultSink, collector *metrics.Collector) *InstrumentedSink {
	return &InstrumentedSink{inner: inner, collector: collector}
}

// WriteResult delegates to the inner sink and records success or failure.
func (s *InstrumentedSink) WriteResult(ctx context.Context, res *validator.Result, class types.Classification) error {
	return s.record(s.inner.WriteResult(ctx, res, class))
}

// WriteBatch delegates to the inner sink and records success or failure.
func (s *InstrumentedSink) WriteBatch(ctx context.Context, batch BatchRecord) error {
	return s.record(s.inner.WriteBatch(ctx, batch))
}

func (s *InstrumentedSink) record(err error) error {
	if err != nil {
		s.collector.IncLodeWriteFailure()
	} else {
		s.collector.IncLodeWriteSuccess()
	}
	return err
}

// Close delegates to the inner sink.
func (s *InstrumentedSink) Close() error {
	return s.inner.Close()
}

// Verify InstrumentedSink implements ResultSink.
var _ ResultSink = (*InstrumentedSink)(nil)
