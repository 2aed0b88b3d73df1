package reader

import (
	"context"
	"errors"

	lodelib "github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/hmvalidate/lode"
)

// ErrNotFound is returned when a query matches nothing.
var ErrNotFound = errors.New("no records found")

// Reader abstracts read-only access to stored verdicts.
type Reader interface {
	History(ctx context.Context, opts HistoryOptions) ([]HistoryItem, error)
	Findings(ctx context.Context, runID, file string) ([]FindingItem, error)
	LatestBatch(ctx context.Context, runID string) (*BatchItem, error)
}

// LodeReader reads verdicts from a Lode dataset.
type LodeReader struct {
	ds lodelib.Dataset
}

// NewLodeReader creates a reader over ds.
func NewLodeReader(ds lodelib.Dataset) *LodeReader {
	return &LodeReader{ds: ds}
}

// History lists stored verdicts, newest first.
func (r *LodeReader) History(ctx context.Context, opts HistoryOptions) ([]HistoryItem, error) {
	records, err := lode.QueryVerdicts(ctx, r.ds, lode.VerdictFilter{
		RunID:          opts.RunID,
		Format:         opts.Format,
		PgsID:          opts.PgsID,
		Classification: opts.Classification,
		Limit:          opts.Limit,
	})
	if err != nil {
		return nil, translate(err)
	}
	items := make([]HistoryItem, 0, len(records))
	for _, v := range records {
		items = append(items, HistoryItem{
			RunID:          v.RunID,
			Day:            v.Day,
			Format:         v.Format,
			File:           v.File,
			PgsID:          v.PgsID,
			Classification: v.Classification,
			Errors:         v.ErrorCount,
			Rows:           v.RowsScanned,
			ValidatedAt:    v.ValidatedAt,
		})
	}
	return items, nil
}

// Findings lists the stored findings of one file in a run. An empty file
// returns the findings of every file.
func (r *LodeReader) Findings(ctx context.Context, runID, file string) ([]FindingItem, error) {
	records, err := lode.QueryFindings(ctx, r.ds, runID, file)
	if err != nil {
		return nil, translate(err)
	}
	items := make([]FindingItem, 0, len(records))
	for _, f := range records {
		items = append(items, FindingItem{
			File:     f.File,
			Seq:      f.Seq,
			Severity: f.Severity,
			Stage:    f.Stage,
			Row:      f.Row,
			Column:   f.Column,
			Message:  f.Message,
		})
	}
	return items, nil
}

// LatestBatch returns the newest batch record, optionally of one run.
func (r *LodeReader) LatestBatch(ctx context.Context, runID string) (*BatchItem, error) {
	b, err := lode.QueryLatestBatch(ctx, r.ds, runID)
	if err != nil {
		return nil, translate(err)
	}
	invalid := b.InvalidFiles
	if invalid == nil {
		invalid = []string{}
	}
	return &BatchItem{
		RunID:        b.RunID,
		Format:       b.Format,
		Day:          b.Day,
		Total:        b.Total,
		Valid:        b.Valid,
		Invalid:      b.Invalid,
		Other:        b.Other,
		InvalidFiles: invalid,
		StartedAt:    b.StartedAt,
		CompletedAt:  b.CompletedAt,
	}, nil
}

func translate(err error) error {
	if errors.Is(err, lode.ErrNoRecordsFound) {
		return ErrNotFound
	}
	return err
}

// Verify LodeReader implements Reader.
var _ Reader = (*LodeReader)(nil)
