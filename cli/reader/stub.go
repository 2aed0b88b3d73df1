package reader

import "context"

// StubReader serves fixed data. Used by command tests.
type StubReader struct {
	Items    []HistoryItem
	Finds    []FindingItem
	Batch    *BatchItem
	Err      error
	LastOpts HistoryOptions
}

// History implements Reader. Filters are applied to Items.
func (s *StubReader) History(_ context.Context, opts HistoryOptions) ([]HistoryItem, error) {
	s.LastOpts = opts
	if s.Err != nil {
		return nil, s.Err
	}
	var out []HistoryItem
	for _, it := range s.Items {
		if opts.RunID != "" && it.RunID != opts.RunID {
			continue
		}
		if opts.Classification != "" && it.Classification != opts.Classification {
			continue
		}
		out = append(out, it)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Findings implements Reader.
func (s *StubReader) Findings(_ context.Context, _, file string) ([]FindingItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []FindingItem
	for _, f := range s.Finds {
		if file == "" || f.File == file {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// LatestBatch implements Reader.
func (s *StubReader) LatestBatch(context.Context, string) (*BatchItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Batch == nil {
		return nil, ErrNotFound
	}
	return s.Batch, nil
}

// Verify StubReader implements Reader.
var _ Reader = (*StubReader)(nil)
