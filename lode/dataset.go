package lode

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/justapithecus/lode/lode"
)

// ErrNoRecordsFound is returned when no record matches a query.
var ErrNoRecordsFound = errors.New("no matching records found")

var recordJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// NewReadDataset creates a Lode Dataset for reading.
// Uses the same codec and layout as the write path to ensure compatibility.
func NewReadDataset(dataset string, factory lode.StoreFactory) (lode.Dataset, error) {
	ds, err := newDataset(dataset, factory)
	if err != nil {
		return nil, WrapInitError(err, dataset)
	}
	return ds, nil
}

// NewReadDatasetFS creates a read Dataset with filesystem storage.
func NewReadDatasetFS(dataset, rootPath string) (lode.Dataset, error) {
	return NewReadDataset(dataset, lode.NewFSFactory(rootPath))
}

// NewReadDatasetS3 creates a read Dataset with S3 storage.
func NewReadDatasetS3(ctx context.Context, dataset string, s3cfg S3Config) (lode.Dataset, error) {
	factory, err := s3StoreFactory(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	return NewReadDataset(dataset, factory)
}

// VerdictFilter narrows QueryVerdicts. Empty fields match everything.
type VerdictFilter struct {
	RunID  string
	Format string
	PgsID  string
	// Classification keeps only one bucket (valid, invalid, other).
	Classification string
	// Limit caps the number of records returned; zero means no cap.
	Limit int
}

// QueryVerdicts reads verdict records, newest snapshot first.
// Returns ErrNoRecordsFound when nothing matches.
func QueryVerdicts(ctx context.Context, ds lode.Dataset, filter VerdictFilter) ([]VerdictRecord, error) {
	var out []VerdictRecord
	err := scanRecords(ctx, ds, RecordKindVerdict, filter.RunID, filter.Format, func(record map[string]any) (bool, error) {
		var v VerdictRecord
		if err := decodeRecord(record, &v); err != nil {
			return false, err
		}
		if filter.PgsID != "" && v.PgsID != filter.PgsID {
			return true, nil
		}
		if filter.Classification != "" && v.Classification != filter.Classification {
			return true, nil
		}
		out = append(out, v)
		return filter.Limit == 0 || len(out) < filter.Limit, nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoRecordsFound
	}
	return out, nil
}

// QueryFindings reads the finding records of one file in a run, in logged
// order.
func QueryFindings(ctx context.Context, ds lode.Dataset, runID, file string) ([]FindingRecord, error) {
	var out []FindingRecord
	err := scanRecords(ctx, ds, RecordKindFinding, runID, "", func(record map[string]any) (bool, error) {
		if file != "" && toString(record["file"]) != file {
			return true, nil
		}
		var f FindingRecord
		if err := decodeRecord(record, &f); err != nil {
			return false, err
		}
		out = append(out, f)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoRecordsFound
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

// QueryLatestBatch finds the most recent batch record, optionally for one run.
func QueryLatestBatch(ctx context.Context, ds lode.Dataset, runID string) (*BatchRecord, error) {
	var found *BatchRecord
	err := scanRecords(ctx, ds, RecordKindBatch, runID, "", func(record map[string]any) (bool, error) {
		var b BatchRecord
		if err := decodeRecord(record, &b); err != nil {
			return false, err
		}
		found = &b
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNoRecordsFound
	}
	return found, nil
}

// scanRecords visits records of kind, newest snapshot first, until visit
// returns false. Manifest paths are a coarse pre-filter; record fields are
// authoritative.
func scanRecords(ctx context.Context, ds lode.Dataset, kind, runID, format string, visit func(map[string]any) (bool, error)) error {
	snapshots, err := ds.Snapshots(ctx)
	if err != nil {
		return WrapReadError(err, fmt.Sprintf("%s/snapshots", ds.ID()))
	}

	// Iterate in reverse (latest first), snapshots are ordered by creation time
	for i := len(snapshots) - 1; i >= 0; i-- {
		snap := snapshots[i]

		if !snapshotMatchesFilter(snap, "record_kind", kind) ||
			!snapshotMatchesFilter(snap, "run_id", runID) ||
			!snapshotMatchesFilter(snap, "format", format) {
			continue
		}

		data, err := ds.Read(ctx, snap.ID)
		if err != nil {
			return WrapReadError(err, fmt.Sprintf("%s/snapshot/%s", ds.ID(), snap.ID))
		}

		for _, item := range data {
			record, ok := item.(map[string]any)
			if !ok || record["record_kind"] != kind {
				continue
			}
			if runID != "" && toString(record["run_id"]) != runID {
				continue
			}
			if format != "" && toString(record["format"]) != format {
				continue
			}
			more, err := visit(record)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
	}
	return nil
}

// decodeRecord converts a raw record map into a typed record.
func decodeRecord(record map[string]any, out any) error {
	data, err := recordJSON.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := recordJSON.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %v record: %w", record["record_kind"], err)
	}
	return nil
}

// snapshotMatchesFilter checks if a snapshot's file paths match
// the given partition key=value filter.
func snapshotMatchesFilter(snap *lode.DatasetSnapshot, key, value string) bool {
	if value == "" {
		return true
	}
	for _, f := range snap.Manifest.Files {
		if matchesPartitionValue(f.Path, key, value) {
			return true
		}
	}
	return false
}

// matchesPartitionValue checks if a Hive-partitioned path contains an exact
// key=value segment. Segments are delimited by "/" in paths. This avoids
// substring false positives (e.g., run_id=run-1 matching run_id=run-10).
func matchesPartitionValue(path, key, value string) bool {
	segment := key + "=" + value
	for part := range strings.SplitSeq(path, "/") {
		if part == segment {
			return true
		}
	}
	return false
}

// toString converts a value to string, returning empty string for nil/non-string.
func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
