package lode

import (
	"path/filepath"
	"time"

	"github.com/pithecene-io/hmvalidate/metrics"
	"github.com/pithecene-io/hmvalidate/types"
	"github.com/pithecene-io/hmvalidate/validator"
)

// RecordKind discriminator values. record_kind is also the innermost
// partition key.
const (
	RecordKindVerdict = "verdict"
	RecordKindFinding = "finding"
	RecordKindBatch   = "batch"
)

// VerdictRecord is the storage format for one validated file.
type VerdictRecord struct {
	// Record discriminator
	RecordKind string `json:"record_kind"`

	RunID          string `json:"run_id"`
	File           string `json:"file"`
	Base           string `json:"base"`
	PgsID          string `json:"pgs_id,omitempty"`
	HmBuild        string `json:"hm_build,omitempty"`
	Verdict        string `json:"verdict"`
	Classification string `json:"classification"`
	ErrorCount     int    `json:"error_count"`
	ContentErrors  int    `json:"content_errors"`
	RowsScanned    int    `json:"rows_scanned"`
	Truncated      bool   `json:"truncated"`
	DurationMs     int64  `json:"duration_ms"`
	LogFile        string `json:"log_file,omitempty"`
	Error          string `json:"error,omitempty"`
	ValidatedAt    string `json:"validated_at"`
	ToolVersion    string `json:"tool_version"`

	// Partition keys (used by Lode HiveLayout)
	Format string `json:"format"`
	Day    string `json:"day"`
}

// FindingRecord is the storage format for one logged warning or error.
type FindingRecord struct {
	// Record discriminator
	RecordKind string `json:"record_kind"`

	RunID    string `json:"run_id"`
	File     string `json:"file"`
	Seq      int    `json:"seq"`
	Severity string `json:"severity"`
	Stage    string `json:"stage"`
	Row      int    `json:"row,omitempty"`
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`

	// Partition keys
	Format string `json:"format"`
	Day    string `json:"day"`
}

// BatchRecord is the storage format for the end of a batch run.
type BatchRecord struct {
	// Record discriminator
	RecordKind string `json:"record_kind"`

	RunID        string           `json:"run_id"`
	Total        int              `json:"total"`
	Valid        int              `json:"valid"`
	Invalid      int              `json:"invalid"`
	Other        int              `json:"other"`
	InvalidFiles []string         `json:"invalid_files,omitempty"`
	StartedAt    string           `json:"started_at"`
	CompletedAt  string           `json:"completed_at"`
	Metrics      metrics.Snapshot `json:"metrics"`

	// Partition keys
	Format string `json:"format"`
	Day    string `json:"day"`
}

// NewVerdictRecord builds the verdict record of res.
func NewVerdictRecord(res *validator.Result, class types.Classification, cfg Config, validatedAt time.Time) VerdictRecord {
	rec := VerdictRecord{
		RecordKind:     RecordKindVerdict,
		RunID:          cfg.RunID,
		File:           res.File,
		Base:           validator.BaseName(res.File),
		Verdict:        string(res.Verdict),
		Classification: string(class),
		ErrorCount:     res.ErrorCount,
		ContentErrors:  res.ContentErrors,
		RowsScanned:    res.RowsScanned,
		Truncated:      res.Truncated,
		DurationMs:     res.Duration.Milliseconds(),
		LogFile:        logFileName(res.LogPath),
		ValidatedAt:    validatedAt.UTC().Format(time.RFC3339),
		ToolVersion:    types.Version,
		Format:         cfg.Format,
		Day:            cfg.Day,
	}
	if res.Metadata != nil {
		rec.PgsID = res.Metadata.PgsID
		rec.HmBuild = res.Metadata.HmBuild
	}
	if rec.PgsID == "" {
		rec.PgsID = res.FileName.PgsID
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	return rec
}

// NewFindingRecords builds one record per finding of res, numbered from 1.
func NewFindingRecords(res *validator.Result, cfg Config) []FindingRecord {
	if len(res.Findings) == 0 {
		return nil
	}
	out := make([]FindingRecord, len(res.Findings))
	for i, f := range res.Findings {
		out[i] = FindingRecord{
			RecordKind: RecordKindFinding,
			RunID:      cfg.RunID,
			File:       res.File,
			Seq:        i + 1,
			Severity:   string(f.Severity),
			Stage:      string(f.Stage),
			Row:        f.Row,
			Column:     f.Column,
			Message:    f.Message,
			Format:     cfg.Format,
			Day:        cfg.Day,
		}
	}
	return out
}

// toVerdictRecordMap converts a VerdictRecord to a map for Lode storage.
// Lode HiveLayout requires records as map[string]any.
func toVerdictRecordMap(r VerdictRecord) map[string]any {
	m := map[string]any{
		"record_kind":    RecordKindVerdict,
		"run_id":         r.RunID,
		"file":           r.File,
		"base":           r.Base,
		"verdict":        r.Verdict,
		"classification": r.Classification,
		"error_count":    r.ErrorCount,
		"content_errors": r.ContentErrors,
		"rows_scanned":   r.RowsScanned,
		"truncated":      r.Truncated,
		"duration_ms":    r.DurationMs,
		"validated_at":   r.ValidatedAt,
		"tool_version":   r.ToolVersion,
		"format":         r.Format,
		"day":            r.Day,
	}
	setIfNotEmpty(m, "pgs_id", r.PgsID)
	setIfNotEmpty(m, "hm_build", r.HmBuild)
	setIfNotEmpty(m, "log_file", r.LogFile)
	setIfNotEmpty(m, "error", r.Error)
	return m
}

// toFindingRecordMap converts a FindingRecord to a map for Lode storage.
func toFindingRecordMap(r FindingRecord) map[string]any {
	m := map[string]any{
		"record_kind": RecordKindFinding,
		"run_id":      r.RunID,
		"file":        r.File,
		"seq":         r.Seq,
		"severity":    r.Severity,
		"stage":       r.Stage,
		"message":     r.Message,
		"format":      r.Format,
		"day":         r.Day,
	}
	if r.Row > 0 {
		m["row"] = r.Row
	}
	setIfNotEmpty(m, "column", r.Column)
	return m
}

// toBatchRecordMap converts a BatchRecord to a map for Lode storage.
func toBatchRecordMap(r BatchRecord) map[string]any {
	m := map[string]any{
		"record_kind":  RecordKindBatch,
		"run_id":       r.RunID,
		"total":        r.Total,
		"valid":        r.Valid,
		"invalid":      r.Invalid,
		"other":        r.Other,
		"started_at":   r.StartedAt,
		"completed_at": r.CompletedAt,
		"metrics":      r.Metrics,
		"format":       r.Format,
		"day":          r.Day,
	}
	if len(r.InvalidFiles) > 0 {
		m["invalid_files"] = r.InvalidFiles
	}
	return m
}

func setIfNotEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// logFileName returns the sidecar name of a log path.
func logFileName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
