// Package batch drives validation sessions over a set of files.
//
// The driver validates each file in turn, classifies it from the last line
// of its log, prints the progress lines, and returns the tally as a
// Summary. Storage of verdicts, log upload and completion notification are
// optional and best effort: their failures are logged, never fatal.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pithecene-io/hmvalidate/adapter"
	"github.com/pithecene-io/hmvalidate/lode"
	"github.com/pithecene-io/hmvalidate/log"
	"github.com/pithecene-io/hmvalidate/metrics"
	"github.com/pithecene-io/hmvalidate/schema"
	"github.com/pithecene-io/hmvalidate/types"
	"github.com/pithecene-io/hmvalidate/validator"
)

// Config configures a batch.
type Config struct {
	// Format selects the schema every file is validated against.
	Format types.Format
	// Files are the scoring files, in processing order.
	Files []string
	// LogDir receives one log per file.
	LogDir string
	// ScoreDir is the optional directory of native scoring files.
	ScoreDir string
	// ErrorLimit is the per-file content error ceiling (0 = unlimited).
	ErrorLimit int
	// LogOptions are passed to every per-file logger.
	LogOptions []log.Option
	// RunID identifies the batch. Generated when empty.
	RunID string
	// ShowFilenames prints a "Filename:" line before each file.
	ShowFilenames bool
	// Progress receives the per-file progress lines. Nil discards them.
	Progress io.Writer
	// Logger receives operational diagnostics. Nil discards them.
	Logger *log.Logger
	// Collector records batch metrics. Nil records nothing.
	Collector *metrics.Collector
	// Sink persists verdicts and the batch record. Optional.
	Sink lode.ResultSink
	// FileWriter uploads each log as a sidecar file. Optional.
	FileWriter lode.FileWriter
	// Notifier publishes the batch completion event. Optional.
	Notifier adapter.Adapter
	// StoragePath is reported in the completion event.
	StoragePath string
	// Now overrides the clock (for testing).
	Now func() time.Time
}

// Driver runs a batch. It is single use.
type Driver struct {
	config Config
	spec   schema.FormatSpec
	logger *log.Logger
	out    io.Writer
	now    func() time.Time
}

// NewDriver validates cfg and creates a driver.
func NewDriver(cfg Config) (*Driver, error) {
	spec, err := schema.ForFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.LogDir == "" {
		return nil, errors.New("log directory is required")
	}
	if cfg.ErrorLimit < 0 {
		return nil, fmt.Errorf("error limit must be >= 0, got %d", cfg.ErrorLimit)
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	d := &Driver{
		config: cfg,
		spec:   spec,
		logger: cfg.Logger,
		out:    cfg.Progress,
		now:    cfg.Now,
	}
	if d.logger == nil {
		d.logger = log.NewNop()
	}
	if d.out == nil {
		d.out = io.Discard
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d, nil
}

// RunID returns the batch run ID.
func (d *Driver) RunID() string {
	return d.config.RunID
}

// Run validates every file and returns the tally. Cancellation is honored
// between files; the partial summary is returned with the context error.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	sum := newSummary(d.config.RunID, d.config.Format, d.now())
	d.logger.Info("starting batch", map[string]any{
		"run_id": d.config.RunID,
		"format": d.config.Format.String(),
		"files":  len(d.config.Files),
	})

	for _, path := range d.config.Files {
		if err := ctx.Err(); err != nil {
			sum.CompletedAt = d.now()
			d.logger.Warn("batch canceled", map[string]any{
				"run_id":    d.config.RunID,
				"processed": sum.Total,
			})
			return sum, err
		}
		sum.add(d.validateFile(ctx, path))
	}
	sum.CompletedAt = d.now()

	d.logger.Info("batch completed", map[string]any{
		"run_id":  d.config.RunID,
		"valid":   sum.Valid,
		"invalid": sum.Invalid,
		"other":   sum.Other,
	})
	return sum, nil
}

func (d *Driver) validateFile(ctx context.Context, path string) FileOutcome {
	name := filepath.Base(path)
	logPath := LogPath(d.config.LogDir, path)
	if d.config.ShowFilenames {
		d.printf("Filename: %s\n", name)
	}
	d.config.Collector.IncFileStarted()

	res, err := validator.Validate(validator.Options{
		Spec:       d.spec,
		FilePath:   path,
		LogPath:    logPath,
		LogOptions: d.config.LogOptions,
		ScoreDir:   d.config.ScoreDir,
		ErrorLimit: d.config.ErrorLimit,
	})
	if err != nil {
		res = &validator.Result{
			File:    path,
			LogPath: logPath,
			Format:  d.config.Format,
			Verdict: types.VerdictErrored,
			Err:     err,
		}
	}

	// The log is the contract: classify from its last line, not from res.
	class, logFound := classifyLog(logPath)
	if logFound && class != res.Classification() {
		d.logger.Warn("log classification differs from session verdict", map[string]any{
			"file":           name,
			"classification": string(class),
			"verdict":        string(res.Verdict),
		})
	}
	d.observe(res, class)
	d.printf("%s\n", ProgressLine(class, logFound))
	if logFound {
		d.printf("\n")
	}

	d.persist(ctx, res, class, logPath, logFound)
	return newFileOutcome(path, res, class, logFound)
}

func (d *Driver) observe(res *validator.Result, class types.Classification) {
	c := d.config.Collector
	c.ObserveRows(int64(res.RowsScanned), int64(res.ContentErrors), res.Truncated)
	byStage := map[types.Stage]int64{}
	var order []types.Stage
	for _, f := range res.Findings {
		if !f.IsError() {
			continue
		}
		if _, seen := byStage[f.Stage]; !seen {
			order = append(order, f.Stage)
		}
		byStage[f.Stage]++
	}
	for _, stage := range order {
		c.AddStageErrors(string(stage), byStage[stage])
	}
	switch class {
	case types.ClassValid:
		c.IncFileValid()
	case types.ClassInvalid:
		c.IncFileInvalid()
	default:
		c.IncFileOther()
	}
}

func (d *Driver) persist(ctx context.Context, res *validator.Result, class types.Classification, logPath string, logFound bool) {
	if d.config.Sink != nil {
		if err := d.config.Sink.WriteResult(ctx, res, class); err != nil {
			d.logger.Warn("failed to store verdict", map[string]any{
				"file":  res.File,
				"error": err.Error(),
			})
		}
	}
	if d.config.FileWriter == nil || !logFound {
		return
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		d.logger.Warn("failed to read log for upload", map[string]any{
			"log":   logPath,
			"error": err.Error(),
		})
		return
	}
	if err := d.config.FileWriter.PutFile(ctx, filepath.Base(logPath), "text/plain", data); err != nil {
		d.config.Collector.IncLodeWriteFailure()
		d.logger.Warn("failed to upload log", map[string]any{
			"log":   logPath,
			"error": err.Error(),
		})
		return
	}
	d.config.Collector.IncLodeWriteSuccess()
}

// Finish stores the batch record and publishes the completion event.
// Both steps are best effort; the first error is returned after both ran.
func (d *Driver) Finish(ctx context.Context, sum *Summary) error {
	var errs []error
	if d.config.Sink != nil {
		rec := lode.BatchRecord{
			Total:        sum.Total,
			Valid:        sum.Valid,
			Invalid:      sum.Invalid,
			Other:        sum.Other,
			InvalidFiles: sum.InvalidFiles,
			StartedAt:    sum.StartedAt.UTC().Format(time.RFC3339),
			CompletedAt:  sum.CompletedAt.UTC().Format(time.RFC3339),
			Metrics:      d.config.Collector.Snapshot(),
		}
		if err := d.config.Sink.WriteBatch(ctx, rec); err != nil {
			d.logger.Warn("failed to store batch record", map[string]any{
				"run_id": sum.RunID,
				"error":  err.Error(),
			})
			errs = append(errs, fmt.Errorf("store batch record: %w", err))
		}
	}
	if d.config.Notifier != nil {
		event := NewBatchCompletedEvent(sum, d.config.LogDir, d.config.StoragePath, ExitCode(sum))
		if err := d.config.Notifier.Publish(ctx, event); err != nil {
			d.config.Collector.IncPublishFailure()
			d.logger.Warn("failed to publish batch completion", map[string]any{
				"run_id": sum.RunID,
				"error":  err.Error(),
			})
			errs = append(errs, fmt.Errorf("publish batch completion: %w", err))
		} else {
			d.config.Collector.IncPublishSuccess()
		}
	}
	return errors.Join(errs...)
}

// NewBatchCompletedEvent builds the notification payload for sum.
func NewBatchCompletedEvent(sum *Summary, logDir, storagePath string, exitCode int) *adapter.BatchCompletedEvent {
	return &adapter.BatchCompletedEvent{
		ContractVersion: adapter.ContractVersion,
		EventType:       adapter.EventTypeBatchCompleted,
		RunID:           sum.RunID,
		Format:          sum.Format.String(),
		Day:             lode.DeriveDay(sum.StartedAt),
		Total:           sum.Total,
		Valid:           sum.Valid,
		Invalid:         sum.Invalid,
		Other:           sum.Other,
		InvalidFiles:    sum.InvalidFiles,
		LogDir:          logDir,
		StoragePath:     storagePath,
		ExitCode:        exitCode,
		Timestamp:       sum.CompletedAt.UTC().Format(time.RFC3339),
		DurationMs:      sum.Duration().Milliseconds(),
	}
}

func (d *Driver) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.out, format, args...)
}

// classifyLog applies the last-line contract and reports whether a log
// exists at all.
func classifyLog(path string) (types.Classification, bool) {
	if _, err := os.Stat(path); err != nil {
		return types.ClassOther, false
	}
	return validator.ClassifyLog(path), true
}
