package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/pithecene-io/hmvalidate/batch"
	"github.com/pithecene-io/hmvalidate/cli/config"
	"github.com/pithecene-io/hmvalidate/iox"
	"github.com/pithecene-io/hmvalidate/lode"
	"github.com/pithecene-io/hmvalidate/log"
	"github.com/pithecene-io/hmvalidate/metrics"
	"github.com/pithecene-io/hmvalidate/types"
)

// finishTimeout bounds the batch record write and the completion
// notification once the files are done.
const finishTimeout = 30 * time.Second

// ValidateCommand returns the validate command.
// This is the only command that writes anything.
func ValidateCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Harmonization type: hm_pos or hm_final",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "A single harmonized scoring file",
		},
		&cli.StringFlag{
			Name:  "hm-dir",
			Usage: "Directory of harmonized scoring files",
		},
		&cli.StringFlag{
			Name:  "score-dir",
			Usage: "Directory of native scoring files to compare with",
		},
		&cli.StringFlag{
			Name:  "log-dir",
			Usage: "Directory receiving one log per file (required)",
		},
		&cli.IntFlag{
			Name:  "error-limit",
			Usage: "Stop a file after this many content errors (0 = unlimited)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML config file providing defaults for these flags",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "dotenv file loaded before the config is expanded",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a JSON batch report to this path (- for stderr)",
		},
		&cli.StringFlag{
			Name:  "export-xlsx",
			Usage: "Write the batch report as an Excel workbook",
		},
		&cli.StringFlag{
			Name:  "export-parquet",
			Usage: "Write the per-file results as a Parquet file",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress progress and summary output",
		},
	}
	flags = append(flags, StorageFlags()...)
	flags = append(flags, AdapterFlags()...)

	return &cli.Command{
		Name:   "validate",
		Usage:  "Validate harmonized scoring files",
		Flags:  flags,
		Action: validateAction,
	}
}

// validateOptions holds the merged flag and config values.
type validateOptions struct {
	typ           string
	file          string
	hmDir         string
	scoreDir      string
	logDir        string
	errorLimit    int
	report        string
	exportXLSX    string
	exportParquet string
	quiet         bool
	storage       storageChoice
	adapter       adapterChoice
}

// dirMode reports whether a directory of files is validated. It prints
// file names and the closing summary.
func (o validateOptions) dirMode() bool {
	return o.hmDir != ""
}

func resolveValidateOptions(c *cli.Context) (validateOptions, error) {
	if path := c.String("env-file"); path != "" {
		if err := config.LoadEnvFile(path); err != nil {
			return validateOptions{}, err
		}
	}
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return validateOptions{}, err
		}
		cfg = loaded
	}

	adapterOpts, err := adapterChoiceFrom(c, cfg.Adapter)
	if err != nil {
		return validateOptions{}, err
	}
	opts := validateOptions{
		typ:           pick(c, "type", cfg.Type),
		file:          c.String("file"),
		hmDir:         c.String("hm-dir"),
		scoreDir:      pick(c, "score-dir", cfg.ScoreDir),
		logDir:        pick(c, "log-dir", cfg.LogDir),
		errorLimit:    c.Int("error-limit"),
		report:        pick(c, "report", cfg.Report),
		exportXLSX:    c.String("export-xlsx"),
		exportParquet: c.String("export-parquet"),
		quiet:         c.Bool("quiet"),
		storage:       storageChoiceFrom(c, cfg.Storage),
		adapter:       adapterOpts,
	}
	if !c.IsSet("error-limit") && cfg.ErrorLimit != nil {
		opts.errorLimit = *cfg.ErrorLimit
	}
	return opts, nil
}

// check applies the operational checks, in order, and returns the format
// and the files to validate.
func (o validateOptions) check() (types.Format, []string, error) {
	if o.typ == "" {
		return "", nil, fmt.Errorf("harmonization type (option -t) is required, one of %v", types.Formats())
	}
	format, err := types.ParseFormat(o.typ)
	if err != nil {
		return "", nil, err
	}
	if o.logDir == "" {
		return "", nil, errors.New("logs directory (option --log-dir) is required")
	}
	if err := batch.RequireDir(o.logDir, "logs directory"); err != nil {
		return "", nil, err
	}
	if o.scoreDir != "" {
		if err := batch.RequireDir(o.scoreDir, "scoring file directory"); err != nil {
			return "", nil, err
		}
	}
	if o.errorLimit < 0 {
		return "", nil, fmt.Errorf("error limit must be >= 0, got %d", o.errorLimit)
	}
	if err := o.storage.validate(); err != nil {
		return "", nil, err
	}
	files, err := batch.ResolveInputs(o.file, o.hmDir)
	if err != nil {
		return "", nil, err
	}
	return format, files, nil
}

func operationalError(err error) error {
	return cli.Exit(fmt.Sprintf("Error: %v", err), batch.ExitCodeOperational)
}

func validateAction(c *cli.Context) error {
	opts, err := resolveValidateOptions(c)
	if err != nil {
		return operationalError(err)
	}
	format, files, err := opts.check()
	if err != nil {
		return operationalError(err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := zapcore.InfoLevel
	if opts.quiet {
		level = zapcore.WarnLevel
	}
	logger := log.NewLogger(c.App.ErrWriter, log.WithLevel(level))
	defer iox.DiscardErr(logger.Sync)

	runID := uuid.NewString()
	startedAt := time.Now()
	collector := metrics.NewCollector(format.String(), opts.storage.label(), runID)

	lodeCfg := lode.Config{
		Dataset: opts.storage.dataset,
		Format:  format.String(),
		Day:     lode.DeriveDay(startedAt),
		RunID:   runID,
	}
	sink, uploader, err := openStorage(ctx, opts.storage, lodeCfg, collector)
	if err != nil {
		return operationalError(fmt.Errorf("failed to open verdict storage: %w", err))
	}
	if sink != nil {
		defer iox.DiscardClose(sink)
	}

	notifier, err := buildAdapter(opts.adapter)
	if err != nil {
		return operationalError(fmt.Errorf("failed to create adapter: %w", err))
	}
	if notifier != nil {
		defer iox.DiscardClose(notifier)
	}

	out := c.App.Writer
	if opts.quiet {
		out = io.Discard
	}

	driver, err := batch.NewDriver(batch.Config{
		Format:        format,
		Files:         files,
		LogDir:        opts.logDir,
		ScoreDir:      opts.scoreDir,
		ErrorLimit:    opts.errorLimit,
		RunID:         runID,
		ShowFilenames: opts.dirMode(),
		Progress:      out,
		Logger:        logger,
		Collector:     collector,
		Sink:          sink,
		FileWriter:    uploader,
		Notifier:      notifier,
		StoragePath:   opts.storage.path,
	})
	if err != nil {
		return operationalError(err)
	}

	sum, runErr := driver.Run(ctx)
	if opts.dirMode() {
		if err := sum.WriteText(out); err != nil {
			return operationalError(err)
		}
	}

	exitCode := batch.ExitCode(sum)
	if runErr != nil {
		exitCode = batch.ExitCodeOperational
	}

	// An interrupted batch still records what it did.
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()
	// Finish logs its own failures; they never change the verdicts.
	_ = driver.Finish(finishCtx, sum)

	if err := writeOutputs(opts, sum, collector, exitCode); err != nil {
		return operationalError(err)
	}

	if runErr != nil {
		return operationalError(fmt.Errorf("validation interrupted after %d of %d files: %w", sum.Total, len(files), runErr))
	}
	return cli.Exit("", exitCode)
}

// writeOutputs writes the report and exports requested on the command line.
func writeOutputs(opts validateOptions, sum *batch.Summary, collector *metrics.Collector, exitCode int) error {
	if opts.report == "" && opts.exportXLSX == "" && opts.exportParquet == "" {
		return nil
	}

	report := batch.BuildBatchReport(sum, collector.Snapshot(), exitCode)
	if opts.storage.enabled() {
		report.Storage = &batch.ReportStorage{
			Backend: opts.storage.backend,
			Path:    opts.storage.path,
			Dataset: opts.storage.dataset,
		}
	}

	if opts.report != "" {
		if err := batch.WriteBatchReport(report, opts.report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if opts.exportXLSX != "" {
		if err := batch.ExportXLSX(report, opts.exportXLSX); err != nil {
			return fmt.Errorf("failed to export xlsx: %w", err)
		}
	}
	if opts.exportParquet != "" {
		if err := batch.ExportParquet(report, opts.exportParquet); err != nil {
			return fmt.Errorf("failed to export parquet: %w", err)
		}
	}
	return nil
}
