// Package validator validates harmonized scoring files.
//
// A Session runs the stages in order (extension, filename, metadata and
// filename cross-check, header, rows) against one file, writes a log whose
// last line is the verdict, and returns the same verdict as a Result.
package validator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pithecene-io/hmvalidate/iox"
	"github.com/pithecene-io/hmvalidate/log"
	"github.com/pithecene-io/hmvalidate/schema"
	"github.com/pithecene-io/hmvalidate/types"
)

// Options configures a Session.
type Options struct {
	// Spec selects the format (required).
	Spec schema.FormatSpec
	// FilePath is the harmonized file to validate.
	FilePath string
	// LogPath is where the log artifact is written.
	LogPath string
	// Logger, when set, receives the log instead of a file at LogPath.
	// The caller owns it and closes it.
	Logger *log.Logger
	// LogOptions are passed to the file logger.
	LogOptions []log.Option
	// ScoreDir is the optional directory of native scoring files.
	ScoreDir string
	// ErrorLimit stops the row scan once this many content errors were
	// found. Zero means unlimited.
	ErrorLimit int
}

// Session validates one file. It is not safe for concurrent use and is
// not reusable.
type Session struct {
	opts   Options
	spec   schema.FormatSpec
	logger *log.Logger
	sugar  *log.SugaredLogger
	result *Result

	contentLogged int
}

// New creates a session.
func New(opts Options) (*Session, error) {
	if opts.Spec.Format == "" {
		return nil, errors.New("validator: format spec is required")
	}
	if opts.ErrorLimit < 0 {
		return nil, fmt.Errorf("validator: error limit must be >= 0, got %d", opts.ErrorLimit)
	}
	return &Session{
		opts: opts,
		spec: opts.Spec,
		result: &Result{
			File:    opts.FilePath,
			LogPath: opts.LogPath,
			Format:  opts.Spec.Format,
			Verdict: types.VerdictUnset,
		},
	}, nil
}

// Validate runs a new session with opts.
func Validate(opts Options) (*Result, error) {
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

// Run executes all stages and returns the result. The log is flushed and
// closed before Run returns.
func (s *Session) Run() *Result {
	start := time.Now()
	defer func() { s.result.Duration = time.Since(start) }()

	logger, closeLog, err := s.openLog()
	if err != nil {
		s.result.Verdict = types.VerdictErrored
		s.result.Err = err
		return s.result
	}
	defer func() {
		if err := closeLog(); err != nil && s.result.Err == nil {
			s.result.Err = err
		}
	}()
	s.logger = logger
	s.sugar = logger.Sugar()

	s.result.Verdict = s.run()
	return s.result
}

func (s *Session) openLog() (*log.Logger, func() error, error) {
	if s.opts.Logger != nil {
		return s.opts.Logger, func() error {
			_ = s.opts.Logger.Sync()
			return nil
		}, nil
	}
	if s.opts.LogPath == "" {
		return nil, nil, ErrNoLogPath
	}
	l, err := log.NewFileLogger(s.opts.LogPath, s.opts.LogOptions...)
	if err != nil {
		return nil, nil, err
	}
	return l, l.Close, nil
}

func (s *Session) run() types.Verdict {
	path := s.opts.FilePath
	if path == "" {
		return s.abort(types.StageSetup, ErrNoFile, "Missing file and/or logfile")
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return s.abort(types.StageSetup, ErrFileNotFound, fmt.Sprintf("Error: the file '%s' can't be found", path))
	}

	s.info("Validating file extension...")
	if !HasValidExtension(path, s.spec.Extensions) {
		return s.abort(types.StageExtension, ErrBadExtension,
			fmt.Sprintf("Invalid file extension: %s (accepted: %s)", filepath.Base(path), strings.Join(s.spec.Extensions, ", ")))
	}

	s.info("Validating filename...")
	fn, problem, ok := ParseFileName(path)
	s.result.FileName = fn
	if !ok {
		s.fail(types.StageFilename, problem)
		return s.stop(fmt.Sprintf("Invalid filename: %s", filepath.Base(path)))
	}
	s.info("Filename looks good!")

	in, err := openInput(path)
	if err != nil {
		return s.abort(types.StageSetup, ErrUnreadable, fmt.Sprintf("Unable to read the file '%s': %v", path, err))
	}
	defer iox.DiscardClose(in)

	s.info("Validating metadata...")
	extractor := newMetadataExtractor(s.spec)
	headerLine, found := readMetadata(in, extractor)
	s.result.Metadata = extractor.md
	if err := in.err(); err != nil {
		return s.abort(types.StageMetadata, ErrUnreadable, fmt.Sprintf("Unable to read the file '%s': %v", path, err))
	}
	if !found {
		return s.abort(types.StageHeader, ErrNoHeader, "No header line found after the metadata lines")
	}

	metaProblems := extractor.problems()
	for _, p := range metaProblems {
		s.fail(types.StageMetadata, p)
	}
	if len(metaProblems) > 0 {
		return s.stop("Invalid metadata")
	}

	s.info("Comparing filename with metadata...")
	mismatches := compareWithFilename(s.spec, extractor.md, fn)
	for _, m := range mismatches {
		s.fail(types.StageMetadata, m)
	}
	if len(mismatches) > 0 {
		return s.stop(fmt.Sprintf("Discrepancies between filename information and metadata: %s", filepath.Base(path)))
	}

	s.checkCompanion(firstNonEmpty(extractor.md.PgsID, fn.PgsID))

	s.info("Validating headers...")
	header, validators, headerProblems := resolveHeader(s.spec, headerLine)
	for _, p := range headerProblems {
		s.fail(types.StageHeader, p)
	}
	if len(headerProblems) > 0 {
		return s.stop("Invalid headers")
	}

	s.info("Validating data...")
	if err := s.validateRows(in, header, validators); err != nil {
		return s.abort(types.StageRows, ErrUnreadable, fmt.Sprintf("Unable to read the file '%s': %v", path, err))
	}

	return s.finish()
}

// readMetadata feeds leading "#" lines to the extractor and returns the
// header line. Blank lines before the header are skipped.
func readMetadata(in *input, extractor *metadataExtractor) (string, bool) {
	for {
		line, ok := in.next()
		if !ok {
			return "", false
		}
		switch {
		case strings.HasPrefix(line, "#"):
			extractor.consume(line)
		case strings.TrimSpace(line) == "":
			continue
		default:
			return line, true
		}
	}
}

func (s *Session) checkCompanion(pgsID string) {
	dir := s.opts.ScoreDir
	if dir == "" || pgsID == "" {
		return
	}
	s.info("Looking for the native scoring file...")
	if path, ok := findCompanion(dir, pgsID); ok {
		s.sugar.Infof("Native scoring file found: %s", path)
		return
	}
	s.warn(types.StageCompanion, fmt.Sprintf("Native scoring file for %s can't be found in %s", pgsID, dir))
}

// finish writes the verdict sentinel.
func (s *Session) finish() types.Verdict {
	if s.result.ErrorCount == 0 {
		s.info(ValidSentinel)
		return types.VerdictValid
	}
	s.sugar.Infof("Number of errors: %d", s.result.ErrorCount)
	s.info(InvalidSentinel)
	return types.VerdictInvalid
}

// stop ends validation after a structural failure. The file is invalid.
func (s *Session) stop(reason string) types.Verdict {
	s.info(reason + "...exiting before any further checks")
	return s.finish()
}

// abort ends validation when no content judgment is possible. The log
// ends with ExitNotice.
func (s *Session) abort(stage types.Stage, cause error, message string) types.Verdict {
	s.fail(stage, message)
	s.info(ExitNotice)
	s.result.Err = fmt.Errorf("%w: %s", cause, message)
	return types.VerdictErrored
}

func (s *Session) info(message string) {
	s.logger.Info(message, nil)
}

func (s *Session) warn(stage types.Stage, message string) {
	s.record(types.Finding{Severity: types.SeverityWarn, Stage: stage, Message: message})
}

func (s *Session) fail(stage types.Stage, message string) {
	s.result.ErrorCount++
	s.record(types.Finding{Severity: types.SeverityError, Stage: stage, Message: message})
}

func (s *Session) record(f types.Finding) {
	switch f.Severity {
	case types.SeverityError:
		s.logger.Error(f.Message, nil)
	case types.SeverityWarn:
		s.logger.Warn(f.Message, nil)
	default:
		s.logger.Info(f.Message, nil)
	}
	s.result.Findings = append(s.result.Findings, f)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
