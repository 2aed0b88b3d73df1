// Package log provides the zap-backed loggers used by hmvalidate.
//
// Two logger variants are available:
//   - Logger: non-sugared zap.Logger for the validation log artifact and
//     structured CLI diagnostics
//   - SugaredLogger: printf-style logging for CLI/debug surfaces
//
// Use Logger.Sugar() to obtain a SugaredLogger when needed.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger and, for file-backed loggers, the file it
// writes to.
type Logger struct {
	zap    *zap.Logger
	closer io.Closer
}

// SugaredLogger provides printf-style logging for CLI and debug surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// Option configures a Logger.
type Option func(*options)

type options struct {
	json     bool
	withTime bool
	level    zapcore.Level
	fields   []zap.Field
}

// WithoutTime omits the timestamp column. Used for deterministic output.
func WithoutTime() Option {
	return func(o *options) { o.withTime = false }
}

// WithJSON switches from the tab-separated console encoding to JSON lines.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithLevel sets the minimum enabled level (default debug).
func WithLevel(level zapcore.Level) Option {
	return func(o *options) { o.level = level }
}

// WithFields attaches context fields to every entry.
func WithFields(fields map[string]any) Option {
	return func(o *options) {
		for k, v := range fields {
			o.fields = append(o.fields, zap.Any(k, v))
		}
	}
}

// NewLogger creates a logger writing to w.
// The default encoding is one "timestamp<TAB>LEVEL<TAB>message" line per
// entry, the layout of the validation log artifact.
func NewLogger(w io.Writer, opts ...Option) *Logger {
	o := options{withTime: true, level: zapcore.DebugLevel}
	for _, opt := range opts {
		opt(&o)
	}

	core := zapcore.NewCore(newEncoder(o), zapcore.AddSync(w), o.level)
	return &Logger{zap: zap.New(core).With(o.fields...)}
}

// NewStderrLogger creates a logger writing to os.Stderr.
func NewStderrLogger(opts ...Option) *Logger {
	return NewLogger(os.Stderr, opts...)
}

// NewFileLogger creates (or truncates) the file at path and returns a
// logger writing to it. Close flushes and closes the file.
func NewFileLogger(path string, opts ...Option) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", path, err)
	}
	l := NewLogger(f, opts...)
	l.closer = f
	return l, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func newEncoder(o options) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "message",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		ConsoleSeparator: "\t",
		LineEnding:       zapcore.DefaultLineEnding,
	}
	if o.withTime {
		cfg.TimeKey = "timestamp"
	}
	if o.json {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, toFields(fields)...)
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, toFields(fields)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, toFields(fields)...)
}

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, toFields(fields)...)
}

func toFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	return []zap.Field{zap.Any("fields", fields)}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Close flushes the logger and closes the underlying file, if any.
// Loggers over caller-owned writers only flush; sync errors on terminals
// and pipes are ignored.
func (l *Logger) Close() error {
	if l.closer == nil {
		_ = l.zap.Sync()
		return nil
	}
	syncErr := l.zap.Sync()
	if err := l.closer.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return syncErr
}

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{sugar: l.zap.Sugar()}
}

// Debugf logs a debug message with printf-style formatting.
func (s *SugaredLogger) Debugf(template string, args ...any) {
	s.sugar.Debugf(template, args...)
}

// Infof logs an info message with printf-style formatting.
func (s *SugaredLogger) Infof(template string, args ...any) {
	s.sugar.Infof(template, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (s *SugaredLogger) Warnf(template string, args ...any) {
	s.sugar.Warnf(template, args...)
}

// Errorf logs an error message with printf-style formatting.
func (s *SugaredLogger) Errorf(template string, args ...any) {
	s.sugar.Errorf(template, args...)
}

// With returns a SugaredLogger with additional context fields.
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{sugar: s.sugar.With(args...)}
}
