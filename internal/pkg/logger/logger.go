package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log sinks.
type Options struct {
	// Verbose mirrors records to stderr.
	Verbose bool
	Level   string
	// File enables the rotating JSON log when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Stderr overrides os.Stderr for the verbose sink.
	Stderr io.Writer
}

// SlogLogger fans records out to stderr and a rotating file.
type SlogLogger struct {
	log   *slog.Logger
	level *slog.LevelVar
	file  *lumberjack.Logger
}

// New creates a SlogLogger.
func New(opts Options) *SlogLogger {
	l := &SlogLogger{level: &slog.LevelVar{}}
	l.SetLogLevel(opts.Level)
	if opts.Verbose && opts.Level == "" {
		l.level.Set(slog.LevelDebug)
	}

	handlerOpts := &slog.HandlerOptions{Level: l.level}

	var handlers []slog.Handler
	if opts.Verbose {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		handlers = append(handlers, slog.NewTextHandler(stderr, handlerOpts))
	}
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(l.file, handlerOpts))
	}
	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(io.Discard, handlerOpts))
	}

	l.log = slog.New(slogmulti.Fanout(handlers...))
	return l
}

// NewStd creates a stderr-only logger that is silent unless verbose.
func NewStd(verbose bool) *SlogLogger {
	return New(Options{Verbose: verbose})
}

// SetLogLevel accepts debug, info, warn or error; anything else means info.
func (l *SlogLogger) SetLogLevel(levelStr string) {
	switch strings.ToLower(levelStr) {
	case "debug":
		l.level.Set(slog.LevelDebug)
	case "warn":
		l.level.Set(slog.LevelWarn)
	case "error":
		l.level.Set(slog.LevelError)
	default:
		l.level.Set(slog.LevelInfo)
	}
}

// Close releases the log file, if any.
func (l *SlogLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *SlogLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug(msg, attrs(fields)...)
}

func (l *SlogLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info(msg, attrs(fields)...)
}

func (l *SlogLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn(msg, attrs(fields)...)
}

func (l *SlogLogger) Error(msg string, err error, fields map[string]interface{}) {
	args := attrs(fields)
	if err != nil {
		args = append([]any{slog.String("error", err.Error())}, args...)
	}
	l.log.Log(context.Background(), slog.LevelError, msg, args...)
}

func attrs(fields map[string]interface{}) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}
