// Package logger provides configurable logging capabilities
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	activeConfig  *Config

	// debugFilter prints filter decisions to stderr. Toggled with SetDebugFilter.
	debugFilter bool
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init configures the package logger from cfg.
// The returned closer releases the log file, if one was opened.
func Init(cfg Config) (io.Closer, error) {
	cfg.process()

	var out io.Writer
	var closer io.Closer = nopCloser{}
	switch cfg.LogFilePath {
	case "", "-":
		out = os.Stderr
	default:
		if dir := filepath.Dir(cfg.LogFilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log dir '%s': %w", dir, err)
			}
		}
		f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", cfg.LogFilePath, err)
		}
		out, closer = f, f
	}

	InitWithWriter(cfg, out)
	return closer, nil
}

// InitWithWriter configures the logger to write to w. Used directly by tests.
func InitWithWriter(cfg Config, w io.Writer) {
	cfg.process()

	opts := slog.HandlerOptions{
		Level:     cfg.level,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok && source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}

	mu.Lock()
	defer mu.Unlock()
	activeConfig = &cfg
	defaultLogger = slog.New(newFilteringHandler(slog.NewTextHandler(w, &opts), activeConfig))
}

// SetDebugFilter toggles diagnostics of the filtering handler.
func SetDebugFilter(enabled bool) {
	mu.Lock()
	debugFilter = enabled
	mu.Unlock()
}

// logAtLevel creates and logs a record, capturing the caller of the wrapper.
func logAtLevel(level slog.Level, attrs []slog.Attr, format string, args ...any) {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()

	if !l.Enabled(context.Background(), level) {
		return
	}

	// Skip runtime.Callers, logAtLevel and the exported wrapper.
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...any) {
	logAtLevel(slog.LevelDebug, nil, format, args...)
}

// DebugTagf logs a debug message carrying a tag that the filters can match.
func DebugTagf(tag string, format string, args ...any) {
	logAtLevel(slog.LevelDebug, []slog.Attr{slog.String(tagKey, tag)}, format, args...)
}

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...any) {
	logAtLevel(slog.LevelInfo, nil, format, args...)
}

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...any) {
	logAtLevel(slog.LevelWarn, nil, format, args...)
}

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...any) {
	logAtLevel(slog.LevelError, nil, format, args...)
}

// Fatalf logs an error message then exits.
func Fatalf(format string, args ...any) {
	logAtLevel(slog.LevelError, nil, format, args...)
	os.Exit(1)
}

// Get retrieves the configured logger instance.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}
