// Package log provides category-tagged structured logging for chime.
//
// Every call names a Category so output can be filtered by subsystem:
//
//	log.Warn(log.CatAssets, "descriptor load failed", "path", p, "error", err)
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Category identifies the subsystem that emitted a log record.
type Category string

const (
	CatConfig   Category = "config"
	CatAssets   Category = "assets"
	CatSound    Category = "sound"
	CatPlayback Category = "playback"
	CatGateway  Category = "gateway"
	CatStory    Category = "story"
	CatUI       Category = "ui"
)

// Options controls logger construction.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	File   string // optional log file, appended to
}

var (
	mu       sync.RWMutex
	levelVar = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
	closer   io.Closer
)

// Init replaces the package logger according to opts.
// It is safe to call more than once; a previously opened log file is closed.
func Init(opts Options) error {
	levelVar.Set(ParseLevel(opts.Level))

	var w io.Writer = os.Stderr
	var c io.Closer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w, c = f, f
	}

	h, err := newHandler(w, opts.Format)
	if err != nil {
		if c != nil {
			_ = c.Close()
		}
		return err
	}

	mu.Lock()
	prev := closer
	logger, closer = slog.New(h), c
	mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return nil
}

// SetOutput sends console-formatted records at the current level to w.
// Tests use it to capture and assert on log output.
func SetOutput(w io.Writer) {
	h, _ := newHandler(w, "console")
	mu.Lock()
	logger = slog.New(h)
	mu.Unlock()
}

// SetLevel changes the minimum level without rebuilding the handler.
func SetLevel(level string) {
	levelVar.Set(ParseLevel(level))
}

// Close releases the log file opened by Init, if any.
func Close() error {
	mu.Lock()
	c := closer
	closer = nil
	mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(w io.Writer, format string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: levelVar}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

func emit(level slog.Level, cat Category, msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}
	l.Log(ctx, level, msg, append([]any{"cat", string(cat)}, args...)...)
}

// Debug logs at debug level.
func Debug(cat Category, msg string, args ...any) { emit(slog.LevelDebug, cat, msg, args...) }

// Info logs at info level.
func Info(cat Category, msg string, args ...any) { emit(slog.LevelInfo, cat, msg, args...) }

// Warn logs at warn level.
func Warn(cat Category, msg string, args ...any) { emit(slog.LevelWarn, cat, msg, args...) }

// Error logs at error level.
func Error(cat Category, msg string, args ...any) { emit(slog.LevelError, cat, msg, args...) }
