// Package applog is the state-core's structured logger: a thin
// wrapper over log/slog carrying the same level/component shape the
// teacher's internal/app logger used, but built on the standard
// library's structured logging package instead of a hand-rolled one.
package applog

import (
	"io"
	"log/slog"
	"os"
)

// Level mirrors the teacher's four-level scheme, translated to slog's
// levels at construction time.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel parses a level name, defaulting to LevelInfo for anything
// unrecognized (matching the teacher's ParseLogLevel fallback).
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger wraps *slog.Logger, adding the WithComponent convenience the
// rest of the tree calls at package boundaries (store, runtime, git,
// lsp) instead of threading context fields by hand.
type Logger struct {
	l *slog.Logger
}

// Config configures a top-level Logger.
type Config struct {
	Level  Level
	Output io.Writer
}

// New creates a root Logger writing text-handler records to cfg.Output
// (os.Stderr if nil), gated at cfg.Level.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	h := slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: cfg.Level.slog()})
	return &Logger{l: slog.New(h)}
}

// WithComponent returns a Logger with a "component" attribute attached
// to every subsequent record.
func (lg *Logger) WithComponent(name string) *Logger {
	return &Logger{l: lg.l.With("component", name)}
}

func (lg *Logger) Debug(msg string, args ...any) { lg.l.Debug(msg, args...) }
func (lg *Logger) Info(msg string, args ...any)  { lg.l.Info(msg, args...) }
func (lg *Logger) Warn(msg string, args ...any)  { lg.l.Warn(msg, args...) }
func (lg *Logger) Error(msg string, args ...any) { lg.l.Error(msg, args...) }
