// =============================================================================
// Recycle Register - Logging
// =============================================================================
//
// A small leveled logger behind the Logger interface used across the
// application. Messages are printf-style and written as "[LEVEL] message"
// lines through the standard log package.
//
// LEVELS:
//   debug < info < warn < error
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger is the logging interface used by every package.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the upper-case level name used as line prefix.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel converts a configuration string into a Level.
//
// Valid values: "debug", "info", "warn", "warning", "error" (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// leveledLogger writes messages at or above its level.
type leveledLogger struct {
	level  Level
	output *log.Logger
}

// New returns a Logger writing to w at the given level.
func New(w io.Writer, level Level) Logger {
	return &leveledLogger{
		level:  level,
		output: log.New(w, "", log.LstdFlags),
	}
}

// Default returns an info-level Logger writing to stderr.
func Default() Logger {
	return New(os.Stderr, LevelInfo)
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return New(io.Discard, LevelError+1)
}

func (l *leveledLogger) Debug(msg string, args ...interface{}) {
	l.logf(LevelDebug, msg, args...)
}

func (l *leveledLogger) Info(msg string, args ...interface{}) {
	l.logf(LevelInfo, msg, args...)
}

func (l *leveledLogger) Warn(msg string, args ...interface{}) {
	l.logf(LevelWarn, msg, args...)
}

func (l *leveledLogger) Error(msg string, args ...interface{}) {
	l.logf(LevelError, msg, args...)
}

func (l *leveledLogger) logf(level Level, msg string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.output.Printf("["+level.String()+"] "+msg, args...)
}
