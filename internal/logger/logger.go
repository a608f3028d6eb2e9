// Package logger provides a simple logging interface for pulse components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DebugEnv enables debug output for loggers created with NewEnvLogger.
const DebugEnv = "PULSE_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// zeroLogger implements Logger on top of a zerolog console writer.
type zeroLogger struct {
	zl     zerolog.Logger
	prefix string
	debug  func() bool
}

// NewEnvLogger creates a logger writing to stderr that respects PULSE_DEBUG.
// The prefix is prepended to all log messages (e.g., "[poller]" or "[gpu]").
func NewEnvLogger(prefix string) Logger {
	return newEnvLogger(os.Stderr, prefix)
}

func newEnvLogger(w io.Writer, prefix string) Logger {
	return newZeroLogger(w, prefix, func() bool { return os.Getenv(DebugEnv) != "" })
}

// NewWriterLogger creates a logger writing plain (uncolored) lines to w.
func NewWriterLogger(w io.Writer, prefix string, debug bool) Logger {
	return newZeroLogger(w, prefix, func() bool { return debug })
}

func newZeroLogger(w io.Writer, prefix string, debug func() bool) *zeroLogger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}
	return &zeroLogger{
		zl:     zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger(),
		prefix: prefix,
		debug:  debug,
	}
}

func (l *zeroLogger) msg(format string, args ...interface{}) string {
	m := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		return m
	}
	return l.prefix + " " + m
}

func (l *zeroLogger) Debug(format string, args ...interface{}) {
	if l.debug() {
		l.zl.Debug().Msg(l.msg(format, args...))
	}
}

func (l *zeroLogger) Info(format string, args ...interface{}) {
	l.zl.Info().Msg(l.msg(format, args...))
}

func (l *zeroLogger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msg(l.msg(format, args...))
}

func (l *zeroLogger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(l.msg(format, args...))
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// OrNoop returns l, or a noop logger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return Noop()
	}
	return l
}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// Safe for concurrent use; the poll loop logs from its own goroutine.
type BufferLogger struct {
	mu       sync.Mutex
	messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// Messages returns a copy of the captured messages.
func (l *BufferLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages() {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = l.messages[:0]
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewEnvLogger("")
)

// Default returns the default logger for the package.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = OrNoop(l)
}
