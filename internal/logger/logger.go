// Package logger is the diagnostics channel. The dashboard owns the
// terminal while it runs, so messages go to a file or nowhere.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// writerLogger writes prefixed lines through a standard *log.Logger.
type writerLogger struct {
	l      *log.Logger
	prefix string
}

// New creates a logger writing to w. The prefix is prepended to every
// message (e.g. "[sampler]").
func New(w io.Writer, prefix string) Logger {
	return &writerLogger{
		l:      log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		prefix: prefix,
	}
}

// OpenFile appends to path, creating it if needed. The returned closer must
// be called on shutdown.
func OpenFile(path, prefix string) (Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return New(f, prefix), f, nil
}

func (w *writerLogger) Debug(format string, args ...interface{}) {
	w.l.Printf(w.prefix+" DEBUG: "+format, args...)
}

func (w *writerLogger) Info(format string, args ...interface{}) {
	w.l.Printf(w.prefix+" "+format, args...)
}

func (w *writerLogger) Warn(format string, args ...interface{}) {
	w.l.Printf(w.prefix+" WARN: "+format, args...)
}

func (w *writerLogger) Error(format string, args ...interface{}) {
	w.l.Printf(w.prefix+" ERROR: "+format, args...)
}

type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(format string, args ...interface{}) {}
func (noopLogger) Info(format string, args ...interface{})  {}
func (noopLogger) Warn(format string, args ...interface{})  {}
func (noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for test assertions. It is safe for
// concurrent use because disk queries log from worker goroutines.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{Messages: make([]LogMessage, 0)}
}

func (b *BufferLogger) add(level, format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Messages = append(b.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (b *BufferLogger) Debug(format string, args ...interface{}) { b.add("debug", format, args...) }
func (b *BufferLogger) Info(format string, args ...interface{})  { b.add("info", format, args...) }
func (b *BufferLogger) Warn(format string, args ...interface{})  { b.add("warn", format, args...) }
func (b *BufferLogger) Error(format string, args ...interface{}) { b.add("error", format, args...) }

// HasLevel returns true if any message was logged at the given level.
func (b *BufferLogger) HasLevel(level string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}
