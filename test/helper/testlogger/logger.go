// Package testlogger provides a log.Logger that records entries for assertions
package testlogger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/LerianStudio/lib-commons/commons/log"
)

// Log levels recorded by TestLogger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

// LogEntry represents a single log entry
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
}

type sink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// TestLogger implements log.Logger for testing purposes.
// Loggers derived with WithFields share the same entries.
type TestLogger struct {
	sink   *sink
	fields []any
}

// New creates a new TestLogger
func New() *TestLogger {
	return &TestLogger{sink: &sink{}}
}

func (l *TestLogger) record(level, msg string) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	l.sink.entries = append(l.sink.entries, LogEntry{
		Level:   level,
		Message: strings.TrimSuffix(msg, "\n"),
		Fields:  l.fields,
	})
}

func (l *TestLogger) Debug(args ...any)                 { l.record(LevelDebug, fmt.Sprint(args...)) }
func (l *TestLogger) Debugf(format string, args ...any) { l.record(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *TestLogger) Debugln(args ...any)               { l.record(LevelDebug, fmt.Sprintln(args...)) }
func (l *TestLogger) Info(args ...any)                  { l.record(LevelInfo, fmt.Sprint(args...)) }
func (l *TestLogger) Infof(format string, args ...any)  { l.record(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *TestLogger) Infoln(args ...any)                { l.record(LevelInfo, fmt.Sprintln(args...)) }
func (l *TestLogger) Warn(args ...any)                  { l.record(LevelWarn, fmt.Sprint(args...)) }
func (l *TestLogger) Warnf(format string, args ...any)  { l.record(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *TestLogger) Warnln(args ...any)                { l.record(LevelWarn, fmt.Sprintln(args...)) }
func (l *TestLogger) Error(args ...any)                 { l.record(LevelError, fmt.Sprint(args...)) }
func (l *TestLogger) Errorf(format string, args ...any) { l.record(LevelError, fmt.Sprintf(format, args...)) }
func (l *TestLogger) Errorln(args ...any)               { l.record(LevelError, fmt.Sprintln(args...)) }
func (l *TestLogger) Fatal(args ...any)                 { l.record(LevelFatal, fmt.Sprint(args...)) }
func (l *TestLogger) Fatalf(format string, args ...any) { l.record(LevelFatal, fmt.Sprintf(format, args...)) }
func (l *TestLogger) Fatalln(args ...any)               { l.record(LevelFatal, fmt.Sprintln(args...)) }

// WithFields returns a logger sharing the same entries that tags them with fields
func (l *TestLogger) WithFields(fields ...any) log.Logger {
	return &TestLogger{
		sink:   l.sink,
		fields: append(append([]any(nil), l.fields...), fields...),
	}
}

// WithDefaultMessageTemplate implements log.Logger
func (l *TestLogger) WithDefaultMessageTemplate(string) log.Logger {
	return l
}

// Sync implements log.Logger
func (l *TestLogger) Sync() error {
	return nil
}

// GetEntries returns all log entries
func (l *TestLogger) GetEntries() []LogEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	entries := make([]LogEntry, len(l.sink.entries))
	copy(entries, l.sink.entries)

	return entries
}

// Count returns the number of log entries for the given level
func (l *TestLogger) Count(level string) int {
	count := 0

	for _, entry := range l.GetEntries() {
		if entry.Level == level {
			count++
		}
	}

	return count
}

// Contains returns true if an entry of the given level contains all the given strings
func (l *TestLogger) Contains(level string, substrings ...string) bool {
	for _, entry := range l.GetEntries() {
		if entry.Level != level {
			continue
		}

		allFound := true

		for _, s := range substrings {
			if !strings.Contains(entry.Message, s) {
				allFound = false
				break
			}
		}

		if allFound {
			return true
		}
	}

	return false
}
