// Package testutils provides test doubles for the api interfaces.
package testutils

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestConfig is a fixed interfaces.Config.
type TestConfig struct {
	APIURL   string
	Timeout  time.Duration
	Insecure bool
}

func (c *TestConfig) GetAPIURL() string         { return c.APIURL }
func (c *TestConfig) GetTimeout() time.Duration { return c.Timeout }
func (c *TestConfig) GetInsecure() bool         { return c.Insecure }

// NewTestConfig points at apiURL with a short timeout.
func NewTestConfig(apiURL string) *TestConfig {
	return &TestConfig{APIURL: apiURL, Timeout: 5 * time.Second}
}

// LogEntry is one recorded log call.
type LogEntry struct {
	Level   string
	Message string
}

// TestLogger records every message it is given. Safe for concurrent use.
type TestLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewTestLogger returns an empty recorder.
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (l *TestLogger) record(level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, LogEntry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *TestLogger) Debug(format string, args ...interface{}) { l.record("debug", format, args) }
func (l *TestLogger) Info(format string, args ...interface{})  { l.record("info", format, args) }
func (l *TestLogger) Error(format string, args ...interface{}) { l.record("error", format, args) }

// Reset forgets every recorded entry.
func (l *TestLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
}

// Messages returns the messages logged at level, oldest first.
func (l *TestLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}

	return out
}

// Entries returns a copy of everything recorded.
func (l *TestLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]LogEntry(nil), l.entries...)
}

// AssertLogContains fails t unless a message at level contains text.
func AssertLogContains(t *testing.T, logger *TestLogger, level string, text string) {
	t.Helper()

	switch level {
	case "debug", "info", "error":
	default:
		t.Fatalf("unknown log level %q", level)
	}

	messages := logger.Messages(level)
	for _, msg := range messages {
		if strings.Contains(msg, text) {
			return
		}
	}

	t.Errorf("no %s message contains %q; got %v", level, text, messages)
}
