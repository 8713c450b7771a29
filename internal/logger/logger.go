// Package logger provides the leveled logger used throughout shoptui.
//
// The dashboard owns the terminal, so application logs go to shoptui.log in
// the cache directory instead of stdout. Headless CLI commands use the same
// logger on stderr. Bearer tokens and passwords are masked before a line is
// written.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// Level represents the logging level.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// LogFileName is the name of the log file created inside the cache directory.
const LogFileName = "shoptui.log"

// DefaultMaxFileSize is the size at which shoptui.log is rotated to
// shoptui.log.1.
const DefaultMaxFileSize = 5 << 20

const timeFormat = "2006-01-02 15:04:05"

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps "debug", "info" or "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// LevelFor returns LevelDebug when debug is set and LevelInfo otherwise.
func LevelFor(debug bool) Level {
	if debug {
		return LevelDebug
	}

	return LevelInfo
}

// sink is the destination shared by a logger and its component views.
type sink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	level  atomic.Int32
}

func (s *sink) writeLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = io.WriteString(s.w, line)
}

// Logger implements interfaces.Logger. Loggers returned by Component share
// their parent's output and level.
type Logger struct {
	sink      *sink
	component string
	now       func() time.Time
}

// Options configures New.
type Options struct {
	Level Level
	// Output receives log lines when File is empty. Defaults to stderr.
	Output io.Writer
	// File, when set, is appended to and rotated at MaxSize bytes.
	File    string
	MaxSize int64
	// Component is shown in brackets on every line, e.g. "[api]".
	Component string
}

// New creates a logger from opts.
func New(opts Options) (*Logger, error) {
	s := &sink{w: opts.Output}
	if s.w == nil {
		s.w = os.Stderr
	}

	if opts.File != "" {
		f, err := openRotating(opts.File, opts.MaxSize)
		if err != nil {
			return nil, err
		}

		s.w, s.closer = f, f
	}

	s.level.Store(int32(opts.Level))

	return &Logger{sink: s, component: opts.Component, now: time.Now}, nil
}

// NewFileLogger creates a logger writing to shoptui.log in dir, rotated at
// DefaultMaxFileSize. The terminal is never written to.
func NewFileLogger(level Level, dir string) (*Logger, error) {
	if dir == "" {
		dir = "."
	}

	return New(Options{Level: level, File: filepath.Join(dir, LogFileName), MaxSize: DefaultMaxFileSize})
}

// NewStderrLogger creates a logger that writes to stderr.
func NewStderrLogger(level Level) *Logger {
	l, _ := New(Options{Level: level})
	return l
}

// Component returns a view of l tagging lines with name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{sink: l.sink, component: name, now: l.now}
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if Level(l.sink.level.Load()) > level {
		return
	}

	var b strings.Builder

	b.WriteString(l.now().Format(timeFormat))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%-5s", level))
	if l.component != "" {
		b.WriteString(" [" + l.component + "]")
	}
	b.WriteString(" ")
	b.WriteString(Redact(fmt.Sprintf(format, args...)))
	b.WriteString("\n")

	l.sink.writeLine(b.String())
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LevelError, format, args...)
}

// SetLevel changes the level of l and every view sharing its output.
func (l *Logger) SetLevel(level Level) {
	l.sink.level.Store(int32(level))
}

// GetLevel returns the current logging level.
func (l *Logger) GetLevel() Level {
	return Level(l.sink.level.Load())
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.sink.closer == nil {
		return nil
	}

	return l.sink.closer.Close()
}

var _ interfaces.Logger = (*Logger)(nil)

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`),
	regexp.MustCompile(`(?i)("?(?:password|token)"?\s*[:=]\s*"?)[^"\s,}]+`),
}

// Redact masks bearer tokens and password or token values in msg.
func Redact(msg string) string {
	for _, re := range secretPatterns {
		msg = re.ReplaceAllString(msg, "${1}***")
	}

	return msg
}

var (
	defaultMu sync.RWMutex
	defaultL  *Logger
)

// SetDefault installs l as the process-wide logger. Nil resets it.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultL = l
	defaultMu.Unlock()
}

// Default returns the process-wide logger, creating an Info-level stderr
// logger on first use.
func Default() *Logger {
	defaultMu.RLock()
	l := defaultL
	defaultMu.RUnlock()

	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultL == nil {
		defaultL = NewStderrLogger(LevelInfo)
	}

	return defaultL
}

// For returns a component view of the process-wide logger.
func For(component string) interfaces.Logger {
	return Default().Component(component)
}
