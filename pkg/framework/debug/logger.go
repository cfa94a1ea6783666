// Package debug provides structured logging for the control side of rtdsp.
//
// Loggers are logiface loggers writing JSON lines through stumpy. They must
// never be used from the audio thread: building an event may allocate and
// writing it blocks on the output.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the logger type accepted throughout rtdsp. A nil *Logger is
// valid and discards everything.
type Logger = logiface.Logger[logiface.Event]

// Level represents the severity of a log message.
type Level = logiface.Level

// Log levels, re-exported for convenience.
const (
	LevelDisabled = logiface.LevelDisabled
	LevelError    = logiface.LevelError
	LevelWarning  = logiface.LevelWarning
	LevelNotice   = logiface.LevelNotice
	LevelInfo     = logiface.LevelInformational
	LevelDebug    = logiface.LevelDebug
	LevelTrace    = logiface.LevelTrace
)

// DefaultTimeField is the JSON key for event timestamps.
const DefaultTimeField = "time"

type config struct {
	level     Level
	timeField string
	component string
}

// Option configures a logger created by New.
type Option func(c *config)

// WithLevel sets the minimum level that is written.
func WithLevel(level Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithTimeField sets the timestamp key; an empty name omits timestamps.
func WithTimeField(name string) Option {
	return func(c *config) {
		c.timeField = name
	}
}

// WithComponent adds a "component" field to every event.
func WithComponent(name string) Option {
	return func(c *config) {
		c.component = name
	}
}

var (
	// defaultLogger is the global logger instance.
	defaultLogger struct {
		sync.RWMutex
		logger *Logger
	}
)

func init() {
	defaultLogger.logger = New(os.Stderr)
}

// New creates a JSON logger writing to w, at info level by default.
func New(w io.Writer, options ...Option) *Logger {
	c := config{
		level:     LevelInfo,
		timeField: DefaultTimeField,
	}
	for _, o := range options {
		o(&c)
	}

	logger := stumpy.L.New(
		stumpy.L.WithStumpy(
			stumpy.WithWriter(w),
			stumpy.WithTimeField(c.timeField),
		),
		stumpy.L.WithLevel(c.level),
	).Logger()

	if c.component != "" {
		logger = logger.Clone().Str("component", c.component).Logger()
	}

	return logger
}

// NewFileLogger creates a logger that appends to a file. The returned closer
// closes the file.
func NewFileLogger(filename string, options ...Option) (*Logger, io.Closer, error) {
	// Create log directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(file, options...), file, nil
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, WithLevel(LevelDisabled))
}

// Default returns the default logger instance.
func Default() *Logger {
	defaultLogger.RLock()
	defer defaultLogger.RUnlock()
	return defaultLogger.logger
}

// SetDefault replaces the default logger. A nil logger discards everything.
func SetDefault(logger *Logger) {
	defaultLogger.Lock()
	defer defaultLogger.Unlock()
	defaultLogger.logger = logger
}

// ParseLevel converts a level name, as used on command lines, to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "disabled", "none":
		return LevelDisabled, nil
	case "emerg", "emergency":
		return logiface.LevelEmergency, nil
	case "alert":
		return logiface.LevelAlert, nil
	case "crit", "critical":
		return logiface.LevelCritical, nil
	case "err", "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "notice":
		return LevelNotice, nil
	case "info", "informational":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return LevelDisabled, fmt.Errorf("unknown log level %q", s)
	}
}
