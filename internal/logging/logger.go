// Package logging holds the package-wide zerolog logger.
//
// The logger writes JSON to stderr at the level named by SQLRENDER_LOG_LEVEL
// (default warn) and can be replaced with Set. Library code logs sparingly:
// dialect registration, dialect loading, coercions at bind time and
// rendering failures.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// EnvLevel names the environment variable holding the default log level.
const EnvLevel = "SQLRENDER_LOG_LEVEL"

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, disabled.
	// Default: warn
	Level string

	// Output is the writer for log output.
	// Default: os.Stderr
	Output io.Writer

	// Console switches to zerolog's human-readable console writer.
	Console bool
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging must work before any explicit configuration
func init() {
	log = New(Config{Level: os.Getenv(EnvLevel)})
}

// New builds a logger from cfg without installing it.
func New(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	output := cfg.Output
	if cfg.Console {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}
	return zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("component", "sqlrender").
		Logger()
}

// Init replaces the package logger with one built from cfg.
func Init(cfg Config) {
	Set(New(cfg))
}

// Set replaces the package logger.
func Set(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// Logger returns a copy of the package logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// ParseLevel converts a level name to a zerolog.Level. Unknown or empty
// names yield warn.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Debug()
}

// Info starts an info-level event.
func Info() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Info()
}

// Warn starts a warn-level event.
func Warn() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Warn()
}
