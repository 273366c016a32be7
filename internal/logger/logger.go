// Package logger provides leveled logging for the spabuild tool.
//
// The logger package writes diagnostic lines to stderr, separate from the
// user-facing output that goes to stdout. Bundle summaries, dev-server
// banners and JSON results stay clean while --verbose shows what the
// bundler, watcher and proxy are doing underneath.
//
// # Log Levels
//
// Four log levels are supported, in order of severity:
//   - Debug: Resolution details, watcher events, proxied requests
//   - Info: Build starts and finishes, server lifecycle
//   - Warn: Recoverable problems (hook failures, upstream errors)
//   - Error: Failures that abort the current command
//
// # Initialization
//
//	logger.Init(verbose)  // verbose=true enables Debug level
//
// By default (verbose=false), only Warn and Error messages are shown.
//
// # Components
//
// Long-running parts of the tool log through a component logger so that
// interleaved lines can be told apart:
//
//	log := logger.For("devserver")
//	log.Info("listening on %s", addr)
//	// [INFO] 2026-02-03 10:30:45 devserver: listening on localhost:5174
//
// # Output Format
//
//	[LEVEL] YYYY-MM-DD HH:MM:SS [component: ]message[ key=value...]
//
// Structured fields are sorted by key:
//
//	[DEBUG] 2026-02-03 10:30:45 bundler: rebuilt files=4 took=38ms
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
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
		return "UNKNOWN"
	}
}

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
}

// Global logger instance.
var std = &Logger{
	level:  LevelWarn,
	output: os.Stderr,
}

// Init initializes the global logger with the specified verbosity.
// When verbose is true, Debug and Info levels are enabled.
// When verbose is false, only Warn and Error are shown.
func Init(verbose bool) {
	std.mu.Lock()
	defer std.mu.Unlock()

	if verbose {
		std.level = LevelDebug
	} else {
		std.level = LevelWarn
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the output destination for the global logger.
// A nil writer restores os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	std.output = w
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

// Enabled reports whether messages at level would be written.
func Enabled(level Level) bool {
	return level >= GetLevel()
}

func (l *Logger) write(level Level, component, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	if component != "" {
		msg = component + ": " + msg
	}

	fieldsStr := ""
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
		}
		fieldsStr = " " + strings.Join(parts, " ")
	}

	_, _ = fmt.Fprintf(l.output, "[%s] %s %s%s\n", level.String(), timestamp, msg, fieldsStr)
}

// Debug logs a debug message.
// Only shown when verbose mode is enabled.
func Debug(format string, args ...interface{}) {
	std.write(LevelDebug, "", fmt.Sprintf(format, args...), nil)
}

// Info logs an informational message.
// Only shown when verbose mode is enabled.
func Info(format string, args ...interface{}) {
	std.write(LevelInfo, "", fmt.Sprintf(format, args...), nil)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	std.write(LevelWarn, "", fmt.Sprintf(format, args...), nil)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	std.write(LevelError, "", fmt.Sprintf(format, args...), nil)
}

// DebugFields logs a debug message with structured fields.
func DebugFields(msg string, fields map[string]interface{}) {
	std.write(LevelDebug, "", msg, fields)
}

// InfoFields logs an informational message with structured fields.
func InfoFields(msg string, fields map[string]interface{}) {
	std.write(LevelInfo, "", msg, fields)
}

// WarnFields logs a warning message with structured fields.
func WarnFields(msg string, fields map[string]interface{}) {
	std.write(LevelWarn, "", msg, fields)
}

// ErrorFields logs an error message with structured fields.
func ErrorFields(msg string, fields map[string]interface{}) {
	std.write(LevelError, "", msg, fields)
}

// LogError logs an error with additional context message.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	std.write(LevelError, "", fmt.Sprintf("%s: %v", msg, err), nil)
}

// Component is a logger bound to a named part of the tool.
// It shares level and output with the global logger.
type Component struct {
	name string
}

// For returns a component logger that prefixes every line with name.
func For(name string) *Component {
	return &Component{name: name}
}

// Name returns the component name.
func (c *Component) Name() string {
	return c.name
}

// Debug logs a debug message for the component.
func (c *Component) Debug(format string, args ...interface{}) {
	std.write(LevelDebug, c.name, fmt.Sprintf(format, args...), nil)
}

// Info logs an informational message for the component.
func (c *Component) Info(format string, args ...interface{}) {
	std.write(LevelInfo, c.name, fmt.Sprintf(format, args...), nil)
}

// Warn logs a warning message for the component.
func (c *Component) Warn(format string, args ...interface{}) {
	std.write(LevelWarn, c.name, fmt.Sprintf(format, args...), nil)
}

// Error logs an error message for the component.
func (c *Component) Error(format string, args ...interface{}) {
	std.write(LevelError, c.name, fmt.Sprintf(format, args...), nil)
}

// DebugFields logs a debug message with structured fields for the component.
func (c *Component) DebugFields(msg string, fields map[string]interface{}) {
	std.write(LevelDebug, c.name, msg, fields)
}

// InfoFields logs an informational message with structured fields for the component.
func (c *Component) InfoFields(msg string, fields map[string]interface{}) {
	std.write(LevelInfo, c.name, msg, fields)
}

// WarnFields logs a warning message with structured fields for the component.
func (c *Component) WarnFields(msg string, fields map[string]interface{}) {
	std.write(LevelWarn, c.name, msg, fields)
}
