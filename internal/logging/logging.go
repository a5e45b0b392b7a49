// Package logging provides leveled, structured diagnostics for the CLI.
//
// Diagnostics go to stderr and stay silent unless --verbose is given, so
// they never mix with command output on stdout.
//
//	logger := logging.NewCLI(verbose, os.Stderr)
//	logger.Debug("Dispatching command", logging.Fields{"command": "ask"})
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelNone disables all logging
	LevelNone
)

// String returns the string representation of the log level
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

// ParseLevel parses a string into a Level, defaulting to warn
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE", "OFF":
		return LevelNone
	default:
		return LevelWarn
	}
}

// Format represents the output format
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Fields is a map of structured log fields
type Fields map[string]interface{}

// entry is the JSON shape of a log line
type entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Fields    Fields    `json:"fields,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Options configures the logger
type Options struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger writes leveled entries. Loggers derived with With share the
// parent's writer and lock.
type Logger struct {
	mu     *sync.Mutex
	level  Level
	format Format
	output io.Writer
	fields Fields
}

// DefaultLogger only reports warnings until the CLI reconfigures it
var DefaultLogger = New(Options{
	Level:  LevelWarn,
	Format: FormatText,
	Output: os.Stderr,
})

// New creates a new Logger with the given options
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return &Logger{
		mu:     &sync.Mutex{},
		level:  opts.Level,
		format: opts.Format,
		output: opts.Output,
	}
}

// Environment variables read by NewCLI
const (
	EnvLogLevel  = "NIMBUSCODE_LOG_LEVEL"
	EnvLogFormat = "NIMBUSCODE_LOG_FORMAT"
)

// NewCLI returns a debug-level logger when verbose is set. Otherwise the
// level comes from NIMBUSCODE_LOG_LEVEL, defaulting to warn.
// NIMBUSCODE_LOG_FORMAT=json switches to one JSON object per line.
func NewCLI(verbose bool, w io.Writer) *Logger {
	level := ParseLevel(os.Getenv(EnvLogLevel))
	if verbose {
		level = LevelDebug
	}
	format := FormatText
	if strings.EqualFold(strings.TrimSpace(os.Getenv(EnvLogFormat)), "json") {
		format = FormatJSON
	}
	return New(Options{Level: level, Format: format, Output: w})
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New(Options{Level: LevelNone, Output: io.Discard})
}

// Enabled reports whether entries at level would be written
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level && l.level != LevelNone
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{
		mu:     l.mu,
		level:  l.level,
		format: l.format,
		output: l.output,
		fields: merged,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log(LevelDebug, msg, nil, fields...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Fields) {
	l.log(LevelInfo, msg, nil, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.log(LevelWarn, msg, nil, fields...)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error, fields ...Fields) {
	l.log(LevelError, msg, err, fields...)
}

func (l *Logger) log(level Level, msg string, err error, fields ...Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level || l.level == LevelNone {
		return
	}

	e := entry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   msg,
	}

	if len(l.fields) > 0 || len(fields) > 0 {
		e.Fields = make(Fields)
		for k, v := range l.fields {
			e.Fields[k] = v
		}
		for _, f := range fields {
			for k, v := range f {
				e.Fields[k] = v
			}
		}
	}
	if err != nil {
		e.Error = err.Error()
	}

	var line string
	if l.format == FormatJSON {
		line = formatJSON(e)
	} else {
		line = formatText(e)
	}
	fmt.Fprintln(l.output, line)
}

func formatJSON(e entry) string {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal log entry: %s"}`, err.Error())
	}
	return string(data)
}

// formatText writes fields in sorted key order so lines are stable
func formatText(e entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", e.Timestamp.Format("2006-01-02 15:04:05.000"), e.Level, e.Message)

	if e.Error != "" {
		fmt.Fprintf(&sb, " error=%q", e.Error)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Fields[k])
	}
	return sb.String()
}
