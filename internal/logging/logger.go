/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package logging provides the structured logger used by the sqlsplit tools.

Every log line carries a timestamp, a level, the component that emitted it
and a set of key/value fields. Output is human-readable text by default and
one JSON object per line when JSON mode is enabled. Logs go to stderr so
that statements written to stdout stay machine-readable.

Usage:

	logger := logging.NewLogger("batch")
	logger.Info("Split finished", "inputs", 3, "statements", 41)

	run := logging.NewRun("watch", "schema.sql")
	run.LogComplete(logger, "statements", 12)

The core lexer and splitter never log; only the outer surfaces do.
*/
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

	"github.com/google/uuid"
)

// Level represents the severity of a log message.
type Level int

const (
	// DEBUG level for token and statement counts, timings.
	DEBUG Level = iota
	// INFO level for completed runs and lifecycle events.
	INFO
	// WARN level for recoverable input problems.
	WARN
	// ERROR level for failed inputs.
	ERROR
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name case-insensitively. The second result is
// false for unknown names, in which case INFO is returned.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	default:
		return INFO, false
	}
}

// Entry represents a single log entry with all its metadata.
type Entry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Component string                 `json:"component"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Config holds the process-wide logger settings.
type Config struct {
	Level    Level
	Output   io.Writer
	JSONMode bool
	Color    bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  WARN,
		Output: os.Stderr,
	}
}

var (
	globalConfig = DefaultConfig()
	globalMu     sync.RWMutex
	writeMu      sync.Mutex
)

// Configure replaces the global configuration. A nil Output keeps the
// current writer.
func Configure(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if cfg.Output == nil {
		cfg.Output = globalConfig.Output
	}
	globalConfig = cfg
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level Level) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig.Level = level
}

// SetGlobalOutput sets the global log output.
func SetGlobalOutput(w io.Writer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig.Output = w
}

// SetJSONMode enables or disables JSON output mode.
func SetJSONMode(enabled bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig.JSONMode = enabled
}

// Logger writes entries for one component. It follows the global level
// unless WithLevel pinned one of its own.
type Logger struct {
	component string
	minLevel  *Level
}

// NewLogger creates a new Logger for the specified component.
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

// WithLevel returns a copy of the logger that drops entries below level
// regardless of the global setting.
func (l *Logger) WithLevel(level Level) *Logger {
	return &Logger{component: l.component, minLevel: &level}
}

// Enabled reports whether an entry at level would be written.
func (l *Logger) Enabled(level Level) bool {
	globalMu.RLock()
	threshold := globalConfig.Level
	globalMu.RUnlock()
	if l.minLevel != nil {
		threshold = *l.minLevel
	}
	return level >= threshold
}

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}

	globalMu.RLock()
	cfg := globalConfig
	globalMu.RUnlock()

	entry := Entry{
		Timestamp: time.Now().UTC(),
		Level:     level.String(),
		Component: l.component,
		Message:   msg,
		Fields:    fieldsOf(args),
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	if cfg.JSONMode {
		writeJSON(cfg.Output, entry)
	} else {
		writeText(cfg.Output, entry, cfg.Color)
	}
}

// fieldsOf turns alternating key/value args into a map. A trailing key
// without a value is stored under "extra".
func fieldsOf(args []interface{}) map[string]interface{} {
	if len(args) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(args)/2+1)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("arg%d", i)
		}
		if err, ok := args[i+1].(error); ok {
			fields[key] = err.Error()
			continue
		}
		fields[key] = args[i+1]
	}
	if len(args)%2 != 0 {
		fields["extra"] = args[len(args)-1]
	}
	return fields
}

func writeJSON(w io.Writer, entry Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(w, "ERROR: failed to marshal log entry: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

var levelColors = map[string]string{
	"DEBUG": "\033[36m",
	"INFO":  "\033[32m",
	"WARN":  "\033[33m",
	"ERROR": "\033[31m",
}

// writeText writes
//
//	2006-01-02T15:04:05.000Z [LEVEL] [component] message key=value ...
//
// with fields in key order.
func writeText(w io.Writer, entry Entry, color bool) {
	var sb strings.Builder
	sb.WriteString(entry.Timestamp.Format("2006-01-02T15:04:05.000Z"))
	sb.WriteByte(' ')
	if color {
		fmt.Fprintf(&sb, "%s[%-5s]\033[0m", levelColors[entry.Level], entry.Level)
	} else {
		fmt.Fprintf(&sb, "[%-5s]", entry.Level)
	}
	fmt.Fprintf(&sb, " [%s] %s", entry.Component, entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Fields[k])
	}

	fmt.Fprintln(w, sb.String())
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(DEBUG, msg, args...)
}

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(INFO, msg, args...)
}

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(WARN, msg, args...)
}

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(ERROR, msg, args...)
}

// With returns a logger that adds args to every entry.
func (l *Logger) With(args ...interface{}) *ContextLogger {
	return &ContextLogger{logger: l, args: append([]interface{}(nil), args...)}
}

// ContextLogger is a logger with pre-set context fields.
type ContextLogger struct {
	logger *Logger
	args   []interface{}
}

// Debug logs a message at DEBUG level with context fields.
func (c *ContextLogger) Debug(msg string, args ...interface{}) {
	c.logger.log(DEBUG, msg, c.merge(args)...)
}

// Info logs a message at INFO level with context fields.
func (c *ContextLogger) Info(msg string, args ...interface{}) {
	c.logger.log(INFO, msg, c.merge(args)...)
}

// Warn logs a message at WARN level with context fields.
func (c *ContextLogger) Warn(msg string, args ...interface{}) {
	c.logger.log(WARN, msg, c.merge(args)...)
}

// Error logs a message at ERROR level with context fields.
func (c *ContextLogger) Error(msg string, args ...interface{}) {
	c.logger.log(ERROR, msg, c.merge(args)...)
}

// merge puts the context pairs first so call-site args override them.
func (c *ContextLogger) merge(args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(c.args)+len(args))
	out = append(out, c.args...)
	return append(out, args...)
}

// ============================================================================
// Run Tracking
// ============================================================================

// Run identifies one unit of work, such as a batch invocation or one
// re-split triggered by a file change, so its log lines can be correlated.
type Run struct {
	ID        string
	Operation string
	Input     string
	StartTime time.Time
}

// NewRun starts a run with a fresh random ID.
func NewRun(operation, input string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Operation: operation,
		Input:     input,
		StartTime: time.Now(),
	}
}

// Duration returns the time elapsed since the run started.
func (r *Run) Duration() time.Duration {
	return time.Since(r.StartTime)
}

// DurationMs returns the duration in milliseconds.
func (r *Run) DurationMs() float64 {
	return float64(r.Duration().Microseconds()) / 1000.0
}

func (r *Run) baseArgs(status string) []interface{} {
	return []interface{}{
		"run_id", r.ID,
		"operation", r.Operation,
		"input", r.Input,
		"status", status,
		"duration_ms", fmt.Sprintf("%.2f", r.DurationMs()),
	}
}

// LogComplete logs a finished run at INFO.
func (r *Run) LogComplete(logger *Logger, args ...interface{}) {
	logger.Info("Run completed", append(r.baseArgs("ok"), args...)...)
}

// LogError logs a failed run at WARN; the caller decides whether the
// failure is fatal.
func (r *Run) LogError(logger *Logger, err error, args ...interface{}) {
	base := append(r.baseArgs("error"), "error", err)
	logger.Warn("Run failed", append(base, args...)...)
}
