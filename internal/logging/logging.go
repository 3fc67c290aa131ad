// Package logging writes structured JSON log lines, one entry per line, in
// the same shape Cloud Logging agents ingest (severity, message, timestamp,
// labels). neovate-desk writes them to stderr so stdout stays reserved for
// command results.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/andywolf/neovate-desk/internal/redact"
)

// Severity levels for structured logs
type Severity string

const (
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

var severityRank = map[Severity]int{
	SeverityDebug:   0,
	SeverityInfo:    1,
	SeverityWarning: 2,
	SeverityError:   3,
}

// ParseSeverity maps a case-insensitive level name to a Severity.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if sev == "WARN" {
		sev = SeverityWarning
	}
	if _, ok := severityRank[sev]; !ok {
		return "", fmt.Errorf("invalid log level: %s (must be debug, info, warning, or error)", s)
	}
	return sev, nil
}

// LogEntry is a single structured log line.
type LogEntry struct {
	Severity     Severity               `json:"severity"`
	Message      string                 `json:"message"`
	Timestamp    time.Time              `json:"timestamp"`
	InvocationID string                 `json:"invocation_id,omitempty"`
	Labels       map[string]string      `json:"labels,omitempty"`
	Fields       map[string]interface{} `json:"fields,omitempty"`
}

// Logger is the logging surface the rest of neovate-desk depends on.
type Logger interface {
	Log(severity Severity, message string, fields map[string]interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// JSONLogger writes LogEntry values as JSON lines. It is safe for concurrent use.
type JSONLogger struct {
	writer       io.Writer
	invocationID string
	minSeverity  Severity
	labels       map[string]string
	now          func() time.Time
	mu           sync.Mutex
}

// Option configures a JSONLogger
type Option func(*JSONLogger)

// WithWriter sets a custom writer for log output
func WithWriter(w io.Writer) Option {
	return func(l *JSONLogger) {
		l.writer = w
	}
}

// WithInvocationID tags every entry with the id of the current command invocation.
func WithInvocationID(id string) Option {
	return func(l *JSONLogger) {
		l.invocationID = id
	}
}

// WithLabels adds custom labels to all log entries
func WithLabels(labels map[string]string) Option {
	return func(l *JSONLogger) {
		for k, v := range labels {
			l.labels[k] = v
		}
	}
}

// WithMinSeverity drops entries below sev.
func WithMinSeverity(sev Severity) Option {
	return func(l *JSONLogger) {
		l.minSeverity = sev
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *JSONLogger) {
		l.now = now
	}
}

// New creates a JSONLogger writing to stderr at WARNING and above unless overridden.
func New(opts ...Option) *JSONLogger {
	l := &JSONLogger{
		writer:      os.Stderr,
		minSeverity: SeverityWarning,
		labels: map[string]string{
			"component": "neovate-desk",
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Enabled reports whether entries at sev would be written.
func (l *JSONLogger) Enabled(sev Severity) bool {
	return severityRank[sev] >= severityRank[l.minSeverity]
}

// Log writes a structured log entry
func (l *JSONLogger) Log(severity Severity, message string, fields map[string]interface{}) {
	if !l.Enabled(severity) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Severity:     severity,
		Message:      redact.Text(message),
		Timestamp:    l.now().UTC(),
		InvocationID: l.invocationID,
		Labels:       l.labels,
		Fields:       fields,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.writer, `{"severity":"ERROR","message":"failed to marshal log entry: %v"}`+"\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *JSONLogger) Debugf(format string, args ...interface{}) {
	l.Log(SeverityDebug, fmt.Sprintf(format, args...), nil)
}

func (l *JSONLogger) Infof(format string, args ...interface{}) {
	l.Log(SeverityInfo, fmt.Sprintf(format, args...), nil)
}

func (l *JSONLogger) Warningf(format string, args ...interface{}) {
	l.Log(SeverityWarning, fmt.Sprintf(format, args...), nil)
}

func (l *JSONLogger) Errorf(format string, args ...interface{}) {
	l.Log(SeverityError, fmt.Sprintf(format, args...), nil)
}

// Nop discards everything. Useful as a default and in tests.
type Nop struct{}

func (Nop) Log(Severity, string, map[string]interface{}) {}
func (Nop) Debugf(string, ...interface{}) {}
func (Nop) Infof(string, ...interface{}) {}
func (Nop) Warningf(string, ...interface{}) {}
func (Nop) Errorf(string, ...interface{}) {}

var (
	_ Logger = (*JSONLogger)(nil)
	_ Logger = Nop{}
)
