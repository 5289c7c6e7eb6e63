// Package telemetry writes structured JSON event logs.
package telemetry

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	clog "github.com/charmbracelet/log"
)

// Logger emits one JSON object per event. The zero value and a nil
// *Logger discard everything.
type Logger struct {
	mu   sync.Mutex
	base *clog.Logger
	w    io.WriteCloser
}

// NewLogger logs to path, or discards when path is empty.
func NewLogger(path, level string) (*Logger, error) {
	if path == "" {
		return NewWriterLogger(io.Discard, level), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return newLogger(f, level), nil
}

// NewWriterLogger logs to w. Close leaves w open.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger(nopCloser{Writer: w}, level)
}

func newLogger(w io.WriteCloser, level string) *Logger {
	base := clog.NewWithOptions(w, clog.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		Formatter:       clog.JSONFormatter,
	})
	return &Logger{base: base, w: w}
}

// ParseLevel maps a level name onto the log package; unknown names are info.
func ParseLevel(name string) clog.Level {
	lvl, err := clog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return clog.InfoLevel
	}
	return lvl
}

func (l *Logger) Debug(msg string, fields map[string]any) { l.log(clog.DebugLevel, msg, fields) }
func (l *Logger) Info(msg string, fields map[string]any)  { l.log(clog.InfoLevel, msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]any)  { l.log(clog.WarnLevel, msg, fields) }
func (l *Logger) Error(msg string, fields map[string]any) { l.log(clog.ErrorLevel, msg, fields) }

func (l *Logger) log(level clog.Level, msg string, fields map[string]any) {
	if l == nil || l.base == nil {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.base.Log(level, msg, kv...)
}

// With returns a logger that adds fields to every event. It shares the
// writer, so closing either logger closes it.
func (l *Logger) With(fields map[string]any) *Logger {
	if l == nil || l.base == nil {
		return l
	}
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &Logger{base: l.base.With(kv...), w: l.w}
}

func (l *Logger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
