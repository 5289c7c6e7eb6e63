package game

import (
	"context"
	"errors"
	"sync"
)

type memKV struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	setErr  error
	setKeys []string
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setKeys = append(m.setKeys, key)
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type recordingRecorder struct {
	runs []RunSummary
}

func (r *recordingRecorder) RecordRun(_ context.Context, run RunSummary) error {
	r.runs = append(r.runs, run)
	return nil
}

type logEntry struct {
	level string
	msg   string
}

type captureLogger struct {
	entries []logEntry
}

func (l *captureLogger) Debug(msg string, _ map[string]any) {
	l.entries = append(l.entries, logEntry{"debug", msg})
}

func (l *captureLogger) Warn(msg string, _ map[string]any) {
	l.entries = append(l.entries, logEntry{"warn", msg})
}

func (l *captureLogger) Info(msg string, _ map[string]any) {
	l.entries = append(l.entries, logEntry{"info", msg})
}

func (l *captureLogger) Error(msg string, _ map[string]any) {
	l.entries = append(l.entries, logEntry{"error", msg})
}

func (l *captureLogger) has(level, msg string) bool {
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

var errDisk = errors.New("disk on fire")
