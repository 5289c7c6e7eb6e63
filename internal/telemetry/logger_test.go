package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "info")
	l.Info("round.success", map[string]any{"number": 9, "round": 2})
	l.Debug("hidden", nil)
	l.Error("highscore.save_failed", map[string]any{"error": "disk full"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line is not json: %v", err)
	}
	if first["msg"] != "round.success" || first["number"] != float64(9) {
		t.Fatalf("unexpected entry %#v", first)
	}
	if !strings.Contains(lines[1], `"level":"error"`) {
		t.Fatalf("expected error level in %q", lines[1])
	}
}

func TestLoggerWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "debug").With(map[string]any{"session": "abc"})
	l.Debug("run.start", nil)
	if !strings.Contains(buf.String(), `"session":"abc"`) {
		t.Fatalf("expected session field, got %q", buf.String())
	}
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mathsticks.jsonl")
	l, err := NewLogger(path, "")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Info("run.over", map[string]any{"score": 0})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "run.over") {
		t.Fatalf("expected event in log, got %q", string(b))
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("x", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
	discard, err := NewLogger("", "warn")
	if err != nil {
		t.Fatalf("discard logger: %v", err)
	}
	discard.Error("x", map[string]any{"k": 1})
}

func TestWithSharesFileAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathsticks.jsonl")
	base, err := NewLogger(path, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l := base.With(map[string]any{"session": "s-1"})
	l.Warn("highscore.load_failed", map[string]any{"error": "locked"})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"session":"s-1"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected session and warn level, got %q", out)
	}
}
