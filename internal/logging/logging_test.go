package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestNewDisabledDiscards(t *testing.T) {
	logger, closeFn := New(false, filepath.Join(t.TempDir(), "studyd.log"))
	logger.Info("should go nowhere")
	if err := closeFn(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
}

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studyd.log")
	logger, closeFn := New(true, path)
	logger.Info("hello", "key", "value")
	if err := closeFn(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	lines := 0
	for _, line := range splitLines(data) {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("got %d log lines, want 2 (init + message)", lines)
	}
}

func TestNewUnwritablePathFallsBack(t *testing.T) {
	dir := t.TempDir()
	// A directory at the log path makes OpenFile fail.
	path := filepath.Join(dir, "taken")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	logger, closeFn := New(true, path)
	logger.Info("should not panic")
	if err := closeFn(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
}

func splitLines(data []byte) [][]byte {
	var out [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				out = append(out, data[start:i])
			}
			start = i + 1
		}
	}
	if start < len(data) {
		out = append(out, data[start:])
	}
	return out
}
