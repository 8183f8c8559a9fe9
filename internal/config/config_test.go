package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Timer.WorkMinutes != 25 || cfg.Timer.ShortBreakMinutes != 5 || cfg.Timer.LongBreakMinutes != 15 {
		t.Fatalf("unexpected default timer config: %+v", cfg.Timer)
	}
	if cfg.Timer.SessionsUntilLongBreak != 4 {
		t.Fatalf("SessionsUntilLongBreak = %d, want 4", cfg.Timer.SessionsUntilLongBreak)
	}
	if cfg.Sync.Enabled {
		t.Fatal("sync should be disabled by default")
	}
}

func TestLoadReadsValuesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("database_path: /tmp/custom.db\ntimer:\n  work_minutes: 50\nsync:\n  enabled: true\n  endpoint: https://sync.example.com\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DatabasePath != "/tmp/custom.db" {
		t.Fatalf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.Timer.WorkMinutes != 50 {
		t.Fatalf("WorkMinutes = %d, want 50", cfg.Timer.WorkMinutes)
	}
	if cfg.Timer.ShortBreakMinutes != 5 {
		t.Fatalf("ShortBreakMinutes = %d, want default 5", cfg.Timer.ShortBreakMinutes)
	}
	if !cfg.Sync.Enabled || cfg.Sync.Endpoint != "https://sync.example.com" {
		t.Fatalf("unexpected sync config: %+v", cfg.Sync)
	}
}

func TestLoadClampsInvalidTimerValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("timer:\n  work_minutes: -10\n  sessions_until_long_break: 0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Timer.WorkMinutes != 25 {
		t.Fatalf("WorkMinutes = %d, want clamped 25", cfg.Timer.WorkMinutes)
	}
	if cfg.Timer.SessionsUntilLongBreak != 4 {
		t.Fatalf("SessionsUntilLongBreak = %d, want clamped 4", cfg.Timer.SessionsUntilLongBreak)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &AppConfig{
		DatabasePath: "/data/studyd.db",
		Timer: TimerConfig{
			WorkMinutes:            45,
			ShortBreakMinutes:      10,
			LongBreakMinutes:       20,
			SessionsUntilLongBreak: 3,
		},
		Sync: SyncConfig{Enabled: true, Endpoint: "https://sync.example.com"},
		Log:  LogConfig{Enabled: true, Path: "/data/studyd.log"},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got.DatabasePath != want.DatabasePath {
		t.Fatalf("DatabasePath = %q, want %q", got.DatabasePath, want.DatabasePath)
	}
	if got.Timer != want.Timer {
		t.Fatalf("Timer = %+v, want %+v", got.Timer, want.Timer)
	}
	if got.Sync != want.Sync {
		t.Fatalf("Sync = %+v, want %+v", got.Sync, want.Sync)
	}
	if got.Log != want.Log {
		t.Fatalf("Log = %+v, want %+v", got.Log, want.Log)
	}
}
