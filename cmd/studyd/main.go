package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palomera/studyd/internal/checklist"
	"github.com/palomera/studyd/internal/config"
	"github.com/palomera/studyd/internal/logging"
	"github.com/palomera/studyd/internal/session"
	"github.com/palomera/studyd/internal/storage"
	"github.com/palomera/studyd/internal/syncq"
	"github.com/palomera/studyd/internal/timer"
	"github.com/palomera/studyd/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "studyd failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	logEnabled := flag.Bool("log", false, "enable JSON file logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, closeLog := logging.New(cfg.Log.Enabled || *logEnabled, cfg.Log.Path)
	defer func() { _ = closeLog() }()

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = repo.Close() }()

	ctx := context.Background()
	store := checklist.NewStore(ctx, repo, logger)
	lock := session.NewLock()

	pom := timer.NewPomodoro(timer.Config{
		WorkDuration:           time.Duration(cfg.Timer.WorkMinutes) * time.Minute,
		ShortBreakDuration:     time.Duration(cfg.Timer.ShortBreakMinutes) * time.Minute,
		LongBreakDuration:      time.Duration(cfg.Timer.LongBreakMinutes) * time.Minute,
		SessionsUntilLongBreak: cfg.Timer.SessionsUntilLongBreak,
	})
	restoreTimer(ctx, repo, pom, logger)

	engine := timer.NewEngine(pom, lock, 8)
	engine.Start()
	defer engine.Stop()

	var queue *syncq.Queue
	if cfg.Sync.Enabled && cfg.Sync.Endpoint != "" {
		queue = syncq.NewQueue(syncq.NewHTTPClient(cfg.Sync.Endpoint), logger)
		queue.Start()
		defer queue.Stop()
		store.SetMirror(queue)
	}

	m := update.NewModel(update.Deps{
		Store:     store,
		Lock:      lock,
		Engine:    engine,
		Stopwatch: &timer.Stopwatch{},
		Repo:      repo,
		Cfg:       cfg,
		Queue:     queue,
		Logger:    logger,
	})

	program := tea.NewProgram(m)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// restoreTimer resumes a persisted countdown. A running work session
// survives restarts with its end timestamp intact.
func restoreTimer(ctx context.Context, repo storage.Repository, pom *timer.Pomodoro, logger *slog.Logger) {
	raw, err := repo.GetSetting(ctx, storage.SettingTimerSnapshot)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("timer snapshot load failed", "error", err)
		}
		return
	}
	var snap timer.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		logger.Warn("timer snapshot corrupt, starting fresh", "error", err)
		return
	}
	pom.Restore(snap, time.Now())
}
