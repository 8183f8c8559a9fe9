package update

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palomera/studyd/internal/checklist"
	"github.com/palomera/studyd/internal/config"
	"github.com/palomera/studyd/internal/model"
	"github.com/palomera/studyd/internal/session"
	"github.com/palomera/studyd/internal/storage"
	"github.com/palomera/studyd/internal/timer"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "studyd.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := checklist.NewStore(context.Background(), repo, logger)
	lock := session.NewLock()
	cfg := &config.AppConfig{
		Timer: config.TimerConfig{
			WorkMinutes:            25,
			ShortBreakMinutes:      5,
			LongBreakMinutes:       15,
			SessionsUntilLongBreak: 4,
		},
	}
	m := NewModel(Deps{
		Store:     store,
		Lock:      lock,
		Stopwatch: &timer.Stopwatch{},
		Repo:      repo,
		Cfg:       cfg,
		Logger:    logger,
	})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func updateModel(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	typed, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return typed
}

func runPalette(t *testing.T, m Model, command string) Model {
	t.Helper()
	m = updateModel(t, m, keyMsg("/"))
	if !m.Palette.Active {
		t.Fatal("palette should be active")
	}
	m.commandInput.SetValue(command)
	return updateModel(t, m, keyMsg("enter"))
}

func TestViewSwitchingKeys(t *testing.T) {
	m := newTestModel(t)
	cases := []struct {
		key  string
		want View
	}{
		{"2", ViewTimer},
		{"3", ViewStopwatch},
		{"4", ViewFocus},
		{"1", ViewChecklists},
	}
	for _, tc := range cases {
		m = updateModel(t, m, keyMsg(tc.key))
		if m.CurrentView != tc.want {
			t.Fatalf("key %q: view = %s, want %s", tc.key, m.CurrentView, tc.want)
		}
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m := newTestModel(t)
	m = updateModel(t, m, keyMsg("/"))
	m = updateModel(t, m, keyMsg("esc"))
	if m.Palette.Active {
		t.Fatal("palette should be closed")
	}
}

func TestPaletteAddCreatesChecklistWhenEmpty(t *testing.T) {
	m := newTestModel(t)
	m = runPalette(t, m, "add review chapter 3 (~30m)")

	if m.Status.IsError {
		t.Fatalf("unexpected error status: %s", m.Status.Text)
	}
	cl, ok := m.Store.Active()
	if !ok {
		t.Fatal("expected an active checklist")
	}
	if cl.TotalItems != 1 {
		t.Fatalf("TotalItems = %d, want 1", cl.TotalItems)
	}
	item := cl.Sections[0].Items[0]
	if item.Text != "review chapter 3" {
		t.Fatalf("item text = %q", item.Text)
	}
	if item.TimeEstimate != 30 {
		t.Fatalf("item estimate = %d, want 30", item.TimeEstimate)
	}
}

func TestPaletteImport(t *testing.T) {
	m := newTestModel(t)
	path := filepath.Join(t.TempDir(), "course.md")
	src := "# \U0001F4DA Deep Learning\n## Week 1\n- [ ] Watch lectures (~2h)\n- [x] Set up environment\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	m = runPalette(t, m, "import "+path)

	if m.Status.IsError {
		t.Fatalf("unexpected error status: %s", m.Status.Text)
	}
	cl, ok := m.Store.Active()
	if !ok {
		t.Fatal("expected an active checklist")
	}
	if cl.Title != "Deep Learning" {
		t.Fatalf("title = %q", cl.Title)
	}
	if cl.TotalItems != 2 || cl.TotalCompleted != 1 {
		t.Fatalf("totals = %d/%d, want 1/2", cl.TotalCompleted, cl.TotalItems)
	}
	if m.CurrentView != ViewChecklists {
		t.Fatalf("view = %s, want Checklists", m.CurrentView)
	}
}

func TestPaletteStartQueuesPomodoro(t *testing.T) {
	m := newTestModel(t)
	m = runPalette(t, m, "start 50")

	if m.CurrentView != ViewTimer {
		t.Fatalf("view = %s, want Timer", m.CurrentView)
	}
	pending, ok := m.Lock.Pending()
	if !ok {
		t.Fatal("expected a pending start")
	}
	if pending.DurationSeconds != 50*60 {
		t.Fatalf("pending duration = %d, want 3000", pending.DurationSeconds)
	}
	if pending.Source != model.StartSourceManual {
		t.Fatalf("pending source = %s", pending.Source)
	}
}

func TestPaletteShowMarkdownTogglesRawPreview(t *testing.T) {
	m := newTestModel(t)
	m = runPalette(t, m, "add review lecture notes")

	m = runPalette(t, m, "show markdown")
	if !m.rawPreview {
		t.Fatal("expected raw preview after /show markdown")
	}
	if m.CurrentView != ViewChecklists {
		t.Fatalf("view = %s, want Checklists", m.CurrentView)
	}

	m = runPalette(t, m, "show markdown")
	if m.rawPreview {
		t.Fatal("expected rendered preview after second /show markdown")
	}
}

func TestPaletteUnknownCommandSetsErrorStatus(t *testing.T) {
	m := newTestModel(t)
	m = runPalette(t, m, "frobnicate everything")
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %q", m.Status.Text)
	}
	if m.Palette.Active {
		t.Fatal("palette should close after a failed command")
	}
}

func TestChecklistToggleKey(t *testing.T) {
	m := newTestModel(t)
	m = runPalette(t, m, "add write flashcards")
	m = updateModel(t, m, keyMsg("1"))

	m = updateModel(t, m, keyMsg(" "))

	cl, _ := m.Store.Active()
	if cl.TotalCompleted != 1 {
		t.Fatalf("TotalCompleted = %d, want 1", cl.TotalCompleted)
	}

	m = updateModel(t, m, keyMsg(" "))
	cl, _ = m.Store.Active()
	if cl.TotalCompleted != 0 {
		t.Fatalf("TotalCompleted after second toggle = %d, want 0", cl.TotalCompleted)
	}
}

func TestFocusLockAndComplete(t *testing.T) {
	m := newTestModel(t)
	m = runPalette(t, m, "add read survey paper")
	cl, _ := m.Store.Active()
	if _, err := m.Store.CreateGoal(context.Background(), "Reading", model.CadenceDaily, model.GoalModeCheck, 1, cl.ID, nil); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	m = updateModel(t, m, keyMsg("4"))
	if m.Focus == nil || m.Focus.NextTask == nil {
		t.Fatal("expected a focus suggestion")
	}

	m = updateModel(t, m, keyMsg("enter"))
	if !m.Lock.IsTaskLocked() {
		t.Fatal("task should be locked")
	}
	task, _ := m.Lock.ActiveTask()
	if task.TaskText != "read survey paper" {
		t.Fatalf("locked task = %q", task.TaskText)
	}

	m = updateModel(t, m, keyMsg("c"))
	if m.Lock.IsTaskLocked() {
		t.Fatal("lock should be released after completion")
	}
	cl, _ = m.Store.Active()
	if cl.TotalCompleted != 1 {
		t.Fatalf("TotalCompleted = %d, want 1", cl.TotalCompleted)
	}
	if m.Focus != nil {
		t.Fatalf("focus should be empty once the goal is met, got %q", m.Focus.Goal.Title)
	}
}

func TestStopwatchKeys(t *testing.T) {
	m := newTestModel(t)
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	current := base
	m.now = func() time.Time { return current }

	m = updateModel(t, m, keyMsg("3"))
	m = updateModel(t, m, keyMsg(" "))
	if !m.Stopwatch.Running() {
		t.Fatal("stopwatch should be running")
	}

	current = base.Add(90 * time.Second)
	m = updateModel(t, m, keyMsg("l"))
	laps := m.Stopwatch.Laps()
	if len(laps) != 1 || laps[0].Total != 90*time.Second {
		t.Fatalf("unexpected laps: %+v", laps)
	}

	m = updateModel(t, m, keyMsg("r"))
	if m.Stopwatch.Running() || m.Stopwatch.Elapsed(current) != 0 {
		t.Fatal("reset should zero the stopwatch")
	}
}

func TestViewRendersWithoutData(t *testing.T) {
	m := newTestModel(t)
	for _, v := range []View{ViewChecklists, ViewTimer, ViewStopwatch, ViewFocus} {
		m.CurrentView = v
		out := m.View()
		if strings.TrimSpace(out) == "" {
			t.Fatalf("empty view output for %s", v)
		}
	}
}

func TestPhaseEventUpdatesStatus(t *testing.T) {
	m := newTestModel(t)
	m.onPhaseEvent(timer.PhaseEvent{
		From:              timer.ModeWork,
		To:                timer.ModeShortBreak,
		SessionsCompleted: 1,
		At:                time.Date(2026, time.March, 1, 9, 25, 0, 0, time.UTC),
	})
	if !strings.Contains(m.Status.Text, "work session done") {
		t.Fatalf("status = %q", m.Status.Text)
	}
	if m.lastPhase == nil || m.lastPhase.To != timer.ModeShortBreak {
		t.Fatalf("lastPhase = %+v", m.lastPhase)
	}
}
