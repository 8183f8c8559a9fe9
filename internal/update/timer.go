package update

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palomera/studyd/internal/storage"
	"github.com/palomera/studyd/internal/timer"
	"github.com/palomera/studyd/internal/views"
)

func (m Model) handleTimerKey(msg tea.KeyMsg) Model {
	if m.Engine == nil {
		return m
	}
	now := m.now()
	switch msg.String() {
	case " ", "space":
		running := false
		m.Engine.Do(func(p *timer.Pomodoro) {
			if p.Running() {
				p.Pause(now)
			} else {
				p.Start(now)
				running = true
			}
		})
		if running {
			m.Status = StatusBar{Text: "timer running"}
		} else {
			m.Status = StatusBar{Text: "timer paused"}
		}
		m.persistTimerSnapshot(true)
	case "n":
		m.Engine.Do(func(p *timer.Pomodoro) { p.Skip(now) })
		m.Status = StatusBar{Text: "phase skipped"}
		m.persistTimerSnapshot(true)
	case "r":
		m.Engine.Do(func(p *timer.Pomodoro) { p.Reset() })
		m.Status = StatusBar{Text: "timer reset"}
		m.persistTimerSnapshot(true)
	}
	return m
}

func (m *Model) onPhaseEvent(ev timer.PhaseEvent) {
	evCopy := ev
	m.lastPhase = &evCopy
	switch ev.To {
	case timer.ModeWork:
		m.Status = StatusBar{Text: "break over, back to work"}
	case timer.ModeLongBreak:
		m.Status = StatusBar{Text: fmt.Sprintf("long break earned (%d sessions)", ev.SessionsCompleted)}
	default:
		m.Status = StatusBar{Text: fmt.Sprintf("work session done (%d total)", ev.SessionsCompleted)}
	}
	m.logger.Info("phase transition", "from", ev.From, "to", ev.To, "sessions", ev.SessionsCompleted)
	m.persistTimerSnapshot(true)
}

// persistTimerSnapshot saves the timer state to settings so a restart
// resumes mid-countdown. Unforced saves are throttled to one per 10s.
func (m *Model) persistTimerSnapshot(force bool) {
	if m.Engine == nil || m.Repo == nil {
		return
	}
	now := m.now()
	if !force && now.Sub(m.snapshotAt) < 10*time.Second {
		return
	}
	m.snapshotAt = now

	var snap timer.Snapshot
	m.Engine.Do(func(p *timer.Pomodoro) { snap = p.Snapshot() })
	payload, err := json.Marshal(snap)
	if err != nil {
		m.logger.Warn("timer snapshot marshal failed", "error", err)
		return
	}
	if err := m.Repo.SetSetting(context.Background(), storage.SettingTimerSnapshot, string(payload)); err != nil {
		m.logger.Warn("timer snapshot save failed", "error", err)
	}
}

func (m Model) renderTimerView() string {
	var (
		mode      timer.Mode
		remaining int
		running   bool
		sessions  int
	)
	if m.Engine != nil {
		m.Engine.Do(func(p *timer.Pomodoro) {
			mode = p.Mode()
			remaining = p.TimeLeft()
			running = p.Running()
			sessions = p.SessionsCompleted()
		})
	}

	total := m.modeDurationSeconds(mode)
	pct := 0.0
	if total > 0 {
		pct = float64(total-remaining) / float64(total)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	locked := ""
	if task, ok := m.Lock.ActiveTask(); ok {
		locked = task.TaskText
	}

	return views.RenderTimerPanel(views.TimerPanelData{
		Mode:              string(mode),
		Remaining:         formatClock(remaining),
		Running:           running,
		SessionsCompleted: sessions,
		ProgressView:      m.timerProgress.ViewAs(pct),
		ProgressPct:       int(pct * 100),
		LockedTask:        locked,
	})
}

func (m Model) modeDurationSeconds(mode timer.Mode) int {
	cfg := timer.DefaultConfig()
	if m.Cfg != nil {
		cfg = timer.Config{
			WorkDuration:           time.Duration(m.Cfg.Timer.WorkMinutes) * time.Minute,
			ShortBreakDuration:     time.Duration(m.Cfg.Timer.ShortBreakMinutes) * time.Minute,
			LongBreakDuration:      time.Duration(m.Cfg.Timer.LongBreakMinutes) * time.Minute,
			SessionsUntilLongBreak: m.Cfg.Timer.SessionsUntilLongBreak,
		}
	}
	switch mode {
	case timer.ModeShortBreak:
		return int(cfg.ShortBreakDuration / time.Second)
	case timer.ModeLongBreak:
		return int(cfg.LongBreakDuration / time.Second)
	default:
		return int(cfg.WorkDuration / time.Second)
	}
}
