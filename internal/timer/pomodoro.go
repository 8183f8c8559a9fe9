// Package timer implements the Pomodoro and stopwatch state machines.
// Both compute elapsed and remaining time from absolute timestamps on
// every tick instead of decrementing counters, so a process suspended
// between ticks self-corrects on the next one.
package timer

import (
	"time"

	"github.com/palomera/studyd/internal/model"
)

type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

type Config struct {
	WorkDuration           time.Duration
	ShortBreakDuration     time.Duration
	LongBreakDuration      time.Duration
	SessionsUntilLongBreak int
}

func DefaultConfig() Config {
	return Config{
		WorkDuration:           25 * time.Minute,
		ShortBreakDuration:     5 * time.Minute,
		LongBreakDuration:      15 * time.Minute,
		SessionsUntilLongBreak: 4,
	}
}

func (c Config) duration(mode Mode) time.Duration {
	switch mode {
	case ModeShortBreak:
		return c.ShortBreakDuration
	case ModeLongBreak:
		return c.LongBreakDuration
	default:
		return c.WorkDuration
	}
}

// PhaseEvent is raised when a running phase counts down to zero.
type PhaseEvent struct {
	From              Mode
	To                Mode
	SessionsCompleted int
	At                time.Time
}

// Pomodoro is the countdown state machine. All methods take an explicit
// now so ticks are deterministic under test and drift-free in production:
// the remaining time is always recomputed from targetEnd, never counted
// down.
type Pomodoro struct {
	cfg Config

	mode              Mode
	running           bool
	timeLeft          int // seconds
	targetEnd         time.Time
	sessionsCompleted int

	// Timestamp of the last PendingStart processed. Commands are
	// level-triggered and may be observed repeatedly; only a strictly
	// newer timestamp is acted on.
	lastCommandAt time.Time
}

func NewPomodoro(cfg Config) *Pomodoro {
	if cfg.SessionsUntilLongBreak <= 0 {
		cfg.SessionsUntilLongBreak = DefaultConfig().SessionsUntilLongBreak
	}
	return &Pomodoro{
		cfg:      cfg,
		mode:     ModeWork,
		timeLeft: int(cfg.WorkDuration / time.Second),
	}
}

func (p *Pomodoro) Mode() Mode             { return p.mode }
func (p *Pomodoro) Running() bool          { return p.running }
func (p *Pomodoro) TimeLeft() int          { return p.timeLeft }
func (p *Pomodoro) SessionsCompleted() int { return p.sessionsCompleted }

// Start begins counting down the current mode from the current timeLeft.
func (p *Pomodoro) Start(now time.Time) {
	if p.running {
		return
	}
	if p.timeLeft <= 0 {
		p.timeLeft = int(p.cfg.duration(p.mode) / time.Second)
	}
	p.targetEnd = now.Add(time.Duration(p.timeLeft) * time.Second)
	p.running = true
}

// Pause folds the remaining time into timeLeft and stops the countdown.
// Progress is preserved; there is no cancel.
func (p *Pomodoro) Pause(now time.Time) {
	if !p.running {
		return
	}
	p.timeLeft = remainingSeconds(p.targetEnd, now)
	p.running = false
}

// Tick recomputes the remaining time from the stored end timestamp. A
// missed tick (process suspended) is corrected here rather than smoothed.
// When the countdown reaches zero the machine advances to the next mode
// and the transition is returned.
func (p *Pomodoro) Tick(now time.Time) *PhaseEvent {
	if !p.running {
		return nil
	}
	p.timeLeft = remainingSeconds(p.targetEnd, now)
	if p.timeLeft > 0 {
		return nil
	}
	return p.advance(now)
}

func (p *Pomodoro) advance(now time.Time) *PhaseEvent {
	from := p.mode
	if p.mode == ModeWork {
		p.sessionsCompleted++
		p.mode = p.breakMode(p.sessionsCompleted)
	} else {
		p.mode = ModeWork
	}
	p.timeLeft = int(p.cfg.duration(p.mode) / time.Second)
	p.targetEnd = now.Add(time.Duration(p.timeLeft) * time.Second)
	return &PhaseEvent{From: from, To: p.mode, SessionsCompleted: p.sessionsCompleted, At: now}
}

func (p *Pomodoro) breakMode(sessions int) Mode {
	if sessions%p.cfg.SessionsUntilLongBreak == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

// Skip moves to the mode a timeout would pick, without crediting a
// completed session. The new mode starts paused at its full duration.
func (p *Pomodoro) Skip(now time.Time) {
	if p.mode == ModeWork {
		p.mode = p.breakMode(p.sessionsCompleted + 1)
	} else {
		p.mode = ModeWork
	}
	p.timeLeft = int(p.cfg.duration(p.mode) / time.Second)
	p.running = false
}

// Reset restores the current mode's configured duration and pauses.
func (p *Pomodoro) Reset() {
	p.timeLeft = int(p.cfg.duration(p.mode) / time.Second)
	p.running = false
}

// ConsumePending applies a start command unless its timestamp has already
// been processed. Consumption resets the machine into a running work
// session of the commanded length.
func (p *Pomodoro) ConsumePending(cmd model.PendingStart, now time.Time) bool {
	if !cmd.Timestamp.After(p.lastCommandAt) {
		return false
	}
	p.lastCommandAt = cmd.Timestamp
	p.mode = ModeWork
	p.timeLeft = cmd.DurationSeconds
	p.targetEnd = now.Add(time.Duration(cmd.DurationSeconds) * time.Second)
	p.running = true
	return true
}

func remainingSeconds(targetEnd, now time.Time) int {
	left := targetEnd.Sub(now)
	if left <= 0 {
		return 0
	}
	// Ceiling, so a display never shows 0 while time actually remains.
	return int((left + time.Second - 1) / time.Second)
}

// Snapshot captures the machine for persistence across restarts. Because
// the countdown derives from TargetEnd, restoring after downtime lands on
// the exact remaining time.
type Snapshot struct {
	Mode              Mode      `json:"mode"`
	Running           bool      `json:"running"`
	TimeLeft          int       `json:"time_left"`
	TargetEnd         time.Time `json:"target_end"`
	SessionsCompleted int       `json:"sessions_completed"`
	LastCommandAt     time.Time `json:"last_command_at"`
}

func (p *Pomodoro) Snapshot() Snapshot {
	return Snapshot{
		Mode:              p.mode,
		Running:           p.running,
		TimeLeft:          p.timeLeft,
		TargetEnd:         p.targetEnd,
		SessionsCompleted: p.sessionsCompleted,
		LastCommandAt:     p.lastCommandAt,
	}
}

func (p *Pomodoro) Restore(s Snapshot, now time.Time) {
	if s.Mode == "" {
		return
	}
	p.mode = s.Mode
	p.running = s.Running
	p.timeLeft = s.TimeLeft
	p.targetEnd = s.TargetEnd
	p.sessionsCompleted = s.SessionsCompleted
	p.lastCommandAt = s.LastCommandAt
	if p.running {
		p.timeLeft = remainingSeconds(p.targetEnd, now)
	}
}
