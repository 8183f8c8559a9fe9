package timer

import (
	"testing"
	"time"

	"github.com/palomera/studyd/internal/model"
)

func testConfig() Config {
	return Config{
		WorkDuration:           25 * time.Minute,
		ShortBreakDuration:     5 * time.Minute,
		LongBreakDuration:      15 * time.Minute,
		SessionsUntilLongBreak: 4,
	}
}

func TestPomodoroInitialState(t *testing.T) {
	p := NewPomodoro(testConfig())
	if p.Mode() != ModeWork || p.Running() {
		t.Fatalf("expected paused work mode, got %s running=%v", p.Mode(), p.Running())
	}
	if p.TimeLeft() != 25*60 {
		t.Fatalf("unexpected timeLeft: %d", p.TimeLeft())
	}
}

func TestPomodoroDriftFreeCountdown(t *testing.T) {
	p := NewPomodoro(testConfig())
	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	p.Start(start)

	// Arbitrary, non-tick-aligned advances must always yield
	// ceil((targetEnd-now)/1s), never a negative value.
	offsets := []time.Duration{
		1500 * time.Millisecond,
		17*time.Second + 300*time.Millisecond,
		5 * time.Minute,
		24*time.Minute + 59*time.Second + 999*time.Millisecond,
	}
	for _, off := range offsets {
		now := start.Add(off)
		p.Tick(now)
		left := 25*time.Minute - off
		want := int((left + time.Second - 1) / time.Second)
		if p.TimeLeft() != want {
			t.Fatalf("offset %v: timeLeft=%d want %d", off, p.TimeLeft(), want)
		}
		if p.TimeLeft() < 0 {
			t.Fatalf("offset %v: negative timeLeft", off)
		}
	}
}

func TestPomodoroMissedTicksSelfCorrect(t *testing.T) {
	p := NewPomodoro(testConfig())
	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	p.Start(start)

	// Simulate a long suspension: one tick lands well past several missed
	// intervals and the countdown is still exact.
	p.Tick(start.Add(10 * time.Minute))
	if p.TimeLeft() != 15*60 {
		t.Fatalf("expected 15m left after suspension, got %ds", p.TimeLeft())
	}
}

func TestPomodoroWorkToShortBreak(t *testing.T) {
	p := NewPomodoro(testConfig())
	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	p.Start(start)

	ev := p.Tick(start.Add(25 * time.Minute))
	if ev == nil {
		t.Fatal("expected a phase event at zero")
	}
	if ev.From != ModeWork || ev.To != ModeShortBreak {
		t.Fatalf("unexpected transition: %s -> %s", ev.From, ev.To)
	}
	if ev.SessionsCompleted != 1 || p.SessionsCompleted() != 1 {
		t.Fatalf("unexpected session count: %d", ev.SessionsCompleted)
	}
	if !p.Running() || p.TimeLeft() != 5*60 {
		t.Fatalf("break must start running at full duration, got %d running=%v", p.TimeLeft(), p.Running())
	}
}

func TestPomodoroLongBreakEveryNthSession(t *testing.T) {
	p := NewPomodoro(testConfig())
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	p.Start(now)

	var transitions []Mode
	for i := 0; i < 8; i++ {
		now = now.Add(time.Duration(p.TimeLeft()) * time.Second)
		ev := p.Tick(now)
		if ev == nil {
			t.Fatalf("step %d: expected phase event", i)
		}
		transitions = append(transitions, ev.To)
	}

	want := []Mode{
		ModeShortBreak, ModeWork,
		ModeShortBreak, ModeWork,
		ModeShortBreak, ModeWork,
		ModeLongBreak, ModeWork,
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transition %d: got %s want %s (%v)", i, transitions[i], want[i], transitions)
		}
	}
}

func TestPomodoroTickReachesExactlyZeroOnce(t *testing.T) {
	p := NewPomodoro(testConfig())
	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	p.Start(start)

	// One millisecond before the end there is still a displayed second.
	p.Tick(start.Add(25*time.Minute - time.Millisecond))
	if p.TimeLeft() != 1 {
		t.Fatalf("expected 1s left, got %d", p.TimeLeft())
	}
	if ev := p.Tick(start.Add(25 * time.Minute)); ev == nil {
		t.Fatal("expected transition exactly at targetEnd")
	}
}

func TestPomodoroPausePreservesProgress(t *testing.T) {
	p := NewPomodoro(testConfig())
	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	p.Start(start)

	p.Pause(start.Add(10 * time.Minute))
	if p.Running() {
		t.Fatal("expected paused")
	}
	if p.TimeLeft() != 15*60 {
		t.Fatalf("pause lost progress: %d", p.TimeLeft())
	}

	// Ticks while paused change nothing.
	p.Tick(start.Add(2 * time.Hour))
	if p.TimeLeft() != 15*60 {
		t.Fatalf("tick while paused moved the clock: %d", p.TimeLeft())
	}

	resume := start.Add(3 * time.Hour)
	p.Start(resume)
	p.Tick(resume.Add(5 * time.Minute))
	if p.TimeLeft() != 10*60 {
		t.Fatalf("resume misplaced targetEnd: %d", p.TimeLeft())
	}
}

func TestPomodoroSkipDoesNotCreditSession(t *testing.T) {
	p := NewPomodoro(testConfig())
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	p.Start(now)

	p.Skip(now)
	if p.Mode() != ModeShortBreak {
		t.Fatalf("expected short break after skip, got %s", p.Mode())
	}
	if p.SessionsCompleted() != 0 {
		t.Fatalf("skip must not credit a session, got %d", p.SessionsCompleted())
	}
	if p.Running() {
		t.Fatal("skipped-into mode starts paused")
	}

	p.Skip(now)
	if p.Mode() != ModeWork {
		t.Fatalf("expected work after skipping break, got %s", p.Mode())
	}
}

func TestPomodoroReset(t *testing.T) {
	p := NewPomodoro(testConfig())
	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	p.Start(start)
	p.Tick(start.Add(10 * time.Minute))

	p.Reset()
	if p.TimeLeft() != 25*60 || p.Running() {
		t.Fatalf("reset must restore the mode duration paused, got %d running=%v", p.TimeLeft(), p.Running())
	}
	if p.Mode() != ModeWork {
		t.Fatalf("reset must keep the mode, got %s", p.Mode())
	}
}

func TestConsumePendingStrictTimestampOrder(t *testing.T) {
	p := NewPomodoro(testConfig())
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)

	cmd := model.PendingStart{DurationSeconds: 1500, Source: model.StartSourceTask, Timestamp: now}
	if !p.ConsumePending(cmd, now) {
		t.Fatal("fresh command must be consumed")
	}
	if !p.Running() || p.Mode() != ModeWork || p.TimeLeft() != 1500 {
		t.Fatalf("unexpected state after consume: %s %d", p.Mode(), p.TimeLeft())
	}

	// Let some time pass, then observe the same command again: the
	// level-triggered slot must not re-trigger a reset.
	p.Tick(now.Add(90 * time.Second))
	if p.ConsumePending(cmd, now.Add(90*time.Second)) {
		t.Fatal("same-timestamp command must be ignored")
	}
	if p.TimeLeft() != 1500-90 {
		t.Fatalf("repeat consume reset the countdown: %d", p.TimeLeft())
	}

	older := model.PendingStart{DurationSeconds: 300, Source: model.StartSourceManual, Timestamp: now.Add(-time.Minute)}
	if p.ConsumePending(older, now.Add(91*time.Second)) {
		t.Fatal("older command must be ignored")
	}

	newer := model.PendingStart{DurationSeconds: 600, Source: model.StartSourceMoreTime, Timestamp: now.Add(2 * time.Minute)}
	if !p.ConsumePending(newer, now.Add(2*time.Minute)) {
		t.Fatal("strictly newer command must be consumed")
	}
	if p.TimeLeft() != 600 {
		t.Fatalf("unexpected timeLeft after newer command: %d", p.TimeLeft())
	}
}

func TestSnapshotRestoreResumesCountdown(t *testing.T) {
	p := NewPomodoro(testConfig())
	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	p.Start(start)
	p.Tick(start.Add(5 * time.Minute))

	snap := p.Snapshot()

	restored := NewPomodoro(testConfig())
	// Restart happens three minutes later; the countdown keeps absolute
	// time, so those minutes are gone from the budget.
	restored.Restore(snap, start.Add(8*time.Minute))
	if restored.TimeLeft() != 17*60 {
		t.Fatalf("expected 17m left after restore, got %ds", restored.TimeLeft())
	}
	if restored.Mode() != ModeWork || !restored.Running() {
		t.Fatalf("restore lost machine state: %s running=%v", restored.Mode(), restored.Running())
	}
}

func TestRestoreEmptySnapshotIsNoOp(t *testing.T) {
	p := NewPomodoro(testConfig())
	p.Restore(Snapshot{}, time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC))
	if p.Mode() != ModeWork || p.TimeLeft() != 25*60 {
		t.Fatalf("empty snapshot must not disturb defaults: %s %d", p.Mode(), p.TimeLeft())
	}
}
