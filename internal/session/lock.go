// Package session enforces the execution lock: at most one task is being
// timed at any moment, and timer starts travel through a single-slot
// command queue consumed by the timer engine.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/palomera/studyd/internal/model"
)

// TaskCompleter marks a checklist item completed. Satisfied by
// checklist.Store.
type TaskCompleter interface {
	CompleteTask(ctx context.Context, checklistID, sectionID, itemID string) error
}

// Lock holds the ActiveTask and the PendingStart slot. The mutex exists
// because the timer engine polls the slot from its own goroutine; all
// other access is from the UI loop.
type Lock struct {
	mu      sync.Mutex
	active  *model.ActiveTask
	pending *model.PendingStart

	now func() time.Time
}

func NewLock() *Lock {
	return &Lock{now: time.Now}
}

// LockTask replaces any existing active task. Last writer wins; callers
// that care about the previous task must complete or unlock it first.
func (l *Lock) LockTask(task model.ActiveTask) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if task.StartedAt.IsZero() {
		task.StartedAt = l.now()
	}
	l.active = &task
}

// UnlockTask clears the active task without completing anything.
func (l *Lock) UnlockTask() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = nil
}

// IsTaskLocked is true exactly when an active task exists.
func (l *Lock) IsTaskLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active != nil
}

func (l *Lock) ActiveTask() (model.ActiveTask, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil {
		return model.ActiveTask{}, false
	}
	return *l.active, true
}

// CompleteActiveTask applies the completion mutation for the locked task,
// then clears the lock. The mutation uses a snapshot captured before the
// clear, so the back-reference cannot be lost mid-way. Tasks without a
// checklist back-reference just release the lock.
func (l *Lock) CompleteActiveTask(ctx context.Context, completer TaskCompleter) error {
	l.mu.Lock()
	if l.active == nil {
		l.mu.Unlock()
		return nil
	}
	snapshot := *l.active
	l.mu.Unlock()

	var err error
	if snapshot.ChecklistID != "" && snapshot.TaskID != "" && completer != nil {
		err = completer.CompleteTask(ctx, snapshot.ChecklistID, snapshot.SectionID, snapshot.TaskID)
	}

	l.mu.Lock()
	l.active = nil
	l.mu.Unlock()
	return err
}

// StartPomodoro queues a work-session start. The slot holds at most one
// command; an unconsumed older command is simply replaced.
func (l *Lock) StartPomodoro(durationMinutes int, source model.StartSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = &model.PendingStart{
		DurationSeconds: durationMinutes * 60,
		Source:          source,
		Timestamp:       l.now(),
	}
}

// Pending exposes the slot without draining it; the slot is
// level-triggered and consumers deduplicate by timestamp.
func (l *Lock) Pending() (model.PendingStart, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == nil {
		return model.PendingStart{}, false
	}
	return *l.pending, true
}

func (l *Lock) ClearPending() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = nil
}
