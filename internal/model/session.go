package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidStartSource = errors.New("model: invalid start source")

// StartSource records who issued a timer start command.
type StartSource string

const (
	StartSourceManual   StartSource = "manual"
	StartSourceTask     StartSource = "task"
	StartSourceMoreTime StartSource = "moreTime"
)

func (s StartSource) IsValid() bool {
	switch s {
	case StartSourceManual, StartSourceTask, StartSourceMoreTime:
		return true
	default:
		return false
	}
}

// ActiveTask is the single task currently being timed. ChecklistID, TaskID
// and SectionID are back-references for later lookup, not ownership.
type ActiveTask struct {
	GoalID         string    `json:"goal_id"`
	GoalTitle      string    `json:"goal_title"`
	GoalEmoji      string    `json:"goal_emoji,omitempty"`
	TaskText       string    `json:"task_text"`
	ChecklistID    string    `json:"checklist_id,omitempty"`
	TaskID         string    `json:"task_id,omitempty"`
	SectionID      string    `json:"section_id,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	PlannedMinutes int       `json:"planned_minutes,omitempty"`
}

func (t ActiveTask) Validate() error {
	if strings.TrimSpace(t.TaskText) == "" {
		return errors.New("model: active task text is required")
	}
	if t.StartedAt.IsZero() {
		return errors.New("model: active task started_at is required")
	}
	return nil
}

// PendingStart is a one-shot command telling the timer engine to begin a
// work session. At most one exists; consumers drain it by remembering the
// timestamp of the last command they processed.
type PendingStart struct {
	DurationSeconds int         `json:"duration_seconds"`
	Source          StartSource `json:"source"`
	Timestamp       time.Time   `json:"timestamp"`
}

func (p PendingStart) Validate() error {
	if p.DurationSeconds <= 0 {
		return errors.New("model: pending start duration must be positive")
	}
	if !p.Source.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStartSource, p.Source)
	}
	if p.Timestamp.IsZero() {
		return errors.New("model: pending start timestamp is required")
	}
	return nil
}
