package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCadence  = errors.New("model: invalid goal cadence")
	ErrInvalidGoalMode = errors.New("model: invalid goal mode")
)

type GoalCadence string

const (
	CadenceDaily   GoalCadence = "daily"
	CadenceWeekly  GoalCadence = "weekly"
	CadenceMonthly GoalCadence = "monthly"
	CadenceCustom  GoalCadence = "custom"
)

func (c GoalCadence) IsValid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceMonthly, CadenceCustom:
		return true
	default:
		return false
	}
}

// Rank orders cadences for daily-focus selection: daily goals come first,
// custom goals last.
func (c GoalCadence) Rank() int {
	switch c {
	case CadenceDaily:
		return 0
	case CadenceWeekly:
		return 1
	case CadenceMonthly:
		return 2
	default:
		return 3
	}
}

type GoalMode string

const (
	GoalModeCheck GoalMode = "check"
	GoalModeTime  GoalMode = "time"
)

func (m GoalMode) IsValid() bool {
	switch m {
	case GoalModeCheck, GoalModeTime:
		return true
	default:
		return false
	}
}

type Goal struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Emoji          string      `json:"emoji,omitempty"`
	Cadence        GoalCadence `json:"cadence"`
	Mode           GoalMode    `json:"mode"`
	TargetCount    int         `json:"target_count"`
	CompletedCount int         `json:"completed_count"`
	ChecklistID    string      `json:"checklist_id,omitempty"`
	Deadline       *time.Time  `json:"deadline,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return errors.New("model: goal id is required")
	}
	if strings.TrimSpace(g.Title) == "" {
		return errors.New("model: goal title is required")
	}
	if !g.Cadence.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCadence, g.Cadence)
	}
	if !g.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidGoalMode, g.Mode)
	}
	if g.TargetCount < 0 || g.CompletedCount < 0 {
		return errors.New("model: goal counts must not be negative")
	}
	if g.CreatedAt.IsZero() {
		return errors.New("model: goal created_at is required")
	}
	return nil
}
