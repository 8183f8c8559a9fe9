// Package storage persists checklists, goals and key-value settings in
// SQLite. Checklist section trees are stored as JSON blobs; corrupt blobs
// degrade to an empty body instead of failing the load.
package storage

import (
	"context"
	"errors"

	"github.com/palomera/studyd/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Settings keys owned by the application.
const (
	SettingActiveChecklist = "active_checklist_id"
	SettingTimerSnapshot   = "timer_snapshot"
)

type Repository interface {
	SaveChecklist(ctx context.Context, in model.Checklist) error
	DeleteChecklist(ctx context.Context, id string) error
	ListChecklists(ctx context.Context) ([]model.Checklist, error)

	SaveGoal(ctx context.Context, in model.Goal) error
	DeleteGoal(ctx context.Context, id string) error
	ListGoals(ctx context.Context) ([]model.Goal, error)

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}
