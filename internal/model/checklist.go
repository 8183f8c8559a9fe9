package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority      = errors.New("model: invalid priority")
	ErrInvalidChecklistType = errors.New("model: invalid checklist type")
)

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type ChecklistType string

const (
	ChecklistTypeMarkdown ChecklistType = "markdown"
	ChecklistTypeQuick    ChecklistType = "quick"
)

func (t ChecklistType) IsValid() bool {
	switch t {
	case ChecklistTypeMarkdown, ChecklistTypeQuick:
		return true
	default:
		return false
	}
}

// TodoItem is a single checklist entry. Children form a tree owned by the
// parent; a parent's Completed flag is independent of its children.
type TodoItem struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Completed    bool       `json:"completed"`
	Level        int        `json:"level"`
	Children     []TodoItem `json:"children,omitempty"`
	TimeEstimate int        `json:"time_estimate,omitempty"` // minutes, 0 = unset
	Priority     Priority   `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Recurring    bool       `json:"recurring,omitempty"`
}

// TodoSection groups items under a heading. CompletedCount and TotalCount
// are running totals covering nested children; they are maintained
// incrementally by the parser and mutation functions, never recomputed on
// read.
type TodoSection struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Emoji             string     `json:"emoji,omitempty"`
	Description       string     `json:"description,omitempty"`
	Items             []TodoItem `json:"items"`
	CompletedCount    int        `json:"completed_count"`
	TotalCount        int        `json:"total_count"`
	TotalTimeEstimate int        `json:"total_time_estimate,omitempty"`
}

// ParsedChecklist is the output of the markdown parser.
type ParsedChecklist struct {
	Title          string        `json:"title"`
	Emoji          string        `json:"emoji,omitempty"`
	Sections       []TodoSection `json:"sections"`
	TotalCompleted int           `json:"total_completed"`
	TotalItems     int           `json:"total_items"`
}

// Checklist is the persisted entity owned by the store.
type Checklist struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Emoji          string        `json:"emoji,omitempty"`
	Type           ChecklistType `json:"type"`
	Sections       []TodoSection `json:"sections"`
	TotalCompleted int           `json:"total_completed"`
	TotalItems     int           `json:"total_items"`
	Markdown       string        `json:"markdown,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (c Checklist) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: checklist id is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("model: checklist title is required")
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidChecklistType, c.Type)
	}
	if c.CreatedAt.IsZero() {
		return errors.New("model: checklist created_at is required")
	}
	if c.TotalCompleted < 0 || c.TotalItems < 0 || c.TotalCompleted > c.TotalItems {
		return fmt.Errorf("model: checklist totals out of range: %d/%d", c.TotalCompleted, c.TotalItems)
	}
	for _, s := range c.Sections {
		if s.CompletedCount < 0 || s.TotalCount < 0 || s.CompletedCount > s.TotalCount {
			return fmt.Errorf("model: section %q counts out of range: %d/%d", s.Title, s.CompletedCount, s.TotalCount)
		}
	}
	return nil
}
