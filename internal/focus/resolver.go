// Package focus picks the single highest-priority actionable task across
// all goals. The resolver is a pure function over goal and checklist
// snapshots.
package focus

import (
	"sort"

	"github.com/palomera/studyd/internal/model"
)

// DailyFocus is the selected goal bundled with its resolved checklist and
// the first open task in it.
type DailyFocus struct {
	Goal             model.Goal
	Checklist        *model.Checklist
	NextTask         *model.TodoItem
	ChecklistDeleted bool
}

// ComputeDailyFocus scans goals in priority order and returns the first
// one with remaining progress, or nil when nothing qualifies. A goal whose
// linked checklist has been deleted is surfaced anyway with
// ChecklistDeleted set: broken state is shown to the user, not hidden.
func ComputeDailyFocus(goals []model.Goal, checklists []model.Checklist) *DailyFocus {
	byID := make(map[string]model.Checklist, len(checklists))
	for _, cl := range checklists {
		byID[cl.ID] = cl
	}

	ordered := make([]model.Goal, len(goals))
	copy(ordered, goals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return lessGoal(ordered[i], ordered[j])
	})

	for _, goal := range ordered {
		if goal.ChecklistID != "" {
			cl, ok := byID[goal.ChecklistID]
			if !ok {
				g := goal
				return &DailyFocus{Goal: g, ChecklistDeleted: true}
			}
			if !hasRemaining(goal, &cl) {
				continue
			}
			g, c := goal, cl
			return &DailyFocus{Goal: g, Checklist: &c, NextTask: firstOpenTask(c.Sections)}
		}

		if !hasRemaining(goal, nil) {
			continue
		}
		g := goal
		return &DailyFocus{Goal: g}
	}
	return nil
}

// lessGoal orders by cadence rank, then (for custom goals) deadline, then
// creation time. Goals with a deadline sort before those without.
func lessGoal(a, b model.Goal) bool {
	if ra, rb := a.Cadence.Rank(), b.Cadence.Rank(); ra != rb {
		return ra < rb
	}
	if a.Cadence == model.CadenceCustom && b.Cadence == model.CadenceCustom {
		switch {
		case a.Deadline != nil && b.Deadline == nil:
			return true
		case a.Deadline == nil && b.Deadline != nil:
			return false
		case a.Deadline != nil && b.Deadline != nil && !a.Deadline.Equal(*b.Deadline):
			return a.Deadline.Before(*b.Deadline)
		}
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// hasRemaining reports whether the goal still has progress to make. Check
// goals compare completion against the target, preferring the linked
// checklist's totals over the goal's own counters. Time goals never reach
// a terminal state.
func hasRemaining(goal model.Goal, cl *model.Checklist) bool {
	if goal.Mode == model.GoalModeTime {
		return true
	}
	if cl != nil {
		return cl.TotalCompleted < cl.TotalItems
	}
	return goal.CompletedCount < goal.TargetCount
}

// firstOpenTask walks sections depth-first in pre-order and returns the
// first uncompleted item. A completed parent does not prune its children;
// completion never cascades.
func firstOpenTask(sections []model.TodoSection) *model.TodoItem {
	for _, section := range sections {
		if item := scanItems(section.Items); item != nil {
			return item
		}
	}
	return nil
}

func scanItems(items []model.TodoItem) *model.TodoItem {
	for i := range items {
		if !items[i].Completed {
			return &items[i]
		}
		if child := scanItems(items[i].Children); child != nil {
			return child
		}
	}
	return nil
}
