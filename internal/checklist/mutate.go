// Package checklist holds the pure section-tree mutation functions and the
// store that owns persisted checklists and the active-checklist pointer.
package checklist

import "github.com/palomera/studyd/internal/model"

// UpdateItemCompletion returns a new section slice with the item's
// completed flag set. Every section and item along the touched path is a
// fresh value, so callers can rely on reference-identity change detection.
// The section counter moves by exactly one only when the flag actually
// changes. Unknown section or item ids return the input shape unchanged.
func UpdateItemCompletion(sections []model.TodoSection, sectionID, itemID string, completed bool) []model.TodoSection {
	out := make([]model.TodoSection, len(sections))
	copy(out, sections)

	for i, section := range out {
		if section.ID != sectionID {
			continue
		}
		items, delta, found := setItemCompleted(section.Items, itemID, completed)
		if !found {
			break
		}
		section.Items = items
		section.CompletedCount += delta
		out[i] = section
		break
	}
	return out
}

// setItemCompleted searches items and their descendants for itemID and
// returns a copied slice with the flag applied. Children are not cascaded:
// only the matched item changes.
func setItemCompleted(items []model.TodoItem, itemID string, completed bool) ([]model.TodoItem, int, bool) {
	out := make([]model.TodoItem, len(items))
	copy(out, items)

	for i, item := range out {
		if item.ID == itemID {
			delta := 0
			if item.Completed != completed {
				if completed {
					delta = 1
				} else {
					delta = -1
				}
			}
			item.Completed = completed
			out[i] = item
			return out, delta, true
		}
		if len(item.Children) == 0 {
			continue
		}
		children, delta, found := setItemCompleted(item.Children, itemID, completed)
		if found {
			item.Children = children
			out[i] = item
			return out, delta, true
		}
	}
	return items, 0, false
}

// ToggleAllInSection sets every item and nested descendant in the section
// to completed, fixing the counter to TotalCount or zero.
func ToggleAllInSection(sections []model.TodoSection, sectionID string, completed bool) []model.TodoSection {
	out := make([]model.TodoSection, len(sections))
	copy(out, sections)

	for i, section := range out {
		if section.ID != sectionID {
			continue
		}
		section.Items = setAllCompleted(section.Items, completed)
		if completed {
			section.CompletedCount = section.TotalCount
		} else {
			section.CompletedCount = 0
		}
		out[i] = section
		break
	}
	return out
}

func setAllCompleted(items []model.TodoItem, completed bool) []model.TodoItem {
	out := make([]model.TodoItem, len(items))
	copy(out, items)
	for i, item := range out {
		item.Completed = completed
		if len(item.Children) > 0 {
			item.Children = setAllCompleted(item.Children, completed)
		}
		out[i] = item
	}
	return out
}

// RecalculateTotals sums the per-section counters. Counters corrupted in
// persisted state (negative values) fall back to zero, or to the number of
// top-level items for the total.
func RecalculateTotals(sections []model.TodoSection) (completed, total int) {
	for _, section := range sections {
		c := section.CompletedCount
		if c < 0 {
			c = 0
		}
		n := section.TotalCount
		if n < 0 {
			n = len(section.Items)
		}
		completed += c
		total += n
	}
	return completed, total
}
