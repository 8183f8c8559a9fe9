package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palomera/studyd/internal/markdown"
	"github.com/palomera/studyd/internal/model"
	"github.com/palomera/studyd/internal/views"
)

func (m Model) handleChecklistKey(msg tea.KeyMsg) Model {
	ctx := context.Background()
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.itemRefs)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "space":
		ref, ok := m.selectedItemRef()
		if !ok {
			return m
		}
		cl, ok := m.Store.Active()
		if !ok {
			return m
		}
		item, found := findItem(cl.Sections, ref.SectionID, ref.ItemID)
		if !found {
			return m
		}
		if err := m.Store.ToggleItem(ctx, cl.ID, ref.SectionID, ref.ItemID, !item.Completed); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.Status = StatusBar{Text: "toggled: " + item.Text}
	case "S":
		ref, ok := m.selectedItemRef()
		if !ok {
			return m
		}
		cl, ok := m.Store.Active()
		if !ok {
			return m
		}
		completed := !sectionFullyCompleted(cl.Sections, ref.SectionID)
		if err := m.Store.ToggleSection(ctx, cl.ID, ref.SectionID, completed); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.Status = StatusBar{Text: "section toggled"}
	case "n":
		m.cycleActive(ctx, 1)
	case "p":
		m.cycleActive(ctx, -1)
	case "d":
		cl, ok := m.Store.Active()
		if !ok {
			return m
		}
		dup, err := m.Store.DuplicateChecklist(ctx, cl.ID)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.Status = StatusBar{Text: "duplicated: " + dup.Title}
	case "x":
		cl, ok := m.Store.Active()
		if !ok {
			return m
		}
		if err := m.Store.DeleteChecklist(ctx, cl.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.Status = StatusBar{Text: "deleted: " + cl.Title}
		m.cursor = 0
	}
	m.syncBubbleData()
	return m
}

// cycleActive moves the active pointer through the checklist list in
// creation order.
func (m *Model) cycleActive(ctx context.Context, step int) {
	lists := m.Store.List()
	if len(lists) == 0 {
		return
	}
	activeID := m.Store.ActiveID()
	idx := 0
	for i, cl := range lists {
		if cl.ID == activeID {
			idx = i
			break
		}
	}
	idx = (idx + step + len(lists)) % len(lists)
	m.Store.SetActive(ctx, lists[idx].ID)
	m.cursor = 0
	m.Status = StatusBar{Text: "active: " + lists[idx].Title}
}

func (m Model) renderChecklistView() string {
	cl, ok := m.Store.Active()
	if !ok {
		return "checklists:\n(no checklists, use /import or /add)\n" + m.checklistList.View()
	}

	selectedID := ""
	if ref, ok := m.selectedItemRef(); ok {
		selectedID = ref.ItemID
	}

	sections := make([]views.ChecklistSectionData, 0, len(cl.Sections))
	for _, section := range cl.Sections {
		data := views.ChecklistSectionData{
			Title:          section.Title,
			Emoji:          section.Emoji,
			Description:    section.Description,
			CompletedCount: section.CompletedCount,
			TotalCount:     section.TotalCount,
		}
		data.Items = flattenItemData(section.Items)
		sections = append(sections, data)
	}

	return views.RenderChecklistPanel(views.ChecklistPanelData{
		Title:      cl.Title,
		Emoji:      cl.Emoji,
		Progress:   progressLabel(cl.TotalCompleted, cl.TotalItems),
		Sections:   sections,
		SelectedID: selectedID,
		ListView:   m.checklistList.View(),
	})
}

func (m Model) renderPreviewPane() string {
	return "preview:\n" + m.previewViewport.View()
}

// refreshPreview re-renders the active checklist as markdown into the
// preview viewport. Markdown imports show their stored source; quick
// checklists are exported on the fly. The /show markdown command flips
// between the rendered view and the raw source.
func (m *Model) refreshPreview() {
	cl, ok := m.Store.Active()
	if !ok {
		m.previewViewport.SetContent("")
		return
	}
	src := cl.Markdown
	if src == "" {
		src = markdown.Export(cl)
	}
	if m.rawPreview {
		m.previewViewport.SetContent(src)
		return
	}
	m.previewViewport.SetContent(views.RenderMarkdown(src))
}

func flattenItemData(items []model.TodoItem) []views.ChecklistItemData {
	var out []views.ChecklistItemData
	var walk func([]model.TodoItem)
	walk = func(items []model.TodoItem) {
		for _, item := range items {
			out = append(out, views.ChecklistItemData{
				ID:        item.ID,
				Text:      item.Text,
				Completed: item.Completed,
				Level:     item.Level,
				Estimate:  formatEstimateLabel(item.TimeEstimate),
				Priority:  string(item.Priority),
			})
			walk(item.Children)
		}
	}
	walk(items)
	return out
}

func findItem(sections []model.TodoSection, sectionID, itemID string) (model.TodoItem, bool) {
	for _, section := range sections {
		if section.ID != sectionID {
			continue
		}
		return findItemIn(section.Items, itemID)
	}
	return model.TodoItem{}, false
}

func findItemIn(items []model.TodoItem, itemID string) (model.TodoItem, bool) {
	for _, item := range items {
		if item.ID == itemID {
			return item, true
		}
		if found, ok := findItemIn(item.Children, itemID); ok {
			return found, true
		}
	}
	return model.TodoItem{}, false
}

func sectionFullyCompleted(sections []model.TodoSection, sectionID string) bool {
	for _, section := range sections {
		if section.ID == sectionID {
			return section.TotalCount > 0 && section.CompletedCount == section.TotalCount
		}
	}
	return false
}

func formatEstimateLabel(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
