package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palomera/studyd/internal/focus"
	"github.com/palomera/studyd/internal/model"
	"github.com/palomera/studyd/internal/views"
)

func (m *Model) refreshFocus() {
	m.Focus = focus.ComputeDailyFocus(m.Store.Goals(), m.Store.List())
}

func (m Model) handleFocusKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		if m.Focus == nil || m.Focus.NextTask == nil || m.Focus.Checklist == nil {
			m.Status = StatusBar{Text: "nothing to lock onto"}
			return m
		}
		task := model.ActiveTask{
			GoalID:         m.Focus.Goal.ID,
			GoalTitle:      m.Focus.Goal.Title,
			GoalEmoji:      m.Focus.Goal.Emoji,
			TaskText:       m.Focus.NextTask.Text,
			ChecklistID:    m.Focus.Checklist.ID,
			TaskID:         m.Focus.NextTask.ID,
			SectionID:      sectionOfItem(m.Focus.Checklist.Sections, m.Focus.NextTask.ID),
			PlannedMinutes: m.Focus.NextTask.TimeEstimate,
		}
		m.Lock.LockTask(task)
		m.Status = StatusBar{Text: "locked: " + task.TaskText}
	case "c":
		if !m.Lock.IsTaskLocked() {
			m.Status = StatusBar{Text: "no locked task"}
			return m
		}
		if err := m.Lock.CompleteActiveTask(context.Background(), m.Store); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		} else {
			m.Status = StatusBar{Text: "task completed"}
		}
		m.refreshFocus()
		m.syncBubbleData()
	case "u":
		m.Lock.UnlockTask()
		m.Status = StatusBar{Text: "task unlocked"}
	case "p":
		minutes := 25
		if m.Cfg != nil && m.Cfg.Timer.WorkMinutes > 0 {
			minutes = m.Cfg.Timer.WorkMinutes
		}
		if task, ok := m.Lock.ActiveTask(); ok && task.PlannedMinutes > 0 {
			minutes = task.PlannedMinutes
		}
		m.Lock.StartPomodoro(minutes, model.StartSourceTask)
		m.CurrentView = ViewTimer
		m.Status = StatusBar{Text: "pomodoro queued"}
	case "g":
		m.refreshFocus()
		m.Status = StatusBar{Text: "focus refreshed"}
	}
	return m
}

func (m Model) renderFocusView() string {
	locked := ""
	if task, ok := m.Lock.ActiveTask(); ok {
		locked = task.TaskText
	}

	if m.Focus == nil {
		return views.RenderFocusPanel(views.FocusPanelData{Empty: true, LockedTask: locked})
	}

	data := views.FocusPanelData{
		GoalTitle:        m.Focus.Goal.Title,
		GoalEmoji:        m.Focus.Goal.Emoji,
		ChecklistDeleted: m.Focus.ChecklistDeleted,
		LockedTask:       locked,
	}
	if m.Focus.Checklist != nil {
		data.ChecklistTitle = m.Focus.Checklist.Title
	}
	if m.Focus.NextTask != nil {
		data.NextTask = m.Focus.NextTask.Text
	}
	return views.RenderFocusPanel(data)
}

func sectionOfItem(sections []model.TodoSection, itemID string) string {
	for _, section := range sections {
		if _, ok := findItemIn(section.Items, itemID); ok {
			return section.ID
		}
	}
	return ""
}
