package views

import (
	"fmt"
	"strings"
)

type ChecklistItemData struct {
	ID        string
	Text      string
	Completed bool
	Level     int
	Estimate  string
	Priority  string
}

type ChecklistSectionData struct {
	Title          string
	Emoji          string
	Description    string
	CompletedCount int
	TotalCount     int
	Items          []ChecklistItemData
}

type ChecklistPanelData struct {
	Title      string
	Emoji      string
	Progress   string
	Sections   []ChecklistSectionData
	SelectedID string
	ListView   string
}

type TimerPanelData struct {
	Mode              string
	Remaining         string
	Running           bool
	SessionsCompleted int
	ProgressView      string
	ProgressPct       int
	LockedTask        string
}

type LapData struct {
	Number int
	Total  string
	Delta  string
}

type StopwatchPanelData struct {
	Elapsed string
	Running bool
	Laps    []LapData
}

type FocusPanelData struct {
	GoalTitle        string
	GoalEmoji        string
	ChecklistTitle   string
	ChecklistDeleted bool
	NextTask         string
	Empty            bool
	LockedTask       string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderChecklistPanel(data ChecklistPanelData) string {
	var b strings.Builder
	title := data.Title
	if data.Emoji != "" {
		title = data.Emoji + " " + title
	}
	b.WriteString(fmt.Sprintf("checklist: %s (%s)\n", title, data.Progress))
	b.WriteString("actions: [j/k]move [space]toggle [a]add [d]duplicate\n")
	if data.ListView != "" {
		b.WriteString(data.ListView + "\n")
	}
	for _, section := range data.Sections {
		heading := section.Title
		if section.Emoji != "" {
			heading = section.Emoji + " " + heading
		}
		b.WriteString(fmt.Sprintf("\n%s (%d/%d):\n", heading, section.CompletedCount, section.TotalCount))
		if section.Description != "" {
			b.WriteString("  " + section.Description + "\n")
		}
		if len(section.Items) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		for _, item := range section.Items {
			renderChecklistItem(&b, item, data.SelectedID)
		}
	}
	return strings.TrimSpace(b.String())
}

func renderChecklistItem(b *strings.Builder, item ChecklistItemData, selectedID string) {
	cursor := " "
	if selectedID == item.ID {
		cursor = ">"
	}
	box := "[ ]"
	if item.Completed {
		box = "[x]"
	}
	b.WriteString(fmt.Sprintf("%s %s%s %s", cursor, strings.Repeat("  ", item.Level), box, item.Text))
	if item.Estimate != "" {
		b.WriteString(" (" + item.Estimate + ")")
	}
	if item.Priority != "" {
		b.WriteString(" !" + item.Priority)
	}
	b.WriteString("\n")
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	b.WriteString("timer:\n")
	b.WriteString(fmt.Sprintf("phase: %s\n", strings.ToUpper(data.Mode)))
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("remaining: %s (%s)\n", data.Remaining, state))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("sessions completed: %d\n", data.SessionsCompleted))
	if data.LockedTask != "" {
		b.WriteString(fmt.Sprintf("working on: %s\n", data.LockedTask))
	}
	b.WriteString("actions: [space]pause/resume [n]skip [r]reset")
	return b.String()
}

func RenderStopwatchPanel(data StopwatchPanelData) string {
	var b strings.Builder
	b.WriteString("stopwatch:\n")
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("elapsed: %s (%s)\n", data.Elapsed, state))
	if len(data.Laps) > 0 {
		b.WriteString("laps:\n")
		for _, lap := range data.Laps {
			b.WriteString(fmt.Sprintf("  #%d %s (+%s)\n", lap.Number, lap.Total, lap.Delta))
		}
	}
	b.WriteString("actions: [space]start/pause [l]lap [r]reset")
	return b.String()
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("daily focus:\n")
	if data.Empty {
		b.WriteString("all goals complete, nothing to focus on\n")
		b.WriteString("actions: [1]checklists [2]timer [3]stopwatch")
		return b.String()
	}
	goal := data.GoalTitle
	if data.GoalEmoji != "" {
		goal = data.GoalEmoji + " " + goal
	}
	b.WriteString(fmt.Sprintf("goal: %s\n", goal))
	if data.ChecklistDeleted {
		b.WriteString("checklist: (deleted)\n")
	} else if data.ChecklistTitle != "" {
		b.WriteString(fmt.Sprintf("checklist: %s\n", data.ChecklistTitle))
	}
	if data.NextTask != "" {
		b.WriteString(fmt.Sprintf("next task: %s\n", data.NextTask))
	}
	if data.LockedTask != "" {
		b.WriteString(fmt.Sprintf("locked on: %s\n", data.LockedTask))
	}
	b.WriteString("actions: [enter]lock [c]complete [u]unlock [p]pomodoro")
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
