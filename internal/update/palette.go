package update

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palomera/studyd/internal/checklist"
	"github.com/palomera/studyd/internal/commands"
	"github.com/palomera/studyd/internal/markdown"
	"github.com/palomera/studyd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	ctx := context.Background()
	res, err := commands.Execute(cmd, commands.Handlers{
		Import: func(a commands.ImportArgs) (commands.Result, error) {
			source, err := os.ReadFile(expandHome(a.Path))
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot read %s: %v", a.Path, err)}
			}
			parsed := markdown.Parse(string(source))
			cl, err := m.Store.CreateFromMarkdown(ctx, string(source), parsed)
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewChecklists
			m.cursor = 0
			return commands.Result{Message: fmt.Sprintf("imported %s (%d tasks)", cl.Title, cl.TotalItems)}, nil
		},
		Add: func(a commands.AddArgs) (commands.Result, error) {
			cl, ok := m.Store.Active()
			if !ok {
				created, err := m.Store.CreateChecklist(ctx, "Tasks", model.ChecklistTypeQuick, "")
				if err != nil {
					return commands.Result{}, err
				}
				cl = created
			}
			sectionID := resolveSection(cl.Sections, a.Section)
			if sectionID == "" {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no matching section"}
			}
			fields := taskFieldsFromText(a.Text)
			if err := m.Store.AddTaskToChecklist(ctx, cl.ID, sectionID, fields); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewChecklists
			return commands.Result{Message: "added: " + fields.Text}, nil
		},
		Goal: func(g commands.GoalArgs) (commands.Result, error) {
			goal, err := m.Store.CreateGoal(ctx, g.Title, model.GoalCadence(g.Cadence), model.GoalMode(g.Mode), g.Target, g.ChecklistID, nil)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "goal created: " + goal.Title}, nil
		},
		Start: func(s commands.StartArgs) (commands.Result, error) {
			m.Lock.StartPomodoro(s.Minutes, model.StartSourceManual)
			m.CurrentView = ViewTimer
			return commands.Result{Message: fmt.Sprintf("%d-minute pomodoro queued", s.Minutes)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			switch s.Subject {
			case "timer":
				m.CurrentView = ViewTimer
			case "stopwatch":
				m.CurrentView = ViewStopwatch
			case "focus", "goals":
				m.CurrentView = ViewFocus
				m.refreshFocus()
			case "markdown":
				m.CurrentView = ViewChecklists
				m.rawPreview = !m.rawPreview
			default:
				m.CurrentView = ViewChecklists
			}
			return commands.Result{Message: "show " + s.Subject}, nil
		},
		Dup: func(d commands.DupArgs) (commands.Result, error) {
			id := d.ChecklistID
			if id == "" {
				id = m.Store.ActiveID()
			}
			dup, err := m.Store.DuplicateChecklist(ctx, id)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "checklist not found"}
			}
			return commands.Result{Message: "duplicated: " + dup.Title}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.syncBubbleData()
	return m
}

// resolveSection matches a section by title, case-insensitively. Empty
// input means the first section.
func resolveSection(sections []model.TodoSection, title string) string {
	if len(sections) == 0 {
		return ""
	}
	if strings.TrimSpace(title) == "" {
		return sections[0].ID
	}
	for _, section := range sections {
		if strings.EqualFold(section.Title, title) {
			return section.ID
		}
	}
	return ""
}

// taskFieldsFromText runs quick-add text through the markdown parser so
// "/add read paper (~30m) !!" carries its estimate and priority.
func taskFieldsFromText(text string) checklist.TaskFields {
	parsed := markdown.Parse("# Scratch\n## Tasks\n- [ ] " + text + "\n")
	for _, section := range parsed.Sections {
		if len(section.Items) > 0 {
			item := section.Items[0]
			return checklist.TaskFields{
				Text:         item.Text,
				TimeEstimate: item.TimeEstimate,
				Priority:     item.Priority,
			}
		}
	}
	return checklist.TaskFields{Text: text}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
