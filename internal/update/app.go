package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palomera/studyd/internal/timer"
	"github.com/palomera/studyd/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{uiTickCmd()}
	if m.Engine != nil {
		cmds = append(cmds, waitForPhaseCmd(m.Engine.C()))
	}
	if m.Queue != nil {
		cmds = append(cmds, m.syncSpinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		m.rebuildItemRefs()
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			next := m.handlePaletteKey(typed)
			return next, nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Checklists:
			m.CurrentView = ViewChecklists
			return m, nil
		case m.Keys.Timer:
			m.CurrentView = ViewTimer
			return m, nil
		case m.Keys.Stopwatch:
			m.CurrentView = ViewStopwatch
			return m, nil
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			m.refreshFocus()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			m.persistTimerSnapshot(true)
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewChecklists:
			return m.handleChecklistKey(typed), nil
		case ViewTimer:
			return m.handleTimerKey(typed), nil
		case ViewStopwatch:
			return m.handleStopwatchKey(typed), nil
		case ViewFocus:
			return m.handleFocusKey(typed), nil
		}

	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewFocus {
				m.refreshFocus()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.logger.Error("app error", "error", typed.Err)
		}
		return m, nil
	case UITickMsg:
		m.persistTimerSnapshot(false)
		return m, uiTickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.syncSpinner, cmd = m.syncSpinner.Update(typed)
		return m, cmd
	case PhaseEventMsg:
		m.onPhaseEvent(typed.Event)
		var cmd tea.Cmd
		if m.Engine != nil {
			cmd = waitForPhaseCmd(m.Engine.C())
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
	}
	if m.Queue != nil {
		if pending := m.Queue.Len(); pending > 0 {
			if status != "" {
				status += " | "
			}
			status += fmt.Sprintf("%s syncing %d", m.syncSpinner.View(), pending)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewChecklists:
		leftPane = m.renderChecklistView()
		rightPane = m.renderPreviewPane() + m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewTimer:
		leftPane = m.renderTimerView()
		rightPane = m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewStopwatch:
		leftPane = m.renderStopwatchView()
		rightPane = m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewFocus:
		leftPane = m.renderFocusView()
		rightPane = m.renderCommandPalette() + m.renderHelpIfVisible()
	}

	header := fmt.Sprintf("studyd | view: %s", m.CurrentView)
	if task, ok := m.Lock.ActiveTask(); ok {
		header += " | locked: " + task.TaskText
	}

	return views.RenderApp(views.AppData{
		Header:      header,
		LeftPane:    leftPane,
		RightPane:   rightPane,
		StatusLine:  status,
		StatusError: m.Status.IsError,
		Footer: fmt.Sprintf("keys: %s checklists | %s timer | %s stopwatch | %s focus | %s help | %s quit",
			m.Keys.Checklists, m.Keys.Timer, m.Keys.Stopwatch, m.Keys.Focus, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewChecklists, ViewTimer, ViewStopwatch, ViewFocus:
		return true
	default:
		return false
	}
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func uiTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return UITickMsg{} })
}

func waitForPhaseCmd(ch <-chan timer.PhaseEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return PhaseEventMsg{Event: ev}
	}
}
