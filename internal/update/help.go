package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/palomera/studyd/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Checklists, Action: "switch to Checklists"},
		{Key: m.Keys.Timer, Action: "switch to Timer"},
		{Key: m.Keys.Stopwatch, Action: "switch to Stopwatch"},
		{Key: m.Keys.Focus, Action: "switch to Focus"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewChecklists:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "space", Action: "toggle item"},
			{Key: "S", Action: "toggle whole section"},
			{Key: "n/p", Action: "next/previous checklist"},
			{Key: "d", Action: "duplicate checklist"},
			{Key: "x", Action: "delete checklist"},
		}
	case ViewTimer:
		return []KeyBinding{
			{Key: "space", Action: "pause/resume"},
			{Key: "n", Action: "skip phase"},
			{Key: "r", Action: "reset phase"},
		}
	case ViewStopwatch:
		return []KeyBinding{
			{Key: "space", Action: "start/pause"},
			{Key: "l", Action: "record lap"},
			{Key: "r", Action: "reset"},
		}
	case ViewFocus:
		return []KeyBinding{
			{Key: "enter", Action: "lock suggested task"},
			{Key: "c", Action: "complete locked task"},
			{Key: "u", Action: "unlock"},
			{Key: "p", Action: "start pomodoro for task"},
			{Key: "g", Action: "recompute focus"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
