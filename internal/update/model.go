// Package update holds the Elm-style TUI model. All state mutation flows
// through Update on a single goroutine; the timer engine is the only
// concurrent component and is reached through messages and Do calls.
package update

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/palomera/studyd/internal/checklist"
	"github.com/palomera/studyd/internal/config"
	"github.com/palomera/studyd/internal/focus"
	"github.com/palomera/studyd/internal/model"
	"github.com/palomera/studyd/internal/session"
	"github.com/palomera/studyd/internal/storage"
	"github.com/palomera/studyd/internal/syncq"
	"github.com/palomera/studyd/internal/timer"
)

type View string

const (
	ViewChecklists View = "Checklists"
	ViewTimer      View = "Timer"
	ViewStopwatch  View = "Stopwatch"
	ViewFocus      View = "Focus"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Checklists string
	Timer      string
	Stopwatch  string
	Focus      string
	Help       string
	Quit       string
}

// itemRef addresses one checklist item for cursor navigation. The item
// tree is flattened in render order so j/k walk nested items naturally.
type itemRef struct {
	SectionID string
	ItemID    string
}

type Model struct {
	CurrentView View
	Status      StatusBar
	Keys        GlobalKeyMap
	HelpVisible bool
	Quitting    bool
	LastError   error

	Store     *checklist.Store
	Lock      *session.Lock
	Engine    *timer.Engine
	Stopwatch *timer.Stopwatch
	Repo      storage.Repository
	Cfg       *config.AppConfig
	Queue     *syncq.Queue

	Palette PaletteState
	Focus   *focus.DailyFocus

	cursor     int
	itemRefs   []itemRef
	rawPreview bool
	logger     *slog.Logger
	now        func() time.Time
	lastPhase  *timer.PhaseEvent
	snapshotAt time.Time

	checklistList   list.Model
	commandInput    textinput.Model
	timerProgress   progress.Model
	helpModel       help.Model
	previewViewport viewport.Model
	syncSpinner     spinner.Model
}

type PaletteState struct {
	Active bool
	Input  string
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// UITickMsg redraws time-dependent panes once a second.
type UITickMsg struct{}

// PhaseEventMsg carries a timer phase transition from the engine goroutine
// into the Elm loop.
type PhaseEventMsg struct {
	Event timer.PhaseEvent
}

type Deps struct {
	Store     *checklist.Store
	Lock      *session.Lock
	Engine    *timer.Engine
	Stopwatch *timer.Stopwatch
	Repo      storage.Repository
	Cfg       *config.AppConfig
	Queue     *syncq.Queue
	Logger    *slog.Logger
}

func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sw := deps.Stopwatch
	if sw == nil {
		sw = &timer.Stopwatch{}
	}
	m := Model{
		CurrentView: ViewChecklists,
		Store:       deps.Store,
		Lock:        deps.Lock,
		Engine:      deps.Engine,
		Stopwatch:   sw,
		Repo:        deps.Repo,
		Cfg:         deps.Cfg,
		Queue:       deps.Queue,
		logger:      logger,
		now:         time.Now,
		Keys: GlobalKeyMap{
			Checklists: "1",
			Timer:      "2",
			Stopwatch:  "3",
			Focus:      "4",
			Help:       "?",
			Quit:       "q",
		},
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.checklistList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.checklistList.Title = "Checklists"
	m.checklistList.SetShowHelp(false)
	m.checklistList.SetFilteringEnabled(false)

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.timerProgress = progress.New(progress.WithDefaultGradient())

	m.helpModel = help.New()
	m.previewViewport = viewport.New(46, 12)
	m.syncSpinner = spinner.New(spinner.WithSpinner(spinner.Dot))
}

func (m *Model) syncBubbleData() {
	lists := m.Store.List()
	items := make([]list.Item, 0, len(lists))
	activeID := m.Store.ActiveID()
	for _, cl := range lists {
		marker := ""
		if cl.ID == activeID {
			marker = "* "
		}
		items = append(items, listItem{
			title:       marker + cl.Title,
			description: progressLabel(cl.TotalCompleted, cl.TotalItems),
		})
	}
	m.checklistList.SetItems(items)

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	m.rebuildItemRefs()
	m.refreshPreview()
}

// rebuildItemRefs flattens the active checklist's item tree in render
// order so the cursor can walk it.
func (m *Model) rebuildItemRefs() {
	m.itemRefs = m.itemRefs[:0]
	cl, ok := m.Store.Active()
	if !ok {
		m.cursor = 0
		return
	}
	for _, section := range cl.Sections {
		m.appendItemRefs(section.ID, section.Items)
	}
	if m.cursor >= len(m.itemRefs) {
		m.cursor = len(m.itemRefs) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) appendItemRefs(sectionID string, items []model.TodoItem) {
	for _, item := range items {
		m.itemRefs = append(m.itemRefs, itemRef{SectionID: sectionID, ItemID: item.ID})
		if len(item.Children) > 0 {
			m.appendItemRefs(sectionID, item.Children)
		}
	}
}

func (m *Model) selectedItemRef() (itemRef, bool) {
	if m.cursor < 0 || m.cursor >= len(m.itemRefs) {
		return itemRef{}, false
	}
	return m.itemRefs[m.cursor], true
}
