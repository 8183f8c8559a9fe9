package checklist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/palomera/studyd/internal/model"
	"github.com/palomera/studyd/internal/storage"
)

// Mirror receives full-state checklist snapshots after every successful
// local write. Remote sync is eventually consistent; the store never waits
// on it.
type Mirror interface {
	Enqueue(model.Checklist)
}

// Store owns the canonical checklist list, the goal list and the
// active-checklist pointer. Local persistence happens synchronously inside
// every mutating operation; the in-memory state stays authoritative even
// when a write fails.
type Store struct {
	repo   storage.Repository
	mirror Mirror
	logger *slog.Logger

	now   func() time.Time
	newID func() string

	checklists map[string]model.Checklist
	order      []string
	goals      []model.Goal
	activeID   string
}

// NewStore loads persisted state. Corrupt or missing saved data degrades
// to an empty store; loading never fails hard.
func NewStore(ctx context.Context, repo storage.Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		repo:       repo,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
		checklists: make(map[string]model.Checklist),
	}
	s.load(ctx)
	return s
}

// SetMirror attaches a remote mirror. Passing nil detaches it.
func (s *Store) SetMirror(m Mirror) {
	s.mirror = m
}

func (s *Store) load(ctx context.Context) {
	lists, err := s.repo.ListChecklists(ctx)
	if err != nil {
		s.logger.Warn("checklist load failed, starting empty", "error", err)
		return
	}
	for _, cl := range lists {
		s.checklists[cl.ID] = cl
		s.order = append(s.order, cl.ID)
	}

	goals, err := s.repo.ListGoals(ctx)
	if err != nil {
		s.logger.Warn("goal load failed, starting empty", "error", err)
	} else {
		s.goals = goals
	}

	active, err := s.repo.GetSetting(ctx, storage.SettingActiveChecklist)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("active pointer load failed", "error", err)
		}
		return
	}
	if _, ok := s.checklists[active]; ok {
		s.activeID = active
	} else {
		// The pointer must never dangle; a stale reference is dropped.
		_ = s.repo.DeleteSetting(ctx, storage.SettingActiveChecklist)
	}
}

// CreateChecklist creates a checklist authored directly in the UI. Quick
// checklists are seeded with a single empty "Tasks" section. The new
// checklist becomes active immediately.
func (s *Store) CreateChecklist(ctx context.Context, title string, typ model.ChecklistType, emoji string) (model.Checklist, error) {
	now := s.now()
	cl := model.Checklist{
		ID:        s.newID(),
		Title:     title,
		Emoji:     emoji,
		Type:      typ,
		Sections:  []model.TodoSection{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if typ == model.ChecklistTypeQuick {
		cl.Sections = []model.TodoSection{{
			ID:    s.newID(),
			Title: "Tasks",
			Items: []model.TodoItem{},
		}}
	}

	s.insert(cl)
	err := s.persist(ctx, cl)
	s.setActiveLocked(ctx, cl.ID)
	return cl, err
}

// CreateFromMarkdown wraps a parser result, keeping the original source
// text for later re-editing. The new checklist becomes active immediately.
func (s *Store) CreateFromMarkdown(ctx context.Context, source string, parsed model.ParsedChecklist) (model.Checklist, error) {
	now := s.now()
	cl := model.Checklist{
		ID:             s.newID(),
		Title:          parsed.Title,
		Emoji:          parsed.Emoji,
		Type:           model.ChecklistTypeMarkdown,
		Sections:       parsed.Sections,
		TotalCompleted: parsed.TotalCompleted,
		TotalItems:     parsed.TotalItems,
		Markdown:       source,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.insert(cl)
	err := s.persist(ctx, cl)
	s.setActiveLocked(ctx, cl.ID)
	return cl, err
}

// Patch holds the fields UpdateChecklist may overwrite. Nil pointers leave
// the current value untouched.
type Patch struct {
	Title    *string
	Emoji    *string
	Markdown *string
}

// UpdateChecklist shallow-merges patch fields and stamps UpdatedAt. An
// unknown id is a no-op.
func (s *Store) UpdateChecklist(ctx context.Context, id string, patch Patch) error {
	cl, ok := s.checklists[id]
	if !ok {
		return nil
	}
	if patch.Title != nil {
		cl.Title = *patch.Title
	}
	if patch.Emoji != nil {
		cl.Emoji = *patch.Emoji
	}
	if patch.Markdown != nil {
		cl.Markdown = *patch.Markdown
	}
	cl.UpdatedAt = s.now()
	s.checklists[id] = cl
	return s.persist(ctx, cl)
}

// DeleteChecklist removes the entity. Deleting the active checklist clears
// the active pointer so it never dangles.
func (s *Store) DeleteChecklist(ctx context.Context, id string) error {
	if _, ok := s.checklists[id]; !ok {
		return nil
	}
	delete(s.checklists, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = ""
		if err := s.repo.DeleteSetting(ctx, storage.SettingActiveChecklist); err != nil {
			s.logger.Warn("clear active pointer failed", "error", err)
		}
	}
	if err := s.repo.DeleteChecklist(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

// TaskFields describes a task added directly through the UI. These fields
// are the only way DueDate, Tags and Recurring get set; the markdown
// parser never produces them.
type TaskFields struct {
	Text         string
	TimeEstimate int
	Priority     model.Priority
	DueDate      *time.Time
	Tags         []string
	Recurring    bool
}

// AddTaskToChecklist appends a new top-level item to the named section.
// Unknown checklist or section ids are a no-op.
func (s *Store) AddTaskToChecklist(ctx context.Context, checklistID, sectionID string, fields TaskFields) error {
	cl, ok := s.checklists[checklistID]
	if !ok {
		return nil
	}

	found := false
	sections := make([]model.TodoSection, len(cl.Sections))
	copy(sections, cl.Sections)
	for i, section := range sections {
		if section.ID != sectionID {
			continue
		}
		item := model.TodoItem{
			ID:           s.newID(),
			Text:         fields.Text,
			TimeEstimate: fields.TimeEstimate,
			Priority:     fields.Priority,
			DueDate:      fields.DueDate,
			Tags:         fields.Tags,
			Recurring:    fields.Recurring,
		}
		items := make([]model.TodoItem, len(section.Items), len(section.Items)+1)
		copy(items, section.Items)
		section.Items = append(items, item)
		section.TotalCount++
		section.TotalTimeEstimate += fields.TimeEstimate
		sections[i] = section
		found = true
		break
	}
	if !found {
		return nil
	}

	cl.Sections = sections
	cl.TotalCompleted, cl.TotalItems = RecalculateTotals(sections)
	cl.UpdatedAt = s.now()
	s.checklists[checklistID] = cl
	return s.persist(ctx, cl)
}

// ToggleItem flips one item's completed flag and refreshes totals. Goals
// linked to the checklist track completion deltas.
func (s *Store) ToggleItem(ctx context.Context, checklistID, sectionID, itemID string, completed bool) error {
	cl, ok := s.checklists[checklistID]
	if !ok {
		return nil
	}

	sections := UpdateItemCompletion(cl.Sections, sectionID, itemID, completed)
	newCompleted, newTotal := RecalculateTotals(sections)
	delta := newCompleted - cl.TotalCompleted
	if delta == 0 {
		return nil
	}

	cl.Sections = sections
	cl.TotalCompleted = newCompleted
	cl.TotalItems = newTotal
	cl.UpdatedAt = s.now()
	s.checklists[checklistID] = cl
	s.bumpLinkedGoals(ctx, checklistID, delta)
	return s.persist(ctx, cl)
}

// ToggleSection marks every item in the section, including nested
// children, as completed or not.
func (s *Store) ToggleSection(ctx context.Context, checklistID, sectionID string, completed bool) error {
	cl, ok := s.checklists[checklistID]
	if !ok {
		return nil
	}

	sections := ToggleAllInSection(cl.Sections, sectionID, completed)
	newCompleted, newTotal := RecalculateTotals(sections)
	delta := newCompleted - cl.TotalCompleted
	if delta == 0 {
		return nil
	}

	cl.Sections = sections
	cl.TotalCompleted = newCompleted
	cl.TotalItems = newTotal
	cl.UpdatedAt = s.now()
	s.checklists[checklistID] = cl
	s.bumpLinkedGoals(ctx, checklistID, delta)
	return s.persist(ctx, cl)
}

// CompleteTask marks one item completed. An empty sectionID searches all
// sections, which covers active-task back-references recorded without one.
func (s *Store) CompleteTask(ctx context.Context, checklistID, sectionID, itemID string) error {
	if sectionID != "" {
		return s.ToggleItem(ctx, checklistID, sectionID, itemID, true)
	}
	cl, ok := s.checklists[checklistID]
	if !ok {
		return nil
	}
	for _, section := range cl.Sections {
		if err := s.ToggleItem(ctx, checklistID, section.ID, itemID, true); err != nil {
			return err
		}
	}
	return nil
}

// DuplicateChecklist deep-clones a checklist under fresh ids. Old ids are
// never reused, so items can move between checklists without collisions.
func (s *Store) DuplicateChecklist(ctx context.Context, id string) (model.Checklist, error) {
	src, ok := s.checklists[id]
	if !ok {
		return model.Checklist{}, storage.ErrNotFound
	}

	now := s.now()
	dup := src
	dup.ID = s.newID()
	dup.Title = src.Title + " (Copy)"
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.Sections = make([]model.TodoSection, len(src.Sections))
	for i, section := range src.Sections {
		section.ID = s.newID()
		section.Items = s.cloneItems(section.Items)
		dup.Sections[i] = section
	}

	s.insert(dup)
	return dup, s.persist(ctx, dup)
}

func (s *Store) cloneItems(items []model.TodoItem) []model.TodoItem {
	out := make([]model.TodoItem, len(items))
	for i, item := range items {
		item.ID = s.newID()
		if len(item.Children) > 0 {
			item.Children = s.cloneItems(item.Children)
		}
		out[i] = item
	}
	return out
}

// SetActive points the active-checklist pointer at id. Unknown ids are
// ignored.
func (s *Store) SetActive(ctx context.Context, id string) {
	if _, ok := s.checklists[id]; !ok {
		return
	}
	s.setActiveLocked(ctx, id)
}

func (s *Store) setActiveLocked(ctx context.Context, id string) {
	s.activeID = id
	if err := s.repo.SetSetting(ctx, storage.SettingActiveChecklist, id); err != nil {
		s.logger.Warn("persist active pointer failed", "error", err)
	}
}

func (s *Store) ActiveID() string {
	return s.activeID
}

func (s *Store) Active() (model.Checklist, bool) {
	return s.Get(s.activeID)
}

func (s *Store) Get(id string) (model.Checklist, bool) {
	cl, ok := s.checklists[id]
	return cl, ok
}

// List returns checklists in creation order.
func (s *Store) List() []model.Checklist {
	out := make([]model.Checklist, 0, len(s.order))
	for _, id := range s.order {
		if cl, ok := s.checklists[id]; ok {
			out = append(out, cl)
		}
	}
	return out
}

func (s *Store) insert(cl model.Checklist) {
	s.checklists[cl.ID] = cl
	s.order = append(s.order, cl.ID)
}

func (s *Store) persist(ctx context.Context, cl model.Checklist) error {
	if err := s.repo.SaveChecklist(ctx, cl); err != nil {
		s.logger.Warn("checklist save failed", "checklist_id", cl.ID, "error", err)
		return err
	}
	if s.mirror != nil {
		s.mirror.Enqueue(cl)
	}
	return nil
}

// CreateGoal registers a goal; a non-empty checklistID links the goal's
// progress to that checklist's totals.
func (s *Store) CreateGoal(ctx context.Context, title string, cadence model.GoalCadence, mode model.GoalMode, target int, checklistID string, deadline *time.Time) (model.Goal, error) {
	goal := model.Goal{
		ID:          s.newID(),
		Title:       title,
		Cadence:     cadence,
		Mode:        mode,
		TargetCount: target,
		ChecklistID: checklistID,
		Deadline:    deadline,
		CreatedAt:   s.now(),
	}
	if err := goal.Validate(); err != nil {
		return model.Goal{}, err
	}
	s.goals = append(s.goals, goal)
	if err := s.repo.SaveGoal(ctx, goal); err != nil {
		s.logger.Warn("goal save failed", "goal_id", goal.ID, "error", err)
		return goal, err
	}
	return goal, nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	for i, goal := range s.goals {
		if goal.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			if err := s.repo.DeleteGoal(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			return nil
		}
	}
	return nil
}

func (s *Store) Goals() []model.Goal {
	out := make([]model.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

func (s *Store) bumpLinkedGoals(ctx context.Context, checklistID string, delta int) {
	for i, goal := range s.goals {
		if goal.ChecklistID != checklistID {
			continue
		}
		goal.CompletedCount += delta
		if goal.CompletedCount < 0 {
			goal.CompletedCount = 0
		}
		s.goals[i] = goal
		if err := s.repo.SaveGoal(ctx, goal); err != nil {
			s.logger.Warn("goal progress save failed", "goal_id", goal.ID, "error", err)
		}
	}
}
