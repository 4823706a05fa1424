package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/model"
)

type fakeStore struct {
	tasks       []model.Task
	nextID      int
	createCalls int
	failWith    error
}

func newFakeStore(titles ...string) *fakeStore {
	s := &fakeStore{}
	for _, title := range titles {
		s.tasks = append(s.tasks, s.newTask(title))
	}
	return s
}

func (s *fakeStore) newTask(title string) model.Task {
	s.nextID++
	at := time.Date(2026, 2, 9, 12, 0, s.nextID, 0, time.UTC)
	return model.Task{
		ID:        fmt.Sprintf("%08x-0000-4000-8000-000000000000", s.nextID),
		Title:     title,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func (s *fakeStore) FetchAll(context.Context) ([]model.Task, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return model.Clone(s.tasks), nil
}

func (s *fakeStore) Create(_ context.Context, title string) (model.Task, error) {
	s.createCalls++
	if s.failWith != nil {
		return model.Task{}, s.failWith
	}
	if err := model.ValidateTitle(title); err != nil {
		return model.Task{}, err
	}
	task := s.newTask(title)
	s.tasks = append(s.tasks, task)
	return task, nil
}

func (s *fakeStore) Update(_ context.Context, id, title string) (model.Task, error) {
	if s.failWith != nil {
		return model.Task{}, s.failWith
	}
	idx := model.IndexOf(s.tasks, id)
	if idx < 0 {
		return model.Task{}, model.ErrTaskNotFound
	}
	s.tasks[idx].Title = title
	return s.tasks[idx], nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	if s.failWith != nil {
		return s.failWith
	}
	idx := model.IndexOf(s.tasks, id)
	if idx < 0 {
		return model.ErrTaskNotFound
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return nil
}

func (s *fakeStore) Lookup(ref string) (model.Task, error) {
	return model.FindByIDPrefix(s.tasks, ref)
}

func (s *fakeStore) Tasks() []model.Task {
	return model.Clone(s.tasks)
}

func loadedModel(t *testing.T, store *fakeStore) Model {
	t.Helper()
	m := NewModel(context.Background(), store, config.DefaultRuntimeConfig())
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected init command")
	}
	return step(t, m, cmd())
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func TestNewModelDefaults(t *testing.T) {
	cfg := config.DefaultRuntimeConfig()
	cfg.Density = 3
	m := NewModel(context.Background(), newFakeStore(), cfg)
	if m.Keys.Quit != "q" || m.Keys.Add != "a" {
		t.Fatalf("unexpected keys: %+v", m.Keys)
	}
	if m.uiDensity != 3 {
		t.Fatalf("expected density from config, got %d", m.uiDensity)
	}
	if len(m.Tasks) != 0 || m.SelectedTaskID != "" {
		t.Fatalf("expected no rows before init, got %+v", m.Tasks)
	}
}

func TestInitLoadsTasks(t *testing.T) {
	store := newFakeStore("Buy milk", "Call mom")
	m := loadedModel(t, store)
	if len(m.Tasks) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.Tasks))
	}
	if m.SelectedTaskID != store.tasks[0].ID || m.Cursor != 0 {
		t.Fatalf("expected first row selected, got %q at %d", m.SelectedTaskID, m.Cursor)
	}
	if !strings.Contains(m.Status.Text, "loaded 2") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestAddPromptCreatesTask(t *testing.T) {
	store := newFakeStore("Buy milk")
	m := loadedModel(t, store)

	m = step(t, m, keys("a"))
	if !m.Prompt.Active || m.Prompt.Mode != PromptAdd {
		t.Fatalf("expected add prompt, got %+v", m.Prompt)
	}
	if m.Prompt.Title != "New Task" || m.Prompt.Message != "What do you want to do?" {
		t.Fatalf("unexpected prompt text: %+v", m.Prompt)
	}
	if m.promptInput.Placeholder != "New Task" {
		t.Fatalf("unexpected placeholder %q", m.promptInput.Placeholder)
	}
	view := m.View()
	if !strings.Contains(view, "New Task") || !strings.Contains(view, "What do you want to do?") {
		t.Fatalf("expected prompt in view, got:\n%s", view)
	}

	m = step(t, m, keys("Water plants"))
	m = step(t, m, enter())
	if m.Prompt.Active {
		t.Fatal("expected prompt to close after save")
	}
	if len(store.tasks) != 2 || store.tasks[1].Title != "Water plants" {
		t.Fatalf("unexpected store contents: %+v", store.tasks)
	}
	if len(m.Tasks) != 2 || m.SelectedTaskID != store.tasks[1].ID {
		t.Fatalf("expected new row selected, got %q in %+v", m.SelectedTaskID, m.Tasks)
	}
}

func TestAddPromptRejectsEmptyTitle(t *testing.T) {
	store := newFakeStore()
	m := loadedModel(t, store)

	m = step(t, m, keys("a"))
	m = step(t, m, enter())
	if !m.Prompt.Active {
		t.Fatal("expected prompt to stay open")
	}
	if m.Prompt.Err == "" {
		t.Fatal("expected prompt error")
	}
	if store.createCalls != 0 {
		t.Fatalf("empty title reached the store %d time(s)", store.createCalls)
	}
	if !strings.Contains(m.View(), "title must not be empty") {
		t.Fatal("expected prompt error in view")
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Prompt.Active || len(m.Tasks) != 0 {
		t.Fatalf("expected cancelled prompt and no rows, got %+v", m.Prompt)
	}
}

func TestEditPromptPrefillsAndUpdates(t *testing.T) {
	store := newFakeStore("Buy milk", "Call mom")
	m := loadedModel(t, store)

	m = step(t, m, keys("j"))
	m = step(t, m, enter())
	if !m.Prompt.Active || m.Prompt.Mode != PromptEdit {
		t.Fatalf("expected edit prompt, got %+v", m.Prompt)
	}
	if m.Prompt.Title != "Change the task" || m.Prompt.Message != "Do you want to change the task?" {
		t.Fatalf("unexpected prompt text: %+v", m.Prompt)
	}
	if m.promptInput.Placeholder != "Update the task" {
		t.Fatalf("unexpected placeholder %q", m.promptInput.Placeholder)
	}
	if got := m.promptInput.Value(); got != "Call mom" {
		t.Fatalf("expected prefilled title, got %q", got)
	}
	if m.Prompt.TaskID != store.tasks[1].ID {
		t.Fatalf("expected prompt bound to selected task, got %q", m.Prompt.TaskID)
	}

	m = step(t, m, keys(" tonight"))
	m = step(t, m, enter())
	if store.tasks[1].Title != "Call mom tonight" || store.tasks[0].Title != "Buy milk" {
		t.Fatalf("unexpected titles: %+v", store.tasks)
	}
	if m.SelectedTaskID != store.tasks[1].ID || m.Tasks[1].Title != "Call mom tonight" {
		t.Fatalf("expected edited row to stay selected, got %q", m.SelectedTaskID)
	}
}

func TestEditPromptInsertsAtCursor(t *testing.T) {
	store := newFakeStore("Buy milk", "Call mom")
	m := loadedModel(t, store)

	m = step(t, m, keys("j"))
	m = step(t, m, enter())
	m = step(t, m, tea.KeyMsg{Type: tea.KeyHome})
	for _, r := range "Please " {
		m = step(t, m, keys(string(r)))
	}
	m = step(t, m, enter())
	if store.tasks[1].Title != "Please Call mom" {
		t.Fatalf("expected text inserted at cursor, got %q", store.tasks[1].Title)
	}
}

func TestEditWithoutSelection(t *testing.T) {
	m := loadedModel(t, newFakeStore())
	m = step(t, m, keys("e"))
	if m.Prompt.Active {
		t.Fatal("edit prompt should not open without a selection")
	}
	if m.Status.Text != "no task selected" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestDeleteSelectsNextRow(t *testing.T) {
	store := newFakeStore("one", "two", "three")
	m := loadedModel(t, store)
	third := store.tasks[2].ID

	m = step(t, m, keys("j"))
	m = step(t, m, keys("d"))
	if len(store.tasks) != 2 || len(m.Tasks) != 2 {
		t.Fatalf("expected 2 tasks left, got store=%d rows=%d", len(store.tasks), len(m.Tasks))
	}
	if m.SelectedTaskID != third || m.Cursor != 1 {
		t.Fatalf("expected third task selected, got %q at %d", m.SelectedTaskID, m.Cursor)
	}

	m = step(t, m, keys("x"))
	m = step(t, m, keys("x"))
	if len(m.Tasks) != 0 || m.SelectedTaskID != "" {
		t.Fatalf("expected empty list, got %+v", m.Tasks)
	}
	if !strings.Contains(m.View(), "no tasks yet") {
		t.Fatal("expected empty state in view")
	}
}

func TestStoreFailureSetsErrorStatus(t *testing.T) {
	store := newFakeStore("Buy milk")
	m := loadedModel(t, store)
	boom := errors.New("disk full")
	store.failWith = boom

	m = step(t, m, AddTaskMsg{Title: "Call mom"})
	if !errors.Is(m.LastError, boom) {
		t.Fatalf("expected last error, got %v", m.LastError)
	}
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "disk full") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if len(m.Tasks) != 1 {
		t.Fatalf("expected rows unchanged, got %+v", m.Tasks)
	}

	m = step(t, m, ReloadTasksMsg{})
	if !m.Status.IsError || len(m.Tasks) != 1 {
		t.Fatalf("expected failed reload to keep rows, got %+v", m.Tasks)
	}
}

func TestIntentMessages(t *testing.T) {
	store := newFakeStore("Buy milk")
	m := loadedModel(t, store)
	first := store.tasks[0].ID

	m = step(t, m, AddTaskMsg{Title: "  Call mom "})
	if len(m.Tasks) != 2 || m.Tasks[1].Title != "  Call mom " {
		t.Fatalf("unexpected rows after add: %+v", m.Tasks)
	}

	m = step(t, m, EditTaskMsg{ID: first, Title: "Buy oat milk"})
	if m.Tasks[0].Title != "Buy oat milk" || m.SelectedTaskID != first {
		t.Fatalf("unexpected rows after edit: %+v", m.Tasks)
	}

	m = step(t, m, EditTaskMsg{ID: first, Title: ""})
	if !m.Status.IsError || store.tasks[0].Title != "Buy oat milk" {
		t.Fatalf("expected empty edit rejected, got %+v", m.Status)
	}

	m = step(t, m, DeleteTaskMsg{ID: first})
	if len(m.Tasks) != 1 || m.Tasks[0].Title != "  Call mom " {
		t.Fatalf("unexpected rows after delete: %+v", m.Tasks)
	}
}

func TestPaletteCommands(t *testing.T) {
	store := newFakeStore("Buy milk")
	m := loadedModel(t, store)

	m = step(t, m, keys("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette to open")
	}
	m = step(t, m, keys("add Water plants"))
	m = step(t, m, enter())
	if m.Palette.Active {
		t.Fatal("expected palette to close after enter")
	}
	if len(store.tasks) != 2 || store.tasks[1].Title != "Water plants" {
		t.Fatalf("unexpected store contents: %+v", store.tasks)
	}
	if m.Status.IsError || !strings.Contains(m.Status.Text, "Water plants") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m = step(t, m, keys("/"))
	m = step(t, m, keys("edit 00000001 Buy oat milk"))
	m = step(t, m, enter())
	if store.tasks[0].Title != "Buy oat milk" {
		t.Fatalf("expected edit via palette, got %+v", store.tasks)
	}

	m = step(t, m, keys("/"))
	m = step(t, m, keys("rm 00000002"))
	m = step(t, m, enter())
	if len(store.tasks) != 1 || m.Status.Text != "deleted: Water plants" {
		t.Fatalf("expected delete via palette, got %+v / %+v", store.tasks, m.Status)
	}

	m = step(t, m, keys("/"))
	m = step(t, m, keys("rm ffff"))
	m = step(t, m, enter())
	if !m.Status.IsError || !errors.Is(m.LastError, model.ErrTaskNotFound) {
		t.Fatalf("expected not found error, got %+v / %v", m.Status, m.LastError)
	}

	m = step(t, m, keys("/"))
	m = step(t, m, keys("frobnicate"))
	m = step(t, m, enter())
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command, got %+v", m.Status)
	}
}

func TestPaletteKeepsQuestionMark(t *testing.T) {
	store := newFakeStore()
	m := loadedModel(t, store)

	m = step(t, m, keys("/"))
	for _, r := range "add why?" {
		m = step(t, m, keys(string(r)))
	}
	if m.HelpVisible {
		t.Fatal("question mark toggled help while typing a command")
	}
	m = step(t, m, enter())
	if len(store.tasks) != 1 || store.tasks[0].Title != "why?" {
		t.Fatalf("unexpected store contents: %+v", store.tasks)
	}
	if m.HelpVisible {
		t.Fatal("expected help to stay hidden")
	}
}

func TestPaletteKeepsTitleSpacing(t *testing.T) {
	store := newFakeStore()
	m := loadedModel(t, store)

	m = step(t, m, keys("/"))
	m = step(t, m, keys("add a  b"))
	m = step(t, m, enter())
	if len(store.tasks) != 1 || store.tasks[0].Title != "a  b" {
		t.Fatalf("unexpected store contents: %+v", store.tasks)
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m := loadedModel(t, newFakeStore())
	m = step(t, m, keys("/"))
	m = step(t, m, keys("add x"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Palette.Active || m.Palette.Input != "" {
		t.Fatalf("expected closed palette, got %+v", m.Palette)
	}
}

func TestHelpAndDensity(t *testing.T) {
	m := loadedModel(t, newFakeStore("Buy milk"))
	m = step(t, m, keys("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "help (task list)") {
		t.Fatal("expected help panel")
	}
	m = step(t, m, keys("?"))
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}

	m = step(t, m, keys("D"))
	m = step(t, m, keys("D"))
	m = step(t, m, keys("D"))
	if m.uiDensity != 1 || m.Status.Text != "density level: 1" {
		t.Fatalf("expected density to wrap, got %d", m.uiDensity)
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	store := newFakeStore("one", "two")
	m := loadedModel(t, store)
	m = step(t, m, keys("k"))
	if m.Cursor != 0 {
		t.Fatalf("expected cursor at top, got %d", m.Cursor)
	}
	m = step(t, m, keys("G"))
	m = step(t, m, keys("j"))
	if m.Cursor != 1 || m.SelectedTaskID != store.tasks[1].ID {
		t.Fatalf("expected cursor at bottom, got %d", m.Cursor)
	}
}

func TestStatusMessages(t *testing.T) {
	m := loadedModel(t, newFakeStore())
	m = step(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m = step(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}

	m = step(t, m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}
}

func TestQuit(t *testing.T) {
	m := loadedModel(t, newFakeStore())
	updated, cmd := m.Update(keys("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !updated.(Model).Quitting {
		t.Fatal("expected quitting state")
	}
}
