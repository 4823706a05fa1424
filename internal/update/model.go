package update

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/model"
)

// TaskStore is the storage manager surface the list view drives.
type TaskStore interface {
	FetchAll(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, title string) (model.Task, error)
	Update(ctx context.Context, id, title string) (model.Task, error)
	Delete(ctx context.Context, id string) error
	Lookup(ref string) (model.Task, error)
	Tasks() []model.Task
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add    string
	Edit   string
	Delete string
	Reload string
	Help   string
	Quit   string
}

type PromptMode string

const (
	PromptAdd  PromptMode = "add"
	PromptEdit PromptMode = "edit"
)

type PromptState struct {
	Active  bool
	Mode    PromptMode
	TaskID  string
	Title   string
	Message string
	Err     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Tasks          []model.Task
	Cursor         int
	SelectedTaskID string
	Prompt         PromptState
	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	store TaskStore
	ctx   context.Context

	taskList       list.Model
	promptInput    textinput.Model
	commandInput   textinput.Model
	helpModel      help.Model
	detailViewport viewport.Model
	uiDensity      int
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

// ReloadTasksMsg replaces the rows with a fresh fetch from the store.
type ReloadTasksMsg struct{}

type AddTaskMsg struct {
	Title string
}

type EditTaskMsg struct {
	ID    string
	Title string
}

type DeleteTaskMsg struct {
	ID string
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(ctx context.Context, store TaskStore, cfg config.RuntimeConfig) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		store: store,
		ctx:   ctx,
		Keys: GlobalKeyMap{
			Add:    "a",
			Edit:   "e",
			Delete: "d",
			Reload: "r",
			Help:   "?",
			Quit:   "q",
		},
		uiDensity: 1,
	}
	if cfg.Density >= 1 && cfg.Density <= 3 {
		m.uiDensity = cfg.Density
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.taskList.Title = "Tasks"
	m.taskList.SetShowHelp(false)
	m.taskList.SetShowStatusBar(false)
	m.taskList.SetFilteringEnabled(false)

	m.promptInput = textinput.New()
	m.promptInput.Prompt = "> "
	m.promptInput.CharLimit = 256
	m.promptInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.detailViewport = viewport.New(54, 12)
}

func (m *Model) syncBubbleData() {
	listWidth, listHeight, viewportHeight := densityDimensions(m.uiDensity)
	m.taskList.SetSize(listWidth, listHeight)
	m.detailViewport.Height = viewportHeight

	items := make([]list.Item, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		items = append(items, listItem{title: t.Title, description: t.ShortID()})
	}
	m.taskList.SetItems(items)
	if len(items) > 0 {
		m.taskList.Select(m.Cursor)
	}

	if task, ok := m.selectedTask(); ok {
		m.detailViewport.SetContent(renderTaskMarkdown(task, m.detailViewport.Width))
	} else {
		m.detailViewport.SetContent("")
	}
}

func densityDimensions(level int) (listWidth int, listHeight int, viewportHeight int) {
	switch level {
	case 2:
		return 60, 16, 14
	case 3:
		return 64, 20, 16
	default:
		return 56, 12, 12
	}
}
