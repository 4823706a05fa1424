package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m *Model) openAddPrompt() {
	m.Prompt = PromptState{
		Active:  true,
		Mode:    PromptAdd,
		Title:   "New Task",
		Message: "What do you want to do?",
	}
	m.promptInput.Placeholder = "New Task"
	m.promptInput.SetValue("")
	m.promptInput.Focus()
}

func (m *Model) openEditPrompt() {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: false}
		return
	}
	m.Prompt = PromptState{
		Active:  true,
		Mode:    PromptEdit,
		TaskID:  task.ID,
		Title:   "Change the task",
		Message: "Do you want to change the task?",
	}
	m.promptInput.Placeholder = "Update the task"
	m.promptInput.SetValue(task.Title)
	m.promptInput.CursorEnd()
	m.promptInput.Focus()
}

func (m *Model) closePrompt() {
	m.Prompt = PromptState{}
	m.promptInput.SetValue("")
	m.promptInput.Blur()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		m.Status = StatusBar{Text: "cancelled", IsError: false}
	case "enter":
		title := m.promptInput.Value()
		// Empty titles never reach the store.
		if err := model.ValidateTitle(title); err != nil {
			m.Prompt.Err = "title must not be empty"
			return m
		}
		mode, id := m.Prompt.Mode, m.Prompt.TaskID
		m.closePrompt()
		if mode == PromptEdit {
			_ = m.editTask(id, title)
		} else {
			_ = m.addTask(title)
		}
	default:
		m.Prompt.Err = ""
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		_ = cmd
	}
	return m
}

func (m Model) renderPrompt() string {
	return views.RenderPromptPanel(views.PromptPanelData{
		Title:     m.Prompt.Title,
		Message:   m.Prompt.Message,
		InputView: m.promptInput.View(),
		ErrorText: m.Prompt.Err,
	})
}
