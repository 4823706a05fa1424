package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return ReloadTasksMsg{} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Prompt.Active {
			return m.handlePromptKey(typed), nil
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Add:
			m.openAddPrompt()
			return m, nil
		case m.Keys.Edit, "enter":
			m.openEditPrompt()
			return m, nil
		case m.Keys.Delete, "x", "delete":
			if task, ok := m.selectedTask(); ok {
				m.deleteTask(task.ID)
			} else {
				m.Status = StatusBar{Text: "no task selected", IsError: false}
			}
			return m, nil
		case m.Keys.Reload:
			m.reload()
			return m, nil
		case "j", "down":
			m.moveCursor(1)
			return m, nil
		case "k", "up":
			m.moveCursor(-1)
			return m, nil
		case "g", "home":
			m.selectIndex(0)
			return m, nil
		case "G", "end":
			m.selectIndex(len(m.Tasks) - 1)
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "D":
			m.cycleDensity()
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
	case ReloadTasksMsg:
		m.reload()
		return m, nil
	case AddTaskMsg:
		_ = m.addTask(typed.Title)
		return m, nil
	case EditTaskMsg:
		_ = m.editTask(typed.ID, typed.Title)
		return m, nil
	case DeleteTaskMsg:
		_ = m.deleteTask(typed.ID)
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
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	tasksPane := views.RenderTaskPanel(views.TaskPanelData{
		Count:    len(m.Tasks),
		ListView: m.taskList.View(),
	})
	side := ""
	if m.Prompt.Active {
		side = m.renderPrompt()
	} else {
		side = m.renderTaskDetail() + "\n" + m.renderCommandPalette() + m.renderHelpIfVisible()
	}

	selected := "-"
	if task, ok := m.selectedTask(); ok {
		selected = task.ShortID()
	}
	paneWidth, _, _ := densityDimensions(m.uiDensity)
	return views.RenderFrame(views.Frame{
		Summary:   fmt.Sprintf("tasklist | tasks: %d | selected: %s", len(m.Tasks), selected),
		Tasks:     tasksPane,
		Side:      side,
		Status:    m.Status.Text,
		StatusErr: m.Status.IsError,
		Keys: fmt.Sprintf("keys: %s add | %s/enter edit | %s delete | %s reload | / cmd | %s help | %s quit",
			m.Keys.Add, m.Keys.Edit, m.Keys.Delete, m.Keys.Reload, m.Keys.Help, m.Keys.Quit),
		PaneWidth: paneWidth + 2,
	})
}
