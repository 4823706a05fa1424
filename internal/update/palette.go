package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	m.Status = StatusBar{}

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if err := m.addTask(a.Title); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Edit: func(e commands.EditArgs) (commands.Result, error) {
			task, err := m.store.Lookup(e.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.editTask(task.ID, e.Title); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Delete: func(d commands.DeleteArgs) (commands.Result, error) {
			task, err := m.store.Lookup(d.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.deleteTask(task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted: %s", task.Title)}, nil
		},
		Reload: func() (commands.Result, error) {
			m.reload()
			if m.Status.IsError {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		var cerr *commands.CommandError
		if errors.As(err, &cerr) {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		} else if !m.Status.IsError {
			// Lookup failures are not reported by the task helpers.
			m.LastError = err
			m.Status = StatusBar{Text: statusForError(err), IsError: true}
		}
		return m
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value())
}
