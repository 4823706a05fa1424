package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/service"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m *Model) reload() {
	tasks, err := m.store.FetchAll(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.setTasks(tasks, m.SelectedTaskID)
	m.Status = StatusBar{Text: fmt.Sprintf("loaded %d task(s)", len(tasks)), IsError: false}
}

func (m *Model) addTask(title string) error {
	if err := model.ValidateTitle(title); err != nil {
		m.Status = StatusBar{Text: "task title is required", IsError: true}
		return err
	}
	task, err := m.store.Create(m.ctx, title)
	if err != nil {
		m.fail(err)
		return err
	}
	m.setTasks(m.store.Tasks(), task.ID)
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", task.Title), IsError: false}
	return nil
}

func (m *Model) editTask(id, title string) error {
	if err := model.ValidateTitle(title); err != nil {
		m.Status = StatusBar{Text: "task title is required", IsError: true}
		return err
	}
	task, err := m.store.Update(m.ctx, id, title)
	if err != nil {
		m.fail(err)
		return err
	}
	m.setTasks(m.store.Tasks(), task.ID)
	m.Status = StatusBar{Text: fmt.Sprintf("updated: %s", task.Title), IsError: false}
	return nil
}

func (m *Model) deleteTask(id string) error {
	idx := model.IndexOf(m.Tasks, id)
	if err := m.store.Delete(m.ctx, id); err != nil {
		m.fail(err)
		return err
	}
	tasks := m.store.Tasks()
	next := ""
	if len(tasks) > 0 {
		// Select the row that moved into the deleted slot.
		if idx < 0 || idx >= len(tasks) {
			idx = len(tasks) - 1
		}
		next = tasks[idx].ID
	}
	m.setTasks(tasks, next)
	m.Status = StatusBar{Text: "task deleted", IsError: false}
	return nil
}

// fail reports err and re-syncs rows with the store, which has already
// rolled back whatever the failed operation staged.
func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: statusForError(err), IsError: true}
	if m.store != nil && service.KindOf(err) != service.KindFetch {
		m.setTasks(m.store.Tasks(), m.SelectedTaskID)
	}
}

func (m *Model) setTasks(tasks []model.Task, selectID string) {
	m.Tasks = tasks
	if len(tasks) == 0 {
		m.Cursor = 0
		m.SelectedTaskID = ""
		return
	}
	if idx := model.IndexOf(tasks, selectID); idx >= 0 {
		m.Cursor = idx
	}
	m.selectIndex(m.Cursor)
}

func (m *Model) selectIndex(idx int) {
	if len(m.Tasks) == 0 {
		m.Cursor = 0
		m.SelectedTaskID = ""
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.Tasks) {
		idx = len(m.Tasks) - 1
	}
	m.Cursor = idx
	m.SelectedTaskID = m.Tasks[idx].ID
}

func (m *Model) moveCursor(delta int) {
	m.selectIndex(m.Cursor + delta)
}

func (m Model) selectedTask() (model.Task, bool) {
	idx := model.IndexOf(m.Tasks, m.SelectedTaskID)
	if idx < 0 {
		return model.Task{}, false
	}
	return m.Tasks[idx], true
}

func (m Model) renderTaskDetail() string {
	task, ok := m.selectedTask()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	return views.RenderTaskDetail(views.TaskDetailData{
		ID:           task.ID,
		Title:        task.Title,
		CreatedAt:    task.CreatedAt.Local().Format(time.DateTime),
		UpdatedAt:    task.UpdatedAt.Local().Format(time.DateTime),
		MarkdownView: m.detailViewport.View(),
	})
}

func renderTaskMarkdown(task model.Task, width int) string {
	return views.RenderMarkdown("## "+escapeMarkdown(task.Title), width)
}

func statusForError(err error) string {
	var se *service.Error
	if !errors.As(err, &se) {
		return err.Error()
	}
	switch se.Kind {
	case service.KindNotFound:
		return "task not found"
	case service.KindInvalid:
		if errors.Is(err, model.ErrEmptyTitle) {
			return "task title is required"
		}
		if se.Err != nil {
			return se.Err.Error()
		}
		return se.Error()
	case service.KindFetch:
		return fmt.Sprintf("could not load tasks: %v", se.Err)
	case service.KindSave:
		return fmt.Sprintf("could not save changes: %v", se.Err)
	default:
		return se.Error()
	}
}

func escapeMarkdown(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`)
	return r.Replace(s)
}
