package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyTitle    = errors.New("model: task title is required")
	ErrTaskNotFound  = errors.New("model: task not found")
	ErrAmbiguousRef  = errors.New("model: ambiguous task reference")
	ErrEmptyTaskRef  = errors.New("model: task reference is required")
	ErrMissingTaskID = errors.New("model: task id is required")
)

// ShortIDLen is the number of id characters shown in lists.
const ShortIDLen = 8

type Task struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShortID returns the id prefix used when tasks are listed.
func (t Task) ShortID() string {
	if len(t.ID) <= ShortIDLen {
		return t.ID
	}
	return t.ID[:ShortIDLen]
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingTaskID
	}
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if !t.UpdatedAt.IsZero() && t.UpdatedAt.Before(t.CreatedAt) {
		return errors.New("model: task updated_at precedes created_at")
	}
	return nil
}

// ValidateTitle rejects the empty title. Any other value, surrounding
// whitespace included, is stored as given.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// FindByIDPrefix resolves ref against the task ids. Exact matches win over
// prefix matches; more than one prefix match is an error.
func FindByIDPrefix(tasks []Task, ref string) (Task, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return Task{}, ErrEmptyTaskRef
	}
	var (
		found   Task
		matches int
	)
	for _, task := range tasks {
		id := strings.ToLower(task.ID)
		if id == ref {
			return task, nil
		}
		if strings.HasPrefix(id, ref) {
			found = task
			matches++
		}
	}
	switch matches {
	case 0:
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	case 1:
		return found, nil
	default:
		return Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguousRef, ref, matches)
	}
}

// IndexOf returns the position of the task with the given id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i, task := range tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of tasks that shares no backing array with the input.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
