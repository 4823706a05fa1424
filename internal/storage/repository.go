package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)
	CountTasks(ctx context.Context) (int, error)

	// WithTx runs fn against a repository bound to a single transaction.
	// The transaction commits only when fn returns nil.
	WithTx(ctx context.Context, fn func(Repository) error) error
	Close() error
}
