package storage

import "time"

type Task struct {
	Seq       int64
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TaskListFilter struct {
	Limit  int
	Offset int
}
