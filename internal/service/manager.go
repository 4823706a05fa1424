// Package service holds the storage manager: the single owner of the task
// collection and the durable store behind it.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

type changeKind int

const (
	changeInsert changeKind = iota
	changeUpdate
	changeDelete
)

func (k changeKind) String() string {
	switch k {
	case changeInsert:
		return "insert"
	case changeUpdate:
		return "update"
	case changeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

type change struct {
	kind changeKind
	task model.Task
}

const defaultPageSize = 200

type Option func(*StorageManager)

func WithLogger(logger *log.Logger) Option {
	return func(m *StorageManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *StorageManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithPageSize sets how many rows FetchAll reads per query.
func WithPageSize(n int) Option {
	return func(m *StorageManager) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(m *StorageManager) {
		if newID != nil {
			m.newID = newID
		}
	}
}

// StorageManager keeps an in-memory task collection in step with a
// transactional repository. Mutations are staged as pending changes and
// written in one transaction by SavePendingChanges. It is meant to be driven
// from a single goroutine.
type StorageManager struct {
	repo     storage.Repository
	logger   *log.Logger
	now      func() time.Time
	newID    func() string
	pageSize int

	tasks     []model.Task
	committed []model.Task
	pending   []change
}

func New(repo storage.Repository, opts ...Option) (*StorageManager, error) {
	if repo == nil {
		return nil, newError("open", KindOpen, "", errors.New("nil repository"))
	}
	m := &StorageManager{
		repo:     repo,
		logger:   log.New(io.Discard),
		now:      time.Now,
		newID:    uuid.NewString,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Open opens the SQLite store at path and loads its tasks.
func Open(ctx context.Context, path string, opts ...Option) (*StorageManager, error) {
	repo, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, newError("open", KindOpen, "", err)
	}
	m, err := New(repo, opts...)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	if _, err := m.FetchAll(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}
	m.logger.Info("store opened", "path", path, "tasks", len(m.tasks))
	return m, nil
}

func (m *StorageManager) Close() error {
	return m.repo.Close()
}

// FetchAll replaces the in-memory collection with the persisted tasks. On
// failure the collection is left as it was.
func (m *StorageManager) FetchAll(ctx context.Context) ([]model.Task, error) {
	if m.HasChanges() {
		return nil, newError("fetch", KindPending, "", fmt.Errorf("%d unsaved change(s)", len(m.pending)))
	}
	tasks, err := m.readAll(ctx)
	if err != nil {
		m.logger.Error("fetch tasks failed", "err", err)
		return nil, newError("fetch", KindFetch, "", err)
	}
	m.tasks = tasks
	m.committed = model.Clone(tasks)
	return model.Clone(tasks), nil
}

// Tasks returns a copy of the in-memory collection, including staged changes.
func (m *StorageManager) Tasks() []model.Task {
	return model.Clone(m.tasks)
}

// readAll lists the stored tasks page by page, sized by the row count.
func (m *StorageManager) readAll(ctx context.Context) ([]model.Task, error) {
	total, err := m.repo.CountTasks(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, total)
	for offset := 0; offset < total; {
		rows, err := m.repo.ListTasks(ctx, storage.TaskListFilter{Limit: m.pageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			tasks = append(tasks, toModel(row))
		}
		if len(rows) < m.pageSize {
			break
		}
		offset += len(rows)
	}
	return tasks, nil
}

// Get reads the stored row for id. Staged changes are not visible to it.
func (m *StorageManager) Get(ctx context.Context, id string) (model.Task, error) {
	row, err := m.repo.GetTask(ctx, id)
	switch {
	case err == nil:
		return toModel(row), nil
	case errors.Is(err, storage.ErrNotFound):
		return model.Task{}, newError("get", KindNotFound, id, err)
	default:
		return model.Task{}, newError("get", KindFetch, id, err)
	}
}

// Lookup resolves a user supplied id prefix to a task.
func (m *StorageManager) Lookup(ref string) (model.Task, error) {
	task, err := model.FindByIDPrefix(m.tasks, ref)
	switch {
	case err == nil:
		return task, nil
	case errors.Is(err, model.ErrTaskNotFound):
		return model.Task{}, newError("lookup", KindNotFound, ref, err)
	default:
		return model.Task{}, newError("lookup", KindInvalid, ref, err)
	}
}

// Create adds a task and persists it. If the save fails every unsaved change
// is rolled back.
func (m *StorageManager) Create(ctx context.Context, title string) (model.Task, error) {
	task, err := m.Insert(title)
	if err != nil {
		return model.Task{}, err
	}
	if err := m.saveOrRollback(ctx, "create", task.ID); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// Update replaces the title of the task with the given id and persists it.
func (m *StorageManager) Update(ctx context.Context, id, title string) (model.Task, error) {
	task, err := m.Rename(id, title)
	if err != nil {
		return model.Task{}, err
	}
	if err := m.saveOrRollback(ctx, "update", id); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (m *StorageManager) Delete(ctx context.Context, id string) error {
	if err := m.Remove(id); err != nil {
		return err
	}
	return m.saveOrRollback(ctx, "delete", id)
}

// Insert stages a new task without writing it.
func (m *StorageManager) Insert(title string) (model.Task, error) {
	if err := model.ValidateTitle(title); err != nil {
		return model.Task{}, newError("create", KindInvalid, "", err)
	}
	now := m.now().UTC()
	task := model.Task{
		ID:        m.newID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tasks = append(m.tasks, task)
	m.stage(change{kind: changeInsert, task: task})
	return task, nil
}

// Rename stages a title change. An unchanged title stages nothing.
func (m *StorageManager) Rename(id, title string) (model.Task, error) {
	if err := model.ValidateTitle(title); err != nil {
		return model.Task{}, newError("update", KindInvalid, id, err)
	}
	idx := model.IndexOf(m.tasks, id)
	if idx < 0 {
		return model.Task{}, newError("update", KindNotFound, id, model.ErrTaskNotFound)
	}
	task := m.tasks[idx]
	if task.Title == title {
		return task, nil
	}
	task.Title = title
	task.UpdatedAt = m.now().UTC()
	m.tasks[idx] = task
	m.stage(change{kind: changeUpdate, task: task})
	return task, nil
}

// Remove stages the deletion of a task.
func (m *StorageManager) Remove(id string) error {
	idx := model.IndexOf(m.tasks, id)
	if idx < 0 {
		return newError("delete", KindNotFound, id, model.ErrTaskNotFound)
	}
	task := m.tasks[idx]
	m.tasks = slices.Delete(m.tasks, idx, idx+1)
	m.stage(change{kind: changeDelete, task: task})
	return nil
}

func (m *StorageManager) HasChanges() bool {
	return len(m.pending) > 0
}

// SavePendingChanges writes all staged changes in one transaction. It reports
// whether a commit happened; with nothing staged it is a no-op. On failure
// the staged changes are kept so the caller can retry or discard them.
func (m *StorageManager) SavePendingChanges(ctx context.Context) (bool, error) {
	if !m.HasChanges() {
		return false, nil
	}
	for _, c := range m.pending {
		if c.kind == changeDelete {
			continue
		}
		if err := c.task.Validate(); err != nil {
			return false, newError("save", KindInvalid, c.task.ID, err)
		}
	}
	err := m.repo.WithTx(ctx, func(tx storage.Repository) error {
		for _, c := range m.pending {
			if err := apply(ctx, tx, c); err != nil {
				return fmt.Errorf("%s %s: %w", c.kind, c.task.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		kind := KindSave
		if errors.Is(err, storage.ErrNotFound) {
			kind = KindNotFound
		}
		m.logger.Error("save pending changes failed", "changes", len(m.pending), "err", err)
		return false, newError("save", kind, "", err)
	}
	m.logger.Debug("committed pending changes", "changes", len(m.pending))
	m.pending = nil
	m.committed = model.Clone(m.tasks)
	return true, nil
}

// DiscardPendingChanges restores the last committed collection and returns
// how many staged changes were dropped.
func (m *StorageManager) DiscardPendingChanges() int {
	n := len(m.pending)
	m.tasks = model.Clone(m.committed)
	m.pending = nil
	return n
}

func (m *StorageManager) saveOrRollback(ctx context.Context, op, id string) error {
	if _, err := m.SavePendingChanges(ctx); err != nil {
		dropped := m.DiscardPendingChanges()
		m.logger.Warn("rolled back unsaved changes", "op", op, "id", id, "changes", dropped)
		var se *Error
		if errors.As(err, &se) {
			return newError(op, se.Kind, id, se.Err)
		}
		return newError(op, KindSave, id, err)
	}
	return nil
}

// stage records c, folding it into an earlier change for the same task so
// the pending list holds at most one entry per task.
func (m *StorageManager) stage(c change) {
	idx := slices.IndexFunc(m.pending, func(p change) bool { return p.task.ID == c.task.ID })
	if idx < 0 {
		m.pending = append(m.pending, c)
		return
	}
	prev := m.pending[idx]
	switch {
	case prev.kind == changeInsert && c.kind == changeUpdate:
		m.pending[idx].task = c.task
	case prev.kind == changeInsert && c.kind == changeDelete:
		m.pending = slices.Delete(m.pending, idx, idx+1)
	default:
		m.pending[idx] = c
	}
}

func apply(ctx context.Context, repo storage.Repository, c change) error {
	switch c.kind {
	case changeInsert:
		return repo.CreateTask(ctx, toEntity(c.task))
	case changeUpdate:
		return repo.UpdateTask(ctx, toEntity(c.task))
	case changeDelete:
		return repo.DeleteTask(ctx, c.task.ID)
	default:
		return fmt.Errorf("unknown change kind %d", c.kind)
	}
}

func toModel(in storage.Task) model.Task {
	return model.Task{
		ID:        in.ID,
		Title:     in.Title,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
}

func toEntity(in model.Task) storage.Task {
	return storage.Task{
		ID:        in.ID,
		Title:     in.Title,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
}
