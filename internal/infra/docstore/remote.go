package docstore

import (
	"context"
	"sync"

	"github.com/runoshun/treeboard/internal/domain"
)

// Storage loads and saves a Document. View must not keep the document after fn
// returns; Update persists the document when fn succeeds.
type Storage interface {
	View(fn func(*Document) error) error
	Update(fn func(*Document) error) error
}

// Remote implements domain.Remote on top of a Storage.
type Remote struct {
	storage Storage
}

var _ domain.Remote = (*Remote)(nil)

// NewRemote creates a Remote backed by storage.
func NewRemote(storage Storage) *Remote {
	return &Remote{storage: storage}
}

// ListTasks returns every stored task.
func (r *Remote) ListTasks(_ context.Context) ([]domain.FlatTask, error) {
	var out []domain.FlatTask
	err := r.storage.View(func(d *Document) error {
		out = d.Clone().Tasks
		return nil
	})
	return out, err
}

// TaskTree returns every stored task nested by parent.
func (r *Remote) TaskTree(ctx context.Context) ([]*domain.Task, error) {
	flat, err := r.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildTree(flat), nil
}

// CreateTask stores a new task.
func (r *Remote) CreateTask(_ context.Context, task domain.FlatTask) error {
	return r.storage.Update(func(d *Document) error { return d.CreateTask(task) })
}

// UpdateTask applies a sparse patch to a task.
func (r *Remote) UpdateTask(_ context.Context, id string, patch domain.TaskPatch) error {
	return r.storage.Update(func(d *Document) error { return d.UpdateTask(id, patch) })
}

// DeleteTask removes a single task.
func (r *Remote) DeleteTask(_ context.Context, id string) error {
	return r.storage.Update(func(d *Document) error { return d.DeleteTask(id) })
}

// ListProjects returns every stored project.
func (r *Remote) ListProjects(_ context.Context) ([]domain.Project, error) {
	var out []domain.Project
	err := r.storage.View(func(d *Document) error {
		out = d.Clone().Projects
		return nil
	})
	return out, err
}

// CreateProject stores a new project.
func (r *Remote) CreateProject(_ context.Context, project domain.Project) error {
	return r.storage.Update(func(d *Document) error { return d.CreateProject(project) })
}

// UpdateProject applies a sparse patch to a project.
func (r *Remote) UpdateProject(_ context.Context, id string, patch domain.ProjectPatch) error {
	return r.storage.Update(func(d *Document) error { return d.UpdateProject(id, patch) })
}

// DeleteProject removes a project.
func (r *Remote) DeleteProject(_ context.Context, id string) error {
	return r.storage.Update(func(d *Document) error { return d.DeleteProject(id) })
}

// ListDependencies returns every dependency edge.
func (r *Remote) ListDependencies(_ context.Context) ([]domain.Edge, error) {
	var out []domain.Edge
	err := r.storage.View(func(d *Document) error {
		out = d.Clone().Dependencies
		return nil
	})
	return out, err
}

// TaskDependencies returns the ids taskID depends on.
func (r *Remote) TaskDependencies(_ context.Context, taskID string) ([]string, error) {
	var out []string
	err := r.storage.View(func(d *Document) error {
		out = targets(d.Dependencies, taskID)
		return nil
	})
	return out, err
}

// AddDependency records that taskID depends on dependsOnID.
func (r *Remote) AddDependency(_ context.Context, taskID, dependsOnID string) error {
	return r.storage.Update(func(d *Document) error {
		d.AddDependency(taskID, dependsOnID)
		return nil
	})
}

// RemoveDependency deletes a dependency edge.
func (r *Remote) RemoveDependency(_ context.Context, taskID, dependsOnID string) error {
	return r.storage.Update(func(d *Document) error { return d.RemoveDependency(taskID, dependsOnID) })
}

// ListRelated returns every stored related entry.
func (r *Remote) ListRelated(_ context.Context) ([]domain.Edge, error) {
	var out []domain.Edge
	err := r.storage.View(func(d *Document) error {
		out = d.Clone().Related
		return nil
	})
	return out, err
}

// TaskRelated returns the ids related to taskID.
func (r *Remote) TaskRelated(_ context.Context, taskID string) ([]string, error) {
	var out []string
	err := r.storage.View(func(d *Document) error {
		out = targets(d.Related, taskID)
		return nil
	})
	return out, err
}

// AddRelated stores one direction of a related pair.
func (r *Remote) AddRelated(_ context.Context, taskID, relatedID string) error {
	return r.storage.Update(func(d *Document) error {
		d.AddRelated(taskID, relatedID)
		return nil
	})
}

// RemoveRelated deletes one direction of a related pair.
func (r *Remote) RemoveRelated(_ context.Context, taskID, relatedID string) error {
	return r.storage.Update(func(d *Document) error { return d.RemoveRelated(taskID, relatedID) })
}

// GetSetting returns a stored setting.
func (r *Remote) GetSetting(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := r.storage.View(func(d *Document) error {
		value, ok = d.Settings[key]
		return nil
	})
	return value, ok, err
}

// PutSetting stores a setting.
func (r *Remote) PutSetting(_ context.Context, key, value string) error {
	return r.storage.Update(func(d *Document) error {
		d.Settings[key] = value
		return nil
	})
}

// DeleteSetting removes a setting. Removing an absent key is a no-op.
func (r *Remote) DeleteSetting(_ context.Context, key string) error {
	return r.storage.Update(func(d *Document) error {
		delete(d.Settings, key)
		return nil
	})
}

// Health verifies that the document can be read.
func (r *Remote) Health(_ context.Context) error {
	return r.storage.View(func(*Document) error { return nil })
}

// Memory is a Storage that keeps the document in memory.
type Memory struct {
	doc *Document
	mu  sync.RWMutex
}

var _ Storage = (*Memory)(nil)

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{doc: NewDocument()}
}

// NewMemoryRemote returns a domain.Remote over a fresh in-memory document.
func NewMemoryRemote() *Remote {
	return NewRemote(NewMemory())
}

// View implements Storage.
func (m *Memory) View(fn func(*Document) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(m.doc)
}

// Update implements Storage. The document is only replaced when fn succeeds.
func (m *Memory) Update(fn func(*Document) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	m.doc = next
	return nil
}
