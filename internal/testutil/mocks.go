// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/infra/docstore"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockRemote is a test double for domain.Remote. It keeps its data in an
// in-memory document, records every call and can fail selected operations.
// Fields are ordered to minimize memory padding.
type MockRemote struct {
	*docstore.Remote

	// Errors maps an operation name (e.g. "UpdateTask") to the error it returns.
	Errors map[string]error
	// SortIndexOverride, when set, replaces sort indexes written by UpdateTask.
	SortIndexOverride *int
	Calls             []string
	HealthErr         error
	mu                sync.Mutex
}

var _ domain.Remote = (*MockRemote)(nil)

// NewMockRemote creates an empty MockRemote.
func NewMockRemote() *MockRemote {
	return &MockRemote{
		Remote: docstore.NewMemoryRemote(),
		Errors: make(map[string]error),
	}
}

// Fail makes op return err from now on.
func (m *MockRemote) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[op] = err
}

// CallLog returns a copy of the recorded calls.
func (m *MockRemote) CallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

// Reset clears the recorded calls.
func (m *MockRemote) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}

func (m *MockRemote) record(op string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := op
	for _, a := range args {
		call += fmt.Sprintf(" %v", a)
	}
	m.Calls = append(m.Calls, call)
	return m.Errors[op]
}

// ListTasks returns every stored task.
func (m *MockRemote) ListTasks(ctx context.Context) ([]domain.FlatTask, error) {
	if err := m.record("ListTasks"); err != nil {
		return nil, err
	}
	return m.Remote.ListTasks(ctx)
}

// CreateTask stores a new task.
func (m *MockRemote) CreateTask(ctx context.Context, task domain.FlatTask) error {
	if err := m.record("CreateTask", task.ID); err != nil {
		return err
	}
	return m.Remote.CreateTask(ctx, task)
}

// UpdateTask applies a sparse patch.
func (m *MockRemote) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) error {
	if err := m.record("UpdateTask", id); err != nil {
		return err
	}
	m.mu.Lock()
	override := m.SortIndexOverride
	m.mu.Unlock()
	if override != nil && patch.SortIndex != nil {
		v := *override
		patch.SortIndex = &v
	}
	return m.Remote.UpdateTask(ctx, id, patch)
}

// DeleteTask removes a single task.
func (m *MockRemote) DeleteTask(ctx context.Context, id string) error {
	if err := m.record("DeleteTask", id); err != nil {
		return err
	}
	return m.Remote.DeleteTask(ctx, id)
}

// ListProjects returns every stored project.
func (m *MockRemote) ListProjects(ctx context.Context) ([]domain.Project, error) {
	if err := m.record("ListProjects"); err != nil {
		return nil, err
	}
	return m.Remote.ListProjects(ctx)
}

// CreateProject stores a new project.
func (m *MockRemote) CreateProject(ctx context.Context, project domain.Project) error {
	if err := m.record("CreateProject", project.ID); err != nil {
		return err
	}
	return m.Remote.CreateProject(ctx, project)
}

// UpdateProject applies a sparse patch.
func (m *MockRemote) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) error {
	if err := m.record("UpdateProject", id); err != nil {
		return err
	}
	return m.Remote.UpdateProject(ctx, id, patch)
}

// DeleteProject removes a project.
func (m *MockRemote) DeleteProject(ctx context.Context, id string) error {
	if err := m.record("DeleteProject", id); err != nil {
		return err
	}
	return m.Remote.DeleteProject(ctx, id)
}

// ListDependencies returns every dependency edge.
func (m *MockRemote) ListDependencies(ctx context.Context) ([]domain.Edge, error) {
	if err := m.record("ListDependencies"); err != nil {
		return nil, err
	}
	return m.Remote.ListDependencies(ctx)
}

// AddDependency stores a dependency edge.
func (m *MockRemote) AddDependency(ctx context.Context, taskID, dependsOnID string) error {
	if err := m.record("AddDependency", taskID, dependsOnID); err != nil {
		return err
	}
	return m.Remote.AddDependency(ctx, taskID, dependsOnID)
}

// RemoveDependency deletes a dependency edge.
func (m *MockRemote) RemoveDependency(ctx context.Context, taskID, dependsOnID string) error {
	if err := m.record("RemoveDependency", taskID, dependsOnID); err != nil {
		return err
	}
	return m.Remote.RemoveDependency(ctx, taskID, dependsOnID)
}

// ListRelated returns every related entry.
func (m *MockRemote) ListRelated(ctx context.Context) ([]domain.Edge, error) {
	if err := m.record("ListRelated"); err != nil {
		return nil, err
	}
	return m.Remote.ListRelated(ctx)
}

// AddRelated stores one direction of a related pair.
func (m *MockRemote) AddRelated(ctx context.Context, taskID, relatedID string) error {
	if err := m.record("AddRelated", taskID, relatedID); err != nil {
		return err
	}
	return m.Remote.AddRelated(ctx, taskID, relatedID)
}

// RemoveRelated deletes one direction of a related pair.
func (m *MockRemote) RemoveRelated(ctx context.Context, taskID, relatedID string) error {
	if err := m.record("RemoveRelated", taskID, relatedID); err != nil {
		return err
	}
	return m.Remote.RemoveRelated(ctx, taskID, relatedID)
}

// GetSetting returns a stored setting.
func (m *MockRemote) GetSetting(ctx context.Context, key string) (string, bool, error) {
	if err := m.record("GetSetting", key); err != nil {
		return "", false, err
	}
	return m.Remote.GetSetting(ctx, key)
}

// PutSetting stores a setting.
func (m *MockRemote) PutSetting(ctx context.Context, key, value string) error {
	if err := m.record("PutSetting", key); err != nil {
		return err
	}
	return m.Remote.PutSetting(ctx, key, value)
}

// Health returns HealthErr.
func (m *MockRemote) Health(_ context.Context) error {
	_ = m.record("Health")
	return m.HealthErr
}

// Report is one call recorded by MockReporter.
type Report struct {
	Err    error
	Op     string
	Notify bool
}

// MockReporter is a test double for domain.ErrorReporter.
type MockReporter struct {
	Reports  []Report
	Warnings []string
	mu       sync.Mutex
}

var _ domain.ErrorReporter = (*MockReporter)(nil)

// Report records a failure.
func (m *MockReporter) Report(op string, err error, notify bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports = append(m.Reports, Report{Op: op, Err: err, Notify: notify})
}

// Warn records a warning.
func (m *MockReporter) Warn(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Warnings = append(m.Warnings, msg)
}

// Snapshot returns copies of the recorded reports and warnings.
func (m *MockReporter) Snapshot() ([]Report, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Report(nil), m.Reports...), append([]string(nil), m.Warnings...)
}
