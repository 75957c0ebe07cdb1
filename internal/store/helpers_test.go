package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/stretchr/testify/require"
)

// recordingSyncer records every call as a short string.
type recordingSyncer struct {
	calls    []string
	patches  map[string][]domain.TaskPatch
	reorders [][]Reorder
	settings []domain.Settings
	mu       sync.Mutex
}

func newRecordingSyncer() *recordingSyncer {
	return &recordingSyncer{patches: map[string][]domain.TaskPatch{}}
}

func (r *recordingSyncer) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingSyncer) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingSyncer) CreateTask(task domain.FlatTask) {
	r.record("create %s parent=%s", task.ID, task.ParentID)
}

func (r *recordingSyncer) UpdateTask(id string, patch domain.TaskPatch) {
	r.mu.Lock()
	r.patches[id] = append(r.patches[id], patch)
	r.mu.Unlock()
	r.record("update %s", id)
}

func (r *recordingSyncer) DeleteTask(id string, descendants []string) {
	r.record("delete %s %v", id, descendants)
}

func (r *recordingSyncer) ReorderTasks(updates []Reorder) {
	r.mu.Lock()
	r.reorders = append(r.reorders, updates)
	r.mu.Unlock()
	r.record("reorder %d", len(updates))
}

func (r *recordingSyncer) CreateProject(p domain.Project) { r.record("create-project %s", p.ID) }

func (r *recordingSyncer) UpdateProject(id string, _ domain.ProjectPatch) {
	r.record("update-project %s", id)
}

func (r *recordingSyncer) DeleteProject(id string) { r.record("delete-project %s", id) }

func (r *recordingSyncer) AddRelated(a, b string) { r.record("relate %s %s", a, b) }

func (r *recordingSyncer) RemoveRelated(a, b string) { r.record("unrelate %s %s", a, b) }

func (r *recordingSyncer) AddDependency(a, b string) { r.record("depend %s %s", a, b) }

func (r *recordingSyncer) RemoveDependency(a, b string) { r.record("undepend %s %s", a, b) }

func (r *recordingSyncer) SaveSettings(s domain.Settings) {
	r.mu.Lock()
	r.settings = append(r.settings, s)
	r.mu.Unlock()
	r.record("settings")
}

func mustAdd(t *testing.T, s *Store, parentID, title string) string {
	t.Helper()
	id, err := s.Add(parentID, title, "", "")
	require.NoError(t, err)
	return id
}

func mustFind(t *testing.T, s *Store, id string) *domain.Task {
	t.Helper()
	task, ok := s.Find(id)
	require.True(t, ok, "task %s not found", id)
	return task
}

// requireTreeInvariant checks unique ids and contiguous sibling indexes.
func requireTreeInvariant(t *testing.T, tasks []*domain.Task) {
	t.Helper()
	seen := map[string]bool{}
	var check func(list []*domain.Task)
	check = func(list []*domain.Task) {
		for i, task := range list {
			require.Equal(t, i, task.SortIndex, "task %s", task.ID)
			require.False(t, seen[task.ID], "duplicate id %s", task.ID)
			seen[task.ID] = true
			check(task.Children)
		}
	}
	check(tasks)
	domain.Walk(tasks, func(task, parent *domain.Task) bool {
		if parent != nil {
			require.Empty(t, task.ProjectID, "non-root %s carries a project", task.ID)
		}
		return true
	})
}

func statusPtr(s domain.Status) *domain.Status { return &s }

func strPtr(s string) *string { return &s }
