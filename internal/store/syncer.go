package store

import "github.com/runoshun/treeboard/internal/domain"

// Syncer receives the remote side effects of committed mutations.
// Calls happen after the local commit and listener notification, outside the store
// lock, in the order the mutation produced them. Implementations must not block.
type Syncer interface {
	CreateTask(task domain.FlatTask)
	UpdateTask(id string, patch domain.TaskPatch)
	// DeleteTask removes a task. descendants lists the removed subtree deepest first.
	DeleteTask(id string, descendants []string)
	// ReorderTasks persists sibling positions rewritten by a structural change.
	ReorderTasks(updates []Reorder)
	CreateProject(project domain.Project)
	UpdateProject(id string, patch domain.ProjectPatch)
	DeleteProject(id string)
	// AddRelated and RemoveRelated cover both directions of the pair.
	AddRelated(a, b string)
	RemoveRelated(a, b string)
	AddDependency(taskID, dependsOnID string)
	RemoveDependency(taskID, dependsOnID string)
	SaveSettings(settings domain.Settings)
}

// Reorder is the new position of a task whose sortIndex changed as a side effect.
type Reorder struct {
	ID        string
	ParentID  string
	SortIndex int
}

// NopSyncer discards every call. It is used when no remote backend is configured.
type NopSyncer struct{}

var _ Syncer = NopSyncer{}

func (NopSyncer) CreateTask(domain.FlatTask) {}
func (NopSyncer) UpdateTask(string, domain.TaskPatch) {}
func (NopSyncer) DeleteTask(string, []string) {}
func (NopSyncer) ReorderTasks([]Reorder) {}
func (NopSyncer) CreateProject(domain.Project) {}
func (NopSyncer) UpdateProject(string, domain.ProjectPatch) {}
func (NopSyncer) DeleteProject(string) {}
func (NopSyncer) AddRelated(string, string) {}
func (NopSyncer) RemoveRelated(string, string) {}
func (NopSyncer) AddDependency(string, string) {}
func (NopSyncer) RemoveDependency(string, string) {}
func (NopSyncer) SaveSettings(domain.Settings) {}
