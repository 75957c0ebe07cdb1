package usecase

import (
	"context"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains a task and everything linked to it.
// Fields are ordered to minimize memory padding.
type ShowTaskOutput struct {
	Task         *domain.Task    // The task with its subtree
	Parent       *domain.Task    // nil for root tasks
	Project      *domain.Project // Project of the root of the task's tree, if any
	Related      []*domain.Task  // Related tasks (without subtrees)
	Dependencies []*domain.Task  // Tasks this task depends on
	Dependents   []*domain.Task  // Tasks that depend on this task
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	store *store.Store
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(st *store.Store) *ShowTask {
	return &ShowTask{store: st}
}

// Execute retrieves the task and its links.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, ok := uc.store.Find(in.TaskID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := &ShowTaskOutput{
		Task:         task,
		Parent:       uc.store.FindParent(in.TaskID),
		Related:      uc.lookup(uc.store.GetRelated(in.TaskID)),
		Dependencies: uc.lookup(uc.store.GetDependencies(in.TaskID)),
		Dependents:   uc.lookup(uc.store.GetDependents(in.TaskID)),
	}

	// Projects are carried by root tasks only.
	root := task
	for p := out.Parent; p != nil; p = uc.store.FindParent(p.ID) {
		root = p
	}
	if root.ProjectID != "" {
		if p, ok := uc.store.Project(root.ProjectID); ok {
			out.Project = &p
		}
	}
	return out, nil
}

func (uc *ShowTask) lookup(ids []string) []*domain.Task {
	out := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := uc.store.Find(id); ok {
			t.Children = nil
			out = append(out, t)
		}
	}
	return out
}
