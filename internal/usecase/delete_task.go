package usecase

import (
	"context"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Removed int // Number of tasks removed, the task itself included
}

// DeleteTask is the use case for deleting a task and its subtree.
type DeleteTask struct {
	store *store.Store
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(st *store.Store) *DeleteTask {
	return &DeleteTask{store: st}
}

// Execute deletes the task with the given ID together with its descendants.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, ok := uc.store.Find(in.TaskID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	removed := len(domain.CollectIDs([]*domain.Task{task}))
	if !uc.store.Delete(in.TaskID) {
		return nil, domain.ErrTaskNotFound
	}
	return &DeleteTaskOutput{Removed: removed}, nil
}
