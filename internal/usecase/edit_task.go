package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// EditTaskInput contains the parameters for editing a task.
// Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	Title            *string
	Description      *string
	ProjectID        *string // Root tasks only; "unassigned" clears the project
	Priority         *domain.Priority
	Assignee         *string
	StartDate        *string
	EndDate          *string
	KanbanOrder      *int
	TaskID           string
	ClearKanbanOrder bool
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task // The updated task
}

// EditTask is the use case for editing task fields.
type EditTask struct {
	store *store.Store
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(st *store.Store) *EditTask {
	return &EditTask{store: st}
}

// Execute applies the edits as one sparse patch.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.ErrEmptyTitle
		}
		in.Title = &title
	}
	patch := domain.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
	}
	md := domain.MetadataPatch{
		Priority:         in.Priority,
		Assignee:         in.Assignee,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		KanbanOrder:      in.KanbanOrder,
		ClearKanbanOrder: in.ClearKanbanOrder,
	}
	if !md.IsEmpty() {
		patch.Metadata = &md
	}
	if patch.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	if err := uc.store.Update(in.TaskID, patch); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	task, _ := uc.store.Find(in.TaskID)
	return &EditTaskOutput{Task: task}, nil
}
