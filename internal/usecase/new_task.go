// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// NewTaskInput contains the parameters for creating a task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	Title       string          // Task title (required)
	Description string          // Task description (optional)
	ParentID    string          // Parent task ID (empty = root task)
	ProjectID   string          // Project for root tasks ("unassigned" for none)
	Status      domain.Status   // Initial status (empty = todo)
	Priority    domain.Priority // Initial priority (empty = medium)
	Assignee    string
	StartDate   string
	EndDate     string
}

// NewTaskOutput contains the result of creating a task.
type NewTaskOutput struct {
	TaskID string // ID of the created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	store *store.Store
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(st *store.Store) *NewTask {
	return &NewTask{store: st}
}

// Execute creates a new task with the given input.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if in.Status != "" && !in.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return nil, domain.ErrInvalidPriority
	}

	var md domain.MetadataPatch
	if in.Status != "" {
		md.Status = &in.Status
	}
	if in.Priority != "" {
		md.Priority = &in.Priority
	}
	if in.Assignee != "" {
		md.Assignee = &in.Assignee
	}
	if in.StartDate != "" {
		md.StartDate = &in.StartDate
	}
	if in.EndDate != "" {
		md.EndDate = &in.EndDate
	}

	ids, err := uc.store.AddTasks([]store.NewTask{{
		ParentID:    in.ParentID,
		Title:       title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		Metadata:    &md,
	}})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &NewTaskOutput{TaskID: ids[0]}, nil
}
