package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// MoveAction selects how a task is relocated.
type MoveAction int

const (
	MoveTo      MoveAction = iota // Under ParentID ("" = root level) at Index
	MoveIndent                    // Under the previous sibling
	MoveOutdent                   // After the current parent
)

// MoveTaskInput contains the parameters for moving a task.
type MoveTaskInput struct {
	TaskID   string
	ParentID string // MoveTo only; empty moves to the root level
	Index    int    // MoveTo only; negative appends
	Action   MoveAction
}

// MoveTaskOutput contains the position of the task after the move.
type MoveTaskOutput struct {
	ParentID  string // Empty for root tasks
	SortIndex int
}

// MoveTask is the use case for outline moves.
type MoveTask struct {
	store *store.Store
}

// NewMoveTask creates a new MoveTask use case.
func NewMoveTask(st *store.Store) *MoveTask {
	return &MoveTask{store: st}
}

// Execute moves the task.
func (uc *MoveTask) Execute(_ context.Context, in MoveTaskInput) (*MoveTaskOutput, error) {
	var err error
	switch in.Action {
	case MoveIndent:
		err = uc.store.Indent(in.TaskID)
	case MoveOutdent:
		err = uc.store.Outdent(in.TaskID)
	default:
		err = uc.store.Move(in.TaskID, in.ParentID, in.Index)
	}
	if err != nil {
		return nil, fmt.Errorf("move task: %w", err)
	}

	task, ok := uc.store.Find(in.TaskID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := &MoveTaskOutput{SortIndex: task.SortIndex}
	if parent := uc.store.FindParent(in.TaskID); parent != nil {
		out.ParentID = parent.ID
	}
	return out, nil
}
