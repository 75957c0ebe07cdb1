package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// SetStatusInput contains the parameters for changing a task status.
type SetStatusInput struct {
	TaskID  string
	Status  domain.Status
	Cascade bool // Also set every descendant
}

// SetStatusOutput lists the statuses written, including parent rollups.
type SetStatusOutput struct {
	Changes []domain.StatusChange
}

// SetStatus is the use case for changing a task status.
type SetStatus struct {
	store *store.Store
}

// NewSetStatus creates a new SetStatus use case.
func NewSetStatus(st *store.Store) *SetStatus {
	return &SetStatus{store: st}
}

// Execute sets the status. Without Cascade a parent's own status is still
// recomputed from its children by the rollup rule.
func (uc *SetStatus) Execute(_ context.Context, in SetStatusInput) (*SetStatusOutput, error) {
	if !in.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	if in.Cascade {
		changes, err := uc.store.SetStatusCascade(in.TaskID, in.Status)
		if err != nil {
			return nil, fmt.Errorf("set status: %w", err)
		}
		return &SetStatusOutput{Changes: changes}, nil
	}

	before := statusIndex(uc.store.Flatten())
	if err := uc.store.Update(in.TaskID, domain.StatusPatch(in.Status)); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	var changes []domain.StatusChange
	for _, f := range uc.store.Flatten() {
		if before[f.ID] != f.Metadata.Status {
			changes = append(changes, domain.StatusChange{ID: f.ID, Status: f.Metadata.Status})
		}
	}
	return &SetStatusOutput{Changes: changes}, nil
}

func statusIndex(tasks []domain.FlatTask) map[string]domain.Status {
	out := make(map[string]domain.Status, len(tasks))
	for _, t := range tasks {
		out[t.ID] = t.Metadata.Status
	}
	return out
}
