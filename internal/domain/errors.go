package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrParentNotFound     = errors.New("parent task not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrInvalidMove        = errors.New("cannot move a task under itself or its descendants")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrNoTasks            = errors.New("no tasks to create")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNothingToRedo      = errors.New("nothing to redo")
	ErrConfigExists       = errors.New("config file already exists")
	ErrInvalidBackend     = errors.New("invalid remote backend")
	ErrNotIndentable      = errors.New("task has no previous sibling to indent under")
	ErrNotOutdentable     = errors.New("task is already at the root level")
	ErrUnsupportedVersion = errors.New("unsupported format version")
)

// RemoteError is returned by remote persistence calls that answered with an error status.
type RemoteError struct {
	Op      string // e.g. "PATCH /tasks/42"
	Message string // Server-provided message or response body
	Status  int    // HTTP status code
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
}

// Unwrap maps 404 responses to ErrNotFound so callers can use errors.Is uniformly.
func (e *RemoteError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}
