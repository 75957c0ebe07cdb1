package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// EditDescriptionInput contains the parameters for editing a description in an editor.
type EditDescriptionInput struct {
	TaskID string
	Editor string // Program to run; the file path is appended as its last argument
}

// EditDescriptionOutput contains the result of an editor session.
type EditDescriptionOutput struct {
	Task    *domain.Task
	Changed bool // false when the editor left the text as it was
}

// EditDescription opens a task description in an external editor and stores the result.
type EditDescription struct {
	store    *store.Store
	executor domain.CommandExecutor
	tempDir  string
}

// NewEditDescription creates a new EditDescription use case.
// An empty tempDir uses the system default.
func NewEditDescription(st *store.Store, executor domain.CommandExecutor, tempDir string) *EditDescription {
	return &EditDescription{store: st, executor: executor, tempDir: tempDir}
}

// Execute writes the description to a temporary file, waits for the editor
// to exit and applies the edited text when it differs.
func (uc *EditDescription) Execute(_ context.Context, in EditDescriptionInput) (*EditDescriptionOutput, error) {
	task, ok := uc.store.Find(in.TaskID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	f, err := os.CreateTemp(uc.tempDir, fmt.Sprintf("treeboard-%s-*.md", task.ID))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	original := task.Description
	if original != "" && !strings.HasSuffix(original, "\n") {
		original += "\n"
	}
	if _, err := f.WriteString(original); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	editor := in.Editor
	if editor == "" {
		editor = domain.DefaultEditor
	}
	if err := uc.executor.ExecuteInteractive(domain.NewCommand(editor, []string{path}, "")); err != nil {
		return nil, fmt.Errorf("run editor %s: %w", editor, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	if string(edited) == original {
		return &EditDescriptionOutput{Task: task}, nil
	}

	description := strings.TrimRight(string(edited), "\n")
	if err := uc.store.Update(task.ID, domain.TaskPatch{Description: &description}); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	updated, _ := uc.store.Find(task.ID)
	return &EditDescriptionOutput{Task: updated, Changed: true}, nil
}
