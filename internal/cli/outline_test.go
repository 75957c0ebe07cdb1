package cli

import (
	"context"
	"testing"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoveCommand(t *testing.T) {
	// Setup
	b := seedOutline(t)

	// Execute
	out := mustRun(t, b.c, newMoveCommand(b.c), "task-4", "--parent", "task-1", "--index", "0")

	// Assert
	assert.Contains(t, out, "Moved task task-4 to task-1 at position 0")
	tasks, err := b.remote.TaskTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Len(t, tasks[0].Children, 3)
	assert.Equal(t, "task-4", tasks[0].Children[0].ID)
}

func TestNewMoveCommand_ToRoot(t *testing.T) {
	b := seedOutline(t)

	out := mustRun(t, b.c, newMoveCommand(b.c), "task-3", "--root")

	assert.Contains(t, out, "Moved task task-3 to root at position 2")
	assert.Nil(t, b.c.Store.FindParent("task-3"))
}

func TestNewMoveCommand_Errors(t *testing.T) {
	b := seedOutline(t)

	_, err := runCommand(t, b.c, newMoveCommand(b.c), "task-1", "--parent", "task-2")
	assert.ErrorIs(t, err, domain.ErrInvalidMove)

	_, err = runCommand(t, b.c, newMoveCommand(b.c), "task-1")
	assert.Error(t, err)

	_, err = runCommand(t, b.c, newMoveCommand(b.c), "task-1", "--root", "--parent", "task-4")
	assert.Error(t, err)
}

func TestNewIndentOutdentCommands(t *testing.T) {
	b := seedOutline(t)

	out := mustRun(t, b.c, newIndentCommand(b.c), "task-4")
	assert.Contains(t, out, "Moved task task-4 to task-1 at position 2")

	out = mustRun(t, b.c, newOutdentCommand(b.c), "task-4")
	assert.Contains(t, out, "Moved task task-4 to root at position 1")

	_, err := runCommand(t, b.c, newIndentCommand(b.c), "task-1")
	assert.ErrorIs(t, err, domain.ErrNotIndentable)
}

func TestNewLinkCommand_Related(t *testing.T) {
	// Setup
	b := seedOutline(t)

	// Execute
	out := mustRun(t, b.c, newLinkCommand(b.c, "relate", false), "task-2", "task-4")

	// Assert
	assert.Contains(t, out, "task-2 and task-4 are now related")
	assert.Equal(t, []string{"task-4"}, b.c.Store.GetRelated("task-2"))
	assert.Equal(t, []string{"task-2"}, b.c.Store.GetRelated("task-4"))
	related, err := b.remote.ListRelated(context.Background())
	require.NoError(t, err)
	assert.Len(t, related, 2)

	out = mustRun(t, b.c, newLinkCommand(b.c, "relate", false), "task-4", "task-2")
	assert.Contains(t, out, "Nothing changed")

	out = mustRun(t, b.c, newLinkCommand(b.c, "unrelate", true), "task-4", "task-2")
	assert.Contains(t, out, "no longer related")
	assert.Empty(t, b.c.Store.GetRelated("task-2"))
}

func TestNewLinkCommand_Dependency(t *testing.T) {
	b := seedOutline(t)

	out := mustRun(t, b.c, newLinkCommand(b.c, "depend", false), "task-2", "task-3")
	assert.Contains(t, out, "task-2 now depends on task-3")
	assert.Equal(t, []string{"task-2"}, b.c.Store.GetDependents("task-3"))

	out = mustRun(t, b.c, newLinkCommand(b.c, "undepend", true), "task-2", "task-3")
	assert.Contains(t, out, "task-2 no longer depends on task-3")

	_, err := runCommand(t, b.c, newLinkCommand(b.c, "depend", false), "task-2", "task-99")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
