package cli

import (
	"context"
	"testing"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCommands(t *testing.T) {
	// Setup
	c, remote := newTestContainer(t)

	// Execute
	out := mustRun(t, c, newProjectCommand(c), "new", "Launch", "--color", "#ff0000")
	assert.Contains(t, out, "Created project project-1")
	mustRun(t, c, newAddCommand(c), "Landing page", "--project", "project-1")
	mustRun(t, c, newAddCommand(c), "Loose end")
	out = mustRun(t, c, newProjectCommand(c), "list")

	// Assert
	assert.Regexp(t, `project-1\s+Launch\s+#ff0000\s+-\s+1`, out)
	assert.Regexp(t, `unassigned\s+-\s+-\s+-\s+1`, out)

	out = mustRun(t, c, newProjectCommand(c), "edit", "project-1", "--name", "Release")
	assert.Contains(t, out, "Updated project project-1 (Release)")
	projects, err := remote.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Release", projects[0].Name)

	mustRun(t, c, newProjectCommand(c), "rm", "project-1")
	task, ok := c.Store.Find("task-1")
	require.True(t, ok)
	assert.Empty(t, task.ProjectID)

	_, err = runCommand(t, c, newProjectCommand(c), "rm", "project-1")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestTeamCommands(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	mustRun(t, c, newProjectCommand(c), "new", "Launch")

	// Execute
	out := mustRun(t, c, newTeamCommand(c), "new", "Core", "--member", "alice", "--member", "bob")
	assert.Contains(t, out, "Created team team-1")
	mustRun(t, c, newProjectCommand(c), "edit", "project-1", "--team", "team-1")
	mustRun(t, c, newTeamCommand(c), "edit", "team-1", "--member", "carol")
	out = mustRun(t, c, newTeamCommand(c), "list")

	// Assert
	assert.Regexp(t, `team-1\s+Core\s+carol`, out)
	p, ok := c.Store.Project("project-1")
	require.True(t, ok)
	assert.Equal(t, []string{"team-1"}, p.TeamIDs)

	mustRun(t, c, newTeamCommand(c), "rm", "team-1")
	p, _ = c.Store.Project("project-1")
	assert.Empty(t, p.TeamIDs)
	out = mustRun(t, c, newTeamCommand(c), "list")
	assert.Contains(t, out, "No teams")
}

func TestProjectEditCommand_UnknownTeam(t *testing.T) {
	c, _ := newTestContainer(t)
	mustRun(t, c, newProjectCommand(c), "new", "Launch")

	_, err := runCommand(t, c, newProjectCommand(c), "edit", "project-1", "--team", "team-4")

	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}
