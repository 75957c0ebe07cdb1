package docstore

import (
	"context"
	"testing"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemote_TaskLifecycle(t *testing.T) {
	// Setup
	ctx := context.Background()
	r := NewMemoryRemote()

	// Execute
	require.NoError(t, r.CreateTask(ctx, domain.FlatTask{ID: "task-1", Title: "Root", Metadata: domain.DefaultMetadata()}))
	require.NoError(t, r.CreateTask(ctx, domain.FlatTask{ID: "task-2", Title: "Child", ParentID: "task-1", Metadata: domain.DefaultMetadata()}))
	title := "Renamed"
	require.NoError(t, r.UpdateTask(ctx, "task-2", domain.TaskPatch{Title: &title}))
	require.NoError(t, r.UpdateTask(ctx, "task-2", domain.StatusPatch(domain.StatusDone)))

	// Assert
	tree, err := r.TaskTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Renamed", tree[0].Children[0].Title)
	assert.Equal(t, domain.StatusDone, tree[0].Children[0].Metadata.Status)

	err = r.CreateTask(ctx, domain.FlatTask{ID: "task-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.ErrorIs(t, r.UpdateTask(ctx, "missing", domain.StatusPatch(domain.StatusDone)), domain.ErrNotFound)
}

func TestRemote_DeleteTask_DropsEdges(t *testing.T) {
	// Setup
	ctx := context.Background()
	r := NewMemoryRemote()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.CreateTask(ctx, domain.FlatTask{ID: id, Title: id}))
	}
	require.NoError(t, r.AddRelated(ctx, "a", "b"))
	require.NoError(t, r.AddRelated(ctx, "b", "a"))
	require.NoError(t, r.AddDependency(ctx, "c", "a"))
	require.NoError(t, r.AddDependency(ctx, "c", "b"))

	// Execute
	require.NoError(t, r.DeleteTask(ctx, "a"))

	// Assert
	related, err := r.ListRelated(ctx)
	require.NoError(t, err)
	assert.Empty(t, related)
	deps, err := r.TaskDependencies(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, deps)
	assert.ErrorIs(t, r.DeleteTask(ctx, "a"), domain.ErrNotFound)
}

func TestRemote_Edges(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRemote()

	require.NoError(t, r.AddDependency(ctx, "a", "b"))
	require.NoError(t, r.AddDependency(ctx, "a", "b"))
	require.NoError(t, r.AddRelated(ctx, "a", "c"))

	deps, err := r.ListDependencies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{{From: "a", To: "b"}}, deps)
	related, err := r.TaskRelated(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, related)

	require.NoError(t, r.RemoveDependency(ctx, "a", "b"))
	assert.ErrorIs(t, r.RemoveDependency(ctx, "a", "b"), domain.ErrNotFound)
	assert.ErrorIs(t, r.RemoveRelated(ctx, "c", "a"), domain.ErrNotFound)
}

func TestRemote_Projects(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRemote()

	require.NoError(t, r.CreateProject(ctx, domain.Project{ID: "project-1", Name: "Launch"}))
	name := "Release"
	require.NoError(t, r.UpdateProject(ctx, "project-1", domain.ProjectPatch{Name: &name, TeamIDs: []string{"team-1"}}))

	projects, err := r.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Release", projects[0].Name)
	assert.Equal(t, []string{"team-1"}, projects[0].TeamIDs)

	require.NoError(t, r.DeleteProject(ctx, "project-1"))
	assert.ErrorIs(t, r.DeleteProject(ctx, "project-1"), domain.ErrNotFound)
}

func TestRemote_Settings(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRemote()

	_, ok, err := r.GetSetting(ctx, domain.SettingsKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.PutSetting(ctx, domain.SettingsKey, `{"version":1}`))
	v, ok, err := r.GetSetting(ctx, domain.SettingsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"version":1}`, v)

	require.NoError(t, r.DeleteSetting(ctx, domain.SettingsKey))
	require.NoError(t, r.DeleteSetting(ctx, domain.SettingsKey))
	assert.NoError(t, r.Health(ctx))
}

func TestMemory_Update_DiscardsOnError(t *testing.T) {
	// Setup
	m := NewMemory()
	r := NewRemote(m)
	require.NoError(t, r.CreateTask(context.Background(), domain.FlatTask{ID: "a"}))

	// Execute
	err := m.Update(func(d *Document) error {
		d.Tasks = nil
		return domain.ErrNotFound
	})

	// Assert
	require.ErrorIs(t, err, domain.ErrNotFound)
	tasks, err := r.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestDocument_Clone_IsDeep(t *testing.T) {
	order := 3
	d := NewDocument()
	d.Tasks = append(d.Tasks, domain.FlatTask{ID: "a", Metadata: domain.Metadata{KanbanOrder: &order}})
	d.Projects = append(d.Projects, domain.Project{ID: "p", TeamIDs: []string{"t"}})
	d.Settings["k"] = "v"

	c := d.Clone()
	*c.Tasks[0].Metadata.KanbanOrder = 9
	c.Projects[0].TeamIDs[0] = "x"
	c.Settings["k"] = "changed"

	assert.Equal(t, 3, *d.Tasks[0].Metadata.KanbanOrder)
	assert.Equal(t, "t", d.Projects[0].TeamIDs[0])
	assert.Equal(t, "v", d.Settings["k"])
}
