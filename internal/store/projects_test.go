package store

import (
	"testing"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateProject(t *testing.T) {
	rec := newRecordingSyncer()
	s := New(WithSyncer(rec))

	id, err := s.CreateProject("Launch", "#ff0000")

	require.NoError(t, err)
	assert.Equal(t, "project-1", id)
	p, ok := s.Project(id)
	require.True(t, ok)
	assert.Equal(t, "Launch", p.Name)
	assert.Equal(t, []string{"create-project project-1"}, rec.Calls())

	_, err = s.CreateProject("", "")
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestStore_UpdateProject(t *testing.T) {
	// Setup
	s := New()
	id, _ := s.CreateProject("Launch", "")

	// Execute
	err := s.UpdateProject(id, domain.ProjectPatch{
		Name:         strPtr("Release"),
		StatusColors: map[domain.Status]string{domain.StatusDone: "#00ff00"},
	})

	// Assert
	require.NoError(t, err)
	p, _ := s.Project(id)
	assert.Equal(t, "Release", p.Name)
	assert.Equal(t, "#00ff00", p.StatusColors[domain.StatusDone])

	assert.ErrorIs(t, s.UpdateProject("missing", domain.ProjectPatch{Name: strPtr("x")}), domain.ErrProjectNotFound)
	assert.ErrorIs(t, s.UpdateProject(id, domain.ProjectPatch{}), domain.ErrNoFieldsToUpdate)
	assert.ErrorIs(t, s.UpdateProject(id, domain.ProjectPatch{Name: strPtr("")}), domain.ErrEmptyName)
}

func TestStore_DeleteProject_UnassignsRoots(t *testing.T) {
	// Setup
	rec := newRecordingSyncer()
	s := New(WithSyncer(rec))
	p1, _ := s.CreateProject("Launch", "")
	a, _ := s.Add("", "A", "", p1)
	b := mustAdd(t, s, "", "B")

	// Execute
	deleted := s.DeleteProject(p1)

	// Assert
	assert.True(t, deleted)
	assert.Empty(t, s.Projects())
	assert.Empty(t, mustFind(t, s, a).ProjectID)
	assert.Empty(t, mustFind(t, s, b).ProjectID)
	calls := rec.Calls()
	assert.Equal(t, []string{"update " + a, "delete-project " + p1}, calls[len(calls)-2:])
	assert.False(t, s.DeleteProject(p1))
}

func TestStore_Teams(t *testing.T) {
	// Setup
	rec := newRecordingSyncer()
	s := New(WithSyncer(rec))
	p1, _ := s.CreateProject("Launch", "")

	// Execute
	team, err := s.CreateTeam("Core", []string{"alice"})
	require.NoError(t, err)
	require.NoError(t, s.UpdateProject(p1, domain.ProjectPatch{TeamIDs: []string{team}}))
	require.NoError(t, s.UpdateTeam(team, domain.TeamPatch{Members: []string{"alice", "bob"}}))

	// Assert
	teams := s.Teams()
	require.Len(t, teams, 1)
	assert.Equal(t, []string{"alice", "bob"}, teams[0].Members)
	require.Len(t, rec.settings, 2)
	assert.Equal(t, 2, rec.settings[1].NextTeamID)

	// Execute
	assert.True(t, s.DeleteTeam(team))

	// Assert
	assert.Empty(t, s.Teams())
	p, _ := s.Project(p1)
	assert.Empty(t, p.TeamIDs)
	assert.Contains(t, rec.Calls(), "update-project "+p1)
	assert.False(t, s.DeleteTeam(team))
	assert.ErrorIs(t, s.UpdateTeam(team, domain.TeamPatch{Name: strPtr("x")}), domain.ErrTeamNotFound)
	_, err = s.CreateTeam("", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestStore_ApplySettings(t *testing.T) {
	// Setup
	s := New()

	// Execute
	s.ApplySettings(domain.Settings{
		Version:    domain.SettingsVersion,
		Teams:      []domain.Team{{ID: "team-4", Name: "Core", Members: []string{"alice"}}},
		NextTeamID: 2,
		View: domain.ViewPrefs{
			FilterMode:   domain.FilterModeShow,
			SortMode:     domain.SortPriority,
			ProjectScope: domain.ProjectScope{Mode: domain.ScopeProject, Project: domain.UnassignedProjectID},
		},
	})

	// Assert
	opts := s.Filter()
	assert.Equal(t, domain.FilterModeShow, opts.Mode)
	assert.Equal(t, domain.SortPriority, opts.Sort)
	assert.Equal(t, domain.UnassignedProjectID, opts.Scope.Project)
	id, err := s.CreateTeam("Next", nil)
	require.NoError(t, err)
	assert.Equal(t, "team-5", id)
}

func TestStore_ApplySettings_IgnoresInvalidPrefs(t *testing.T) {
	s := New()

	s.ApplySettings(domain.Settings{View: domain.ViewPrefs{FilterMode: "bogus", SortMode: "bogus"}})

	opts := s.Filter()
	assert.Equal(t, domain.FilterModeFilter, opts.Mode)
	assert.Equal(t, domain.SortManual, opts.Sort)
	assert.Equal(t, domain.ScopeGlobal, opts.Scope.Mode)
}

func TestStore_ReplaceRemoteState(t *testing.T) {
	// Setup
	rec := newRecordingSyncer()
	s := New(WithSyncer(rec))
	p1, _ := s.CreateProject("Local one", "")
	p2, _ := s.CreateProject("Local two", "")
	s.UpdateFilter(func(o *FilterOptions) {
		o.Scope = domain.ProjectScope{Mode: domain.ScopeMulti, Projects: []string{p1, p2}}
	})
	notified := 0
	s.Subscribe(func() { notified++ })
	calls := len(rec.Calls())

	// Execute
	s.ReplaceRemoteState(RemoteState{
		Tasks: domain.BuildTree([]domain.FlatTask{
			{ID: "task-7", Title: "Root", ProjectID: "project-2", Metadata: domain.DefaultMetadata()},
			{ID: "task-8", Title: "Child", ParentID: "task-7", Metadata: domain.DefaultMetadata()},
		}),
		Projects:     []domain.Project{{ID: "project-2", Name: "Remote"}},
		Related:      domain.AdjacencyFromEdges([]domain.Edge{{From: "task-7", To: "task-8"}, {From: "task-7", To: "gone"}}, true),
		Dependencies: domain.AdjacencyFromEdges([]domain.Edge{{From: "task-8", To: "gone"}}, false),
	})

	// Assert
	assert.Equal(t, 1, notified)
	assert.Equal(t, []string{"task-8"}, s.GetRelated("task-7"))
	assert.Empty(t, s.GetDependencies("task-8"))
	assert.Equal(t, []string{"project-2"}, s.Filter().Scope.Projects)
	assert.Len(t, rec.Calls(), calls, "a pull issues no remote writes")
	assert.Equal(t, "task-9", mustAdd(t, s, "", "Local"))
	id, _ := s.CreateProject("Local", "")
	assert.Equal(t, "project-3", id)
}

func TestStore_ReplaceRemoteState_AddsNoUndoStep(t *testing.T) {
	// Setup
	s := New()
	id := mustAdd(t, s, "", "Write docs")
	pulled := s.Snapshot()

	// Execute: the pull echoes the local change back
	s.ReplaceRemoteState(RemoteState{
		Tasks:        pulled.Tasks,
		Projects:     pulled.Projects,
		Related:      pulled.Related,
		Dependencies: pulled.Dependencies,
	})

	// Assert
	require.True(t, s.Undo())
	_, ok := s.Find(id)
	assert.False(t, ok, "undo reverts the add, not the pull")
	assert.False(t, s.CanUndo())
	require.True(t, s.Redo())
	mustFind(t, s, id)
}

func TestStore_SetGenerator(t *testing.T) {
	s := New(WithGenerator(idgen.Counter{}))
	s.SetGenerator(idgen.UUID{})

	id := mustAdd(t, s, "", "A")

	assert.Len(t, id, 36)
}
