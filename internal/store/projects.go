package store

import (
	"slices"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/idgen"
)

// Projects returns a copy of every project.
func (s *Store) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Project, 0, len(s.state.Projects))
	for _, p := range s.state.Projects {
		out = append(out, p.Clone())
	}
	return out
}

// Project returns a copy of the project with the given id.
func (s *Store) Project(id string) (domain.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findProjectLocked(id)
	if i < 0 {
		return domain.Project{}, false
	}
	return s.state.Projects[i].Clone(), true
}

func (s *Store) findProjectLocked(id string) int {
	return slices.IndexFunc(s.state.Projects, func(p domain.Project) bool { return p.ID == id })
}

// CreateProject adds a project and returns its id.
func (s *Store) CreateProject(name, color string) (string, error) {
	if name == "" {
		return "", domain.ErrEmptyName
	}
	var id string
	err := s.mutate(func(t *tx) error {
		p := domain.Project{ID: s.nextProjectID(), Name: name, Color: color}
		s.state.Projects = append(s.state.Projects, p)
		id = p.ID
		t.changed = true
		created := p.Clone()
		t.sync(func(sy Syncer) { sy.CreateProject(created) })
		return nil
	})
	return id, err
}

// UpdateProject applies a sparse patch to a project.
func (s *Store) UpdateProject(id string, patch domain.ProjectPatch) error {
	if patch.IsEmpty() {
		return domain.ErrNoFieldsToUpdate
	}
	if patch.Name != nil && *patch.Name == "" {
		return domain.ErrEmptyName
	}
	return s.mutate(func(t *tx) error {
		i := s.findProjectLocked(id)
		if i < 0 {
			return domain.ErrProjectNotFound
		}
		patch.Apply(&s.state.Projects[i])
		t.changed = true
		t.sync(func(sy Syncer) { sy.UpdateProject(id, patch) })
		return nil
	})
}

// DeleteProject removes a project. Its root tasks become unassigned.
// It returns false for unknown ids.
func (s *Store) DeleteProject(id string) bool {
	var deleted bool
	_ = s.mutate(func(t *tx) error {
		i := s.findProjectLocked(id)
		if i < 0 {
			return nil
		}
		s.state.Projects = slices.Delete(s.state.Projects, i, i+1)
		deleted = true
		t.changed = true
		unassigned := ""
		for _, root := range s.state.Tasks {
			if root.ProjectID != id {
				continue
			}
			root.ProjectID = ""
			rid := root.ID
			t.sync(func(sy Syncer) { sy.UpdateTask(rid, domain.TaskPatch{ProjectID: &unassigned}) })
		}
		t.sync(func(sy Syncer) { sy.DeleteProject(id) })
		return nil
	})
	return deleted
}

// Teams returns a copy of every team.
func (s *Store) Teams() []domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Team, 0, len(s.state.Teams))
	for _, tm := range s.state.Teams {
		out = append(out, tm.Clone())
	}
	return out
}

func (s *Store) findTeamLocked(id string) int {
	return slices.IndexFunc(s.state.Teams, func(tm domain.Team) bool { return tm.ID == id })
}

// CreateTeam adds a team and returns its id. Teams are persisted with the settings.
func (s *Store) CreateTeam(name string, members []string) (string, error) {
	if name == "" {
		return "", domain.ErrEmptyName
	}
	var id string
	err := s.mutate(func(t *tx) error {
		tm := domain.Team{ID: s.nextTeamID(), Name: name, Members: append([]string(nil), members...)}
		s.state.Teams = append(s.state.Teams, tm)
		id = tm.ID
		t.changed = true
		t.settings = true
		return nil
	})
	return id, err
}

// UpdateTeam renames a team or replaces its members.
func (s *Store) UpdateTeam(id string, patch domain.TeamPatch) error {
	if patch.Name == nil && patch.Members == nil {
		return domain.ErrNoFieldsToUpdate
	}
	if patch.Name != nil && *patch.Name == "" {
		return domain.ErrEmptyName
	}
	return s.mutate(func(t *tx) error {
		i := s.findTeamLocked(id)
		if i < 0 {
			return domain.ErrTeamNotFound
		}
		if patch.Name != nil {
			s.state.Teams[i].Name = *patch.Name
		}
		if patch.Members != nil {
			s.state.Teams[i].Members = append([]string(nil), patch.Members...)
		}
		t.changed = true
		t.settings = true
		return nil
	})
}

// DeleteTeam removes a team and drops it from every project that lists it.
func (s *Store) DeleteTeam(id string) bool {
	var deleted bool
	_ = s.mutate(func(t *tx) error {
		i := s.findTeamLocked(id)
		if i < 0 {
			return nil
		}
		s.state.Teams = slices.Delete(s.state.Teams, i, i+1)
		deleted = true
		t.changed = true
		t.settings = true
		for pi := range s.state.Projects {
			p := &s.state.Projects[pi]
			j := slices.Index(p.TeamIDs, id)
			if j < 0 {
				continue
			}
			p.TeamIDs = slices.Delete(p.TeamIDs, j, j+1)
			pid, teams := p.ID, append([]string{}, p.TeamIDs...)
			t.sync(func(sy Syncer) { sy.UpdateProject(pid, domain.ProjectPatch{TeamIDs: teams}) })
		}
		return nil
	})
	return deleted
}

// Settings returns the settings blob as it would be persisted.
func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsLocked()
}

func (s *Store) settingsLocked() domain.Settings {
	teams := make([]domain.Team, 0, len(s.state.Teams))
	for _, tm := range s.state.Teams {
		teams = append(teams, tm.Clone())
	}
	return domain.Settings{
		Version:    domain.SettingsVersion,
		Teams:      teams,
		NextTeamID: s.state.NextTeamID,
		View:       s.view.prefs(),
	}
}

// ApplySettings loads a persisted settings blob: teams and view preferences.
// It does not write the settings back and adds no undo step.
func (s *Store) ApplySettings(st domain.Settings) {
	s.mu.Lock()
	teams := make([]domain.Team, 0, len(st.Teams))
	ids := make([]string, 0, len(st.Teams))
	for _, tm := range st.Teams {
		teams = append(teams, tm.Clone())
		ids = append(ids, tm.ID)
	}
	s.state.Teams = teams
	s.state.NextTeamID = idgen.NextSeq(idgen.KindTeam, max(s.state.NextTeamID, st.NextTeamID), ids)
	s.view.applyPrefs(st.View)
	s.reconcileLocked()
	s.history.Replace(s.state)
	s.mu.Unlock()
	s.notify()
}

// RemoteState is the full dataset fetched by a pull.
type RemoteState struct {
	Related      domain.Adjacency
	Dependencies domain.Adjacency
	Tasks        []*domain.Task
	Projects     []domain.Project
}

// ReplaceRemoteState replaces tasks, projects and both graphs wholesale.
// Graph entries referencing unknown tasks are dropped, counters advance past every
// counter-style id present and filter selections are re-validated. The replacement
// overwrites the current history entry instead of adding an undo step, and no remote
// calls are issued.
func (s *Store) ReplaceRemoteState(rs RemoteState) {
	tasks := domain.CloneForest(rs.Tasks)
	domain.SortSiblings(tasks)
	domain.Walk(tasks, func(t, _ *domain.Task) bool {
		domain.SortSiblings(t.Children)
		return true
	})
	ids := domain.CollectIDs(tasks)
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	related := rs.Related.Clone()
	deps := rs.Dependencies.Clone()
	pruneUnknown(related, known)
	pruneUnknown(deps, known)

	projects := make([]domain.Project, 0, len(rs.Projects))
	projectIDs := make([]string, 0, len(rs.Projects))
	for _, p := range rs.Projects {
		projects = append(projects, p.Clone())
		projectIDs = append(projectIDs, p.ID)
	}

	s.mu.Lock()
	s.state.Tasks = tasks
	s.state.Related = related
	s.state.Dependencies = deps
	s.state.Projects = projects
	s.state.NextID = idgen.NextSeq(idgen.KindTask, s.state.NextID, ids)
	s.state.NextProjectID = idgen.NextSeq(idgen.KindProject, s.state.NextProjectID, projectIDs)
	s.reconcileLocked()
	s.history.Replace(s.state)
	s.mu.Unlock()
	s.notify()
}

// pruneUnknown drops every entry that references an id outside known.
func pruneUnknown(a domain.Adjacency, known map[string]bool) {
	unknown := make(map[string]bool)
	for from, list := range a {
		if !known[from] {
			unknown[from] = true
		}
		for _, to := range list {
			if !known[to] {
				unknown[to] = true
			}
		}
	}
	if len(unknown) > 0 {
		a.Prune(unknown)
	}
}
