package store

import (
	"github.com/runoshun/treeboard/internal/domain"
)

// ImportData is a board read from an export file. Its ids are only used to resolve
// references inside the data; the store assigns new ones.
type ImportData struct {
	Related      domain.Adjacency
	Dependencies domain.Adjacency
	Tasks        []*domain.Task
	Projects     []domain.Project
	Teams        []domain.Team
}

// ImportResult maps every imported id to the id the store assigned.
type ImportResult struct {
	Tasks    map[string]string
	Projects map[string]string
	Teams    map[string]string
}

// Import appends the imported projects, teams and task trees as one undoable action.
// Every id is regenerated and references are remapped; references that point
// outside the imported data are dropped.
func (s *Store) Import(in ImportData) (ImportResult, error) {
	if len(in.Tasks) == 0 && len(in.Projects) == 0 && len(in.Teams) == 0 {
		return ImportResult{}, domain.ErrNoTasks
	}
	res := ImportResult{
		Tasks:    map[string]string{},
		Projects: map[string]string{},
		Teams:    map[string]string{},
	}
	err := s.mutate(func(t *tx) error {
		for _, tm := range in.Teams {
			c := tm.Clone()
			c.ID = s.nextTeamID()
			res.Teams[tm.ID] = c.ID
			s.state.Teams = append(s.state.Teams, c)
			t.settings = true
		}
		for _, p := range in.Projects {
			c := p.Clone()
			c.ID = s.nextProjectID()
			res.Projects[p.ID] = c.ID
			c.TeamIDs = remapIDs(p.TeamIDs, res.Teams)
			s.state.Projects = append(s.state.Projects, c)
			created := c.Clone()
			t.sync(func(sy Syncer) { sy.CreateProject(created) })
		}

		roots := domain.CloneForest(in.Tasks)
		domain.SortSiblings(roots)
		domain.Walk(roots, func(n, _ *domain.Task) bool {
			domain.SortSiblings(n.Children)
			old := n.ID
			n.ID = s.nextTaskID()
			res.Tasks[old] = n.ID
			return true
		})
		offset := len(s.state.Tasks)
		for i, r := range roots {
			r.SortIndex = offset + i
			r.ProjectID = res.Projects[r.ProjectID]
			s.view.parents.include(r.ID)
		}
		s.state.Tasks = append(s.state.Tasks, roots...)
		domain.Walk(roots, func(n, parent *domain.Task) bool {
			parentID := ""
			if parent != nil {
				parentID = parent.ID
				n.ProjectID = ""
			}
			flat := n.Flat(parentID)
			t.sync(func(sy Syncer) { sy.CreateTask(flat) })
			return true
		})

		for _, e := range relatedPairs(in.Related.Edges()) {
			a, okA := res.Tasks[e.From]
			b, okB := res.Tasks[e.To]
			if !okA || !okB || a == b {
				continue
			}
			s.state.Related.Add(a, b)
			s.state.Related.Add(b, a)
			t.sync(func(sy Syncer) { sy.AddRelated(a, b) })
		}
		for _, e := range in.Dependencies.Edges() {
			from, okF := res.Tasks[e.From]
			to, okT := res.Tasks[e.To]
			if !okF || !okT || from == to {
				continue
			}
			if s.state.Dependencies.Add(from, to) {
				t.sync(func(sy Syncer) { sy.AddDependency(from, to) })
			}
		}
		t.changed = true
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

func remapIDs(ids []string, mapping map[string]string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := mapping[id]; ok {
			out = append(out, n)
		}
	}
	return out
}
