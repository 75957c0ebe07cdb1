package store

import (
	"slices"
	"strings"

	"github.com/runoshun/treeboard/internal/domain"
)

// FilterOptions is the filter state shared by every view.
// Fields are ordered to minimize memory padding.
type FilterOptions struct {
	Statuses  []domain.Status // Empty = every status
	Scope     domain.ProjectScope
	Search    string // Case-insensitive substring of title or description
	RelatedTo string // Task id; matches it, its related tasks and their descendants
	Assignee  string // Exact assignee
	TeamID    string // Assignee must be a member of the team
	Mode      domain.FilterMode
	Sort      domain.SortMode
}

// Active reports whether any per-task criterion is set.
func (o FilterOptions) Active() bool {
	return o.Search != "" || len(o.Statuses) > 0 || o.RelatedTo != "" ||
		o.Assignee != "" || o.TeamID != ""
}

func (o FilterOptions) clone() FilterOptions {
	c := o
	c.Statuses = append([]domain.Status(nil), o.Statuses...)
	c.Scope.Projects = append([]string(nil), o.Scope.Projects...)
	return c
}

// parentScope narrows the scoped roots to a user selection.
type parentScope struct {
	selected    map[string]bool
	initialized bool
	enabled     bool
	all         bool // Selection tracks every visible root
}

func (p *parentScope) include(id string) {
	if p.initialized && p.enabled {
		p.selected[id] = true
	}
}

type viewState struct {
	parents parentScope
	opts    FilterOptions
}

func newViewState() viewState {
	return viewState{
		opts: FilterOptions{
			Scope: domain.ProjectScope{Mode: domain.ScopeGlobal},
			Mode:  domain.FilterModeFilter,
			Sort:  domain.SortManual,
		},
		parents: parentScope{selected: map[string]bool{}, enabled: true},
	}
}

func (v *viewState) prefs() domain.ViewPrefs {
	scope := v.opts.Scope
	scope.Projects = append([]string(nil), scope.Projects...)
	return domain.ViewPrefs{FilterMode: v.opts.Mode, SortMode: v.opts.Sort, ProjectScope: scope}
}

func (v *viewState) applyPrefs(p domain.ViewPrefs) {
	if p.FilterMode == domain.FilterModeFilter || p.FilterMode == domain.FilterModeShow {
		v.opts.Mode = p.FilterMode
	}
	if p.SortMode == domain.SortManual || p.SortMode == domain.SortPriority {
		v.opts.Sort = p.SortMode
	}
	switch p.ProjectScope.Mode {
	case domain.ScopeGlobal, domain.ScopeProject, domain.ScopeMulti:
		v.opts.Scope = p.ProjectScope
		v.opts.Scope.Projects = append([]string(nil), p.ProjectScope.Projects...)
	}
}

// Filter returns the current filter options.
func (s *Store) Filter() FilterOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.opts.clone()
}

// SetFilter replaces the filter options.
func (s *Store) SetFilter(opts FilterOptions) {
	s.UpdateFilter(func(o *FilterOptions) { *o = opts.clone() })
}

// UpdateFilter edits the filter options in place. Changes to the persisted view
// preferences (mode, sort, project scope) are saved with the settings.
func (s *Store) UpdateFilter(fn func(*FilterOptions)) {
	_ = s.mutate(func(t *tx) error {
		before := s.view.prefs()
		fn(&s.view.opts)
		if s.view.opts.Mode == "" {
			s.view.opts.Mode = domain.FilterModeFilter
		}
		if s.view.opts.Sort == "" {
			s.view.opts.Sort = domain.SortManual
		}
		if s.view.opts.Scope.Mode == "" {
			s.view.opts.Scope.Mode = domain.ScopeGlobal
		}
		t.viewed = true
		t.settings = !samePrefs(before, s.view.prefs())
		return nil
	})
}

func samePrefs(a, b domain.ViewPrefs) bool {
	return a.FilterMode == b.FilterMode && a.SortMode == b.SortMode &&
		a.ProjectScope.Mode == b.ProjectScope.Mode &&
		a.ProjectScope.Project == b.ProjectScope.Project &&
		slices.Equal(a.ProjectScope.Projects, b.ProjectScope.Projects)
}

// ParentScope returns the selected root ids and whether parent scoping is enabled.
func (s *Store) ParentScope() ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.view.parents.selected))
	for _, root := range s.state.Tasks {
		if s.view.parents.selected[root.ID] {
			ids = append(ids, root.ID)
		}
	}
	return ids, s.view.parents.enabled
}

// SetParentScope restricts the views to the given root tasks and enables parent
// scoping. Unknown and non-root ids are ignored.
func (s *Store) SetParentScope(ids []string) {
	_ = s.mutate(func(t *tx) error {
		sel := make(map[string]bool, len(ids))
		for _, root := range s.state.Tasks {
			if slices.Contains(ids, root.ID) {
				sel[root.ID] = true
			}
		}
		s.view.parents = parentScope{selected: sel, initialized: true, enabled: true}
		t.viewed = true
		return nil
	})
}

// ClearParentScope drops the selection. The next read re-populates it with every
// visible root.
func (s *Store) ClearParentScope() {
	_ = s.mutate(func(t *tx) error {
		s.view.parents = parentScope{selected: map[string]bool{}, enabled: true}
		t.viewed = true
		return nil
	})
}

// activeProjectLocked returns the project new root tasks inherit: the scoped
// project when a single real project is in scope, otherwise "".
func (s *Store) activeProjectLocked() string {
	sc := s.view.opts.Scope
	if sc.Mode != domain.ScopeProject || sc.Project == "" || sc.Project == domain.UnassignedProjectID {
		return ""
	}
	if s.findProjectLocked(sc.Project) < 0 {
		return ""
	}
	return sc.Project
}

// reconcileLocked drops filter selections that reference entities which no longer
// exist. It returns true when a persisted preference changed.
func (s *Store) reconcileLocked() bool {
	roots := make(map[string]bool, len(s.state.Tasks))
	for _, r := range s.state.Tasks {
		roots[r.ID] = true
	}
	for id := range s.view.parents.selected {
		if !roots[id] {
			delete(s.view.parents.selected, id)
		}
	}

	o := &s.view.opts
	if o.RelatedTo != "" && domain.FindTask(s.state.Tasks, o.RelatedTo) == nil {
		o.RelatedTo = ""
	}
	if o.TeamID != "" && s.findTeamLocked(o.TeamID) < 0 {
		o.TeamID = ""
	}

	exists := func(id string) bool {
		return id == domain.UnassignedProjectID || s.findProjectLocked(id) >= 0
	}
	before := s.view.prefs()
	switch o.Scope.Mode {
	case domain.ScopeProject:
		if o.Scope.Project != "" && !exists(o.Scope.Project) {
			o.Scope = domain.ProjectScope{Mode: domain.ScopeGlobal}
		}
	case domain.ScopeMulti:
		kept := slices.DeleteFunc(slices.Clone(o.Scope.Projects), func(id string) bool { return !exists(id) })
		switch {
		case len(kept) == len(o.Scope.Projects):
		case len(kept) == 0:
			o.Scope = domain.ProjectScope{Mode: domain.ScopeGlobal}
		default:
			o.Scope.Projects = kept
		}
	}
	return !samePrefs(before, s.view.prefs())
}

// FilteredTask is a node of a filter projection.
// Fields are ordered to minimize memory padding.
type FilteredTask struct {
	Children []*FilteredTask
	Task     domain.Task // Copy of the node; Task.Children is always nil
	Depth    int
	Matches  bool // The node itself satisfies every criterion
}

// GetFilteredTasks projects the forest through the current filter:
// project scope, parent scope, per-node criteria, filter/show mode and sorting.
// The read may initialize or disable parent scoping.
func (s *Store) GetFilteredTasks() []*FilteredTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := s.view.opts
	roots := scopeRoots(s.state.Tasks, opts.Scope)
	roots = s.applyParentScopeLocked(roots)
	return s.projectLocked(roots, opts)
}

// Query projects the forest through opts without touching the view state: the
// stored filter, the parent scope and the persisted preferences are left alone.
func (s *Store) Query(opts FilterOptions) []*FilteredTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.Mode == "" {
		opts.Mode = domain.FilterModeFilter
	}
	return s.projectLocked(scopeRoots(s.state.Tasks, opts.Scope), opts)
}

func (s *Store) projectLocked(roots []*domain.Task, opts FilterOptions) []*FilteredTask {
	m := s.newMatcherLocked(opts)
	out := make([]*FilteredTask, 0, len(roots))
	for _, r := range roots {
		if ft := project(r, 0, m, opts.Mode); ft != nil {
			out = append(out, ft)
		}
	}
	if opts.Sort == domain.SortPriority {
		sortByPriority(out)
	}
	return out
}

// scopeRoots is the first pipeline stage.
func scopeRoots(roots []*domain.Task, scope domain.ProjectScope) []*domain.Task {
	switch scope.Mode {
	case domain.ScopeProject:
		if scope.Project == "" {
			return nil
		}
		return filterRoots(roots, func(pid string) bool {
			if scope.Project == domain.UnassignedProjectID {
				return pid == ""
			}
			return pid == scope.Project
		})
	case domain.ScopeMulti:
		return filterRoots(roots, func(pid string) bool {
			if pid == "" {
				return slices.Contains(scope.Projects, domain.UnassignedProjectID)
			}
			return slices.Contains(scope.Projects, pid)
		})
	default:
		return roots
	}
}

func filterRoots(roots []*domain.Task, keep func(projectID string) bool) []*domain.Task {
	var out []*domain.Task
	for _, r := range roots {
		if keep(r.ProjectID) {
			out = append(out, r)
		}
	}
	return out
}

// applyParentScopeLocked is the second pipeline stage. An uninitialized selection is
// populated with every visible root; an empty intersection disables parent scoping.
func (s *Store) applyParentScopeLocked(roots []*domain.Task) []*domain.Task {
	p := &s.view.parents
	if !p.enabled {
		return roots
	}
	if !p.initialized {
		p.initialized = true
		p.all = true
	}
	if p.all {
		for _, r := range roots {
			p.selected[r.ID] = true
		}
		return roots
	}
	var out []*domain.Task
	for _, r := range roots {
		if p.selected[r.ID] {
			out = append(out, r)
		}
	}
	if len(out) == 0 && len(roots) > 0 {
		p.enabled = false
		return roots
	}
	return out
}

type matcher struct {
	related map[string]bool
	team    *domain.Team
	opts    FilterOptions
}

func (s *Store) newMatcherLocked(opts FilterOptions) *matcher {
	m := &matcher{opts: opts}
	if opts.RelatedTo != "" {
		m.related = map[string]bool{}
		sources := append([]string{opts.RelatedTo}, s.state.Related[opts.RelatedTo]...)
		for _, id := range sources {
			if t := domain.FindTask(s.state.Tasks, id); t != nil {
				for _, d := range domain.CollectIDs([]*domain.Task{t}) {
					m.related[d] = true
				}
			}
		}
	}
	if opts.TeamID != "" {
		if i := s.findTeamLocked(opts.TeamID); i >= 0 {
			tm := s.state.Teams[i]
			m.team = &tm
		}
	}
	return m
}

func (m *matcher) match(t *domain.Task) bool {
	o := m.opts
	if !t.Matches(o.Search) {
		return false
	}
	if len(o.Statuses) > 0 && !slices.Contains(o.Statuses, t.Metadata.Status) {
		return false
	}
	if m.related != nil && !m.related[t.ID] {
		return false
	}
	// An explicit assignee takes precedence over the team filter.
	assignee := strings.TrimSpace(t.Metadata.Assignee)
	switch {
	case strings.TrimSpace(o.Assignee) != "":
		return assignee == strings.TrimSpace(o.Assignee)
	case m.team != nil:
		return m.team.HasMember(assignee)
	}
	return true
}

// project builds the annotated copy of a subtree. In filter mode a node survives
// only if it or a descendant matches.
func project(t *domain.Task, depth int, m *matcher, mode domain.FilterMode) *FilteredTask {
	ft := &FilteredTask{Depth: depth, Matches: m.match(t)}
	for _, c := range t.Children {
		if child := project(c, depth+1, m, mode); child != nil {
			ft.Children = append(ft.Children, child)
		}
	}
	if mode != domain.FilterModeShow && !ft.Matches && len(ft.Children) == 0 {
		return nil
	}
	node := *t
	node.Children = nil
	if t.Metadata.KanbanOrder != nil {
		v := *t.Metadata.KanbanOrder
		node.Metadata.KanbanOrder = &v
	}
	ft.Task = node
	return ft
}

// sortByPriority stably orders every sibling list high priority first.
func sortByPriority(list []*FilteredTask) {
	slices.SortStableFunc(list, func(a, b *FilteredTask) int {
		return a.Task.Metadata.Priority.Rank() - b.Task.Metadata.Priority.Rank()
	})
	for _, ft := range list {
		sortByPriority(ft.Children)
	}
}

// Rows flattens a projection in display order.
func Rows(forest []*FilteredTask) []*FilteredTask {
	var out []*FilteredTask
	var visit func(list []*FilteredTask)
	visit = func(list []*FilteredTask) {
		for _, ft := range list {
			out = append(out, ft)
			visit(ft.Children)
		}
	}
	visit(forest)
	return out
}
