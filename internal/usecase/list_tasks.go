package usecase

import (
	"context"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// ListTasksInput contains the filter for listing tasks.
// Fields are ordered to minimize memory padding.
type ListTasksInput struct {
	Statuses   []domain.Status
	Projects   []string // Project ids; "unassigned" selects root tasks without a project
	Search     string
	RelatedTo  string
	Assignee   string
	TeamID     string
	ShowAll    bool // Keep non-matching tasks (show mode) instead of dropping them
	ByPriority bool
}

// ListTasksOutput contains the projected forest.
type ListTasksOutput struct {
	Tasks []*store.FilteredTask
}

// ListTasks is the use case for listing tasks through the filter engine.
type ListTasks struct {
	store *store.Store
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(st *store.Store) *ListTasks {
	return &ListTasks{store: st}
}

// Execute projects the task forest. The stored view preferences are not changed.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	for _, s := range in.Statuses {
		if !s.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
	}
	if in.RelatedTo != "" {
		if _, ok := uc.store.Find(in.RelatedTo); !ok {
			return nil, domain.ErrTaskNotFound
		}
	}

	opts := store.FilterOptions{
		Statuses:  in.Statuses,
		Search:    in.Search,
		RelatedTo: in.RelatedTo,
		Assignee:  in.Assignee,
		TeamID:    in.TeamID,
		Mode:      domain.FilterModeFilter,
		Sort:      domain.SortManual,
		Scope:     domain.ProjectScope{Mode: domain.ScopeGlobal},
	}
	switch len(in.Projects) {
	case 0:
	case 1:
		opts.Scope = domain.ProjectScope{Mode: domain.ScopeProject, Project: in.Projects[0]}
	default:
		opts.Scope = domain.ProjectScope{Mode: domain.ScopeMulti, Projects: in.Projects}
	}
	if in.ShowAll {
		opts.Mode = domain.FilterModeShow
	}
	if in.ByPriority {
		opts.Sort = domain.SortPriority
	}
	return &ListTasksOutput{Tasks: uc.store.Query(opts)}, nil
}
