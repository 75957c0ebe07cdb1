package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// CreateProjectInput contains the parameters for creating a project.
type CreateProjectInput struct {
	Name  string
	Color string
}

// CreateProjectOutput contains the id of the new project.
type CreateProjectOutput struct {
	ProjectID string
}

// CreateProject is the use case for creating a project.
type CreateProject struct {
	store *store.Store
}

// NewCreateProject creates a new CreateProject use case.
func NewCreateProject(st *store.Store) *CreateProject {
	return &CreateProject{store: st}
}

// Execute creates the project.
func (uc *CreateProject) Execute(_ context.Context, in CreateProjectInput) (*CreateProjectOutput, error) {
	id, err := uc.store.CreateProject(strings.TrimSpace(in.Name), in.Color)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &CreateProjectOutput{ProjectID: id}, nil
}

// ListProjectsInput contains the parameters for listing projects.
type ListProjectsInput struct{}

// ProjectSummary is a project with the number of root tasks assigned to it.
type ProjectSummary struct {
	Project   domain.Project
	RootTasks int
}

// ListProjectsOutput contains every project plus the unassigned root count.
type ListProjectsOutput struct {
	Projects   []ProjectSummary
	Unassigned int
}

// ListProjects is the use case for listing projects.
type ListProjects struct {
	store *store.Store
}

// NewListProjects creates a new ListProjects use case.
func NewListProjects(st *store.Store) *ListProjects {
	return &ListProjects{store: st}
}

// Execute lists the projects.
func (uc *ListProjects) Execute(_ context.Context, _ ListProjectsInput) (*ListProjectsOutput, error) {
	counts := map[string]int{}
	for _, root := range uc.store.Tasks() {
		counts[root.ProjectID]++
	}
	out := &ListProjectsOutput{Unassigned: counts[""]}
	for _, p := range uc.store.Projects() {
		out.Projects = append(out.Projects, ProjectSummary{Project: p, RootTasks: counts[p.ID]})
	}
	return out, nil
}

// EditProjectInput contains the parameters for editing a project.
type EditProjectInput struct {
	Patch     domain.ProjectPatch
	ProjectID string
}

// EditProjectOutput contains the updated project.
type EditProjectOutput struct {
	Project domain.Project
}

// EditProject is the use case for editing a project.
type EditProject struct {
	store *store.Store
}

// NewEditProject creates a new EditProject use case.
func NewEditProject(st *store.Store) *EditProject {
	return &EditProject{store: st}
}

// Execute applies the patch. Team ids must name existing teams.
func (uc *EditProject) Execute(_ context.Context, in EditProjectInput) (*EditProjectOutput, error) {
	if in.Patch.TeamIDs != nil {
		known := map[string]bool{}
		for _, tm := range uc.store.Teams() {
			known[tm.ID] = true
		}
		for _, id := range in.Patch.TeamIDs {
			if !known[id] {
				return nil, fmt.Errorf("team %s: %w", id, domain.ErrTeamNotFound)
			}
		}
	}
	if err := uc.store.UpdateProject(in.ProjectID, in.Patch); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	p, _ := uc.store.Project(in.ProjectID)
	return &EditProjectOutput{Project: p}, nil
}

// DeleteProjectInput contains the parameters for deleting a project.
type DeleteProjectInput struct {
	ProjectID string
}

// DeleteProjectOutput contains the result of deleting a project.
type DeleteProjectOutput struct{}

// DeleteProject is the use case for deleting a project.
type DeleteProject struct {
	store *store.Store
}

// NewDeleteProject creates a new DeleteProject use case.
func NewDeleteProject(st *store.Store) *DeleteProject {
	return &DeleteProject{store: st}
}

// Execute deletes the project. Its root tasks become unassigned.
func (uc *DeleteProject) Execute(_ context.Context, in DeleteProjectInput) (*DeleteProjectOutput, error) {
	if !uc.store.DeleteProject(in.ProjectID) {
		return nil, domain.ErrProjectNotFound
	}
	return &DeleteProjectOutput{}, nil
}
