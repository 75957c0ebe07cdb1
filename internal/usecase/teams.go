package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// CreateTeamInput contains the parameters for creating a team.
type CreateTeamInput struct {
	Name    string
	Members []string
}

// CreateTeamOutput contains the id of the new team.
type CreateTeamOutput struct {
	TeamID string
}

// CreateTeam is the use case for creating a team.
type CreateTeam struct {
	store *store.Store
}

// NewCreateTeam creates a new CreateTeam use case.
func NewCreateTeam(st *store.Store) *CreateTeam {
	return &CreateTeam{store: st}
}

// Execute creates the team.
func (uc *CreateTeam) Execute(_ context.Context, in CreateTeamInput) (*CreateTeamOutput, error) {
	id, err := uc.store.CreateTeam(strings.TrimSpace(in.Name), in.Members)
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	return &CreateTeamOutput{TeamID: id}, nil
}

// ListTeamsInput contains the parameters for listing teams.
type ListTeamsInput struct{}

// ListTeamsOutput contains every team.
type ListTeamsOutput struct {
	Teams []domain.Team
}

// ListTeams is the use case for listing teams.
type ListTeams struct {
	store *store.Store
}

// NewListTeams creates a new ListTeams use case.
func NewListTeams(st *store.Store) *ListTeams {
	return &ListTeams{store: st}
}

// Execute lists the teams.
func (uc *ListTeams) Execute(_ context.Context, _ ListTeamsInput) (*ListTeamsOutput, error) {
	return &ListTeamsOutput{Teams: uc.store.Teams()}, nil
}

// EditTeamInput contains the parameters for editing a team.
type EditTeamInput struct {
	Patch  domain.TeamPatch
	TeamID string
}

// EditTeamOutput contains the result of editing a team.
type EditTeamOutput struct{}

// EditTeam is the use case for renaming a team or replacing its members.
type EditTeam struct {
	store *store.Store
}

// NewEditTeam creates a new EditTeam use case.
func NewEditTeam(st *store.Store) *EditTeam {
	return &EditTeam{store: st}
}

// Execute applies the patch.
func (uc *EditTeam) Execute(_ context.Context, in EditTeamInput) (*EditTeamOutput, error) {
	if err := uc.store.UpdateTeam(in.TeamID, in.Patch); err != nil {
		return nil, fmt.Errorf("update team: %w", err)
	}
	return &EditTeamOutput{}, nil
}

// DeleteTeamInput contains the parameters for deleting a team.
type DeleteTeamInput struct {
	TeamID string
}

// DeleteTeamOutput contains the result of deleting a team.
type DeleteTeamOutput struct{}

// DeleteTeam is the use case for deleting a team.
type DeleteTeam struct {
	store *store.Store
}

// NewDeleteTeam creates a new DeleteTeam use case.
func NewDeleteTeam(st *store.Store) *DeleteTeam {
	return &DeleteTeam{store: st}
}

// Execute deletes the team and drops it from every project.
func (uc *DeleteTeam) Execute(_ context.Context, in DeleteTeamInput) (*DeleteTeamOutput, error) {
	if !uc.store.DeleteTeam(in.TeamID) {
		return nil, domain.ErrTeamNotFound
	}
	return &DeleteTeamOutput{}, nil
}
