package domain

import (
	"maps"
	"strings"
)

// UnassignedProjectID is the pseudo project id used by project scopes to select
// root tasks that carry no project.
const UnassignedProjectID = "unassigned"

// Project groups root tasks. Tasks reference their project; projects do not list tasks.
// Fields are ordered to minimize memory padding.
type Project struct {
	StatusColors   map[Status]string   `json:"statusColors,omitempty" yaml:"statusColors,omitempty"`     // nil = theme defaults
	PriorityColors map[Priority]string `json:"priorityColors,omitempty" yaml:"priorityColors,omitempty"` // nil = theme defaults
	ID             string              `json:"id" yaml:"id"`
	Name           string              `json:"name" yaml:"name"`
	Color          string              `json:"color" yaml:"color"`
	TeamIDs        []string            `json:"teamIds,omitempty" yaml:"teamIds,omitempty"`
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	c := p
	if p.StatusColors != nil {
		c.StatusColors = maps.Clone(p.StatusColors)
	}
	if p.PriorityColors != nil {
		c.PriorityColors = maps.Clone(p.PriorityColors)
	}
	if p.TeamIDs != nil {
		c.TeamIDs = append([]string(nil), p.TeamIDs...)
	}
	return c
}

// ProjectPatch is a sparse update of a project. Nil fields are left unchanged.
type ProjectPatch struct {
	StatusColors   map[Status]string
	PriorityColors map[Priority]string
	Name           *string
	Color          *string
	TeamIDs        []string
	// ClearStatusColors and ClearPriorityColors reset the maps to theme defaults.
	ClearStatusColors   bool
	ClearPriorityColors bool
}

// IsEmpty returns true if the patch changes nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Color == nil && p.StatusColors == nil && p.PriorityColors == nil &&
		p.TeamIDs == nil && !p.ClearStatusColors && !p.ClearPriorityColors
}

// Apply writes the patch into the project.
func (p ProjectPatch) Apply(dst *Project) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Color != nil {
		dst.Color = *p.Color
	}
	if p.ClearStatusColors {
		dst.StatusColors = nil
	}
	if p.StatusColors != nil {
		dst.StatusColors = maps.Clone(p.StatusColors)
	}
	if p.ClearPriorityColors {
		dst.PriorityColors = nil
	}
	if p.PriorityColors != nil {
		dst.PriorityColors = maps.Clone(p.PriorityColors)
	}
	if p.TeamIDs != nil {
		dst.TeamIDs = append([]string(nil), p.TeamIDs...)
	}
}

// Team is a named set of assignees used by the team filter.
type Team struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Members []string `json:"members" yaml:"members"`
}

// Clone returns a deep copy of the team.
func (t Team) Clone() Team {
	c := t
	c.Members = append([]string(nil), t.Members...)
	return c
}

// HasMember reports whether name is one of the team members. Surrounding
// whitespace is ignored on both sides.
func (t Team) HasMember(name string) bool {
	name = strings.TrimSpace(name)
	for _, m := range t.Members {
		if strings.TrimSpace(m) == name {
			return true
		}
	}
	return false
}

// TeamPatch is a sparse update of a team.
type TeamPatch struct {
	Name    *string
	Members []string
}
