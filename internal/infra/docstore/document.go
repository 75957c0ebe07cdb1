// Package docstore keeps the whole board in one document and exposes it as a
// domain.Remote. The offline backends persist the document; Memory keeps it in RAM.
package docstore

import (
	"fmt"
	"slices"

	"github.com/runoshun/treeboard/internal/domain"
)

// DocumentVersion is the current on-disk document format.
const DocumentVersion = 1

// Document is the persisted form of a board: flat tasks, projects, both edge lists
// and the settings key/value pairs.
// Fields are ordered to minimize memory padding.
type Document struct {
	Settings     map[string]string `json:"settings" yaml:"settings"`
	Tasks        []domain.FlatTask `json:"tasks" yaml:"tasks"`
	Projects     []domain.Project  `json:"projects" yaml:"projects"`
	Related      []domain.Edge     `json:"related" yaml:"related"`
	Dependencies []domain.Edge     `json:"dependencies" yaml:"dependencies"`
	Version      int               `json:"version" yaml:"version"`
}

// NewDocument returns an empty document of the current version.
func NewDocument() *Document {
	d := &Document{Version: DocumentVersion}
	d.Normalize()
	return d
}

// Normalize initializes nil collections after decoding.
func (d *Document) Normalize() {
	if d.Settings == nil {
		d.Settings = make(map[string]string)
	}
	if d.Tasks == nil {
		d.Tasks = []domain.FlatTask{}
	}
	if d.Projects == nil {
		d.Projects = []domain.Project{}
	}
	if d.Related == nil {
		d.Related = []domain.Edge{}
	}
	if d.Dependencies == nil {
		d.Dependencies = []domain.Edge{}
	}
	if d.Version == 0 {
		d.Version = DocumentVersion
	}
}

func (d *Document) taskIndex(id string) int {
	return slices.IndexFunc(d.Tasks, func(t domain.FlatTask) bool { return t.ID == id })
}

func (d *Document) projectIndex(id string) int {
	return slices.IndexFunc(d.Projects, func(p domain.Project) bool { return p.ID == id })
}

// CreateTask appends a task. Ids must be unique.
func (d *Document) CreateTask(task domain.FlatTask) error {
	if d.taskIndex(task.ID) >= 0 {
		return fmt.Errorf("task %s: %w", task.ID, domain.ErrAlreadyExists)
	}
	d.Tasks = append(d.Tasks, task)
	return nil
}

// UpdateTask applies a sparse patch to a stored task.
func (d *Document) UpdateTask(id string, patch domain.TaskPatch) error {
	i := d.taskIndex(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	t := &d.Tasks[i]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.ProjectID != nil {
		t.ProjectID = *patch.ProjectID
	}
	if patch.ParentID != nil {
		t.ParentID = *patch.ParentID
	}
	if patch.SortIndex != nil {
		t.SortIndex = *patch.SortIndex
	}
	if patch.Metadata != nil {
		patch.Metadata.Apply(&t.Metadata)
	}
	return nil
}

// DeleteTask removes one task and every edge that references it. Children are
// left in place; callers delete them first.
func (d *Document) DeleteTask(id string) error {
	i := d.taskIndex(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	d.Tasks = slices.Delete(d.Tasks, i, i+1)
	touches := func(e domain.Edge) bool { return e.From == id || e.To == id }
	d.Related = slices.DeleteFunc(d.Related, touches)
	d.Dependencies = slices.DeleteFunc(d.Dependencies, touches)
	return nil
}

// CreateProject appends a project. Ids must be unique.
func (d *Document) CreateProject(p domain.Project) error {
	if d.projectIndex(p.ID) >= 0 {
		return fmt.Errorf("project %s: %w", p.ID, domain.ErrAlreadyExists)
	}
	d.Projects = append(d.Projects, p.Clone())
	return nil
}

// UpdateProject applies a sparse patch to a stored project.
func (d *Document) UpdateProject(id string, patch domain.ProjectPatch) error {
	i := d.projectIndex(id)
	if i < 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	patch.Apply(&d.Projects[i])
	return nil
}

// DeleteProject removes a project. Tasks keep their project reference.
func (d *Document) DeleteProject(id string) error {
	i := d.projectIndex(id)
	if i < 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	d.Projects = slices.Delete(d.Projects, i, i+1)
	return nil
}

// addEdge appends an edge unless it is already stored.
func addEdge(edges []domain.Edge, e domain.Edge) []domain.Edge {
	if slices.Contains(edges, e) {
		return edges
	}
	return append(edges, e)
}

// removeEdge deletes an edge, failing with ErrNotFound when it is absent.
func removeEdge(edges []domain.Edge, e domain.Edge) ([]domain.Edge, error) {
	i := slices.Index(edges, e)
	if i < 0 {
		return edges, fmt.Errorf("edge %s -> %s: %w", e.From, e.To, domain.ErrNotFound)
	}
	return slices.Delete(edges, i, i+1), nil
}

// targets returns the To side of every edge leaving id.
func targets(edges []domain.Edge, id string) []string {
	out := []string{}
	for _, e := range edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// AddDependency stores a dependency edge. Storing it twice is a no-op.
func (d *Document) AddDependency(taskID, dependsOnID string) {
	d.Dependencies = addEdge(d.Dependencies, domain.Edge{From: taskID, To: dependsOnID})
}

// RemoveDependency deletes a dependency edge.
func (d *Document) RemoveDependency(taskID, dependsOnID string) error {
	var err error
	d.Dependencies, err = removeEdge(d.Dependencies, domain.Edge{From: taskID, To: dependsOnID})
	return err
}

// AddRelated stores one direction of a related pair.
func (d *Document) AddRelated(taskID, relatedID string) {
	d.Related = addEdge(d.Related, domain.Edge{From: taskID, To: relatedID})
}

// RemoveRelated deletes one direction of a related pair.
func (d *Document) RemoveRelated(taskID, relatedID string) error {
	var err error
	d.Related, err = removeEdge(d.Related, domain.Edge{From: taskID, To: relatedID})
	return err
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Version:      d.Version,
		Settings:     make(map[string]string, len(d.Settings)),
		Tasks:        make([]domain.FlatTask, 0, len(d.Tasks)),
		Projects:     make([]domain.Project, 0, len(d.Projects)),
		Related:      slices.Clone(d.Related),
		Dependencies: slices.Clone(d.Dependencies),
	}
	for k, v := range d.Settings {
		c.Settings[k] = v
	}
	for _, t := range d.Tasks {
		if t.Metadata.KanbanOrder != nil {
			v := *t.Metadata.KanbanOrder
			t.Metadata.KanbanOrder = &v
		}
		c.Tasks = append(c.Tasks, t)
	}
	for _, p := range d.Projects {
		c.Projects = append(c.Projects, p.Clone())
	}
	c.Normalize()
	return c
}
