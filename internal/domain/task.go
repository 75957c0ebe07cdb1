// Package domain contains core business entities and interfaces.
package domain

import (
	"slices"
	"strings"
)

// Metadata holds the per-task attributes shown by the board, timeline and outline views.
// Fields are ordered to minimize memory padding.
type Metadata struct {
	KanbanOrder *int     `json:"kanbanOrder" yaml:"kanbanOrder"` // Column position (nil = unordered)
	Status      Status   `json:"status" yaml:"status"`           // Progress state
	Priority    Priority `json:"priority" yaml:"priority"`       // Importance
	Assignee    string   `json:"assignee" yaml:"assignee"`       // Free-form assignee name
	StartDate   string   `json:"startDate" yaml:"startDate"`     // ISO date or empty
	EndDate     string   `json:"endDate" yaml:"endDate"`         // ISO date or empty
}

// DefaultMetadata returns the metadata assigned to newly created tasks.
func DefaultMetadata() Metadata {
	return Metadata{
		Status:   StatusTodo,
		Priority: PriorityMedium,
	}
}

// Task is a node of the task forest. A task exclusively owns its children.
// The parent link is implied by tree position and never stored on the node.
// Fields are ordered to minimize memory padding.
type Task struct {
	Children    []*Task  `json:"children" yaml:"children,omitempty"`
	Metadata    Metadata `json:"metadata" yaml:"metadata"`
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description,omitempty"`
	ProjectID   string   `json:"projectId,omitempty" yaml:"projectId,omitempty"` // Empty = unassigned; root tasks only
	SortIndex   int      `json:"sortIndex" yaml:"sortIndex"`
}

// HasChildren returns true if the task has at least one child.
func (t *Task) HasChildren() bool {
	return len(t.Children) > 0
}

// Clone returns a deep copy of the task and its subtree.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Metadata.KanbanOrder != nil {
		v := *t.Metadata.KanbanOrder
		c.Metadata.KanbanOrder = &v
	}
	c.Children = CloneForest(t.Children)
	return &c
}

// Matches reports whether query occurs in the title or description, ignoring case.
// An empty query matches everything.
func (t *Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// CloneForest deep-copies a list of tasks. A nil input yields an empty, non-nil slice.
func CloneForest(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}

// FlatTask is the flat representation of a task used on the wire and in exports.
// ParentID is maintained redundantly here because the node itself has no parent link.
// Fields are ordered to minimize memory padding.
type FlatTask struct {
	Metadata    Metadata `json:"metadata" yaml:"metadata"`
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description,omitempty"`
	ProjectID   string   `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	ParentID    string   `json:"parentId,omitempty" yaml:"parentId,omitempty"` // Empty = root task
	SortIndex   int      `json:"sortIndex" yaml:"sortIndex"`
}

// IsRoot returns true if this is a root task (no parent).
func (f *FlatTask) IsRoot() bool {
	return f.ParentID == ""
}

// Flat converts a node into its flat representation under the given parent.
func (t *Task) Flat(parentID string) FlatTask {
	md := t.Metadata
	if md.KanbanOrder != nil {
		v := *md.KanbanOrder
		md.KanbanOrder = &v
	}
	return FlatTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		ProjectID:   t.ProjectID,
		ParentID:    parentID,
		SortIndex:   t.SortIndex,
		Metadata:    md,
	}
}

// Walk visits every task in pre-order depth-first order together with its parent
// (nil for roots). Returning false from fn stops the walk.
func Walk(tasks []*Task, fn func(t, parent *Task) bool) bool {
	return walk(tasks, nil, fn)
}

func walk(tasks []*Task, parent *Task, fn func(t, parent *Task) bool) bool {
	for _, t := range tasks {
		if !fn(t, parent) {
			return false
		}
		if !walk(t.Children, t, fn) {
			return false
		}
	}
	return true
}

// FindTask returns the task with the given id, or nil.
func FindTask(tasks []*Task, id string) *Task {
	var found *Task
	Walk(tasks, func(t, _ *Task) bool {
		if t.ID == id {
			found = t
			return false
		}
		return true
	})
	return found
}

// FindParent returns the parent of the task with the given id.
// It returns nil for root tasks and for unknown ids.
func FindParent(tasks []*Task, id string) *Task {
	var found *Task
	Walk(tasks, func(t, parent *Task) bool {
		if t.ID == id {
			found = parent
			return false
		}
		return true
	})
	return found
}

// Flatten returns every task in pre-order with parent ids filled in.
func Flatten(tasks []*Task) []FlatTask {
	var out []FlatTask
	Walk(tasks, func(t, parent *Task) bool {
		pid := ""
		if parent != nil {
			pid = parent.ID
		}
		out = append(out, t.Flat(pid))
		return true
	})
	return out
}

// CollectIDs returns the ids of the given tasks and all their descendants.
func CollectIDs(tasks []*Task) []string {
	var ids []string
	Walk(tasks, func(t, _ *Task) bool {
		ids = append(ids, t.ID)
		return true
	})
	return ids
}

// BuildTree nests a flat task list into a forest.
// Siblings are ordered by SortIndex (ties keep input order). Tasks whose parent is
// missing, or that would form a parent cycle, become roots. ProjectID is dropped from
// non-root tasks and SortIndex is renumbered densely.
func BuildTree(flat []FlatTask) []*Task {
	nodes := make(map[string]*Task, len(flat))
	parentOf := make(map[string]string, len(flat))
	order := make([]string, 0, len(flat))
	for i := range flat {
		f := &flat[i]
		if _, dup := nodes[f.ID]; dup {
			continue
		}
		md := f.Metadata
		if md.KanbanOrder != nil {
			v := *md.KanbanOrder
			md.KanbanOrder = &v
		}
		nodes[f.ID] = &Task{
			ID:          f.ID,
			Title:       f.Title,
			Description: f.Description,
			ProjectID:   f.ProjectID,
			SortIndex:   f.SortIndex,
			Metadata:    md,
		}
		parentOf[f.ID] = f.ParentID
		order = append(order, f.ID)
	}

	var roots []*Task
	for _, id := range order {
		n := nodes[id]
		pid := parentOf[id]
		parent, ok := nodes[pid]
		if pid == "" || !ok || createsCycle(parentOf, id) {
			roots = append(roots, n)
			continue
		}
		n.ProjectID = ""
		parent.Children = append(parent.Children, n)
	}

	SortSiblings(roots)
	Walk(roots, func(t, _ *Task) bool {
		SortSiblings(t.Children)
		return true
	})
	if roots == nil {
		roots = []*Task{}
	}
	return roots
}

// createsCycle reports whether following parent links from id returns to id.
func createsCycle(parentOf map[string]string, id string) bool {
	seen := map[string]bool{id: true}
	cur := parentOf[id]
	for cur != "" {
		if seen[cur] {
			return cur == id
		}
		seen[cur] = true
		next, ok := parentOf[cur]
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

// SortSiblings stably orders a sibling list by SortIndex and renumbers it 0..n-1.
func SortSiblings(siblings []*Task) {
	slices.SortStableFunc(siblings, func(a, b *Task) int {
		return a.SortIndex - b.SortIndex
	})
	Renumber(siblings)
}

// Renumber rewrites SortIndex of a sibling list to its positions 0..n-1.
// It returns the tasks whose index changed.
func Renumber(siblings []*Task) []*Task {
	var changed []*Task
	for i, t := range siblings {
		if t.SortIndex != i {
			t.SortIndex = i
			changed = append(changed, t)
		}
	}
	return changed
}
