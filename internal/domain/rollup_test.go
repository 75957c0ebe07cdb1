package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tasksWithStatuses(statuses ...Status) []*Task {
	out := make([]*Task, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, &Task{ID: string(rune('a' + i)), Metadata: Metadata{Status: s}})
	}
	return out
}

func TestRollupStatus(t *testing.T) {
	tests := []struct {
		name     string
		children []*Task
		want     Status
		ok       bool
	}{
		{"all done", tasksWithStatuses(StatusDone, StatusDone), StatusDone, true},
		{"todo and in-progress", tasksWithStatuses(StatusTodo, StatusInProgress), StatusInProgress, true},
		{"all todo", tasksWithStatuses(StatusTodo, StatusTodo), StatusTodo, true},
		{"review counts as started", tasksWithStatuses(StatusTodo, StatusReview), StatusInProgress, true},
		{"done and todo", tasksWithStatuses(StatusDone, StatusTodo), StatusInProgress, true},
		{"all review", tasksWithStatuses(StatusReview, StatusReview), StatusInProgress, true},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RollupStatus(tt.children)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// chain builds root -> mid -> leaf plus a todo sibling next to leaf.
func chain() ([]*Task, *Task, *Task, *Task) {
	leaf := &Task{ID: "leaf", Metadata: Metadata{Status: StatusTodo}}
	sibling := &Task{ID: "sibling", Metadata: Metadata{Status: StatusTodo}, SortIndex: 1}
	mid := &Task{ID: "mid", Metadata: Metadata{Status: StatusTodo}, Children: []*Task{leaf, sibling}}
	root := &Task{ID: "root", Metadata: Metadata{Status: StatusTodo}, Children: []*Task{mid}}
	return []*Task{root}, root, mid, leaf
}

func TestAncestors(t *testing.T) {
	forest, root, mid, _ := chain()

	assert.Equal(t, []*Task{mid, root}, Ancestors(forest, "leaf"))
	assert.Nil(t, Ancestors(forest, "root"))
	assert.Nil(t, Ancestors(forest, "missing"))
}

func TestUpdateAncestorStatuses(t *testing.T) {
	// Setup
	forest, root, mid, leaf := chain()
	leaf.Metadata.Status = StatusDone

	// Execute
	changes := UpdateAncestorStatuses(forest, "leaf")

	// Assert
	assert.Equal(t, []StatusChange{
		{ID: "mid", Status: StatusInProgress},
		{ID: "root", Status: StatusInProgress},
	}, changes)
	assert.Equal(t, StatusInProgress, mid.Metadata.Status)
	assert.Equal(t, StatusInProgress, root.Metadata.Status)
}

func TestUpdateAncestorStatuses_NoChange(t *testing.T) {
	forest, _, _, _ := chain()

	assert.Empty(t, UpdateAncestorStatuses(forest, "leaf"))
	assert.Empty(t, UpdateAncestorStatuses(forest, "root"))
}

func TestApplyRollupStatuses(t *testing.T) {
	// Setup
	forest, root, mid, leaf := chain()
	leaf.Metadata.Status = StatusDone
	mid.Children[1].Metadata.Status = StatusDone
	root.Metadata.Status = StatusTodo

	// Execute
	changes := ApplyRollupStatuses(forest)

	// Assert
	assert.Equal(t, []StatusChange{
		{ID: "mid", Status: StatusDone},
		{ID: "root", Status: StatusDone},
	}, changes)
	assert.Empty(t, ApplyRollupStatuses(forest))
}
