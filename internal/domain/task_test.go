package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(id, parent string, sortIndex int) FlatTask {
	return FlatTask{ID: id, ParentID: parent, SortIndex: sortIndex, Title: id, Metadata: DefaultMetadata()}
}

func TestBuildTree_NestsAndSorts(t *testing.T) {
	// Setup
	in := []FlatTask{
		flat("b", "", 5),
		flat("a", "", 2),
		flat("a2", "a", 9),
		flat("a1", "a", 1),
	}
	in[3].ProjectID = "project-1"

	// Execute
	roots := BuildTree(in)

	// Assert
	require.Len(t, roots, 2)
	assert.Equal(t, "a", roots[0].ID)
	assert.Equal(t, 0, roots[0].SortIndex)
	assert.Equal(t, 1, roots[1].SortIndex)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "a1", roots[0].Children[0].ID)
	assert.Equal(t, 1, roots[0].Children[1].SortIndex)
	assert.Empty(t, roots[0].Children[0].ProjectID, "children never carry a project")
}

func TestBuildTree_OrphansAndCycles(t *testing.T) {
	in := []FlatTask{
		flat("orphan", "missing", 0),
		flat("x", "y", 0),
		flat("y", "x", 0),
	}

	roots := BuildTree(in)

	ids := CollectIDs(roots)
	assert.ElementsMatch(t, []string{"orphan", "x", "y"}, ids)
	for _, r := range roots {
		assert.NotEqual(t, "", r.ID)
	}
	assert.Len(t, Flatten(roots), 3)
}

func TestBuildTree_Empty(t *testing.T) {
	roots := BuildTree(nil)

	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}

func TestFlatten_PreOrderWithParents(t *testing.T) {
	roots := BuildTree([]FlatTask{
		flat("a", "", 0),
		flat("a1", "a", 0),
		flat("b", "", 1),
	})

	got := Flatten(roots)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "a1", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "a", got[1].ParentID)
	assert.True(t, got[2].IsRoot())
}

func TestFindTaskAndParent(t *testing.T) {
	roots := BuildTree([]FlatTask{
		flat("a", "", 0),
		flat("a1", "a", 0),
		flat("a11", "a1", 0),
	})

	assert.Equal(t, "a11", FindTask(roots, "a11").ID)
	assert.Nil(t, FindTask(roots, "missing"))
	assert.Equal(t, "a1", FindParent(roots, "a11").ID)
	assert.Nil(t, FindParent(roots, "a"))
	assert.Nil(t, FindParent(roots, "missing"))
}

func TestTask_Clone_Deep(t *testing.T) {
	order := 3
	orig := &Task{
		ID:       "a",
		Metadata: Metadata{KanbanOrder: &order},
		Children: []*Task{{ID: "a1"}},
	}

	c := orig.Clone()
	c.Children[0].ID = "changed"
	*c.Metadata.KanbanOrder = 9

	assert.Equal(t, "a1", orig.Children[0].ID)
	assert.Equal(t, 3, *orig.Metadata.KanbanOrder)
	assert.Nil(t, (*Task)(nil).Clone())
}

func TestTask_Matches(t *testing.T) {
	task := &Task{Title: "Write Runbook", Description: "covers the API"}

	assert.True(t, task.Matches(""))
	assert.True(t, task.Matches("runbook"))
	assert.True(t, task.Matches("api"))
	assert.False(t, task.Matches("design"))
}

func TestRenumber(t *testing.T) {
	list := []*Task{{ID: "a", SortIndex: 0}, {ID: "b", SortIndex: 4}, {ID: "c", SortIndex: 7}}

	changed := Renumber(list)

	require.Len(t, changed, 2)
	assert.Equal(t, []string{"b", "c"}, []string{changed[0].ID, changed[1].ID})
	assert.Equal(t, 2, list[2].SortIndex)
}
