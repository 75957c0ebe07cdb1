package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask_Execute(t *testing.T) {
	// Setup
	st := store.New()
	uc := NewNewTask(st)

	// Execute
	out, err := uc.Execute(context.Background(), NewTaskInput{
		Title:    "  Write release notes  ",
		Status:   domain.StatusInProgress,
		Priority: domain.PriorityHigh,
		Assignee: "alice",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "task-1", out.TaskID)
	task, ok := st.Find(out.TaskID)
	require.True(t, ok)
	assert.Equal(t, "Write release notes", task.Title)
	assert.Equal(t, domain.StatusInProgress, task.Metadata.Status)
	assert.Equal(t, domain.PriorityHigh, task.Metadata.Priority)
	assert.Equal(t, "alice", task.Metadata.Assignee)
}

func TestNewTask_Execute_Errors(t *testing.T) {
	tests := []struct {
		want error
		name string
		in   NewTaskInput
	}{
		{name: "empty title", in: NewTaskInput{Title: "   "}, want: domain.ErrEmptyTitle},
		{name: "bad status", in: NewTaskInput{Title: "x", Status: "blocked"}, want: domain.ErrInvalidStatus},
		{name: "bad priority", in: NewTaskInput{Title: "x", Priority: "urgent"}, want: domain.ErrInvalidPriority},
		{name: "missing parent", in: NewTaskInput{Title: "x", ParentID: "task-9"}, want: domain.ErrParentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.New()
			_, err := NewNewTask(st).Execute(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, st.Tasks())
		})
	}
}

func TestListTasks_Execute_Filters(t *testing.T) {
	// Setup
	st := store.New()
	root := addTask(t, st, "", "Backend")
	addTask(t, st, root, "Write API")
	done := addTask(t, st, root, "Deploy")
	_, err := NewSetStatus(st).Execute(context.Background(), SetStatusInput{TaskID: done, Status: domain.StatusDone})
	require.NoError(t, err)

	// Execute
	out, err := NewListTasks(st).Execute(context.Background(), ListTasksInput{
		Statuses: []domain.Status{domain.StatusDone},
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, root, out.Tasks[0].Task.ID)
	assert.False(t, out.Tasks[0].Matches)
	require.Len(t, out.Tasks[0].Children, 1)
	assert.Equal(t, done, out.Tasks[0].Children[0].Task.ID)
	assert.Empty(t, st.Filter().Statuses)
}

func TestListTasks_Execute_Errors(t *testing.T) {
	st := store.New()
	uc := NewListTasks(st)

	_, err := uc.Execute(context.Background(), ListTasksInput{Statuses: []domain.Status{"later"}})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = uc.Execute(context.Background(), ListTasksInput{RelatedTo: "task-1"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestShowTask_Execute(t *testing.T) {
	// Setup
	ctx := context.Background()
	st := store.New()
	pid, err := st.CreateProject("Launch", "")
	require.NoError(t, err)
	root, err := st.Add("", "Root", "", pid)
	require.NoError(t, err)
	child := addTask(t, st, root, "Child")
	other := addTask(t, st, "", "Other")
	link := NewLinkTasks(st)
	_, err = link.Execute(ctx, LinkTasksInput{From: child, To: other, Kind: LinkRelated})
	require.NoError(t, err)
	_, err = link.Execute(ctx, LinkTasksInput{From: other, To: child, Kind: LinkDependency})
	require.NoError(t, err)

	// Execute
	out, err := NewShowTask(st).Execute(ctx, ShowTaskInput{TaskID: child})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Child", out.Task.Title)
	require.NotNil(t, out.Parent)
	assert.Equal(t, root, out.Parent.ID)
	require.NotNil(t, out.Project)
	assert.Equal(t, "Launch", out.Project.Name)
	require.Len(t, out.Related, 1)
	assert.Equal(t, other, out.Related[0].ID)
	assert.Empty(t, out.Dependencies)
	require.Len(t, out.Dependents, 1)
	assert.Equal(t, other, out.Dependents[0].ID)

	_, err = NewShowTask(st).Execute(ctx, ShowTaskInput{TaskID: "task-99"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestEditTask_Execute(t *testing.T) {
	// Setup
	st := store.New()
	id := addTask(t, st, "", "Draft")
	title := "Final"
	prio := domain.PriorityLow

	// Execute
	out, err := NewEditTask(st).Execute(context.Background(), EditTaskInput{TaskID: id, Title: &title, Priority: &prio})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Final", out.Task.Title)
	assert.Equal(t, domain.PriorityLow, out.Task.Metadata.Priority)
}

func TestEditTask_Execute_NoFields(t *testing.T) {
	st := store.New()
	id := addTask(t, st, "", "Draft")

	_, err := NewEditTask(st).Execute(context.Background(), EditTaskInput{TaskID: id})

	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestEditTask_Execute_EmptyTitle(t *testing.T) {
	st := store.New()
	id := addTask(t, st, "", "Draft")
	blank := "   "

	_, err := NewEditTask(st).Execute(context.Background(), EditTaskInput{TaskID: id, Title: &blank})

	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	task, ok := st.Find(id)
	require.True(t, ok)
	assert.Equal(t, "Draft", task.Title)
}

func TestEditTask_Execute_TrimsTitle(t *testing.T) {
	st := store.New()
	id := addTask(t, st, "", "Draft")
	title := "  Final "

	out, err := NewEditTask(st).Execute(context.Background(), EditTaskInput{TaskID: id, Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "Final", out.Task.Title)
}

func TestSetStatus_Execute_ReportsRollup(t *testing.T) {
	// Setup
	st := store.New()
	root := addTask(t, st, "", "Root")
	only := addTask(t, st, root, "Only child")

	// Execute
	out, err := NewSetStatus(st).Execute(context.Background(), SetStatusInput{TaskID: only, Status: domain.StatusDone})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []domain.StatusChange{
		{ID: root, Status: domain.StatusDone},
		{ID: only, Status: domain.StatusDone},
	}, out.Changes)
}

func TestSetStatus_Execute_Cascade(t *testing.T) {
	// Setup
	st := store.New()
	root := addTask(t, st, "", "Root")
	a := addTask(t, st, root, "A")
	b := addTask(t, st, root, "B")

	// Execute
	out, err := NewSetStatus(st).Execute(context.Background(), SetStatusInput{TaskID: root, Status: domain.StatusDone, Cascade: true})

	// Assert
	require.NoError(t, err)
	ids := make([]string, 0, len(out.Changes))
	for _, c := range out.Changes {
		ids = append(ids, c.ID)
		assert.Equal(t, domain.StatusDone, c.Status)
	}
	assert.ElementsMatch(t, []string{root, a, b}, ids)
}

func TestSetStatus_Execute_InvalidStatus(t *testing.T) {
	st := store.New()
	id := addTask(t, st, "", "Root")

	_, err := NewSetStatus(st).Execute(context.Background(), SetStatusInput{TaskID: id, Status: "paused"})

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDeleteTask_Execute(t *testing.T) {
	// Setup
	st := store.New()
	root := addTask(t, st, "", "Root")
	addTask(t, st, root, "Child")
	keep := addTask(t, st, "", "Keep")

	// Execute
	out, err := NewDeleteTask(st).Execute(context.Background(), DeleteTaskInput{TaskID: root})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, out.Removed)
	tasks := st.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, keep, tasks[0].ID)

	_, err = NewDeleteTask(st).Execute(context.Background(), DeleteTaskInput{TaskID: root})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestMoveTask_Execute(t *testing.T) {
	// Setup
	ctx := context.Background()
	st := store.New()
	a := addTask(t, st, "", "A")
	b := addTask(t, st, "", "B")
	uc := NewMoveTask(st)

	// Execute & Assert
	out, err := uc.Execute(ctx, MoveTaskInput{TaskID: b, Action: MoveIndent})
	require.NoError(t, err)
	assert.Equal(t, a, out.ParentID)
	assert.Equal(t, 0, out.SortIndex)

	out, err = uc.Execute(ctx, MoveTaskInput{TaskID: b, Action: MoveOutdent})
	require.NoError(t, err)
	assert.Equal(t, "", out.ParentID)
	assert.Equal(t, 1, out.SortIndex)

	out, err = uc.Execute(ctx, MoveTaskInput{TaskID: b, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, out.SortIndex)

	_, err = uc.Execute(ctx, MoveTaskInput{TaskID: a, ParentID: b, Index: -1})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, MoveTaskInput{TaskID: b, ParentID: a, Index: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidMove)
	_, err = uc.Execute(ctx, MoveTaskInput{TaskID: b, Action: MoveOutdent})
	assert.ErrorIs(t, err, domain.ErrNotOutdentable)
}

func TestLinkTasks_Execute(t *testing.T) {
	// Setup
	ctx := context.Background()
	st := store.New()
	a := addTask(t, st, "", "A")
	b := addTask(t, st, "", "B")
	uc := NewLinkTasks(st)

	// Execute & Assert
	out, err := uc.Execute(ctx, LinkTasksInput{From: a, To: b, Kind: LinkDependency})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	out, err = uc.Execute(ctx, LinkTasksInput{From: a, To: b, Kind: LinkDependency})
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Equal(t, []string{b}, st.GetDependencies(a))

	out, err = uc.Execute(ctx, LinkTasksInput{From: a, To: b, Kind: LinkDependency, Remove: true})
	require.NoError(t, err)
	assert.True(t, out.Changed)

	_, err = uc.Execute(ctx, LinkTasksInput{From: a, To: "task-42", Kind: LinkRelated})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
