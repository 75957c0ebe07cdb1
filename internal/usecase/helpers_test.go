package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/treeboard/internal/store"
	"github.com/stretchr/testify/require"
)

func addTask(t *testing.T, st *store.Store, parentID, title string) string {
	t.Helper()
	out, err := NewNewTask(st).Execute(context.Background(), NewTaskInput{Title: title, ParentID: parentID})
	require.NoError(t, err)
	return out.TaskID
}
