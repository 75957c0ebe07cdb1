package gitstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/infra/crypto"
	"github.com/runoshun/treeboard/internal/infra/docstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)

	return NewWithRepo(repo, "treeboard-test", discardLogger())
}

func TestStore_View_EmptyRepository(t *testing.T) {
	store := setupTestStore(t)

	var got *docstore.Document
	err := store.View(func(d *docstore.Document) error {
		got = d
		return nil
	})

	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
	assert.Equal(t, docstore.DocumentVersion, got.Version)
	assert.False(t, store.IsInitialized())
}

func TestStore_Update_PersistsDocument(t *testing.T) {
	// Setup
	store := setupTestStore(t)
	remote := docstore.NewRemote(store)
	ctx := context.Background()

	// Execute
	require.NoError(t, remote.CreateProject(ctx, domain.Project{ID: "project-1", Name: "Launch"}))
	require.NoError(t, remote.CreateTask(ctx, domain.FlatTask{ID: "task-1", Title: "Design", ProjectID: "project-1", Metadata: domain.DefaultMetadata()}))
	require.NoError(t, remote.CreateTask(ctx, domain.FlatTask{ID: "task-2", Title: "Sketch", ParentID: "task-1", Metadata: domain.DefaultMetadata()}))
	require.NoError(t, remote.AddRelated(ctx, "task-1", "task-2"))

	// Assert
	assert.True(t, store.IsInitialized())
	tree, err := remote.TaskTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "project-1", tree[0].ProjectID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Sketch", tree[0].Children[0].Title)
	related, err := remote.TaskRelated(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"task-2"}, related)
}

func TestStore_Update_ErrorLeavesRefUntouched(t *testing.T) {
	// Setup
	store := setupTestStore(t)
	remote := docstore.NewRemote(store)
	require.NoError(t, remote.CreateTask(context.Background(), domain.FlatTask{ID: "task-1", Title: "A"}))

	// Execute
	err := remote.UpdateTask(context.Background(), "missing", domain.StatusPatch(domain.StatusDone))

	// Assert
	require.ErrorIs(t, err, domain.ErrNotFound)
	tasks, err := remote.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestStore_NamespacesAreIndependent(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	a := docstore.NewRemote(NewWithRepo(repo, "alpha", discardLogger()))
	b := docstore.NewRemote(NewWithRepo(repo, "beta", discardLogger()))

	require.NoError(t, a.CreateTask(context.Background(), domain.FlatTask{ID: "task-1", Title: "A"}))

	tasks, err := b.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestNewRemote_DetectsRepositoryFromSubdirectory(t *testing.T) {
	// Setup
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	// Execute
	remote, err := NewRemote(sub, "treeboard", "", discardLogger())

	// Assert
	require.NoError(t, err)
	require.NoError(t, remote.PutSetting(context.Background(), domain.SettingsKey, "{}"))
	v, ok, err := remote.GetSetting(context.Background(), domain.SettingsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", v)
}

func TestNew_NotARepository(t *testing.T) {
	_, err := New(t.TempDir(), "treeboard", "", discardLogger())

	assert.Error(t, err)
}

func TestStore_Encrypted_RoundTrip(t *testing.T) {
	// Setup
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	enc, err := crypto.NewEncryptor(key)
	require.NoError(t, err)
	store := NewWithRepoAndEncryptor(repo, "treeboard", enc, discardLogger())
	ctx := context.Background()

	// Execute
	require.NoError(t, docstore.NewRemote(store).CreateTask(ctx, domain.FlatTask{ID: "task-1", Title: "Secret plan", Metadata: domain.DefaultMetadata()}))

	// Assert: the blob is sealed
	ref, err := repo.Reference(store.boardRef(), true)
	require.NoError(t, err)
	raw, err := store.readBlob(ref.Hash())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Secret plan")

	// Assert: a reader with the same key sees the task
	dec, err := crypto.NewEncryptor(key)
	require.NoError(t, err)
	tasks, err := docstore.NewRemote(NewWithRepoAndEncryptor(repo, "treeboard", dec, discardLogger())).ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Secret plan", tasks[0].Title)

	// Assert: a reader without the key fails instead of seeing garbage
	_, err = docstore.NewRemote(NewWithRepo(repo, "treeboard", discardLogger())).ListTasks(ctx)
	assert.Error(t, err)
}

func TestStore_Encrypted_UnchangedBoardKeepsBlob(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	enc, err := crypto.NewEncryptor(key)
	require.NoError(t, err)
	store := NewWithRepoAndEncryptor(repo, "treeboard", enc, discardLogger())

	require.NoError(t, store.Update(func(d *docstore.Document) error {
		d.Settings["k"] = "v"
		return nil
	}))
	first, err := repo.Reference(store.boardRef(), true)
	require.NoError(t, err)
	require.NoError(t, store.Update(func(*docstore.Document) error { return nil }))
	second, err := repo.Reference(store.boardRef(), true)
	require.NoError(t, err)

	assert.Equal(t, first.Hash(), second.Hash())
}

func TestNew_InvalidEncryptionKey(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = New(dir, "treeboard", "not-a-key", discardLogger())

	assert.ErrorIs(t, err, crypto.ErrInvalidKey)
}
