package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func counterConfig() *domain.Config {
	cfg := domain.NewDefaultConfig()
	cfg.IDs.Generator = domain.GeneratorCounter
	return cfg
}

func countCalls(calls []string, op string) int {
	n := 0
	for _, c := range calls {
		if c == op || strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

func TestNewWithDeps_LocalOnly(t *testing.T) {
	c := NewWithDeps(Config{}, nil, nil, domain.RealClock{}, testLogger())

	assert.Nil(t, c.Adapter)
	assert.Nil(t, c.Poller)
	assert.NotNil(t, c.AppConfig)
	assert.NotNil(t, c.Executor)
	require.NoError(t, c.Open(context.Background()))
	require.NoError(t, c.Close())
}

func TestContainer_Open_LoadsThenSyncs(t *testing.T) {
	// Setup
	remote := testutil.NewMockRemote()
	seeded := domain.FlatTask{ID: "task-1", Title: "Seeded", Metadata: domain.DefaultMetadata()}
	require.NoError(t, remote.Remote.CreateTask(context.Background(), seeded))
	c := NewWithDeps(Config{}, counterConfig(), remote,
		&testutil.MockClock{NowTime: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)}, testLogger())

	// Execute
	require.NoError(t, c.Open(context.Background()))
	require.NoError(t, c.Open(context.Background()))
	id, err := c.Store.Add("", "Local", "", "")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// Assert
	task, ok := c.Store.Find("task-1")
	require.True(t, ok)
	assert.Equal(t, "Seeded", task.Title)
	assert.Equal(t, "task-2", id, "counter continues past loaded ids")
	assert.False(t, c.Store.CanRedo())

	calls := remote.CallLog()
	assert.Equal(t, 1, countCalls(calls, "ListTasks"), "second Open does not reload")
	assert.Contains(t, calls, "CreateTask task-2")
}

func TestContainer_Open_LoadFails(t *testing.T) {
	remote := testutil.NewMockRemote()
	remote.Fail("ListTasks", errors.New("connection refused"))
	c := NewWithDeps(Config{}, counterConfig(), remote, domain.RealClock{}, testLogger())
	t.Cleanup(func() { _ = c.Close() })

	err := c.Open(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load board")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewRemote(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantNil bool
		wantErr error
	}{
		{name: "http", backend: domain.BackendHTTP},
		{name: "file", backend: domain.BackendFile},
		{name: "none", backend: domain.BackendNone, wantNil: true},
		{name: "unknown", backend: "ftp", wantNil: true, wantErr: domain.ErrInvalidBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.NewDefaultConfig()
			cfg.Remote.Backend = tt.backend
			cfg.Remote.URL = "http://localhost:8787/api"
			cfg.Store.Path = filepath.Join(t.TempDir(), "board.json")

			remote, err := newRemote(Config{RepoRoot: t.TempDir()}, cfg, testLogger())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, remote)
			} else {
				assert.NotNil(t, remote)
			}
		})
	}
}
