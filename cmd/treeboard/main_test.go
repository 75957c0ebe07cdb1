package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		wantErr string
	}{
		{
			name: "version flag",
			args: []string{"--version"},
		},
		{
			name: "add then list",
			args: []string{"add", "Backend"},
		},
		{
			name:    "broken repo config",
			config:  "[remote\nbackend = ",
			args:    []string{"list"},
			wantErr: "failed to initialize",
		},
		{
			name:    "unknown command",
			args:    []string{"frobnicate"},
			wantErr: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			if tt.config != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, domain.RepoConfigFileName), []byte(tt.config), 0o600))
			}

			err := run(dir, tt.args)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRun_PersistsBoardBetweenInvocations(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, domain.RepoConfigFileName),
		[]byte("[store]\npath = \"board.json\"\n\n[log]\nfile = \"-\"\nlevel = \"error\"\n"),
		0o600,
	))

	require.NoError(t, run(dir, []string{"add", "Backend"}))
	require.NoError(t, run(dir, []string{"add", "Docs"}))

	data, err := os.ReadFile(filepath.Join(dir, "board.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Backend")
	assert.Contains(t, string(data), "Docs")
}
