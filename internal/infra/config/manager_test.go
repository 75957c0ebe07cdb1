package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetRepoConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		repoRoot := t.TempDir()
		configContent := "[remote]\nbackend = \"git\""
		err := os.WriteFile(domain.RepoConfigPath(repoRoot), []byte(configContent), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir(repoRoot, "")
		info := manager.GetRepoConfigInfo()

		assert.Equal(t, domain.RepoConfigPath(repoRoot), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		repoRoot := t.TempDir()

		manager := NewManagerWithGlobalDir(repoRoot, "")
		info := manager.GetRepoConfigInfo()

		assert.Equal(t, domain.RepoConfigPath(repoRoot), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		err := os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte(configContent), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir("", globalDir)
		info := manager.GetGlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns empty info without global dir", func(t *testing.T) {
		manager := NewManagerWithGlobalDir("", "")
		info := manager.GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitRepoConfig(t *testing.T) {
	t.Run("creates config from template", func(t *testing.T) {
		repoRoot := t.TempDir()
		manager := NewManagerWithGlobalDir(repoRoot, "")

		err := manager.InitRepoConfig()
		require.NoError(t, err)

		content, err := os.ReadFile(domain.RepoConfigPath(repoRoot))
		require.NoError(t, err)
		assert.Equal(t, domain.RenderConfigTemplate(), string(content))
	})

	t.Run("returns error when config exists", func(t *testing.T) {
		repoRoot := t.TempDir()
		require.NoError(t, os.WriteFile(domain.RepoConfigPath(repoRoot), []byte("existing"), 0644))
		manager := NewManagerWithGlobalDir(repoRoot, "")

		err := manager.InitRepoConfig()

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	globalDir := filepath.Join(t.TempDir(), "treeboard")
	manager := NewManagerWithGlobalDir("", globalDir)

	err := manager.InitGlobalConfig()
	require.NoError(t, err)

	info := manager.GetGlobalConfigInfo()
	assert.True(t, info.Exists)

	// The generated template must load without warnings.
	cfg, err := NewLoaderWithGlobalDir("", globalDir).Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
}
