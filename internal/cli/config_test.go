package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConfigTestContainer creates an app.Container with real config infrastructure.
// The global config directory is isolated under a temporary XDG_CONFIG_HOME.
func newConfigTestContainer(t *testing.T) (*app.Container, string) {
	t.Helper()

	repoRoot := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TREEBOARD_TOKEN", "")

	container, err := app.New(repoRoot)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	return container, repoRoot
}

// =============================================================================
// Config Command Tests
// =============================================================================

func TestConfigCommand_NoSubcommand_ShowsHelp(t *testing.T) {
	// Setup
	container, _ := newConfigTestContainer(t)

	// Create command
	cmd := newConfigCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert - should show help with subcommand list
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "show")
	assert.Contains(t, output, "init")
}

func TestConfigInitCommand_CreatesRepoConfig(t *testing.T) {
	// Setup
	container, repoRoot := newConfigTestContainer(t)

	// Execute
	out := mustRun(t, container, newConfigCommand(container), "init")

	// Assert
	path := filepath.Join(repoRoot, domain.RepoConfigFileName)
	assert.Contains(t, out, "Created config: "+path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	_, err = runCommand(t, container, newConfigCommand(container), "init")
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestConfigShowCommand(t *testing.T) {
	// Setup
	container, repoRoot := newConfigTestContainer(t)
	content := "[remote]\nbackend = \"none\"\ntoken = \"secret\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(repoRoot, domain.RepoConfigFileName), []byte(content), 0o600))

	// Execute
	out := mustRun(t, container, newConfigCommand(container), "show")

	// Assert
	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, "config.toml (not found)")
	assert.Contains(t, out, filepath.Join(repoRoot, domain.RepoConfigFileName))
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "none")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "secret")
}

func TestConfigShowCommand_IgnoreRepo(t *testing.T) {
	container, repoRoot := newConfigTestContainer(t)
	require.NoError(t, os.WriteFile(filepath.Join(repoRoot, domain.RepoConfigFileName), []byte("[remote]\nbackend = \"none\"\n"), 0o600))

	out := mustRun(t, container, newConfigCommand(container), "show", "--ignore-repo")

	assert.NotContains(t, out, domain.RepoConfigFileName)
	assert.Contains(t, out, "file")
}

// =============================================================================
// Doctor Command Tests
// =============================================================================

func TestDoctorCommand_Healthy(t *testing.T) {
	c, _ := newTestContainer(t)
	c.AppConfig.Remote.Backend = domain.BackendHTTP

	out := mustRun(t, c, newDoctorCommand(c))

	assert.Contains(t, out, "http")
	assert.Contains(t, out, "ok")
}

func TestDoctorCommand_Unhealthy(t *testing.T) {
	c, remote := newTestContainer(t)
	remote.HealthErr = errors.New("connection refused")

	out, err := runCommand(t, c, newDoctorCommand(c))

	assert.ErrorIs(t, err, errUnhealthy)
	assert.Contains(t, out, "connection refused")
}

func TestDoctorCommand_NoBackend(t *testing.T) {
	c := app.NewWithDeps(app.Config{}, nil, nil, &testutil.MockClock{}, testLogger())
	c.AppConfig.Remote.Backend = domain.BackendNone

	out := mustRun(t, c, newDoctorCommand(c))

	assert.Contains(t, out, "nothing is persisted")
}

// =============================================================================
// Logs Command Tests
// =============================================================================

func TestLogsCommand_NoLogFile(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := runCommand(t, c, newLogsCommand(c))

	assert.Error(t, err)
}
