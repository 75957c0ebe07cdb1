package cli

import (
	"bytes"
	"testing"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/stretchr/testify/assert"
)

func TestNewRootCommand_NoArgs_LaunchesTUI(t *testing.T) {
	// Save original function and restore after test
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	called := false
	launchTUIFunc = func(_ *app.Container) error {
		called = true
		return nil
	}

	root := NewRootCommand(nil, "test-version")
	root.SetArgs([]string{})
	err := root.Execute()

	assert.NoError(t, err)
	assert.True(t, called, "launchTUIFunc should be called when no arguments are provided")
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	called := false
	launchTUIFunc = func(_ *app.Container) error {
		called = true
		return nil
	}

	root := NewRootCommand(nil, "test-version")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--help"})
	err := root.Execute()

	assert.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, buf.String(), "Task Management:")
	assert.Contains(t, buf.String(), "Outline & Links:")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	c.AppConfig.Warnings = []string{"unknown section: agents"}
	root := NewRootCommand(c, "test-version")
	var stderr bytes.Buffer
	root.SetErr(&stderr)
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"list"})

	// Execute
	err := root.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, stderr.String(), "Warning: unknown section: agents")
}

func TestNewRootCommand_Version(t *testing.T) {
	root := NewRootCommand(nil, "1.2.3")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	err := root.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "1.2.3")
}
