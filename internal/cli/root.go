// Package cli provides the command-line interface for treeboard.
package cli

import (
	"fmt"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup    = "setup"
	groupTask     = "task"
	groupOutline  = "outline"
	groupOrganize = "organize"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for treeboard.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "treeboard",
		Short: "Hierarchical task board",
		Long: `treeboard keeps a tree of tasks with related and dependency links,
projects and teams, and syncs every change to the configured backend.

Run without arguments to open the interactive outline.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupOutline, Title: "Outline & Links:"},
		&cobra.Group{ID: groupOrganize, Title: "Projects, Teams & Files:"},
	)

	grouped := func(id string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = id
			root.AddCommand(cmd)
		}
	}

	grouped(groupSetup,
		newConfigCommand(c),
		newDoctorCommand(c),
		newLogsCommand(c),
	)
	grouped(groupTask,
		newAddCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newEditCommand(c),
		newStatusCommand(c),
		newRmCommand(c),
	)
	grouped(groupOutline,
		newMoveCommand(c),
		newIndentCommand(c),
		newOutdentCommand(c),
		newLinkCommand(c, "relate", false),
		newLinkCommand(c, "unrelate", true),
		newLinkCommand(c, "depend", false),
		newLinkCommand(c, "undepend", true),
	)
	grouped(groupOrganize,
		newProjectCommand(c),
		newTeamCommand(c),
		newExportCommand(c),
		newImportCommand(c),
	)

	return root
}

// withBoard wraps a RunE so that the board is loaded from the backend first.
func withBoard(c *app.Container, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := c.Open(cmd.Context()); err != nil {
			return err
		}
		return run(cmd, args)
	}
}
