package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/usecase"
	"github.com/spf13/cobra"
)

// newProjectCommand creates the project command.
func newProjectCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
		Long:  `Projects group root tasks. Deleting a project leaves its tasks unassigned.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(
		newProjectNewCommand(c),
		newProjectListCommand(c),
		newProjectEditCommand(c),
		newProjectRmCommand(c),
	)
	return cmd
}

func newProjectNewCommand(c *app.Container) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			out, err := c.CreateProjectUseCase().Execute(cmd.Context(), usecase.CreateProjectInput{Name: args[0], Color: color})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created project %s\n", out.ProjectID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&color, "color", "", "Display color (e.g. #6C5CE7)")
	return cmd
}

func newProjectListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: withBoard(c, func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListProjectsUseCase().Execute(cmd.Context(), usecase.ListProjectsInput{})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tTEAMS\tTASKS")
			for _, p := range out.Projects {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
					p.Project.ID, p.Project.Name, dash(p.Project.Color), dash(strings.Join(p.Project.TeamIDs, ",")), p.RootTasks)
			}
			_, _ = fmt.Fprintf(tw, "%s\t-\t-\t-\t%d\n", domain.UnassignedProjectID, out.Unassigned)
			return nil
		}),
	}
}

func newProjectEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name       string
		Color      string
		Teams      []string
		ClearTeams bool
	}

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a project",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			var patch domain.ProjectPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &opts.Name
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &opts.Color
			}
			switch {
			case opts.ClearTeams:
				patch.TeamIDs = []string{}
			case cmd.Flags().Changed("team"):
				patch.TeamIDs = opts.Teams
			}

			out, err := c.EditProjectUseCase().Execute(cmd.Context(), usecase.EditProjectInput{ProjectID: args[0], Patch: patch})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s (%s)\n", out.Project.ID, out.Project.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "New name")
	cmd.Flags().StringVar(&opts.Color, "color", "", "New display color")
	cmd.Flags().StringArrayVar(&opts.Teams, "team", nil, "Team ID (can specify multiple; replaces the list)")
	cmd.Flags().BoolVar(&opts.ClearTeams, "clear-teams", false, "Remove every team")
	cmd.MarkFlagsMutuallyExclusive("team", "clear-teams")
	return cmd
}

func newProjectRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			if _, err := c.DeleteProjectUseCase().Execute(cmd.Context(), usecase.DeleteProjectInput{ProjectID: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
			return nil
		}),
	}
}

// newTeamCommand creates the team command.
func newTeamCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
		Long:  `Teams are named sets of assignees used by the team filter and attached to projects.`,
	}

	cmd.AddCommand(
		newTeamNewCommand(c),
		newTeamListCommand(c),
		newTeamEditCommand(c),
		newTeamRmCommand(c),
	)
	return cmd
}

func newTeamNewCommand(c *app.Container) *cobra.Command {
	var members []string

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			out, err := c.CreateTeamUseCase().Execute(cmd.Context(), usecase.CreateTeamInput{Name: args[0], Members: members})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created team %s\n", out.TeamID)
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&members, "member", nil, "Member name (can specify multiple)")
	return cmd
}

func newTeamListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams",
		Args:  cobra.NoArgs,
		RunE: withBoard(c, func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTeamsUseCase().Execute(cmd.Context(), usecase.ListTeamsInput{})
			if err != nil {
				return err
			}
			if len(out.Teams) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No teams")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "ID\tNAME\tMEMBERS")
			for _, tm := range out.Teams {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", tm.ID, tm.Name, dash(strings.Join(tm.Members, ",")))
			}
			return nil
		}),
	}
}

func newTeamEditCommand(c *app.Container) *cobra.Command {
	var (
		name    string
		members []string
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename a team or replace its members",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			var patch domain.TeamPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("member") {
				patch.Members = members
			}
			if _, err := c.EditTeamUseCase().Execute(cmd.Context(), usecase.EditTeamInput{TeamID: args[0], Patch: patch}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated team %s\n", args[0])
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringArrayVar(&members, "member", nil, "Member name (can specify multiple; replaces the list)")
	return cmd
}

func newTeamRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a team",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			if _, err := c.DeleteTeamUseCase().Execute(cmd.Context(), usecase.DeleteTeamInput{TeamID: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted team %s\n", args[0])
			return nil
		}),
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
