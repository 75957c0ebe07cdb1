package cli

import (
	"fmt"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/usecase"
	"github.com/spf13/cobra"
)

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the board to a JSON or YAML file",
		Long: `Write every task, link, project and team to FILE.
The format follows the extension: .json, .yaml or .yml.`,
		Args: cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			out, err := c.ExportBoardUseCase().Execute(cmd.Context(), usecase.ExportBoardInput{Path: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks and %d projects to %s\n", out.Tasks, out.Projects, out.Path)
			return nil
		}),
	}
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Append an exported board",
		Long: `Append the tasks, links, projects and teams of an export file to the board.
Every imported item receives a new ID; imported root tasks follow the existing ones.`,
		Args: cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			out, err := c.ImportBoardUseCase().Execute(cmd.Context(), usecase.ImportBoardInput{Path: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks, %d projects and %d teams\n", out.Tasks, out.Projects, out.Teams)
			return nil
		}),
	}
}
