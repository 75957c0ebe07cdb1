package cli

import (
	"fmt"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/usecase"
	"github.com/spf13/cobra"
)

// newMoveCommand creates the move command.
func newMoveCommand(c *app.Container) *cobra.Command {
	var opts struct {
		ParentID string
		Index    int
		Root     bool
	}

	cmd := &cobra.Command{
		Use:   "move ID (--parent ID | --root)",
		Short: "Move a task under another task or to the root level",
		Long: `Move a task, with its subtree, under a new parent or to the root level.
A task cannot be moved into its own subtree.

Examples:
  # Make task-4 the last child of task-1
  treeboard move task-4 --parent task-1

  # Make task-4 the first root task
  treeboard move task-4 --root --index 0`,
		Args: cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			input := usecase.MoveTaskInput{TaskID: args[0], Index: opts.Index}
			if !opts.Root {
				input.ParentID = opts.ParentID
			}
			out, err := c.MoveTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			printPosition(cmd, args[0], out)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.ParentID, "parent", "", "New parent task ID")
	cmd.Flags().BoolVar(&opts.Root, "root", false, "Move to the root level")
	cmd.Flags().IntVar(&opts.Index, "index", -1, "Position among the new siblings (default: last)")
	cmd.MarkFlagsMutuallyExclusive("parent", "root")
	cmd.MarkFlagsOneRequired("parent", "root")

	return cmd
}

// newIndentCommand creates the indent command.
func newIndentCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "indent ID",
		Short: "Make a task the last child of its previous sibling",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			out, err := c.MoveTaskUseCase().Execute(cmd.Context(), usecase.MoveTaskInput{TaskID: args[0], Action: usecase.MoveIndent})
			if err != nil {
				return err
			}
			printPosition(cmd, args[0], out)
			return nil
		}),
	}
}

// newOutdentCommand creates the outdent command.
func newOutdentCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "outdent ID",
		Short: "Make a task the next sibling of its parent",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			out, err := c.MoveTaskUseCase().Execute(cmd.Context(), usecase.MoveTaskInput{TaskID: args[0], Action: usecase.MoveOutdent})
			if err != nil {
				return err
			}
			printPosition(cmd, args[0], out)
			return nil
		}),
	}
}

func printPosition(cmd *cobra.Command, id string, out *usecase.MoveTaskOutput) {
	parent := out.ParentID
	if parent == "" {
		parent = "root"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s at position %d\n", id, parent, out.SortIndex)
}

// newLinkCommand creates relate, unrelate, depend and undepend.
func newLinkCommand(c *app.Container, name string, remove bool) *cobra.Command {
	kind := usecase.LinkRelated
	use, short := name+" A B", "Link two tasks as related"
	switch name {
	case "unrelate":
		short = "Remove the related link between two tasks"
	case "depend":
		kind = usecase.LinkDependency
		use, short = name+" TASK ON", "Record that TASK depends on ON"
	case "undepend":
		kind = usecase.LinkDependency
		use, short = name+" TASK ON", "Remove the dependency of TASK on ON"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			out, err := c.LinkTasksUseCase().Execute(cmd.Context(), usecase.LinkTasksInput{
				From:   args[0],
				To:     args[1],
				Kind:   kind,
				Remove: remove,
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !out.Changed {
				_, _ = fmt.Fprintln(w, "Nothing changed")
				return nil
			}
			switch {
			case kind == usecase.LinkRelated && remove:
				_, _ = fmt.Fprintf(w, "%s and %s are no longer related\n", args[0], args[1])
			case kind == usecase.LinkRelated:
				_, _ = fmt.Fprintf(w, "%s and %s are now related\n", args[0], args[1])
			case remove:
				_, _ = fmt.Fprintf(w, "%s no longer depends on %s\n", args[0], args[1])
			default:
				_, _ = fmt.Fprintf(w, "%s now depends on %s\n", args[0], args[1])
			}
			return nil
		}),
	}
}
