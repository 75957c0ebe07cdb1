package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/usecase"
	"github.com/spf13/cobra"
)

// newAddCommand creates the add command for creating tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		ParentID    string
		ProjectID   string
		Description string
		Status      string
		Priority    string
		Assignee    string
		StartDate   string
		EndDate     string
	}

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a new task",
		Long: `Create a new task at the end of its sibling list.

Root tasks can be assigned to a project. Sub-tasks never carry a project;
they belong to the project of their root.

Examples:
  # Create a root task
  treeboard add "Launch website"

  # Create a sub-task
  treeboard add --parent task-1 "Write copy"

  # Create a high priority task in a project
  treeboard add --project project-2 --priority high "Fix checkout"`,
		Args: cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			input := usecase.NewTaskInput{
				Title:       args[0],
				Description: opts.Description,
				ParentID:    opts.ParentID,
				ProjectID:   opts.ProjectID,
				Assignee:    opts.Assignee,
				StartDate:   opts.StartDate,
				EndDate:     opts.EndDate,
			}
			if opts.Status != "" {
				st, err := domain.ParseStatus(opts.Status)
				if err != nil {
					return err
				}
				input.Status = st
			}
			if opts.Priority != "" {
				p, err := domain.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				input.Priority = p
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", out.TaskID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.ParentID, "parent", "", "Parent task ID (creates a sub-task)")
	cmd.Flags().StringVar(&opts.ProjectID, "project", "", "Project ID for a root task")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Initial status (todo, in-progress, review, done)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority (low, medium, high)")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Assignee name")
	cmd.Flags().StringVar(&opts.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "end", "", "End date (YYYY-MM-DD)")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Search     string
		RelatedTo  string
		Assignee   string
		TeamID     string
		Sort       string
		Statuses   []string
		Projects   []string
		Unassigned bool
		Show       bool
		JSON       bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks as an outline",
		Long: `Display the task forest as an indented outline.

A task is listed when it matches every criterion or when one of its
descendants does; ancestors shown only for context are dimmed.
With --show, every task in scope is listed and only matches are highlighted.

Examples:
  # Everything
  treeboard list

  # Open work in one project
  treeboard list --project project-1 --status todo --status in-progress

  # Tasks assigned to a team member, highest priority first
  treeboard list --team team-1 --sort priority

  # Machine-readable output
  treeboard list --search release --json`,
		Args: cobra.NoArgs,
		RunE: withBoard(c, func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{
				Search:    opts.Search,
				RelatedTo: opts.RelatedTo,
				Assignee:  opts.Assignee,
				TeamID:    opts.TeamID,
				Projects:  opts.Projects,
				ShowAll:   opts.Show,
			}
			for _, s := range opts.Statuses {
				st, err := domain.ParseStatus(s)
				if err != nil {
					return fmt.Errorf("%w: %s", err, s)
				}
				input.Statuses = append(input.Statuses, st)
			}
			if opts.Unassigned {
				input.Projects = append(input.Projects, domain.UnassignedProjectID)
			}
			switch opts.Sort {
			case "", string(domain.SortManual):
			case string(domain.SortPriority):
				input.ByPriority = true
			default:
				return fmt.Errorf("invalid sort %q (want manual or priority)", opts.Sort)
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if opts.JSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(toJSONTasks(out.Tasks))
			}
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
				return nil
			}
			printOutline(cmd.OutOrStdout(), out.Tasks)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "Case-insensitive text in title or description")
	cmd.Flags().StringArrayVar(&opts.Statuses, "status", nil, "Status filter (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Projects, "project", nil, "Project scope (can specify multiple)")
	cmd.Flags().BoolVar(&opts.Unassigned, "unassigned", false, "Include root tasks without a project in the scope")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Exact assignee")
	cmd.Flags().StringVar(&opts.TeamID, "team", "", "Assignee must be a member of this team")
	cmd.Flags().StringVar(&opts.RelatedTo, "related", "", "Task ID; show it, its related tasks and their subtrees")
	cmd.Flags().BoolVar(&opts.Show, "show", false, "Keep non-matching tasks instead of hiding them")
	cmd.Flags().StringVar(&opts.Sort, "sort", "manual", "Sibling order: manual or priority")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			task := out.Task
			printField(w, "ID", task.ID)
			printField(w, "Title", task.Title)
			printField(w, "Status", renderStatus(task.Metadata.Status)+" "+task.Metadata.Status.Display())
			printField(w, "Priority", string(task.Metadata.Priority))
			printField(w, "Assignee", task.Metadata.Assignee)
			printField(w, "Start", task.Metadata.StartDate)
			printField(w, "End", task.Metadata.EndDate)
			if out.Parent != nil {
				printField(w, "Parent", out.Parent.ID+" "+out.Parent.Title)
			}
			if out.Project != nil {
				printField(w, "Project", out.Project.ID+" "+out.Project.Name)
			}
			if n := len(task.Children); n > 0 {
				printField(w, "Sub-tasks", fmt.Sprintf("%d", n))
			}
			printField(w, "Related", taskRefs(out.Related))
			printField(w, "Depends on", taskRefs(out.Dependencies))
			printField(w, "Blocks", taskRefs(out.Dependents))
			if task.Description != "" {
				_, _ = fmt.Fprintln(w)
				for _, line := range strings.Split(task.Description, "\n") {
					_, _ = fmt.Fprintf(w, "  %s\n", line)
				}
			}
			return nil
		}),
	}
	return cmd
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title            string
		Description      string
		ProjectID        string
		Priority         string
		Assignee         string
		StartDate        string
		EndDate          string
		KanbanOrder      int
		ClearKanbanOrder bool
		Editor           bool
	}

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit task fields",
		Long: `Edit task fields. Only the flags given are changed.

Examples:
  treeboard edit task-3 --title "New title"
  treeboard edit task-3 --assignee bob --priority low
  treeboard edit task-1 --project unassigned
  treeboard edit task-3 --editor`,
		Args: cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			if opts.Editor {
				return editDescriptionWithEditor(cmd, c, args[0])
			}
			input := usecase.EditTaskInput{TaskID: args[0], ClearKanbanOrder: opts.ClearKanbanOrder}
			flags := cmd.Flags()
			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("body") {
				input.Description = &opts.Description
			}
			if flags.Changed("project") {
				input.ProjectID = &opts.ProjectID
			}
			if flags.Changed("priority") {
				p, err := domain.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				input.Priority = &p
			}
			if flags.Changed("assignee") {
				input.Assignee = &opts.Assignee
			}
			if flags.Changed("start") {
				input.StartDate = &opts.StartDate
			}
			if flags.Changed("end") {
				input.EndDate = &opts.EndDate
			}
			if flags.Changed("kanban-order") {
				input.KanbanOrder = &opts.KanbanOrder
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().StringVar(&opts.ProjectID, "project", "", "Project ID for a root task (\"unassigned\" clears it)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority (low, medium, high)")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Assignee name (empty clears it)")
	cmd.Flags().StringVar(&opts.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.KanbanOrder, "kanban-order", 0, "Position in the board column")
	cmd.Flags().BoolVar(&opts.ClearKanbanOrder, "clear-kanban-order", false, "Remove the board column position")
	cmd.Flags().BoolVar(&opts.Editor, "editor", false, "Edit the description in $EDITOR")
	cmd.MarkFlagsMutuallyExclusive("kanban-order", "clear-kanban-order")
	cmd.MarkFlagsMutuallyExclusive("editor", "body")

	return cmd
}

// editDescriptionWithEditor opens the task description in the user's editor.
func editDescriptionWithEditor(cmd *cobra.Command, c *app.Container, taskID string) error {
	out, err := c.EditDescriptionUseCase().Execute(cmd.Context(), usecase.EditDescriptionInput{
		TaskID: taskID,
		Editor: domain.ResolveEditor(os.Getenv),
	})
	if err != nil {
		return err
	}
	if !out.Changed {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
	return nil
}

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	var cascade bool

	cmd := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set a task status",
		Long: `Set a task status. Parent statuses are recomputed from their children:
all done gives done, any started child gives in-progress, otherwise todo.

With --cascade the whole subtree receives the status.`,
		Args: cobra.ExactArgs(2),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			st, err := domain.ParseStatus(args[1])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[1])
			}
			out, err := c.SetStatusUseCase().Execute(cmd.Context(), usecase.SetStatusInput{
				TaskID:  args[0],
				Status:  st,
				Cascade: cascade,
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(out.Changes) == 0 {
				_, _ = fmt.Fprintf(w, "Task %s is already %s\n", args[0], st)
				return nil
			}
			for _, ch := range out.Changes {
				_, _ = fmt.Fprintf(w, "%s %s %s\n", renderStatus(ch.Status), ch.ID, ch.Status)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&cascade, "cascade", false, "Also set every descendant")

	return cmd
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a task and its sub-tasks",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(c, func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s (%d removed)\n", args[0], out.Removed)
			return nil
		}),
	}
	return cmd
}
