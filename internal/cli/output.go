package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// Output styles. lipgloss drops colors automatically when stdout is not a terminal.
var (
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#636E72"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	highPrioStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D63031"))
	statusStyles  = map[domain.Status]lipgloss.Style{
		domain.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("#74B9FF")),
		domain.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("#FDCB6E")),
		domain.StatusReview:     lipgloss.NewStyle().Foreground(lipgloss.Color("#A29BFE")),
		domain.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("#00B894")),
	}
)

// statusGlyph returns the checkbox shown in front of a task title.
func statusGlyph(s domain.Status) string {
	switch s {
	case domain.StatusInProgress:
		return "[~]"
	case domain.StatusReview:
		return "[?]"
	case domain.StatusDone:
		return "[x]"
	default:
		return "[ ]"
	}
}

func renderStatus(s domain.Status) string {
	return statusStyles[s].Render(statusGlyph(s))
}

// printOutline prints a projection as an indented outline, one task per line.
// Rows that only provide context for a match are dimmed.
func printOutline(w io.Writer, forest []*store.FilteredTask) {
	rows := store.Rows(forest)
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Task.ID))
	}
	for _, r := range rows {
		title := r.Task.Title
		if !r.Matches {
			title = dimStyle.Render(title)
		}
		line := fmt.Sprintf("%s  %s%s %s",
			idStyle.Render(fmt.Sprintf("%-*s", width, r.Task.ID)),
			strings.Repeat("  ", r.Depth),
			renderStatus(r.Task.Metadata.Status),
			title,
		)
		if r.Task.Metadata.Priority == domain.PriorityHigh {
			line += " " + highPrioStyle.Render("!")
		}
		if r.Task.Metadata.Assignee != "" {
			line += " " + idStyle.Render("@"+r.Task.Metadata.Assignee)
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

// jsonTask is the --json shape of a listed task.
type jsonTask struct {
	Children    []jsonTask      `json:"children,omitempty"`
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ProjectID   string          `json:"projectId,omitempty"`
	Status      domain.Status   `json:"status"`
	Priority    domain.Priority `json:"priority"`
	Assignee    string          `json:"assignee,omitempty"`
	StartDate   string          `json:"startDate,omitempty"`
	EndDate     string          `json:"endDate,omitempty"`
	Matches     bool            `json:"matches"`
}

func toJSONTasks(forest []*store.FilteredTask) []jsonTask {
	out := make([]jsonTask, 0, len(forest))
	for _, ft := range forest {
		out = append(out, jsonTask{
			ID:          ft.Task.ID,
			Title:       ft.Task.Title,
			Description: ft.Task.Description,
			ProjectID:   ft.Task.ProjectID,
			Status:      ft.Task.Metadata.Status,
			Priority:    ft.Task.Metadata.Priority,
			Assignee:    ft.Task.Metadata.Assignee,
			StartDate:   ft.Task.Metadata.StartDate,
			EndDate:     ft.Task.Metadata.EndDate,
			Matches:     ft.Matches,
			Children:    toJSONTasks(ft.Children),
		})
	}
	return out
}

// printField prints a "Label: value" line, skipping empty values.
func printField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-11s", label+":")), value)
}

// taskRefs formats tasks as "id title" pairs joined by commas.
func taskRefs(tasks []*domain.Task) string {
	refs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		refs = append(refs, t.ID+" "+t.Title)
	}
	return strings.Join(refs, ", ")
}
