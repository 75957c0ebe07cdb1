package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/remotesync"
	"github.com/runoshun/treeboard/internal/store"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeNormal, ModeSearch, ModeInputTitle, ModeEditTitle, ModeConfirm:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

// viewMain renders the outline with the active dialog and footer.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	b.WriteString(m.viewOutline())

	switch m.mode {
	case ModeNormal, ModeHelp:
		if search := m.container.Store.Filter().Search; search != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.InfoMsg.Render("Search: " + search))
		}
	case ModeSearch:
		b.WriteString("\n")
		b.WriteString(m.styles.InputPrompt.Render("Search: "))
		b.WriteString(m.searchInput.View())
	case ModeInputTitle, ModeEditTitle:
		b.WriteString("\n")
		b.WriteString(m.viewTitleInput())
	case ModeConfirm:
		b.WriteString("\n")
		b.WriteString(m.viewConfirmDialog())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

// viewHeader renders the title and the active view settings.
func (m *Model) viewHeader() string {
	title := m.styles.HeaderText.Render("Tasks")

	opts := m.container.Store.Filter()
	info := fmt.Sprintf("%d shown · %s · %s sort", len(m.rows), opts.Mode, opts.Sort)
	if opts.Scope.Mode == domain.ScopeProject {
		name := opts.Scope.Project
		if p, ok := m.container.Store.Project(name); ok {
			name = p.Name
		}
		info = name + " · " + info
	}
	right := m.styles.HeaderInfo.Render(info)

	headerWidth := max(m.width-6, 40)
	spacing := max(headerWidth-lipgloss.Width(title)-lipgloss.Width(right), 1)

	return m.styles.Header.Render(title + strings.Repeat(" ", spacing) + right)
}

// visibleRange returns the window of rows that fits the terminal, keeping the cursor in view.
func (m *Model) visibleRange() (start, end int) {
	limit := len(m.rows)
	if m.height > 0 {
		limit = max(m.height-10, 3)
	}
	if m.cursor >= limit {
		start = m.cursor - limit + 1
	}
	end = min(start+limit, len(m.rows))
	return start, end
}

// viewOutline renders the projected forest as an indented outline.
func (m *Model) viewOutline() string {
	if len(m.rows) == 0 {
		if m.container.Store.Filter().Active() {
			return m.styles.EmptyState.Render("No matching tasks.")
		}
		return m.styles.EmptyState.Render("No tasks. Press n to create one.")
	}

	start, end := m.visibleRange()
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(m.viewRow(m.rows[i], i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

// viewRow renders one outline row.
func (m *Model) viewRow(row *store.FilteredTask, selected bool) string {
	task := row.Task
	cursor := "  "
	if selected {
		cursor = m.styles.Cursor.Render("> ")
	}

	titleStyle := m.styles.TaskTitle
	if !row.Matches {
		titleStyle = m.styles.TaskDimmed
	}

	line := cursor +
		strings.Repeat("  ", row.Depth) +
		m.styles.StatusStyle(task.Metadata.Status).Render(statusGlyph(task.Metadata.Status)) + " " +
		titleStyle.Render(task.Title)
	if task.Metadata.Priority == domain.PriorityHigh {
		line += " " + m.styles.PriorityHigh.Render("!")
	}
	if task.Metadata.Assignee != "" {
		line += " " + m.styles.TaskAssignee.Render("@"+task.Metadata.Assignee)
	}
	if selected {
		line += "  " + m.styles.TaskID.Render(task.ID)
		return m.styles.RowSelected.Render(line)
	}
	return m.styles.Row.Render(line)
}

// viewTitleInput renders the prompt for a new or renamed task.
func (m *Model) viewTitleInput() string {
	prompt := "New task: "
	switch {
	case m.mode == ModeEditTitle:
		prompt = "Rename: "
	case m.inputParentID != "":
		prompt = "New sub-task: "
	}
	return m.styles.InputPrompt.Render(prompt) + m.titleInput.View()
}

// viewConfirmDialog renders the delete confirmation.
func (m *Model) viewConfirmDialog() string {
	title := m.confirmTaskID
	if task, ok := m.container.Store.Find(m.confirmTaskID); ok {
		title = task.Title
	}
	text := m.styles.DialogPrompt.Render(fmt.Sprintf("Delete %q and its sub-tasks?", title)) + "  (y/n)"
	return m.styles.Dialog.Render(text)
}

// viewFooter renders the first pending message, or the short help.
func (m *Model) viewFooter() string {
	switch {
	case m.err != nil:
		return m.styles.ErrorMsg.Render("Error: " + m.err.Error())
	case m.notice != nil && m.notice.Level == remotesync.NoticeWarning:
		return m.styles.WarningMsg.Render("Warning: " + m.notice.Message)
	case m.notice != nil:
		return m.styles.ErrorMsg.Render("Sync: " + m.notice.Message)
	case m.info != "":
		return m.styles.InfoMsg.Render(m.info)
	}
	return m.styles.Footer.Render(m.help.View(m.keys))
}

// viewHelp renders the full key reference.
func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.HeaderText.Render("Keys"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.InfoMsg.Render("Press ? or esc to close"))
	return b.String()
}
