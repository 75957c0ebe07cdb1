package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/treeboard/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	// Title colors
	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color
	Selection     lipgloss.Color

	// Status colors
	Todo       lipgloss.Color
	InProgress lipgloss.Color
	Review     lipgloss.Color
	Done       lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Warning: lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow
	Selection:     lipgloss.Color("#2D3436"), // Dark gray

	Todo:       lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Review:     lipgloss.Color("#A29BFE"), // Lavender
	Done:       lipgloss.Color("#00B894"), // Green
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// App
	App lipgloss.Style

	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style
	HeaderInfo lipgloss.Style

	// Outline rows
	Row           lipgloss.Style
	RowSelected   lipgloss.Style
	Cursor        lipgloss.Style
	TaskID        lipgloss.Style
	TaskTitle     lipgloss.Style
	TaskDimmed    lipgloss.Style
	TaskAssignee  lipgloss.Style
	PriorityHigh  lipgloss.Style
	EmptyState    lipgloss.Style
	StatusTodo    lipgloss.Style
	StatusWorking lipgloss.Style
	StatusReview  lipgloss.Style
	StatusDone    lipgloss.Style

	// Footer
	Footer lipgloss.Style

	// Dialog
	Dialog       lipgloss.Style
	DialogPrompt lipgloss.Style

	// Input
	InputPrompt lipgloss.Style

	// Messages
	ErrorMsg   lipgloss.Style
	WarningMsg lipgloss.Style
	InfoMsg    lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		Header: lipgloss.NewStyle().
			MarginBottom(1),
		HeaderText: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		HeaderInfo: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Row: lipgloss.NewStyle(),
		RowSelected: lipgloss.NewStyle().
			Background(Colors.Selection),
		Cursor: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),
		TaskID: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),
		TaskDimmed: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Faint(true),
		TaskAssignee: lipgloss.NewStyle().
			Foreground(Colors.Review),
		PriorityHigh: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
		EmptyState: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		StatusTodo:    lipgloss.NewStyle().Foreground(Colors.Todo),
		StatusWorking: lipgloss.NewStyle().Foreground(Colors.InProgress),
		StatusReview:  lipgloss.NewStyle().Foreground(Colors.Review),
		StatusDone:    lipgloss.NewStyle().Foreground(Colors.Done),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			MarginTop(1),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(0, 1),
		DialogPrompt: lipgloss.NewStyle().
			Bold(true),

		InputPrompt: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error),
		WarningMsg: lipgloss.NewStyle().
			Foreground(Colors.Warning),
		InfoMsg: lipgloss.NewStyle().
			Foreground(Colors.Muted),
	}
}

// StatusStyle returns the style for a status glyph.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusTodo:
		return s.StatusTodo
	case domain.StatusInProgress:
		return s.StatusWorking
	case domain.StatusReview:
		return s.StatusReview
	case domain.StatusDone:
		return s.StatusDone
	}
	return s.TaskTitle
}

// statusGlyph returns the checkbox shown in front of a task title.
func statusGlyph(status domain.Status) string {
	switch status {
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
