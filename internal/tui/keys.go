package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Task management
	New           key.Binding // Create root task
	NewChild      key.Binding // Create sub-task of the selection
	Edit          key.Binding // Rename task
	CycleStatus   key.Binding // todo -> in-progress -> review -> done
	CyclePriority key.Binding // low -> medium -> high
	Delete        key.Binding // Delete task and its subtree

	// Outline
	Indent  key.Binding
	Outdent key.Binding

	// History
	Undo key.Binding
	Redo key.Binding

	// View
	Search     key.Binding
	ToggleMode key.Binding // Filter <-> show non-matching tasks
	ToggleSort key.Binding // Manual <-> priority
	Help       key.Binding

	// General
	Quit    key.Binding
	Escape  key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		NewChild: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "new sub-task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "status"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Indent: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "indent"),
		),
		Outdent: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "outdent"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter/show"),
		),
		ToggleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
	}
}

// ShortHelp returns keybindings to show in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.New, k.NewChild, k.CycleStatus, k.Undo, k.Search, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Indent, k.Outdent},                                   // Navigation & outline
		{k.New, k.NewChild, k.Edit, k.CycleStatus, k.CyclePriority, k.Delete}, // Task management
		{k.Undo, k.Redo},                                                      // History
		{k.Search, k.ToggleMode, k.ToggleSort, k.Help, k.Quit},                // View & general
	}
}
