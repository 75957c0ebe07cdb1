// Package tui provides the terminal outline editor for treeboard.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal     Mode = iota // Default navigation mode
	ModeSearch                 // Search input mode
	ModeInputTitle             // Title input for a new task
	ModeEditTitle              // Title input for the selected task
	ModeConfirm                // Delete confirmation
	ModeHelp                   // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSearch:
		return "search"
	case ModeInputTitle:
		return "input_title"
	case ModeEditTitle:
		return "edit_title"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeSearch, ModeInputTitle, ModeEditTitle:
		return true
	case ModeNormal, ModeConfirm, ModeHelp:
		return false
	}
	return false
}
