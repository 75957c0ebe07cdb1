package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/remotesync"
	"github.com/runoshun/treeboard/internal/store"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	err       error
	notice    *remotesync.Notice

	// State
	rows []*store.FilteredTask
	info string // Transient feedback such as "nothing to undo"

	// Components
	keys   KeyMap
	styles Styles
	help   help.Model

	// Input state
	titleInput  textinput.Model
	searchInput textinput.Model

	// Selection and pending actions, by task id
	selectedID    string
	inputParentID string // Parent of the task being created; empty for a root
	editTaskID    string
	confirmTaskID string

	// Numeric state (smaller types last)
	mode   Mode
	cursor int
	width  int
	height int
}

// New creates a new TUI Model with the given container.
// The board must already be loaded.
func New(c *app.Container) *Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 200

	si := textinput.New()
	si.Placeholder = "Search titles and descriptions..."
	si.CharLimit = 100

	m := &Model{
		container:   c,
		mode:        ModeNormal,
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(),
		help:        help.New(),
		titleInput:  ti,
		searchInput: si,
	}
	m.refresh()
	return m
}

// Attach forwards store changes and sync notices to send, typically
// (*tea.Program).Send. The returned function detaches both.
func (m *Model) Attach(send func(tea.Msg)) func() {
	// Listeners run inside store mutations, which Update itself performs;
	// a synchronous send would block the event loop on its own channel.
	unsubscribe := m.container.Store.Subscribe(func() {
		go send(MsgBoardChanged{})
	})
	if m.container.Reporter != nil {
		m.container.Reporter.SetNotifier(func(n remotesync.Notice) {
			go send(MsgNotice{Notice: n})
		})
	}
	return func() {
		unsubscribe()
		if m.container.Reporter != nil {
			m.container.Reporter.SetNotifier(nil)
		}
	}
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return MsgBoardChanged{} }
}

// SelectedTask returns the row under the cursor, or nil if the outline is empty.
func (m *Model) SelectedTask() *store.FilteredTask {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

// refresh re-projects the board and keeps the cursor on the selected task
// when it is still visible.
func (m *Model) refresh() {
	m.rows = store.Rows(m.container.Store.GetFilteredTasks())
	for i, row := range m.rows {
		if row.Task.ID == m.selectedID {
			m.cursor = i
			return
		}
	}
	m.setCursor(m.cursor)
}

// setCursor clamps i into the visible rows and records the selection.
func (m *Model) setCursor(i int) {
	if i >= len(m.rows) {
		i = len(m.rows) - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
	m.selectedID = ""
	if row := m.SelectedTask(); row != nil {
		m.selectedID = row.Task.ID
	}
}

// selectTask moves the cursor to id after a refresh.
func (m *Model) selectTask(id string) {
	m.selectedID = id
	m.refresh()
}
