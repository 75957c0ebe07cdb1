package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
	"github.com/runoshun/treeboard/internal/usecase"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.titleInput.Width = max(msg.Width-24, 20)
		m.searchInput.Width = max(msg.Width-24, 20)
		return m, nil

	case MsgBoardChanged:
		m.refresh()
		return m, nil

	case MsgNotice:
		notice := msg.Notice
		m.notice = &notice
		return m, nil

	case MsgError:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear transient messages on any key press
	m.err = nil
	m.notice = nil
	m.info = ""

	switch m.mode {
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeSearch:
		return m.handleSearchMode(msg)
	case ModeInputTitle, ModeEditTitle:
		return m.handleTitleMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	}

	return m, nil
}

// handleNormalMode handles keys in normal mode.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.setCursor(m.cursor - 1)

	case key.Matches(msg, m.keys.Down):
		m.setCursor(m.cursor + 1)

	case key.Matches(msg, m.keys.New):
		m.startTitleInput(ModeInputTitle, "", "")

	case key.Matches(msg, m.keys.NewChild):
		if row := m.SelectedTask(); row != nil {
			m.startTitleInput(ModeInputTitle, row.Task.ID, "")
		}

	case key.Matches(msg, m.keys.Edit):
		if row := m.SelectedTask(); row != nil {
			m.editTaskID = row.Task.ID
			m.startTitleInput(ModeEditTitle, "", row.Task.Title)
		}

	case key.Matches(msg, m.keys.CycleStatus):
		m.cycleStatus()

	case key.Matches(msg, m.keys.CyclePriority):
		m.cyclePriority()

	case key.Matches(msg, m.keys.Indent):
		m.move(usecase.MoveIndent)

	case key.Matches(msg, m.keys.Outdent):
		m.move(usecase.MoveOutdent)

	case key.Matches(msg, m.keys.Delete):
		if row := m.SelectedTask(); row != nil {
			m.mode = ModeConfirm
			m.confirmTaskID = row.Task.ID
		}

	case key.Matches(msg, m.keys.Undo):
		if !m.container.Store.Undo() {
			m.info = "Nothing to undo"
		}
		m.refresh()

	case key.Matches(msg, m.keys.Redo):
		if !m.container.Store.Redo() {
			m.info = "Nothing to redo"
		}
		m.refresh()

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.searchInput.SetValue(m.container.Store.Filter().Search)
		m.searchInput.CursorEnd()
		m.container.Store.SetEditing(true)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ToggleMode):
		m.container.Store.UpdateFilter(func(o *store.FilterOptions) {
			if o.Mode == domain.FilterModeShow {
				o.Mode = domain.FilterModeFilter
			} else {
				o.Mode = domain.FilterModeShow
			}
		})
		m.refresh()

	case key.Matches(msg, m.keys.ToggleSort):
		m.container.Store.UpdateFilter(func(o *store.FilterOptions) {
			if o.Sort == domain.SortPriority {
				o.Sort = domain.SortManual
			} else {
				o.Sort = domain.SortPriority
			}
		})
		m.refresh()

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

// startTitleInput focuses the title input for a new task under parentID,
// or for renaming when mode is ModeEditTitle.
func (m *Model) startTitleInput(mode Mode, parentID, value string) {
	m.mode = mode
	m.inputParentID = parentID
	m.titleInput.SetValue(value)
	m.titleInput.CursorEnd()
	m.titleInput.Focus()
	m.container.Store.SetEditing(true)
}

// endInput leaves any text input mode.
func (m *Model) endInput() {
	m.mode = ModeNormal
	m.titleInput.Blur()
	m.titleInput.Reset()
	m.searchInput.Blur()
	m.inputParentID = ""
	m.editTaskID = ""
	m.container.Store.SetEditing(false)
}

// handleTitleMode handles keys while a title is being typed.
func (m *Model) handleTitleMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.endInput()
		return m, nil

	case msg.Type == tea.KeyEnter:
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			return m, nil
		}
		if m.mode == ModeEditTitle {
			m.rename(m.editTaskID, title)
		} else {
			m.create(m.inputParentID, title)
		}
		m.endInput()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

// handleSearchMode applies the search as it is typed.
func (m *Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.container.Store.UpdateFilter(func(o *store.FilterOptions) { o.Search = "" })
		m.searchInput.Reset()
		m.endInput()
		m.refresh()
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.endInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	search := m.searchInput.Value()
	m.container.Store.UpdateFilter(func(o *store.FilterOptions) { o.Search = search })
	m.refresh()
	return m, cmd
}

// handleConfirmMode handles keys in confirm mode.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), msg.String() == "n", msg.String() == "N":
		m.mode = ModeNormal
		m.confirmTaskID = ""

	case key.Matches(msg, m.keys.Confirm):
		id := m.confirmTaskID
		m.mode = ModeNormal
		m.confirmTaskID = ""
		out, err := m.container.DeleteTaskUseCase().Execute(context.Background(), usecase.DeleteTaskInput{TaskID: id})
		if err != nil {
			m.err = err
			return m, nil
		}
		if out.Removed > 1 {
			m.info = fmt.Sprintf("Deleted %d tasks", out.Removed)
		}
		m.refresh()
	}

	return m, nil
}

// handleHelpMode closes the help overlay.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help):
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *Model) create(parentID, title string) {
	out, err := m.container.NewTaskUseCase().Execute(context.Background(), usecase.NewTaskInput{
		Title:    title,
		ParentID: parentID,
	})
	if err != nil {
		m.err = err
		return
	}
	m.selectTask(out.TaskID)
}

func (m *Model) rename(id, title string) {
	_, err := m.container.EditTaskUseCase().Execute(context.Background(), usecase.EditTaskInput{
		TaskID: id,
		Title:  &title,
	})
	if err != nil {
		m.err = err
	}
}

func (m *Model) cycleStatus() {
	row := m.SelectedTask()
	if row == nil {
		return
	}
	_, err := m.container.SetStatusUseCase().Execute(context.Background(), usecase.SetStatusInput{
		TaskID: row.Task.ID,
		Status: row.Task.Metadata.Status.Next(),
	})
	if err != nil {
		m.err = err
	}
	m.refresh()
}

func (m *Model) cyclePriority() {
	row := m.SelectedTask()
	if row == nil {
		return
	}
	next := row.Task.Metadata.Priority.Next()
	_, err := m.container.EditTaskUseCase().Execute(context.Background(), usecase.EditTaskInput{
		TaskID:   row.Task.ID,
		Priority: &next,
	})
	if err != nil {
		m.err = err
	}
	m.refresh()
}

func (m *Model) move(action usecase.MoveAction) {
	row := m.SelectedTask()
	if row == nil {
		return
	}
	_, err := m.container.MoveTaskUseCase().Execute(context.Background(), usecase.MoveTaskInput{
		TaskID: row.Task.ID,
		Action: action,
	})
	if err != nil {
		m.err = err
	}
	m.refresh()
}
