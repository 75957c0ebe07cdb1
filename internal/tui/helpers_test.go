package tui

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/testutil"
)

// newTestModel returns a sized model over a local-only board.
func newTestModel(t *testing.T) (*Model, *app.Container) {
	t.Helper()
	cfg := domain.NewDefaultConfig()
	cfg.IDs.Generator = domain.GeneratorCounter
	c := app.NewWithDeps(
		app.Config{},
		cfg,
		nil,
		&testutil.MockClock{NowTime: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	t.Cleanup(func() { _ = c.Close() })

	m := New(c)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, c
}

// press sends one key to the model. Named keys use their bubbletea names;
// anything else is sent as runes.
func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// typeText types s one rune at a time.
func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// addTask creates a task through the keyboard.
func addTask(m *Model, newKey, title string) {
	press(m, newKey)
	typeText(m, title)
	press(m, "enter")
}
