package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/tui"
)

// launchTUI loads the board and runs the outline until the user quits.
// The poller runs in the background for the lifetime of the program.
func launchTUI(c *app.Container) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Open(ctx); err != nil {
		return err
	}

	model := tui.New(c)
	p := tea.NewProgram(model, tea.WithAltScreen())
	detach := model.Attach(p.Send)
	defer detach()

	if c.Poller != nil {
		go c.Poller.Run(ctx)
	}
	_, err := p.Run()
	return err
}
