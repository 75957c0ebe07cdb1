package cli

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// testBoard bundles a container with the mock remote behind it.
type testBoard struct {
	c      *app.Container
	remote *testutil.MockRemote
}

// newTestContainer creates an app.Container backed by an in-memory mock remote.
func newTestContainer(t *testing.T) (*app.Container, *testutil.MockRemote) {
	t.Helper()
	remote := testutil.NewMockRemote()
	logger := testLogger()
	cfg := domain.NewDefaultConfig()
	cfg.IDs.Generator = domain.GeneratorCounter
	container := app.NewWithDeps(
		app.Config{},
		cfg,
		remote,
		&testutil.MockClock{NowTime: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)},
		logger,
	)
	t.Cleanup(func() { _ = container.Close() })
	return container, remote
}

// runCommand executes cmd with args and waits for the queued remote calls.
func runCommand(t *testing.T, c *app.Container, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if c.Adapter != nil {
		c.Adapter.Wait()
	}
	return buf.String(), err
}

func mustRun(t *testing.T, c *app.Container, cmd *cobra.Command, args ...string) string {
	t.Helper()
	out, err := runCommand(t, c, cmd, args...)
	require.NoError(t, err, out)
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
