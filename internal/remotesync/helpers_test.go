package remotesync

import (
	"io"
	"log/slog"
	"testing"

	"github.com/runoshun/treeboard/internal/store"
	"github.com/runoshun/treeboard/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	remote   *testutil.MockRemote
	reporter *testutil.MockReporter
	adapter  *Adapter
	store    *store.Store
}

func newFixture(t *testing.T, verifyReorder bool) *fixture {
	t.Helper()
	f := &fixture{
		remote:   testutil.NewMockRemote(),
		reporter: &testutil.MockReporter{},
	}
	f.adapter = NewAdapter(f.remote, f.reporter, discardLogger(), verifyReorder)
	f.store = store.New(store.WithSyncer(f.adapter))
	t.Cleanup(f.adapter.Wait)
	return f
}
