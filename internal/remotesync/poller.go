package remotesync

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// Poller reconciles the store with the remote. A pull fetches every project, task
// and edge, fingerprints the result and replaces the local state only when the
// fingerprint changed since the last applied pull.
// Fields are ordered to minimize memory padding.
type Poller struct {
	remote      domain.Remote
	store       *store.Store
	logger      *slog.Logger
	skip        func() bool
	fingerprint string
	interval    time.Duration
	mu          sync.Mutex
	inFlight    atomic.Bool
}

// NewPoller creates a Poller. Periodic pulls are skipped while st.Editing() is set.
func NewPoller(remote domain.Remote, st *store.Store, logger *slog.Logger, interval time.Duration) *Poller {
	return &Poller{
		remote:   remote,
		store:    st,
		logger:   logger.With("component", "poller"),
		skip:     st.Editing,
		interval: interval,
	}
}

// Load performs the initial load: an unconditional pull followed by the settings
// blob. A settings failure is logged and does not fail the load. The undo history
// starts at the loaded state.
func (p *Poller) Load(ctx context.Context) error {
	if _, err := p.Pull(ctx, true); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	if err := p.loadSettings(ctx); err != nil {
		p.logger.Warn("settings not loaded", "error", err)
	}
	p.store.ResetHistory()
	return nil
}

func (p *Poller) loadSettings(ctx context.Context) error {
	raw, ok, err := p.remote.GetSetting(ctx, domain.SettingsKey)
	if err != nil {
		return fmt.Errorf("get setting: %w", err)
	}
	if !ok {
		return nil
	}
	var st domain.Settings
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	if st.Version > domain.SettingsVersion {
		return fmt.Errorf("settings version %d: %w", st.Version, domain.ErrUnsupportedVersion)
	}
	p.store.ApplySettings(st)
	return nil
}

// Pull fetches the remote state and applies it when it changed. Unless force is set,
// the pull is skipped while the user is editing. Overlapping pulls are dropped.
// It reports whether the store was updated.
func (p *Poller) Pull(ctx context.Context, force bool) (bool, error) {
	if !force && p.skip() {
		p.logger.Debug("pull skipped while editing")
		return false, nil
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		return false, nil
	}
	defer p.inFlight.Store(false)

	snap, err := Fetch(ctx, p.remote)
	if err != nil {
		return false, err
	}
	fp, err := Fingerprint(snap)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	unchanged := fp == p.fingerprint
	p.mu.Unlock()
	if unchanged && !force {
		return false, nil
	}

	p.store.ReplaceRemoteState(store.RemoteState{
		Tasks:        domain.BuildTree(snap.Tasks),
		Projects:     snap.Projects,
		Related:      domain.AdjacencyFromEdges(snap.Related, true),
		Dependencies: domain.AdjacencyFromEdges(snap.Dependencies, false),
	})
	p.mu.Lock()
	p.fingerprint = fp
	p.mu.Unlock()
	p.logger.Debug("pull applied", "tasks", len(snap.Tasks), "projects", len(snap.Projects))
	return true, nil
}

// Run pulls every interval until ctx is canceled. Failures are logged and retried
// on the next tick.
func (p *Poller) Run(ctx context.Context) {
	if p.interval <= 0 {
		return
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Pull(ctx, false); err != nil && ctx.Err() == nil {
				p.logger.Warn("pull failed", "error", err)
			}
		}
	}
}

// RemoteSnapshot is the raw result of a pull.
type RemoteSnapshot struct {
	Tasks        []domain.FlatTask `json:"tasks"`
	Projects     []domain.Project  `json:"projects"`
	Related      []domain.Edge     `json:"related"`
	Dependencies []domain.Edge     `json:"dependencies"`
}

// Fetch reads projects, tasks, related entries and dependencies from the remote.
func Fetch(ctx context.Context, remote domain.Remote) (RemoteSnapshot, error) {
	var snap RemoteSnapshot
	var err error
	if snap.Projects, err = remote.ListProjects(ctx); err != nil {
		return snap, fmt.Errorf("list projects: %w", err)
	}
	if snap.Tasks, err = remote.ListTasks(ctx); err != nil {
		return snap, fmt.Errorf("list tasks: %w", err)
	}
	if snap.Related, err = remote.ListRelated(ctx); err != nil {
		return snap, fmt.Errorf("list related: %w", err)
	}
	if snap.Dependencies, err = remote.ListDependencies(ctx); err != nil {
		return snap, fmt.Errorf("list dependencies: %w", err)
	}
	return snap, nil
}

// Fingerprint hashes a canonical encoding of the snapshot. The result does not
// depend on the order the remote returned rows in.
func Fingerprint(snap RemoteSnapshot) (string, error) {
	c := RemoteSnapshot{
		Tasks:        slices.Clone(snap.Tasks),
		Projects:     slices.Clone(snap.Projects),
		Related:      slices.Clone(snap.Related),
		Dependencies: slices.Clone(snap.Dependencies),
	}
	slices.SortFunc(c.Tasks, func(a, b domain.FlatTask) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(c.Projects, func(a, b domain.Project) int { return cmp.Compare(a.ID, b.ID) })
	byEdge := func(a, b domain.Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	}
	slices.SortFunc(c.Related, byEdge)
	slices.SortFunc(c.Dependencies, byEdge)

	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
