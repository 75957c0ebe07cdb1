// Package store implements the client-side task store: the in-memory source of
// truth for the task forest, projects, teams, the related and dependency graphs and
// the view filter. Every committed mutation is recorded in the undo history,
// announced to subscribers and then forwarded to the configured Syncer.
package store

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/idgen"
)

// Listener is called after every committed change.
type Listener func()

// Option configures a Store.
type Option func(*Store)

// WithGenerator sets the identifier generator. The default is idgen.Counter.
func WithGenerator(g idgen.Generator) Option {
	return func(s *Store) {
		s.gen = g
	}
}

// WithSyncer sets the remote side-effect sink. The default is NopSyncer.
func WithSyncer(sy Syncer) Option {
	return func(s *Store) {
		s.syncer = sy
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithHistoryLimit sets the maximum number of undo snapshots.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		s.history = NewHistory(n)
	}
}

type listenerEntry struct {
	fn Listener
	id int
}

// Store is the task store. It is safe for concurrent use; mutations are serialized.
// Fields are ordered to minimize memory padding.
type Store struct {
	syncer    Syncer
	gen       idgen.Generator
	logger    *slog.Logger
	history   *History
	listeners []listenerEntry
	view      viewState
	state     Snapshot
	nextLID   int
	mu        sync.Mutex
	lmu       sync.Mutex
	editing   atomic.Bool
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		syncer: NopSyncer{},
		gen:    idgen.Counter{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:  emptySnapshot(),
		view:   newViewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		s.history = NewHistory(DefaultHistoryLimit)
	}
	s.logger = s.logger.With("component", "store")
	s.history.Reset(s.state)
	return s
}

// SetGenerator swaps the identifier generator, e.g. once remote sync is enabled.
func (s *Store) SetGenerator(g idgen.Generator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen = g
}

// SetSyncer swaps the remote side-effect sink.
func (s *Store) SetSyncer(sy Syncer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sy == nil {
		sy = NopSyncer{}
	}
	s.syncer = sy
}

// Subscribe registers a listener. Listeners run synchronously in registration order
// after each committed change. The returned function unsubscribes.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	id := s.nextLID
	s.nextLID++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify() {
	s.lmu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l.fn)
	}
	s.lmu.Unlock()
	for _, fn := range ls {
		fn()
	}
}

// SetEditing marks whether a text control is focused. Pulls are skipped while set.
func (s *Store) SetEditing(editing bool) {
	s.editing.Store(editing)
}

// Editing reports whether a text control is focused.
func (s *Store) Editing() bool {
	return s.editing.Load()
}

// tx collects the effects of one logical mutation.
type tx struct {
	ops      []func(Syncer)
	changed  bool // state changed: commit a snapshot
	viewed   bool // view state changed: notify only
	settings bool // persisted settings changed
}

func (t *tx) sync(op func(Syncer)) {
	t.ops = append(t.ops, op)
}

func (t *tx) syncStatuses(changes []domain.StatusChange) {
	for _, c := range changes {
		id, patch := c.ID, domain.StatusPatch(c.Status)
		t.sync(func(sy Syncer) { sy.UpdateTask(id, patch) })
	}
}

func (t *tx) syncReorders(updates []Reorder) {
	if len(updates) == 0 {
		return
	}
	t.sync(func(sy Syncer) { sy.ReorderTasks(updates) })
}

// mutate runs fn under the lock and, when it succeeds and changed something, commits
// one history snapshot, notifies listeners and replays the collected sync calls.
// A failing fn leaves the state as it was before the call, and view selections that
// fn made for entities which were rolled back are dropped.
func (s *Store) mutate(fn func(t *tx) error) error {
	t := &tx{}
	s.mu.Lock()
	err := fn(t)
	if err != nil {
		s.state = s.history.Current()
		s.reconcileLocked()
	}
	if err == nil && (t.changed || t.viewed) {
		if s.reconcileLocked() {
			t.settings = true
		}
	}
	if err == nil && t.changed {
		s.history.Commit(s.state)
	}
	var settings domain.Settings
	if err == nil && t.settings {
		settings = s.settingsLocked()
	}
	syncer := s.syncer
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if t.changed || t.viewed {
		s.notify()
	}
	if t.settings {
		t.sync(func(sy Syncer) { sy.SaveSettings(settings) })
	}
	for _, op := range t.ops {
		op(syncer)
	}
	return nil
}

func (s *Store) nextTaskID() string {
	id := s.gen.NewID(idgen.KindTask, s.state.NextID)
	s.state.NextID++
	return id
}

func (s *Store) nextProjectID() string {
	id := s.gen.NewID(idgen.KindProject, s.state.NextProjectID)
	s.state.NextProjectID++
	return id
}

func (s *Store) nextTeamID() string {
	id := s.gen.NewID(idgen.KindTeam, s.state.NextTeamID)
	s.state.NextTeamID++
	return id
}

// Undo restores the previous snapshot. It returns false when there is none.
// Restoration is local only; no remote calls are issued.
func (s *Store) Undo() bool {
	return s.restore(s.history.Undo)
}

// Redo re-applies the next snapshot. It returns false when there is none.
func (s *Store) Redo() bool {
	return s.restore(s.history.Redo)
}

func (s *Store) restore(step func() (Snapshot, bool)) bool {
	s.mu.Lock()
	snap, ok := step()
	if ok {
		s.state = snap
		s.reconcileLocked()
	}
	s.mu.Unlock()
	if ok {
		s.notify()
	}
	return ok
}

// CanUndo reports whether Undo would succeed.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would succeed.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// ResetHistory drops every snapshot and starts a new chain at the current state.
// Called once the initial load has been applied.
func (s *Store) ResetHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Reset(s.state)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
