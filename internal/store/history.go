package store

import "github.com/runoshun/treeboard/internal/domain"

// DefaultHistoryLimit is the number of snapshots kept for undo.
const DefaultHistoryLimit = 50

// Snapshot is a deep copy of everything undo/redo restores.
// Fields are ordered to minimize memory padding.
type Snapshot struct {
	Related       domain.Adjacency
	Dependencies  domain.Adjacency
	Tasks         []*domain.Task
	Projects      []domain.Project
	Teams         []domain.Team
	NextID        int
	NextProjectID int
	NextTeamID    int
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Tasks:         domain.CloneForest(s.Tasks),
		Related:       s.Related.Clone(),
		Dependencies:  s.Dependencies.Clone(),
		Projects:      make([]domain.Project, 0, len(s.Projects)),
		Teams:         make([]domain.Team, 0, len(s.Teams)),
		NextID:        s.NextID,
		NextProjectID: s.NextProjectID,
		NextTeamID:    s.NextTeamID,
	}
	for _, p := range s.Projects {
		c.Projects = append(c.Projects, p.Clone())
	}
	for _, t := range s.Teams {
		c.Teams = append(c.Teams, t.Clone())
	}
	return c
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Tasks:         []*domain.Task{},
		Related:       domain.Adjacency{},
		Dependencies:  domain.Adjacency{},
		Projects:      []domain.Project{},
		Teams:         []domain.Team{},
		NextID:        1,
		NextProjectID: 1,
		NextTeamID:    1,
	}
}

// History is a linear snapshot chain with a cursor.
// Committing after an undo discards the redo branch. When the chain exceeds its
// limit the oldest snapshots are dropped.
type History struct {
	snapshots []Snapshot
	index     int
	limit     int
}

// NewHistory creates a history holding at most limit snapshots.
// A non-positive limit selects DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit, index: -1}
}

// Reset discards the chain and makes s its only entry.
func (h *History) Reset(s Snapshot) {
	h.snapshots = []Snapshot{s.Clone()}
	h.index = 0
}

// Commit appends a copy of s after the cursor.
func (h *History) Commit(s Snapshot) {
	h.snapshots = append(h.snapshots[:h.index+1], s.Clone())
	if over := len(h.snapshots) - h.limit; over > 0 {
		h.snapshots = append([]Snapshot(nil), h.snapshots[over:]...)
	}
	h.index = len(h.snapshots) - 1
}

// Replace overwrites the snapshot at the cursor with a copy of s without adding an
// undo step. An empty chain is reset to s.
func (h *History) Replace(s Snapshot) {
	if h.index < 0 {
		h.Reset(s)
		return
	}
	h.snapshots[h.index] = s.Clone()
}

// Undo moves the cursor back and returns a copy of the snapshot there.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.index--
	return h.snapshots[h.index].Clone(), true
}

// Redo moves the cursor forward and returns a copy of the snapshot there.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.index++
	return h.snapshots[h.index].Clone(), true
}

// Current returns a copy of the snapshot at the cursor.
func (h *History) Current() Snapshot {
	if h.index < 0 {
		return emptySnapshot()
	}
	return h.snapshots[h.index].Clone()
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether a later snapshot exists.
func (h *History) CanRedo() bool {
	return h.index >= 0 && h.index < len(h.snapshots)-1
}

// Len returns the number of snapshots in the chain.
func (h *History) Len() int {
	return len(h.snapshots)
}
