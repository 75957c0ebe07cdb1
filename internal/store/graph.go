package store

import "github.com/runoshun/treeboard/internal/domain"

// AddRelated links two tasks in both directions. Self links are ignored.
// It returns true if either direction was added.
func (s *Store) AddRelated(a, b string) bool {
	if a == b {
		return false
	}
	var changed bool
	_ = s.mutate(func(t *tx) error {
		ab := s.state.Related.Add(a, b)
		ba := s.state.Related.Add(b, a)
		if changed = ab || ba; changed {
			t.changed = true
			t.sync(func(sy Syncer) { sy.AddRelated(a, b) })
		}
		return nil
	})
	return changed
}

// RemoveRelated unlinks two tasks. Each direction is removed independently, so a
// half-stored pair is cleaned up too. It returns true if anything was removed.
func (s *Store) RemoveRelated(a, b string) bool {
	var changed bool
	_ = s.mutate(func(t *tx) error {
		ab := s.state.Related.Remove(a, b)
		ba := s.state.Related.Remove(b, a)
		if changed = ab || ba; changed {
			t.changed = true
			t.sync(func(sy Syncer) { sy.RemoveRelated(a, b) })
		}
		return nil
	})
	return changed
}

// GetRelated returns the ids related to the given task.
func (s *Store) GetRelated(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.state.Related[id]...)
}

// AddDependency records that taskID depends on dependsOnID. Self dependencies are
// ignored; cycles are not checked. It returns true if the edge was added.
func (s *Store) AddDependency(taskID, dependsOnID string) bool {
	if taskID == dependsOnID {
		return false
	}
	var changed bool
	_ = s.mutate(func(t *tx) error {
		if changed = s.state.Dependencies.Add(taskID, dependsOnID); changed {
			t.changed = true
			t.sync(func(sy Syncer) { sy.AddDependency(taskID, dependsOnID) })
		}
		return nil
	})
	return changed
}

// RemoveDependency deletes a dependency edge. It returns true if it existed.
func (s *Store) RemoveDependency(taskID, dependsOnID string) bool {
	var changed bool
	_ = s.mutate(func(t *tx) error {
		if changed = s.state.Dependencies.Remove(taskID, dependsOnID); changed {
			t.changed = true
			t.sync(func(sy Syncer) { sy.RemoveDependency(taskID, dependsOnID) })
		}
		return nil
	})
	return changed
}

// GetDependencies returns the ids the given task depends on.
func (s *Store) GetDependencies(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.state.Dependencies[id]...)
}

// GetDependents returns the ids of tasks that depend on the given task.
func (s *Store) GetDependents(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.state.Dependencies.Edges() {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	return out
}

// relatedPairs collapses directed related entries into unordered pairs.
func relatedPairs(edges []domain.Edge) []domain.Edge {
	seen := make(map[domain.Edge]bool, len(edges))
	var out []domain.Edge
	for _, e := range edges {
		key := e
		if key.From > key.To {
			key = domain.Edge{From: e.To, To: e.From}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
