package domain

import (
	"slices"
	"sort"
)

// Edge is a pair of task ids. For dependencies From depends on To;
// for related tasks the pair is unordered.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Adjacency maps a task id to the ids it points at.
type Adjacency map[string][]string

// Clone returns a deep copy of the adjacency map.
func (a Adjacency) Clone() Adjacency {
	out := make(Adjacency, len(a))
	for k, v := range a {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Has reports whether the edge from -> to exists.
func (a Adjacency) Has(from, to string) bool {
	return slices.Contains(a[from], to)
}

// Add appends to to from's list unless it is already present.
// It returns true if the map changed.
func (a Adjacency) Add(from, to string) bool {
	if a.Has(from, to) {
		return false
	}
	a[from] = append(a[from], to)
	return true
}

// Remove deletes to from from's list, dropping the key when the list empties.
// It returns true if the map changed.
func (a Adjacency) Remove(from, to string) bool {
	list, ok := a[from]
	if !ok {
		return false
	}
	idx := slices.Index(list, to)
	if idx < 0 {
		return false
	}
	list = slices.Delete(list, idx, idx+1)
	if len(list) == 0 {
		delete(a, from)
	} else {
		a[from] = list
	}
	return true
}

// Prune removes every key and value contained in ids.
// It returns the removed edges in deterministic order.
func (a Adjacency) Prune(ids map[string]bool) []Edge {
	var removed []Edge
	for _, from := range a.Keys() {
		list := a[from]
		if ids[from] {
			for _, to := range list {
				removed = append(removed, Edge{From: from, To: to})
			}
			delete(a, from)
			continue
		}
		kept := list[:0]
		for _, to := range list {
			if ids[to] {
				removed = append(removed, Edge{From: from, To: to})
				continue
			}
			kept = append(kept, to)
		}
		if len(kept) == 0 {
			delete(a, from)
		} else {
			a[from] = kept
		}
	}
	return removed
}

// Keys returns the map keys sorted.
func (a Adjacency) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Edges lists every directed entry in deterministic order.
func (a Adjacency) Edges() []Edge {
	var out []Edge
	for _, from := range a.Keys() {
		for _, to := range a[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// AdjacencyFromEdges builds an adjacency map from directed edges.
// When symmetric is true the reverse entry is added as well.
func AdjacencyFromEdges(edges []Edge, symmetric bool) Adjacency {
	a := make(Adjacency)
	for _, e := range edges {
		if e.From == "" || e.To == "" || e.From == e.To {
			continue
		}
		a.Add(e.From, e.To)
		if symmetric {
			a.Add(e.To, e.From)
		}
	}
	return a
}
