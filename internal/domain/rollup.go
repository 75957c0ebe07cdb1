package domain

// RollupStatus derives a parent status from the statuses of its direct children.
//
//	all done            -> done
//	any child not todo  -> in-progress
//	otherwise           -> todo
//
// The second return value is false for an empty list; callers must then leave
// the parent status untouched.
func RollupStatus(children []*Task) (Status, bool) {
	if len(children) == 0 {
		return "", false
	}
	allDone := true
	anyStarted := false
	for _, c := range children {
		st := c.Metadata.Status
		if st != StatusDone {
			allDone = false
		}
		if st != StatusTodo {
			anyStarted = true
		}
	}
	switch {
	case allDone:
		return StatusDone, true
	case anyStarted:
		return StatusInProgress, true
	default:
		return StatusTodo, true
	}
}

// StatusChange records a status written to a task by rollup propagation.
type StatusChange struct {
	ID     string
	Status Status
}

// Ancestors returns the ancestors of the task with the given id, nearest first.
// It returns nil for roots and unknown ids.
func Ancestors(tasks []*Task, id string) []*Task {
	var path []*Task
	var found bool
	var visit func(list []*Task) bool
	visit = func(list []*Task) bool {
		for _, t := range list {
			if t.ID == id {
				found = true
				return true
			}
			path = append(path, t)
			if visit(t.Children) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	visit(tasks)
	if !found || len(path) == 0 {
		return nil
	}
	out := make([]*Task, len(path))
	for i, t := range path {
		out[len(path)-1-i] = t
	}
	return out
}

// UpdateAncestorStatuses recomputes the rollup of every ancestor of the given task,
// nearest first, writing statuses that differ. It returns the changes in the order
// they were applied. Children are always read live, so a status written just before
// the call is reflected.
func UpdateAncestorStatuses(tasks []*Task, id string) []StatusChange {
	var changes []StatusChange
	for _, anc := range Ancestors(tasks, id) {
		st, ok := RollupStatus(anc.Children)
		if !ok || st == anc.Metadata.Status {
			continue
		}
		anc.Metadata.Status = st
		changes = append(changes, StatusChange{ID: anc.ID, Status: st})
	}
	return changes
}

// ApplyRollupStatuses recomputes every parent from its children bottom-up in a single
// post-order sweep and returns all changes.
func ApplyRollupStatuses(tasks []*Task) []StatusChange {
	var changes []StatusChange
	var sweep func(list []*Task)
	sweep = func(list []*Task) {
		for _, t := range list {
			if !t.HasChildren() {
				continue
			}
			sweep(t.Children)
			st, ok := RollupStatus(t.Children)
			if ok && st != t.Metadata.Status {
				t.Metadata.Status = st
				changes = append(changes, StatusChange{ID: t.ID, Status: st})
			}
		}
	}
	sweep(tasks)
	return changes
}
