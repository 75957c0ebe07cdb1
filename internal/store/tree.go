package store

import (
	"slices"

	"github.com/runoshun/treeboard/internal/domain"
)

// NewTask describes a task to create.
type NewTask struct {
	Metadata    *domain.MetadataPatch // Applied over the default metadata
	ParentID    string                // Empty = root task
	Title       string
	Description string
	ProjectID   string // Root tasks only; empty inherits the active project scope
}

// Find returns a copy of the task (with its subtree) with the given id.
func (s *Store) Find(id string) (*domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := domain.FindTask(s.state.Tasks, id)
	if t == nil {
		return nil, false
	}
	return t.Clone(), true
}

// FindParent returns a copy of the parent of the given task.
// It returns nil for root tasks and unknown ids.
func (s *Store) FindParent(id string) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FindParent(s.state.Tasks, id).Clone()
}

// Tasks returns a deep copy of the forest.
func (s *Store) Tasks() []*domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneForest(s.state.Tasks)
}

// Flatten returns every task in pre-order with parent ids filled in.
func (s *Store) Flatten() []domain.FlatTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Flatten(s.state.Tasks)
}

// Add creates a task with default metadata at the end of its sibling list.
func (s *Store) Add(parentID, title, description, projectID string) (string, error) {
	var id string
	err := s.mutate(func(t *tx) error {
		var err error
		id, err = s.addLocked(t, NewTask{
			ParentID:    parentID,
			Title:       title,
			Description: description,
			ProjectID:   projectID,
		})
		return err
	})
	return id, err
}

// AddTasks creates several tasks as one undoable action and returns their ids.
// Nothing is created when any of them fails.
func (s *Store) AddTasks(tasks []NewTask) ([]string, error) {
	if len(tasks) == 0 {
		return nil, domain.ErrNoTasks
	}
	var ids []string
	err := s.mutate(func(t *tx) error {
		for _, nt := range tasks {
			id, err := s.addLocked(t, nt)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) addLocked(t *tx, in NewTask) (string, error) {
	var parent *domain.Task
	if in.ParentID != "" {
		parent = domain.FindTask(s.state.Tasks, in.ParentID)
		if parent == nil {
			return "", domain.ErrParentNotFound
		}
	}
	projectID := ""
	if parent == nil {
		projectID = in.ProjectID
		if projectID == domain.UnassignedProjectID {
			projectID = ""
		} else if projectID == "" {
			projectID = s.activeProjectLocked()
		} else if s.findProjectLocked(projectID) < 0 {
			return "", domain.ErrProjectNotFound
		}
	}

	siblings := s.siblingsOf(parent)
	task := &domain.Task{
		ID:          s.nextTaskID(),
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   projectID,
		SortIndex:   len(*siblings),
		Metadata:    domain.DefaultMetadata(),
	}
	if in.Metadata != nil {
		in.Metadata.Apply(&task.Metadata)
	}
	*siblings = append(*siblings, task)
	t.changed = true

	if parent == nil {
		s.view.parents.include(task.ID)
	}
	flat := task.Flat(in.ParentID)
	t.sync(func(sy Syncer) { sy.CreateTask(flat) })
	if parent != nil && task.Metadata.Status != domain.StatusTodo {
		t.syncStatuses(domain.UpdateAncestorStatuses(s.state.Tasks, task.ID))
	}
	return task.ID, nil
}

// siblingsOf returns the child list of parent, or the root list for nil.
func (s *Store) siblingsOf(parent *domain.Task) *[]*domain.Task {
	if parent == nil {
		return &s.state.Tasks
	}
	return &parent.Children
}

// Update applies a sparse patch. Moving patches (ParentID, SortIndex) relocate the
// task; a status change propagates to the ancestors before listeners are notified.
// An empty patch returns ErrNoFieldsToUpdate without touching history.
func (s *Store) Update(id string, patch domain.TaskPatch) error {
	if patch.IsEmpty() {
		return domain.ErrNoFieldsToUpdate
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.mutate(func(t *tx) error {
		return s.updateLocked(t, id, patch)
	})
}

func (s *Store) updateLocked(t *tx, id string, patch domain.TaskPatch) error {
	task := domain.FindTask(s.state.Tasks, id)
	if task == nil {
		return domain.ErrTaskNotFound
	}

	var remote domain.TaskPatch
	if patch.Moves() {
		mv, err := s.moveLocked(t, task, patch.ParentID, patch.SortIndex)
		if err != nil {
			return err
		}
		idx := task.SortIndex
		remote.ParentID = &mv.parentID
		remote.SortIndex = &idx
		if mv.projectChanged {
			pid := task.ProjectID
			remote.ProjectID = &pid
		}
	}

	if patch.Title != nil {
		task.Title = *patch.Title
		remote.Title = patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
		remote.Description = patch.Description
	}
	if patch.ProjectID != nil && domain.FindParent(s.state.Tasks, id) == nil {
		pid := *patch.ProjectID
		if pid == domain.UnassignedProjectID {
			pid = ""
		}
		if pid != "" && s.findProjectLocked(pid) < 0 {
			return domain.ErrProjectNotFound
		}
		task.ProjectID = pid
		remote.ProjectID = &pid
	}
	if patch.Metadata != nil && !patch.Metadata.IsEmpty() {
		patch.Metadata.Apply(&task.Metadata)
		md := *patch.Metadata
		remote.Metadata = &md
	}
	t.changed = true

	if !remote.IsEmpty() {
		t.sync(func(sy Syncer) { sy.UpdateTask(id, remote) })
	}
	if patch.ChangesStatus() {
		t.syncStatuses(domain.UpdateAncestorStatuses(s.state.Tasks, id))
	}
	return nil
}

type moveResult struct {
	parentID       string
	projectChanged bool
}

// moveLocked detaches task and inserts it under parentID (nil keeps the current
// parent) at index (nil or out of range appends). Both sibling lists are renumbered
// and rollup is refreshed on the old and new branches.
func (s *Store) moveLocked(t *tx, task *domain.Task, parentID *string, index *int) (moveResult, error) {
	oldParent := domain.FindParent(s.state.Tasks, task.ID)
	oldParentID := ""
	if oldParent != nil {
		oldParentID = oldParent.ID
	}
	target := oldParentID
	if parentID != nil {
		target = *parentID
	}

	var newParent *domain.Task
	if target != "" {
		if target == task.ID || domain.FindTask(task.Children, target) != nil {
			return moveResult{}, domain.ErrInvalidMove
		}
		newParent = domain.FindTask(s.state.Tasks, target)
		if newParent == nil {
			return moveResult{}, domain.ErrParentNotFound
		}
	}

	oldSiblings := s.siblingsOf(oldParent)
	if i := slices.Index(*oldSiblings, task); i >= 0 {
		*oldSiblings = slices.Delete(*oldSiblings, i, i+1)
	}
	newSiblings := s.siblingsOf(newParent)
	pos := len(*newSiblings)
	if index != nil && *index >= 0 && *index < pos {
		pos = *index
	}
	*newSiblings = slices.Insert(*newSiblings, pos, task)

	var reorders []Reorder
	collect := func(parentID string, changed []*domain.Task) {
		for _, c := range changed {
			if c != task {
				reorders = append(reorders, Reorder{ID: c.ID, ParentID: parentID, SortIndex: c.SortIndex})
			}
		}
	}
	if oldParent != newParent {
		collect(oldParentID, domain.Renumber(*oldSiblings))
	}
	collect(target, domain.Renumber(*newSiblings))

	res := moveResult{parentID: target}
	before := task.ProjectID
	switch {
	case target != "":
		task.ProjectID = ""
	case oldParentID != "":
		task.ProjectID = s.activeProjectLocked()
		s.view.parents.include(task.ID)
	}
	res.projectChanged = before != task.ProjectID
	t.changed = true
	t.syncReorders(reorders)

	if oldParent != newParent {
		if oldParent != nil && oldParent.HasChildren() {
			t.syncStatuses(domain.UpdateAncestorStatuses(s.state.Tasks, oldParent.Children[0].ID))
		}
		if newParent != nil {
			t.syncStatuses(domain.UpdateAncestorStatuses(s.state.Tasks, task.ID))
		}
	}
	return res, nil
}

// Move places a task under parentID ("" = root level) at index (-1 appends).
func (s *Store) Move(id, parentID string, index int) error {
	patch := domain.TaskPatch{ParentID: &parentID}
	if index >= 0 {
		patch.SortIndex = &index
	}
	return s.Update(id, patch)
}

// Reorder moves a task to index within its current sibling list.
func (s *Store) Reorder(id string, index int) error {
	return s.Update(id, domain.SortIndexPatch(index))
}

// Indent makes a task the last child of its previous sibling.
func (s *Store) Indent(id string) error {
	return s.mutate(func(t *tx) error {
		task := domain.FindTask(s.state.Tasks, id)
		if task == nil {
			return domain.ErrTaskNotFound
		}
		siblings := *s.siblingsOf(domain.FindParent(s.state.Tasks, id))
		i := slices.Index(siblings, task)
		if i <= 0 {
			return domain.ErrNotIndentable
		}
		prevID := siblings[i-1].ID
		return s.updateLocked(t, id, domain.TaskPatch{ParentID: &prevID})
	})
}

// Outdent makes a task the next sibling of its parent. A task promoted to the root
// level inherits the active project scope.
func (s *Store) Outdent(id string) error {
	return s.mutate(func(t *tx) error {
		if domain.FindTask(s.state.Tasks, id) == nil {
			return domain.ErrTaskNotFound
		}
		parent := domain.FindParent(s.state.Tasks, id)
		if parent == nil {
			return domain.ErrNotOutdentable
		}
		grand := domain.FindParent(s.state.Tasks, parent.ID)
		grandID := ""
		if grand != nil {
			grandID = grand.ID
		}
		index := slices.Index(*s.siblingsOf(grand), parent) + 1
		return s.updateLocked(t, id, domain.TaskPatch{ParentID: &grandID, SortIndex: &index})
	})
}

// Delete removes a task and its subtree, pruning every relation and dependency
// entry that references a removed id. It returns false for unknown ids.
func (s *Store) Delete(id string) bool {
	var deleted bool
	_ = s.mutate(func(t *tx) error {
		deleted = s.deleteLocked(t, id)
		return nil
	})
	return deleted
}

func (s *Store) deleteLocked(t *tx, id string) bool {
	parent := domain.FindParent(s.state.Tasks, id)
	siblings := s.siblingsOf(parent)
	i := slices.IndexFunc(*siblings, func(c *domain.Task) bool { return c.ID == id })
	if i < 0 {
		return false
	}
	removed := (*siblings)[i]
	*siblings = slices.Delete(*siblings, i, i+1)
	t.changed = true

	ids := domain.CollectIDs([]*domain.Task{removed})
	set := make(map[string]bool, len(ids))
	for _, rid := range ids {
		set[rid] = true
	}
	for _, pair := range relatedPairs(s.state.Related.Prune(set)) {
		a, b := pair.From, pair.To
		t.sync(func(sy Syncer) { sy.RemoveRelated(a, b) })
	}
	for _, e := range s.state.Dependencies.Prune(set) {
		from, to := e.From, e.To
		t.sync(func(sy Syncer) { sy.RemoveDependency(from, to) })
	}

	descendants := ids[1:]
	slices.Reverse(descendants)
	t.sync(func(sy Syncer) { sy.DeleteTask(id, descendants) })

	parentID := ""
	if parent != nil {
		parentID = parent.ID
	}
	var reorders []Reorder
	for _, c := range domain.Renumber(*siblings) {
		reorders = append(reorders, Reorder{ID: c.ID, ParentID: parentID, SortIndex: c.SortIndex})
	}
	t.syncReorders(reorders)
	if parent != nil && parent.HasChildren() {
		t.syncStatuses(domain.UpdateAncestorStatuses(s.state.Tasks, parent.Children[0].ID))
	}
	return true
}

// SetStatusCascade sets the status of a task and its whole subtree, then refreshes
// the rollup of its ancestors. It returns every status written, subtree first.
func (s *Store) SetStatusCascade(id string, status domain.Status) ([]domain.StatusChange, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	var changes []domain.StatusChange
	err := s.mutate(func(t *tx) error {
		task := domain.FindTask(s.state.Tasks, id)
		if task == nil {
			return domain.ErrTaskNotFound
		}
		domain.Walk([]*domain.Task{task}, func(n, _ *domain.Task) bool {
			if n.Metadata.Status != status {
				n.Metadata.Status = status
				changes = append(changes, domain.StatusChange{ID: n.ID, Status: status})
			}
			return true
		})
		changes = append(changes, domain.UpdateAncestorStatuses(s.state.Tasks, id)...)
		if len(changes) == 0 {
			return nil
		}
		t.changed = true
		t.syncStatuses(changes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// ApplyRollupStatuses recomputes every parent status bottom-up and returns the changes.
func (s *Store) ApplyRollupStatuses() []domain.StatusChange {
	var changes []domain.StatusChange
	_ = s.mutate(func(t *tx) error {
		changes = domain.ApplyRollupStatuses(s.state.Tasks)
		if len(changes) > 0 {
			t.changed = true
			t.syncStatuses(changes)
		}
		return nil
	})
	return changes
}
