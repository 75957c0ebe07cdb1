package domain

// TaskPatch is a sparse update of a task. Nil fields are left unchanged.
//
// ParentID moves the task: a pointer to "" promotes it to the root level, any other
// value places it under that parent. SortIndex positions the task among its (new)
// siblings; without it a moved task is appended.
type TaskPatch struct {
	Title       *string
	Description *string
	ProjectID   *string
	ParentID    *string
	SortIndex   *int
	Metadata    *MetadataPatch
}

// MetadataPatch is a sparse update of task metadata.
type MetadataPatch struct {
	Status           *Status
	Priority         *Priority
	Assignee         *string
	StartDate        *string
	EndDate          *string
	KanbanOrder      *int
	ClearKanbanOrder bool
}

// IsEmpty returns true if the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.ProjectID == nil &&
		p.ParentID == nil && p.SortIndex == nil && (p.Metadata == nil || p.Metadata.IsEmpty())
}

// Moves returns true if the patch changes tree position.
func (p TaskPatch) Moves() bool {
	return p.ParentID != nil || p.SortIndex != nil
}

// ChangesStatus returns true if the patch writes a status.
func (p TaskPatch) ChangesStatus() bool {
	return p.Metadata != nil && p.Metadata.Status != nil
}

// Validate checks enum values carried by the patch.
func (p TaskPatch) Validate() error {
	if p.Metadata == nil {
		return nil
	}
	if p.Metadata.Status != nil && !p.Metadata.Status.IsValid() {
		return ErrInvalidStatus
	}
	if p.Metadata.Priority != nil && !p.Metadata.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// IsEmpty returns true if the patch changes nothing.
func (p MetadataPatch) IsEmpty() bool {
	return p.Status == nil && p.Priority == nil && p.Assignee == nil &&
		p.StartDate == nil && p.EndDate == nil && p.KanbanOrder == nil && !p.ClearKanbanOrder
}

// Apply writes the metadata fields of the patch into md.
func (p MetadataPatch) Apply(md *Metadata) {
	if p.Status != nil {
		md.Status = *p.Status
	}
	if p.Priority != nil {
		md.Priority = *p.Priority
	}
	if p.Assignee != nil {
		md.Assignee = *p.Assignee
	}
	if p.StartDate != nil {
		md.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		md.EndDate = *p.EndDate
	}
	if p.ClearKanbanOrder {
		md.KanbanOrder = nil
	}
	if p.KanbanOrder != nil {
		v := *p.KanbanOrder
		md.KanbanOrder = &v
	}
}

// StatusPatch builds a patch that only sets the status.
func StatusPatch(s Status) TaskPatch {
	return TaskPatch{Metadata: &MetadataPatch{Status: &s}}
}

// SortIndexPatch builds a patch that only sets the sort index.
func SortIndexPatch(i int) TaskPatch {
	return TaskPatch{SortIndex: &i}
}
