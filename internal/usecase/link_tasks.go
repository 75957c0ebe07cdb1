package usecase

import (
	"context"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// LinkKind selects the graph a link belongs to.
type LinkKind int

const (
	LinkRelated    LinkKind = iota // Symmetric "related" link
	LinkDependency                 // From depends on To
)

// LinkTasksInput contains the parameters for adding or removing a link.
type LinkTasksInput struct {
	From   string
	To     string
	Kind   LinkKind
	Remove bool
}

// LinkTasksOutput reports whether the graph changed.
type LinkTasksOutput struct {
	Changed bool
}

// LinkTasks is the use case for editing the related and dependency graphs.
type LinkTasks struct {
	store *store.Store
}

// NewLinkTasks creates a new LinkTasks use case.
func NewLinkTasks(st *store.Store) *LinkTasks {
	return &LinkTasks{store: st}
}

// Execute adds or removes the link. Links are only added between existing tasks;
// removal works for stale entries too.
func (uc *LinkTasks) Execute(_ context.Context, in LinkTasksInput) (*LinkTasksOutput, error) {
	if !in.Remove {
		for _, id := range []string{in.From, in.To} {
			if _, ok := uc.store.Find(id); !ok {
				return nil, domain.ErrTaskNotFound
			}
		}
	}

	var changed bool
	switch {
	case in.Kind == LinkRelated && in.Remove:
		changed = uc.store.RemoveRelated(in.From, in.To)
	case in.Kind == LinkRelated:
		changed = uc.store.AddRelated(in.From, in.To)
	case in.Remove:
		changed = uc.store.RemoveDependency(in.From, in.To)
	default:
		changed = uc.store.AddDependency(in.From, in.To)
	}
	return &LinkTasksOutput{Changed: changed}, nil
}
