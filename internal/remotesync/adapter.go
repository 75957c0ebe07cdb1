// Package remotesync forwards store mutations to a domain.Remote and reconciles
// the store with the remote state.
package remotesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// job is one queued remote operation.
type job struct {
	run    func(ctx context.Context) error
	op     string
	notify bool
}

// Adapter implements store.Syncer. Calls are queued and executed in order on a
// background goroutine; the caller never waits for the network. Failures go to the
// reporter and are never rolled back locally.
// Fields are ordered to minimize memory padding.
type Adapter struct {
	remote        domain.Remote
	reporter      domain.ErrorReporter
	logger        *slog.Logger
	pending       []job
	wg            sync.WaitGroup
	mu            sync.Mutex
	running       bool
	verifyReorder bool
}

var _ store.Syncer = (*Adapter)(nil)

// NewAdapter creates an Adapter. With verifyReorder set, every reorder batch is
// followed by a re-fetch that warns about positions the remote did not keep.
func NewAdapter(remote domain.Remote, reporter domain.ErrorReporter, logger *slog.Logger, verifyReorder bool) *Adapter {
	return &Adapter{
		remote:        remote,
		reporter:      reporter,
		logger:        logger.With("component", "sync"),
		verifyReorder: verifyReorder,
	}
}

func (a *Adapter) enqueue(op string, notify bool, run func(ctx context.Context) error) {
	a.wg.Add(1)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(a.pending, job{op: op, notify: notify, run: run})
	if !a.running {
		a.running = true
		go a.drain()
	}
}

func (a *Adapter) drain() {
	for {
		a.mu.Lock()
		if len(a.pending) == 0 {
			a.running = false
			a.mu.Unlock()
			return
		}
		j := a.pending[0]
		a.pending = a.pending[1:]
		a.mu.Unlock()

		a.logger.Debug("remote call", "op", j.op)
		if err := j.run(context.Background()); err != nil {
			a.reporter.Report(j.op, err, j.notify)
		}
		a.wg.Done()
	}
}

// Wait blocks until every queued call has finished.
func (a *Adapter) Wait() {
	a.wg.Wait()
}

// ignoreNotFound treats a missing entity as already removed.
func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// CreateTask implements store.Syncer.
func (a *Adapter) CreateTask(task domain.FlatTask) {
	a.enqueue("create task "+task.ID, true, func(ctx context.Context) error {
		return a.remote.CreateTask(ctx, task)
	})
}

// UpdateTask implements store.Syncer.
func (a *Adapter) UpdateTask(id string, patch domain.TaskPatch) {
	a.enqueue("update task "+id, true, func(ctx context.Context) error {
		return a.remote.UpdateTask(ctx, id, patch)
	})
}

// DeleteTask implements store.Syncer. Descendants are deleted first; ones the
// remote already removed are skipped silently.
func (a *Adapter) DeleteTask(id string, descendants []string) {
	a.enqueue("delete task "+id, true, func(ctx context.Context) error {
		for _, d := range descendants {
			if err := ignoreNotFound(a.remote.DeleteTask(ctx, d)); err != nil {
				return fmt.Errorf("delete subtask %s: %w", d, err)
			}
		}
		return a.remote.DeleteTask(ctx, id)
	})
}

// ReorderTasks implements store.Syncer. Failures are logged without a notice.
func (a *Adapter) ReorderTasks(updates []store.Reorder) {
	a.enqueue(fmt.Sprintf("reorder %d tasks", len(updates)), false, func(ctx context.Context) error {
		var errs []error
		for _, u := range updates {
			if err := a.remote.UpdateTask(ctx, u.ID, domain.SortIndexPatch(u.SortIndex)); err != nil {
				errs = append(errs, fmt.Errorf("task %s: %w", u.ID, err))
			}
		}
		return errors.Join(errs...)
	})
	if a.verifyReorder {
		a.enqueue("verify reorder", false, func(ctx context.Context) error {
			return a.verify(ctx, updates)
		})
	}
}

// verify re-fetches the tasks and warns about sort indexes that did not persist.
func (a *Adapter) verify(ctx context.Context, updates []store.Reorder) error {
	tasks, err := a.remote.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	byID := make(map[string]domain.FlatTask, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	var mismatched int
	for _, u := range updates {
		t, ok := byID[u.ID]
		if ok && t.SortIndex != u.SortIndex {
			mismatched++
		}
	}
	if mismatched > 0 {
		a.reporter.Warn(fmt.Sprintf("task order was not saved for %d task(s); it will be restored on the next sync", mismatched))
	}
	return nil
}

// CreateProject implements store.Syncer.
func (a *Adapter) CreateProject(project domain.Project) {
	a.enqueue("create project "+project.ID, true, func(ctx context.Context) error {
		return a.remote.CreateProject(ctx, project)
	})
}

// UpdateProject implements store.Syncer.
func (a *Adapter) UpdateProject(id string, patch domain.ProjectPatch) {
	a.enqueue("update project "+id, true, func(ctx context.Context) error {
		return a.remote.UpdateProject(ctx, id, patch)
	})
}

// DeleteProject implements store.Syncer.
func (a *Adapter) DeleteProject(id string) {
	a.enqueue("delete project "+id, true, func(ctx context.Context) error {
		return a.remote.DeleteProject(ctx, id)
	})
}

// AddRelated implements store.Syncer by storing both directions.
func (a *Adapter) AddRelated(x, y string) {
	a.enqueue("relate "+x+" "+y, true, func(ctx context.Context) error {
		if err := a.remote.AddRelated(ctx, x, y); err != nil {
			return err
		}
		return a.remote.AddRelated(ctx, y, x)
	})
}

// RemoveRelated implements store.Syncer. Each direction is removed independently.
func (a *Adapter) RemoveRelated(x, y string) {
	a.enqueue("unrelate "+x+" "+y, true, func(ctx context.Context) error {
		return errors.Join(
			ignoreNotFound(a.remote.RemoveRelated(ctx, x, y)),
			ignoreNotFound(a.remote.RemoveRelated(ctx, y, x)),
		)
	})
}

// AddDependency implements store.Syncer.
func (a *Adapter) AddDependency(taskID, dependsOnID string) {
	a.enqueue("add dependency "+taskID+" -> "+dependsOnID, true, func(ctx context.Context) error {
		return a.remote.AddDependency(ctx, taskID, dependsOnID)
	})
}

// RemoveDependency implements store.Syncer.
func (a *Adapter) RemoveDependency(taskID, dependsOnID string) {
	a.enqueue("remove dependency "+taskID+" -> "+dependsOnID, true, func(ctx context.Context) error {
		return ignoreNotFound(a.remote.RemoveDependency(ctx, taskID, dependsOnID))
	})
}

// SaveSettings implements store.Syncer.
func (a *Adapter) SaveSettings(settings domain.Settings) {
	a.enqueue("save settings", false, func(ctx context.Context) error {
		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
		return a.remote.PutSetting(ctx, domain.SettingsKey, string(data))
	})
}
