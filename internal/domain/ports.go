package domain

import (
	"context"
	"time"
)

// Remote is the persistence service the store is reconciled against.
// Implementations: infra/httpremote (persistence API), infra/jsonstore and
// infra/gitstore (offline backends).
type Remote interface {
	// ListTasks returns every task in flat form.
	ListTasks(ctx context.Context) ([]FlatTask, error)

	// TaskTree returns every task pre-nested into children.
	TaskTree(ctx context.Context) ([]*Task, error)

	// CreateTask stores a new task.
	CreateTask(ctx context.Context, task FlatTask) error

	// UpdateTask applies a sparse patch to a task.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) error

	// DeleteTask removes a single task.
	DeleteTask(ctx context.Context, id string) error

	// ListProjects returns every project.
	ListProjects(ctx context.Context) ([]Project, error)

	// CreateProject stores a new project.
	CreateProject(ctx context.Context, project Project) error

	// UpdateProject applies a sparse patch to a project.
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) error

	// DeleteProject removes a project.
	DeleteProject(ctx context.Context, id string) error

	// ListDependencies returns every dependency edge (From depends on To).
	ListDependencies(ctx context.Context) ([]Edge, error)

	// TaskDependencies returns the ids the given task depends on.
	TaskDependencies(ctx context.Context, taskID string) ([]string, error)

	// AddDependency records that taskID depends on dependsOnID.
	AddDependency(ctx context.Context, taskID, dependsOnID string) error

	// RemoveDependency deletes a dependency edge.
	RemoveDependency(ctx context.Context, taskID, dependsOnID string) error

	// ListRelated returns every stored related entry. Both directions are stored.
	ListRelated(ctx context.Context) ([]Edge, error)

	// TaskRelated returns the ids related to the given task.
	TaskRelated(ctx context.Context, taskID string) ([]string, error)

	// AddRelated stores one direction of a related pair.
	AddRelated(ctx context.Context, taskID, relatedID string) error

	// RemoveRelated deletes one direction of a related pair.
	RemoveRelated(ctx context.Context, taskID, relatedID string) error

	// GetSetting returns a stored setting value. ok is false when the key is absent.
	GetSetting(ctx context.Context, key string) (value string, ok bool, err error)

	// PutSetting stores a setting value.
	PutSetting(ctx context.Context, key, value string) error

	// DeleteSetting removes a setting.
	DeleteSetting(ctx context.Context, key string) error

	// Health checks that the service is reachable.
	Health(ctx context.Context) error
}

// ErrorReporter receives failures of best-effort remote calls.
type ErrorReporter interface {
	// Report records a failed operation. notify asks for a user-visible notice
	// in addition to the log entry.
	Report(op string, err error, notify bool)

	// Warn records a non-fatal consistency problem and surfaces it as a notice.
	Warn(msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (default <- global <- repo).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)

	// LoadWithOptions returns the merged configuration, optionally ignoring sources.
	LoadWithOptions(opts LoadConfigOptions) (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetRepoConfigInfo returns information about the repository config file.
	GetRepoConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitRepoConfig writes the default template to the repository config file.
	InitRepoConfig() error

	// InitGlobalConfig writes the default template to the global config file.
	InitGlobalConfig() error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// CommandExecutor runs external programs such as the user's editor.
type CommandExecutor interface {
	// ExecuteInteractive runs a command attached to the terminal and waits for it.
	ExecuteInteractive(cmd *ExecCommand) error
}
