// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/idgen"
	"github.com/runoshun/treeboard/internal/infra/config"
	"github.com/runoshun/treeboard/internal/infra/executor"
	"github.com/runoshun/treeboard/internal/infra/gitstore"
	"github.com/runoshun/treeboard/internal/infra/httpremote"
	"github.com/runoshun/treeboard/internal/infra/jsonstore"
	"github.com/runoshun/treeboard/internal/infra/logging"
	"github.com/runoshun/treeboard/internal/remotesync"
	"github.com/runoshun/treeboard/internal/store"
	"github.com/runoshun/treeboard/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	RepoRoot string // Repository root, or the working directory outside a repository
	DataDir  string // Global data directory (config, board file, logs)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Remote        domain.Remote // nil when the backend is "none"
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Executor      domain.CommandExecutor

	// Pointer fields
	Store     *store.Store
	Reporter  *remotesync.Reporter
	Adapter   *remotesync.Adapter // nil when the backend is "none"
	Poller    *remotesync.Poller  // nil when the backend is "none"
	AppConfig *domain.Config
	Logger    *slog.Logger
	logs      *logging.Logger

	// Configuration
	Config Config
	opened bool
}

// New creates a new Container for the repository (or directory) containing dir.
func New(dir string) (*Container, error) {
	repoRoot := config.FindRepoRoot(dir)
	loader := config.NewLoader(repoRoot)
	appConfig, err := loader.Load()
	if err != nil {
		return nil, err
	}
	cfg := Config{RepoRoot: repoRoot, DataDir: loader.DataDir()}

	logs := logging.New(appConfig.Log.File, logging.ParseLevel(appConfig.Log.Level))
	logger := logs.Slog()

	remote, err := newRemote(cfg, appConfig, logger)
	if err != nil {
		_ = logs.Close()
		return nil, err
	}

	c := NewWithDeps(cfg, appConfig, remote, domain.RealClock{}, logger)
	c.ConfigLoader = loader
	c.ConfigManager = config.NewManager(repoRoot)
	c.logs = logs
	return c, nil
}

// newRemote builds the persistence backend selected by [remote] backend.
func newRemote(cfg Config, appConfig *domain.Config, logger *slog.Logger) (domain.Remote, error) {
	switch appConfig.Remote.Backend {
	case domain.BackendHTTP:
		return httpremote.New(appConfig.Remote.URL, appConfig.Remote.Token, logger,
			httpremote.WithHTTPClient(&http.Client{Timeout: appConfig.Remote.Timeout.Std()}),
		), nil
	case domain.BackendFile:
		return jsonstore.NewRemote(appConfig.Store.Path, logger), nil
	case domain.BackendGit:
		remote, err := gitstore.NewRemote(cfg.RepoRoot, appConfig.Store.Namespace, appConfig.Store.EncryptionKey, logger)
		if err != nil {
			return nil, fmt.Errorf("open git backend: %w", err)
		}
		return remote, nil
	case domain.BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%q: %w", appConfig.Remote.Backend, domain.ErrInvalidBackend)
	}
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// A nil remote keeps the store purely local.
func NewWithDeps(cfg Config, appConfig *domain.Config, remote domain.Remote, clock domain.Clock, logger *slog.Logger) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	reporter := remotesync.NewReporter(logger, clock)
	st := store.New(
		store.WithGenerator(idgen.New(appConfig.ResolveGenerator())),
		store.WithLogger(logger),
	)
	c := &Container{
		Remote:    remote,
		Clock:     clock,
		Executor:  executor.NewClient(),
		Store:     st,
		Reporter:  reporter,
		AppConfig: appConfig,
		Logger:    logger,
		Config:    cfg,
	}
	if remote != nil {
		c.Adapter = remotesync.NewAdapter(remote, reporter, logger, appConfig.Sync.VerifyReorder)
		c.Poller = remotesync.NewPoller(remote, st, logger, appConfig.Sync.PollInterval.Std())
	}
	return c
}

// Open performs the initial load and starts forwarding mutations to the remote.
// Calls after the first successful one do nothing.
func (c *Container) Open(ctx context.Context) error {
	if c.Poller == nil || c.opened {
		return nil
	}
	if err := c.Poller.Load(ctx); err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	c.Store.SetSyncer(c.Adapter)
	c.opened = true
	return nil
}

// Close waits for queued remote calls and closes the log file.
func (c *Container) Close() error {
	if c.Adapter != nil {
		c.Adapter.Wait()
	}
	if c.logs != nil {
		return c.logs.Close()
	}
	return nil
}

// UseCase factory methods

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Store)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Store)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store)
}

// EditDescriptionUseCase returns a new EditDescription use case.
func (c *Container) EditDescriptionUseCase() *usecase.EditDescription {
	return usecase.NewEditDescription(c.Store, c.Executor, "")
}

// SetStatusUseCase returns a new SetStatus use case.
func (c *Container) SetStatusUseCase() *usecase.SetStatus {
	return usecase.NewSetStatus(c.Store)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store)
}

// MoveTaskUseCase returns a new MoveTask use case.
func (c *Container) MoveTaskUseCase() *usecase.MoveTask {
	return usecase.NewMoveTask(c.Store)
}

// LinkTasksUseCase returns a new LinkTasks use case.
func (c *Container) LinkTasksUseCase() *usecase.LinkTasks {
	return usecase.NewLinkTasks(c.Store)
}

// CreateProjectUseCase returns a new CreateProject use case.
func (c *Container) CreateProjectUseCase() *usecase.CreateProject {
	return usecase.NewCreateProject(c.Store)
}

// ListProjectsUseCase returns a new ListProjects use case.
func (c *Container) ListProjectsUseCase() *usecase.ListProjects {
	return usecase.NewListProjects(c.Store)
}

// EditProjectUseCase returns a new EditProject use case.
func (c *Container) EditProjectUseCase() *usecase.EditProject {
	return usecase.NewEditProject(c.Store)
}

// DeleteProjectUseCase returns a new DeleteProject use case.
func (c *Container) DeleteProjectUseCase() *usecase.DeleteProject {
	return usecase.NewDeleteProject(c.Store)
}

// CreateTeamUseCase returns a new CreateTeam use case.
func (c *Container) CreateTeamUseCase() *usecase.CreateTeam {
	return usecase.NewCreateTeam(c.Store)
}

// ListTeamsUseCase returns a new ListTeams use case.
func (c *Container) ListTeamsUseCase() *usecase.ListTeams {
	return usecase.NewListTeams(c.Store)
}

// EditTeamUseCase returns a new EditTeam use case.
func (c *Container) EditTeamUseCase() *usecase.EditTeam {
	return usecase.NewEditTeam(c.Store)
}

// DeleteTeamUseCase returns a new DeleteTeam use case.
func (c *Container) DeleteTeamUseCase() *usecase.DeleteTeam {
	return usecase.NewDeleteTeam(c.Store)
}

// ExportBoardUseCase returns a new ExportBoard use case.
func (c *Container) ExportBoardUseCase() *usecase.ExportBoard {
	return usecase.NewExportBoard(c.Store, c.Clock)
}

// ImportBoardUseCase returns a new ImportBoard use case.
func (c *Container) ImportBoardUseCase() *usecase.ImportBoard {
	return usecase.NewImportBoard(c.Store)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// DoctorUseCase returns a new Doctor use case.
func (c *Container) DoctorUseCase() *usecase.Doctor {
	return usecase.NewDoctor(c.Remote, c.AppConfig, c.Clock)
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	path := ""
	if c.logs != nil {
		path = c.logs.Path()
	}
	return usecase.NewShowLogs(path)
}
