// Package app provides the dependency injection container for the application.
package app

import (
	"path/filepath"

	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/infra/backend"
	"github.com/weftlabs/weft/internal/infra/config"
	"github.com/weftlabs/weft/internal/infra/git"
	"github.com/weftlabs/weft/internal/infra/logging"
	"github.com/weftlabs/weft/internal/infra/worktree"
	"github.com/weftlabs/weft/internal/state"
	"github.com/weftlabs/weft/internal/usecase"
)

// Paths holds the resolved application directories.
type Paths struct {
	RepoRoot    string // root directory of the code repository
	WeftDir     string // path to .weft
	HistoryRoot string // path to the feature history tree
}

// Container provides dependency injection for the application.
// Fields are ordered to minimize memory padding.
type Container struct {
	Workspaces domain.WorkspaceProvider
	Clock      domain.Clock
	Logger     domain.Logger
	Git        *git.Client
	States     *state.Store
	Config     *domain.Config
	Paths      Paths
}

// New creates a Container by detecting the git repository from the
// given directory and loading configuration.
func New(dir string) (*Container, error) {
	gitClient, err := git.NewClient(dir)
	if err != nil {
		return nil, err
	}

	repoRoot := gitClient.RepoRoot()
	weftDir := domain.WeftDir(repoRoot)

	cfg, err := config.NewLoader(weftDir).Load()
	if err != nil {
		return nil, err
	}

	historyRoot := cfg.History.Path
	if !filepath.IsAbs(historyRoot) {
		historyRoot = filepath.Join(repoRoot, historyRoot)
	}

	clock := domain.RealClock{}
	logger := logging.New(weftDir, logging.ParseLevel(cfg.Log.Level))

	return &Container{
		Workspaces: worktree.NewClient(),
		Clock:      clock,
		Logger:     logger,
		Git:        gitClient,
		States:     state.New(historyRoot, clock),
		Config:     cfg,
		Paths: Paths{
			RepoRoot:    repoRoot,
			WeftDir:     weftDir,
			HistoryRoot: historyRoot,
		},
	}, nil
}

// NewWithDeps creates a Container with custom dependencies for testing.
func NewWithDeps(paths Paths, cfg *domain.Config, workspaces domain.WorkspaceProvider, states *state.Store, clock domain.Clock, logger domain.Logger) *Container {
	return &Container{
		Workspaces: workspaces,
		Clock:      clock,
		Logger:     logger,
		States:     states,
		Config:     cfg,
		Paths:      paths,
	}
}

// Backend builds the configured generative backend.
func (c *Container) Backend() (domain.Backend, error) {
	return backend.New(c.Config.Backend)
}

// InitFeatureUseCase returns a new InitFeature use case.
func (c *Container) InitFeatureUseCase() *usecase.InitFeature {
	return usecase.NewInitFeature(c.Workspaces, c.States, c.Logger)
}

// DropFeatureUseCase returns a new DropFeature use case.
func (c *Container) DropFeatureUseCase() *usecase.DropFeature {
	return usecase.NewDropFeature(c.Workspaces, c.States, c.Logger, c.Clock)
}

// SubmitPromptUseCase returns a new SubmitPrompt use case.
func (c *Container) SubmitPromptUseCase() *usecase.SubmitPrompt {
	return usecase.NewSubmitPrompt(c.States, c.Logger)
}

// WaitResultUseCase returns a new WaitResult use case.
func (c *Container) WaitResultUseCase() *usecase.WaitResult {
	return usecase.NewWaitResult(c.Logger)
}

// AdvanceFeatureUseCase returns a new AdvanceFeature use case.
func (c *Container) AdvanceFeatureUseCase() *usecase.AdvanceFeature {
	return usecase.NewAdvanceFeature(c.States, c.Logger)
}

// ListFeaturesUseCase returns a new ListFeatures use case.
func (c *Container) ListFeaturesUseCase() *usecase.ListFeatures {
	return usecase.NewListFeatures(c.States)
}

// RunWatcherUseCase returns a new RunWatcher use case.
func (c *Container) RunWatcherUseCase() (*usecase.RunWatcher, error) {
	b, err := c.Backend()
	if err != nil {
		return nil, err
	}
	return usecase.NewRunWatcher(b, c.States, c.Logger, c.Clock), nil
}
