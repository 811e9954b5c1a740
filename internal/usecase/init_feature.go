// Package usecase contains the application use cases. Each use case is
// a small struct with an Execute method taking an Input and returning
// an Output; wiring happens in internal/app.
package usecase

import (
	"context"
	"fmt"

	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/history"
	"github.com/weftlabs/weft/internal/state"
)

// InitFeatureInput contains the parameters for creating a feature.
// Fields are ordered to minimize memory padding.
type InitFeatureInput struct {
	FeatureID   string
	RepoPath    string
	HistoryRoot string
	BaseBranch  string
	Agents      []string
}

// InitFeatureOutput contains the result of creating a feature.
type InitFeatureOutput struct {
	FeatureID     string
	WorkspacePath string
	HistoryPath   string
	BaseBranch    string
	Agents        []string
}

// InitFeature is the use case for creating a feature: workspace,
// history tree and initial state.
// Fields are ordered to minimize memory padding.
type InitFeature struct {
	workspaces domain.WorkspaceProvider
	states     *state.Store
	logger     domain.Logger
}

// NewInitFeature creates a new InitFeature use case.
func NewInitFeature(workspaces domain.WorkspaceProvider, states *state.Store, logger domain.Logger) *InitFeature {
	return &InitFeature{
		workspaces: workspaces,
		states:     states,
		logger:     logger,
	}
}

// Execute creates the feature. The workspace and the history tree form
// one logical unit: when history creation fails after the workspace was
// made, the workspace is removed before the error propagates.
func (uc *InitFeature) Execute(_ context.Context, in InitFeatureInput) (*InitFeatureOutput, error) {
	if err := domain.ValidateFeatureID(in.FeatureID); err != nil {
		return nil, err
	}
	agents := in.Agents
	if len(agents) == 0 {
		agents = domain.DefaultAgents()
	}

	workspacePath, err := uc.workspaces.Create(in.RepoPath, in.FeatureID, in.BaseBranch)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	if err := history.CreateFeatureStructure(in.HistoryRoot, in.FeatureID, agents); err != nil {
		if rmErr := uc.workspaces.Remove(in.RepoPath, in.FeatureID); rmErr != nil {
			uc.logger.Error(in.FeatureID, "init", fmt.Sprintf("rollback workspace: %v", rmErr))
		}
		return nil, fmt.Errorf("create history structure: %w", err)
	}

	if _, err := uc.states.CreateInitial(in.FeatureID); err != nil {
		if rmErr := uc.workspaces.Remove(in.RepoPath, in.FeatureID); rmErr != nil {
			uc.logger.Error(in.FeatureID, "init", fmt.Sprintf("rollback workspace: %v", rmErr))
		}
		if rmErr := history.RemoveFeature(in.HistoryRoot, in.FeatureID); rmErr != nil {
			uc.logger.Error(in.FeatureID, "init", fmt.Sprintf("rollback history: %v", rmErr))
		}
		return nil, fmt.Errorf("create initial state: %w", err)
	}

	uc.logger.Info(in.FeatureID, "init", fmt.Sprintf("feature created on branch %s", domain.BranchName(in.FeatureID)))
	return &InitFeatureOutput{
		FeatureID:     in.FeatureID,
		WorkspacePath: workspacePath,
		HistoryPath:   domain.FeatureDir(in.HistoryRoot, in.FeatureID),
		BaseBranch:    in.BaseBranch,
		Agents:        agents,
	}, nil
}
