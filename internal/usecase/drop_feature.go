package usecase

import (
	"context"
	"fmt"

	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/history"
	"github.com/weftlabs/weft/internal/state"
)

// DropFeatureInput contains the parameters for dropping a feature.
// Confirmation is the caller's concern; Execute assumes it was given.
// Fields are ordered to minimize memory padding.
type DropFeatureInput struct {
	FeatureID     string
	RepoPath      string
	HistoryRoot   string
	Reason        string
	DeleteHistory bool
}

// DropFeatureOutput contains the result of dropping a feature.
type DropFeatureOutput struct {
	FeatureID      string
	HistoryDeleted bool
}

// DropFeature is the use case for abandoning a feature at any
// non-terminal point of its lifecycle.
// Fields are ordered to minimize memory padding.
type DropFeature struct {
	workspaces domain.WorkspaceProvider
	states     *state.Store
	logger     domain.Logger
	clock      domain.Clock
}

// NewDropFeature creates a new DropFeature use case.
func NewDropFeature(workspaces domain.WorkspaceProvider, states *state.Store, logger domain.Logger, clock domain.Clock) *DropFeature {
	return &DropFeature{
		workspaces: workspaces,
		states:     states,
		logger:     logger,
		clock:      clock,
	}
}

// Execute removes the feature's workspace and branch, records the drop
// in the state history and writes a DROPPED.md marker. The history tree
// is preserved unless DeleteHistory is set, and its purge always comes
// after the transition is recorded.
func (uc *DropFeature) Execute(_ context.Context, in DropFeatureInput) (*DropFeatureOutput, error) {
	reason := in.Reason
	if reason == "" {
		reason = "dropped"
	}

	if _, err := uc.states.Transition(in.FeatureID, domain.StatusDropped, reason); err != nil {
		return nil, err
	}

	if err := uc.workspaces.Remove(in.RepoPath, in.FeatureID); err != nil {
		// State already says dropped; the leftover worktree is debris,
		// not a lifecycle problem.
		uc.logger.Warn(in.FeatureID, "drop", fmt.Sprintf("remove workspace: %v", err))
	}

	if err := history.WriteDroppedMarker(in.HistoryRoot, in.FeatureID, reason, uc.clock.Now()); err != nil {
		uc.logger.Warn(in.FeatureID, "drop", fmt.Sprintf("write dropped marker: %v", err))
	}

	deleted := false
	if in.DeleteHistory {
		if err := history.RemoveFeature(in.HistoryRoot, in.FeatureID); err != nil {
			return nil, fmt.Errorf("delete feature history: %w", err)
		}
		deleted = true
	}

	uc.logger.Info(in.FeatureID, "drop", fmt.Sprintf("feature dropped: %s", reason))
	return &DropFeatureOutput{FeatureID: in.FeatureID, HistoryDeleted: deleted}, nil
}
