package usecase

import (
	"context"

	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/state"
)

// AdvanceFeatureInput contains the parameters for a milestone transition.
type AdvanceFeatureInput struct {
	FeatureID string
	To        domain.Status
	Reason    string
}

// AdvanceFeatureOutput contains the state after the transition.
type AdvanceFeatureOutput struct {
	State *domain.FeatureState
}

// AdvanceFeature is the use case for caller-driven lifecycle
// transitions (ready, review, completed). Dropping goes through
// DropFeature, which also tears down the workspace.
type AdvanceFeature struct {
	states *state.Store
	logger domain.Logger
}

// NewAdvanceFeature creates a new AdvanceFeature use case.
func NewAdvanceFeature(states *state.Store, logger domain.Logger) *AdvanceFeature {
	return &AdvanceFeature{states: states, logger: logger}
}

// Execute applies the transition through the state machine; invalid
// edges surface as ErrInvalidTransition with the states named.
func (uc *AdvanceFeature) Execute(_ context.Context, in AdvanceFeatureInput) (*AdvanceFeatureOutput, error) {
	st, err := uc.states.Transition(in.FeatureID, in.To, in.Reason)
	if err != nil {
		return nil, err
	}

	uc.logger.Info(in.FeatureID, "lifecycle", "feature is now "+st.Status.Display())
	return &AdvanceFeatureOutput{State: st}, nil
}
