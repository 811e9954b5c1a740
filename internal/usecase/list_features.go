package usecase

import (
	"context"

	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/state"
)

// ListFeaturesInput contains the optional status filter.
type ListFeaturesInput struct {
	Status domain.Status // zero value means all
}

// ListFeaturesOutput contains the listed states plus the feature
// directories that could not be read.
type ListFeaturesOutput struct {
	States  []*domain.FeatureState
	Skipped []string
}

// ListFeatures is the use case for enumerating features. Corrupt state
// files degrade the listing, never fail it.
type ListFeatures struct {
	states *state.Store
}

// NewListFeatures creates a new ListFeatures use case.
func NewListFeatures(states *state.Store) *ListFeatures {
	return &ListFeatures{states: states}
}

// Execute lists features sorted by ID, optionally filtered by status.
func (uc *ListFeatures) Execute(_ context.Context, in ListFeaturesInput) (*ListFeaturesOutput, error) {
	all, skipped, err := uc.states.List()
	if err != nil {
		return nil, err
	}

	if in.Status == "" {
		return &ListFeaturesOutput{States: all, Skipped: skipped}, nil
	}

	filtered := make([]*domain.FeatureState, 0, len(all))
	for _, st := range all {
		if st.Status == in.Status {
			filtered = append(filtered, st)
		}
	}
	return &ListFeaturesOutput{States: filtered, Skipped: skipped}, nil
}
