package usecase

import (
	"context"
	"fmt"

	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/queue"
	"github.com/weftlabs/weft/internal/state"
)

// SubmitPromptInput contains the parameters for submitting a prompt.
// Fields are ordered to minimize memory padding.
type SubmitPromptInput struct {
	FeatureID      string
	AgentID        string
	PromptText     string
	SpecVersion    string
	ConversationID string
	HistoryRoot    string
	Revision       int
}

// SubmitPromptOutput contains the result of submitting a prompt.
type SubmitPromptOutput struct {
	Path           string
	ConversationID string
}

// SubmitPrompt is the use case for queueing a prompt to an agent.
// Fields are ordered to minimize memory padding.
type SubmitPrompt struct {
	states *state.Store
	logger domain.Logger
}

// NewSubmitPrompt creates a new SubmitPrompt use case.
func NewSubmitPrompt(states *state.Store, logger domain.Logger) *SubmitPrompt {
	return &SubmitPrompt{states: states, logger: logger}
}

// Execute validates the target feature, fills in defaults and writes
// the prompt into the agent's incoming queue. A draft feature moves to
// in-progress on its first prompt.
func (uc *SubmitPrompt) Execute(_ context.Context, in SubmitPromptInput) (*SubmitPromptOutput, error) {
	if err := domain.ValidateFeatureID(in.FeatureID); err != nil {
		return nil, err
	}
	if in.AgentID == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	if in.PromptText == "" {
		return nil, fmt.Errorf("prompt text is required")
	}

	st, err := uc.states.GetOrCreate(in.FeatureID)
	if err != nil {
		return nil, err
	}
	if st.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: feature %s is %s", domain.ErrInvalidTransition, in.FeatureID, st.Status)
	}

	conversationID := in.ConversationID
	if conversationID == "" {
		conversationID = domain.DefaultConversationID(in.FeatureID, in.AgentID)
	}
	specVersion := in.SpecVersion
	if specVersion == "" {
		specVersion = domain.DefaultSpecVersion
	}

	task := domain.PromptTask{
		FeatureID:      in.FeatureID,
		AgentID:        in.AgentID,
		PromptText:     in.PromptText,
		SpecVersion:    specVersion,
		ConversationID: conversationID,
		Revision:       in.Revision,
	}
	path, err := queue.WritePrompt(in.HistoryRoot, in.FeatureID, in.AgentID, task)
	if err != nil {
		return nil, err
	}

	if st.Status == domain.StatusDraft {
		if _, err := uc.states.Transition(in.FeatureID, domain.StatusInProgress, "first prompt submitted"); err != nil {
			uc.logger.Warn(in.FeatureID, "submit", fmt.Sprintf("advance to in-progress: %v", err))
		}
	}

	uc.logger.Info(in.FeatureID, "submit", fmt.Sprintf("prompt queued for %s (conversation %s)", in.AgentID, conversationID))
	return &SubmitPromptOutput{Path: path, ConversationID: conversationID}, nil
}
