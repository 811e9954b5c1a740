// Package domain contains core business entities and interfaces.
package domain

import "time"

// Status represents the lifecycle state of a feature.
type Status string

const (
	StatusDraft      Status = "draft"       // Created, spec still being shaped
	StatusInProgress Status = "in-progress" // Agents working
	StatusReady      Status = "ready"       // Agent outputs complete, awaiting review
	StatusReview     Status = "review"      // Human review in progress
	StatusCompleted  Status = "completed"   // Accepted and merged
	StatusDropped    Status = "dropped"     // Abandoned without merging
)

// AllStatuses returns all valid status values in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusDraft,
		StatusInProgress,
		StatusReady,
		StatusReview,
		StatusCompleted,
		StatusDropped,
	}
}

// transitions defines the allowed status transitions.
// Flow: draft → in-progress → ready → review → completed
// Every non-terminal status may also transition to dropped.
var transitions = map[Status][]Status{
	StatusDraft:      {StatusInProgress, StatusDropped},
	StatusInProgress: {StatusReady, StatusDropped},
	StatusReady:      {StatusReview, StatusDropped},
	StatusReview:     {StatusCompleted, StatusDropped},
	StatusCompleted:  {},
	StatusDropped:    {},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDropped
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusInProgress:
		return "In Progress"
	case StatusReady:
		return "Ready"
	case StatusReview:
		return "Review"
	case StatusCompleted:
		return "Completed"
	case StatusDropped:
		return "Dropped"
	default:
		return string(s)
	}
}

// StateTransition records one edge taken through the lifecycle graph.
// An empty From marks the creating transition.
type StateTransition struct {
	Timestamp time.Time `yaml:"timestamp"`
	From      Status    `yaml:"from,omitempty"`
	To        Status    `yaml:"to"`
	Reason    string    `yaml:"reason,omitempty"`
}

// FeatureState is the durable lifecycle record of one feature.
// Fields are ordered to minimize memory padding.
type FeatureState struct {
	CreatedAt    time.Time         `yaml:"created_at"`
	LastActivity time.Time         `yaml:"last_activity"`
	FeatureID    string            `yaml:"feature_id"`
	Status       Status            `yaml:"status"`
	Transitions  []StateTransition `yaml:"transitions"`
}

// NewFeatureState creates the initial state record for a feature.
// Status starts at draft with the creating transition recorded.
func NewFeatureState(featureID string, now time.Time) *FeatureState {
	return &FeatureState{
		FeatureID:    featureID,
		Status:       StatusDraft,
		CreatedAt:    now,
		LastActivity: now,
		Transitions: []StateTransition{
			{To: StatusDraft, Timestamp: now, Reason: "feature created"},
		},
	}
}

// Transition moves the state along a permitted edge, recording the step.
// Transitioning to the current status is a no-op. An edge outside the
// permitted set returns ErrInvalidTransition and leaves the state untouched.
func (f *FeatureState) Transition(to Status, reason string, now time.Time) error {
	if f.Status == to {
		return nil
	}
	if !f.Status.CanTransitionTo(to) {
		return ErrInvalidTransition
	}
	f.Transitions = append(f.Transitions, StateTransition{
		From:      f.Status,
		To:        to,
		Timestamp: now,
		Reason:    reason,
	})
	f.Status = to
	f.LastActivity = now
	return nil
}
