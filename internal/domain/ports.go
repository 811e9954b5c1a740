package domain

import (
	"context"
	"time"
)

// WorkspaceProvider manages isolated feature workspaces.
type WorkspaceProvider interface {
	// Create creates an isolated workspace for the feature, branched off
	// baseBranch, and returns its path.
	Create(repoPath, featureID, baseBranch string) (path string, err error)

	// Remove deletes the feature's workspace and its branch.
	Remove(repoPath, featureID string) error
}

// Backend generates text for a prompt. Implementations own their retry,
// backoff and timeout policy; the core never retries generation itself.
type Backend interface {
	// Generate produces output text for the prompt. history carries prior
	// turns of the same conversation, oldest first, and may be nil.
	Generate(ctx context.Context, prompt string, history []Message) (string, error)
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one prior turn in a conversation.
type Message struct {
	Role    string // RoleUser or RoleAssistant
	Content string
}

// Logger writes leveled, category-tagged log entries. A feature id of ""
// targets the global log only.
type Logger interface {
	Debug(featureID, category, msg string)
	Info(featureID, category, msg string)
	Warn(featureID, category, msg string)
	Error(featureID, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (repo + global).
	Load() (*Config, error)
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
