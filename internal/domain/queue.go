package domain

import "time"

// TaskStatus describes a queue entry's lifecycle for external watchers.
// It is advisory metadata only: the authoritative signal is the entry's
// file position (incoming directory vs. archived extension).
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskError      TaskStatus = "error"
)

// IsValid returns true if the task status is a known value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskProcessing, TaskCompleted, TaskFailed, TaskError:
		return true
	default:
		return false
	}
}

// PromptTask is one unit of instruction sent to an agent.
// Fields are ordered to minimize memory padding.
type PromptTask struct {
	FeatureID      string // Feature this prompt belongs to (required)
	AgentID        string // Target agent (required)
	PromptText     string // Raw prompt body
	SpecVersion    string // Prompt spec version (defaults to DefaultSpecVersion)
	ConversationID string // Conversation key (empty = none)
	Revision       int    // Explicit revision (0 = timestamped, unrevised)
}

// DefaultSpecVersion is the prompt spec version stamped on tasks that
// do not carry an explicit one.
const DefaultSpecVersion = "1.0.0"

// ResultTask is one agent response, bound to its prompt by hashes.
// Fields are ordered to minimize memory padding.
type ResultTask struct {
	Timestamp      time.Time     // Generation time (UTC)
	Artifact       *CodeArtifact // Structured code output (nil = none)
	FeatureID      string        // Feature this result belongs to
	AgentID        string        // Producing agent
	OutputText     string        // Raw output body
	PromptHash     string        // Hash of the prompt that produced this output
	OutputHash     string        // Hash of OutputText
	ConversationID string        // Conversation key (empty = none)
}
