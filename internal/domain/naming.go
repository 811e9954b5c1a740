package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Queue directory and file naming conventions.
const (
	IncomingDirName = "incoming"
	OutgoingDirName = "outgoing"
	LogDirName      = "log"

	PendingExt   = ".md"
	ProcessedExt = ".processed"

	StateFileName     = "state.yaml"
	DroppedMarkerName = "DROPPED.md"
)

// Tool directory and file names.
const (
	WeftDirName    = ".weft"
	ConfigFileName = "config.toml"
)

// WeftDir returns the tool directory inside a repository.
func WeftDir(repoPath string) string {
	return filepath.Join(repoPath, WeftDirName)
}

// GlobalWeftDir returns the tool directory under a config home
// (typically $XDG_CONFIG_HOME).
func GlobalWeftDir(configHome string) string {
	return filepath.Join(configHome, "weft")
}

// GlobalLogPath returns the path of the shared log file.
func GlobalLogPath(weftDir string) string {
	return filepath.Join(weftDir, "logs", "weft.log")
}

// FeatureLogPath returns the path of a feature's log file.
func FeatureLogPath(weftDir, featureID string) string {
	return filepath.Join(weftDir, "logs", SanitizeFeatureID(featureID)+".log")
}

var featureIDPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateFeatureID checks the feature identifier format: 3-50 characters,
// starting with a letter, containing only letters, digits, hyphens and
// underscores. Violations return ErrInvalidFeatureID wrapped with the reason.
func ValidateFeatureID(featureID string) error {
	if featureID == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidFeatureID)
	}
	if len(featureID) < 3 || len(featureID) > 50 {
		return fmt.Errorf("%w: must be 3-50 characters, got %d", ErrInvalidFeatureID, len(featureID))
	}
	first := featureID[0]
	if !(first >= 'a' && first <= 'z') && !(first >= 'A' && first <= 'Z') {
		return fmt.Errorf("%w: must start with a letter", ErrInvalidFeatureID)
	}
	if !featureIDPattern.MatchString(featureID) {
		return fmt.Errorf("%w: only letters, digits, hyphens and underscores are allowed", ErrInvalidFeatureID)
	}
	return nil
}

// SanitizeFeatureID replaces path separators in a feature id with hyphens
// so it is safe to embed in file names and conversation keys.
func SanitizeFeatureID(featureID string) string {
	return strings.ReplaceAll(featureID, "/", "-")
}

// DefaultConversationID derives the stable conversation key for a
// (feature, agent) pair. It is a pure function: identical inputs always
// yield the identical key, across process restarts.
func DefaultConversationID(featureID, agentID string) string {
	return SanitizeFeatureID(featureID) + "-" + agentID
}

// BranchName returns the workspace branch name for a feature.
// Format: feature/<id>
func BranchName(featureID string) string {
	return "feature/" + featureID
}

// WorktreePath returns the workspace checkout path for a feature.
func WorktreePath(repoPath, featureID string) string {
	return filepath.Join(repoPath, "worktrees", featureID)
}

// FeatureDir returns the history directory for a feature.
func FeatureDir(historyRoot, featureID string) string {
	return filepath.Join(historyRoot, featureID)
}

// AgentDir returns the queue directory for a (feature, agent) pair.
func AgentDir(historyRoot, featureID, agentID string) string {
	return filepath.Join(historyRoot, featureID, agentID)
}

// StateFilePath returns the path of a feature's durable state record.
func StateFilePath(historyRoot, featureID string) string {
	return filepath.Join(historyRoot, featureID, StateFileName)
}

// DroppedMarkerPath returns the path of a feature's drop marker.
func DroppedMarkerPath(historyRoot, featureID string) string {
	return filepath.Join(historyRoot, featureID, DroppedMarkerName)
}

// DefaultAgents is the standard agent pipeline, in execution order.
func DefaultAgents() []string {
	return []string{
		"00-meta",
		"01-architect",
		"02-openapi",
		"03-ui",
		"04-integration",
		"05-test",
	}
}
