// Package history manages the on-disk feature history tree: one
// directory per feature, one per agent beneath it, each with the
// incoming/outgoing/log layout the queue and watcher operate on.
// The history root itself is a git repository so that every prompt,
// result and state change can be committed and reviewed.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/weftlabs/weft/internal/domain"
)

// EnsureRoot validates the history root, initializing it as a git
// repository when it does not exist yet. A path that exists but is not
// a repository returns ErrHistoryRootInvalid; recording history in a
// plain directory would silently lose the audit trail.
func EnsureRoot(root string) error {
	_, err := git.PlainOpen(root)
	if err == nil {
		return nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return fmt.Errorf("%w: open %s: %v", domain.ErrHistoryRootInvalid, root, err)
	}

	if info, statErr := os.Stat(root); statErr == nil && info.IsDir() {
		entries, readErr := os.ReadDir(root)
		if readErr == nil && len(entries) > 0 {
			return fmt.Errorf("%w: %s exists but is not a git repository", domain.ErrHistoryRootInvalid, root)
		}
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("create history root: %w", err)
	}
	if _, err := git.PlainInit(root, false); err != nil {
		return fmt.Errorf("%w: init %s: %v", domain.ErrHistoryRootInvalid, root, err)
	}
	return nil
}

// CreateFeatureStructure creates the per-agent directory layout for a
// feature. Creation is idempotent: existing directories are left alone.
func CreateFeatureStructure(root, featureID string, agents []string) error {
	if len(agents) == 0 {
		agents = domain.DefaultAgents()
	}

	for _, agent := range agents {
		agentDir := domain.AgentDir(root, featureID, agent)
		for _, sub := range []string{domain.IncomingDirName, domain.OutgoingDirName, domain.LogDirName} {
			if err := os.MkdirAll(filepath.Join(agentDir, sub), 0o750); err != nil {
				return fmt.Errorf("create history structure for %s/%s: %w", featureID, agent, err)
			}
		}
	}
	return nil
}

// FeatureAgents lists the agents of a feature that have the complete
// incoming/outgoing/log layout, sorted by name. Stray files and
// half-created directories are ignored.
func FeatureAgents(root, featureID string) ([]string, error) {
	featureDir := domain.FeatureDir(root, featureID)

	entries, err := os.ReadDir(featureDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFeatureNotFound, featureID)
		}
		return nil, fmt.Errorf("list feature directory: %w", err)
	}

	var agents []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if hasAgentLayout(filepath.Join(featureDir, entry.Name())) {
			agents = append(agents, entry.Name())
		}
	}
	slices.Sort(agents)
	return agents, nil
}

// WriteDroppedMarker records why a feature was dropped, in the feature's
// history directory, so the decision survives even a later state-file
// purge.
func WriteDroppedMarker(root, featureID, reason string, droppedAt time.Time) error {
	path := domain.DroppedMarkerPath(root, featureID)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create feature directory: %w", err)
	}

	content := fmt.Sprintf("# Feature dropped\n\n- feature: %s\n- dropped_at: %s\n- reason: %s\n",
		featureID,
		droppedAt.UTC().Format(time.RFC3339),
		reason,
	)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write dropped marker: %w", err)
	}
	return nil
}

// RemoveFeature purges a feature's entire history directory. Callers
// record the drop transition first; the purge is deliberately last so
// that a failure here cannot lose the audit trail silently.
func RemoveFeature(root, featureID string) error {
	featureDir := domain.FeatureDir(root, featureID)
	if _, err := os.Stat(featureDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrFeatureNotFound, featureID)
		}
		return fmt.Errorf("stat feature directory: %w", err)
	}
	if err := os.RemoveAll(featureDir); err != nil {
		return fmt.Errorf("remove feature history: %w", err)
	}
	return nil
}

func hasAgentLayout(dir string) bool {
	for _, sub := range []string{domain.IncomingDirName, domain.OutgoingDirName, domain.LogDirName} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}
