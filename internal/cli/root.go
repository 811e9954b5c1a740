// Package cli provides the command-line interface for weft.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/app"
)

// Command group IDs.
const (
	groupSetup   = "setup"
	groupFeature = "feature"
	groupAgent   = "agent"
)

// NewRootCommand creates the root command for weft.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "weft",
		Short: "Feature lifecycle and agent task queue",
		Long: `weft coordinates multiple coding agents working on one feature.
Each feature gets an isolated git worktree plus a file-based task queue
under an audited history tree: prompts go into per-agent incoming
directories, results come back with content hashes, and a small state
machine tracks the feature from draft to completed.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupFeature, Title: "Feature Commands:"},
		&cobra.Group{ID: groupAgent, Title: "Agent Commands:"},
	)

	root.AddCommand(
		newInitCommand(c),
		newFeatureCommand(c),
		newWatcherCommand(c),
	)

	return root
}
