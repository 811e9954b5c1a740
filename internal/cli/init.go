package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/history"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Short:   "Initialize weft in the current repository",
		GroupID: groupSetup,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := history.EnsureRoot(c.Paths.HistoryRoot); err != nil {
				return err
			}

			configPath := filepath.Join(c.Paths.WeftDir, domain.ConfigFileName)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				data, err := toml.Marshal(domain.NewDefaultConfig())
				if err != nil {
					return fmt.Errorf("marshal default config: %w", err)
				}
				if err := os.MkdirAll(c.Paths.WeftDir, 0o750); err != nil {
					return fmt.Errorf("create weft directory: %w", err)
				}
				if err := os.WriteFile(configPath, data, 0o600); err != nil {
					return fmt.Errorf("write default config: %w", err)
				}
				cmd.Printf("Wrote %s\n", configPath)
			}

			cmd.Printf("History root ready at %s\n", c.Paths.HistoryRoot)
			return nil
		},
	}
}
