package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/usecase"
)

// newWatcherCommand creates the watcher command.
func newWatcherCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watcher",
		Short:   "Run agent watchers",
		GroupID: groupAgent,
	}
	cmd.AddCommand(newWatcherRunCommand(c))
	return cmd
}

func newWatcherRunCommand(c *app.Container) *cobra.Command {
	var pollSeconds int

	cmd := &cobra.Command{
		Use:   "run <agent-id>",
		Short: "Poll an agent's queues and process prompts until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			watcher, err := c.RunWatcherUseCase()
			if err != nil {
				return err
			}

			interval := c.Config.Watcher.PollInterval()
			if pollSeconds > 0 {
				interval = time.Duration(pollSeconds) * time.Second
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmd.Printf("Watching as agent %s (poll every %s). Ctrl-C to stop.\n", args[0], interval)
			out, err := watcher.Execute(ctx, usecase.RunWatcherInput{
				AgentID:      args[0],
				HistoryRoot:  c.Paths.HistoryRoot,
				PollInterval: interval,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Stopped: %d processed, %d failed.\n", out.Processed, out.Failed)
			return nil
		},
	}

	cmd.Flags().IntVar(&pollSeconds, "poll-seconds", 0, "poll interval in seconds (defaults to config)")
	return cmd
}

// contextWithTimeout derives a deadline context from the command's
// context; a non-positive timeout means no deadline.
func contextWithTimeout(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}
