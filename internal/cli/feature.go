package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/history"
	"github.com/weftlabs/weft/internal/usecase"
)

// newFeatureCommand creates the feature command with its subcommands.
func newFeatureCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "feature",
		Short:   "Manage feature lifecycles",
		GroupID: groupFeature,
	}
	cmd.AddCommand(
		newFeatureCreateCommand(c),
		newFeatureListCommand(c),
		newFeatureDropCommand(c),
		newFeatureSubmitCommand(c),
		newFeatureAdvanceCommand(c),
		newFeatureStatusCommand(c),
	)
	return cmd
}

func newFeatureCreateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Base   string
		Agents []string
	}

	cmd := &cobra.Command{
		Use:   "create <feature-id>",
		Short: "Create a feature: workspace, history tree and draft state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := opts.Base
			if base == "" {
				base = c.Config.BaseBranch
			}
			agents := opts.Agents
			if len(agents) == 0 {
				agents = c.Config.Agents
			}

			out, err := c.InitFeatureUseCase().Execute(cmd.Context(), usecase.InitFeatureInput{
				FeatureID:   args[0],
				RepoPath:    c.Paths.RepoRoot,
				HistoryRoot: c.Paths.HistoryRoot,
				BaseBranch:  base,
				Agents:      agents,
			})
			if err != nil {
				return err
			}

			cmd.Printf("Created feature %s\n", out.FeatureID)
			cmd.Printf("  workspace: %s\n", out.WorkspacePath)
			cmd.Printf("  history:   %s\n", out.HistoryPath)
			cmd.Printf("  agents:    %s\n", strings.Join(out.Agents, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Base, "base", "", "base branch (defaults to config)")
	cmd.Flags().StringSliceVar(&opts.Agents, "agent", nil, "agent pipeline (defaults to config)")
	return cmd
}

func newFeatureListCommand(c *app.Container) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List features and their lifecycle status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter domain.Status
			if statusFilter != "" {
				filter = domain.Status(statusFilter)
				if !filter.IsValid() {
					return fmt.Errorf("unknown status %q", statusFilter)
				}
			}

			out, err := c.ListFeaturesUseCase().Execute(cmd.Context(), usecase.ListFeaturesInput{Status: filter})
			if err != nil {
				return err
			}

			if len(out.States) == 0 {
				cmd.Println("No features found.")
			} else {
				renderFeatureTable(cmd.OutOrStdout(), out.States)
			}
			for _, id := range out.Skipped {
				cmd.PrintErrf("Warning: skipped %s: unreadable state file\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "filter by status")
	return cmd
}

func renderFeatureTable(w io.Writer, states []*domain.FeatureState) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("FEATURE")+"\t"+headerStyle.Render("STATUS")+"\t"+headerStyle.Render("LAST ACTIVITY"))
	for _, st := range states {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			st.FeatureID,
			renderStatus(st.Status),
			dimStyle.Render(st.LastActivity.Local().Format("2006-01-02 15:04")),
		)
	}
	_ = tw.Flush()
}

func newFeatureDropCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Reason        string
		DeleteHistory bool
		Force         bool
	}

	cmd := &cobra.Command{
		Use:   "drop <feature-id>",
		Short: "Abandon a feature and remove its workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Force {
				ok, err := confirm(cmd, fmt.Sprintf("Drop feature %s? Its worktree and branch will be deleted.", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					cmd.Println("Aborted.")
					return nil
				}
			}

			out, err := c.DropFeatureUseCase().Execute(cmd.Context(), usecase.DropFeatureInput{
				FeatureID:     args[0],
				RepoPath:      c.Paths.RepoRoot,
				HistoryRoot:   c.Paths.HistoryRoot,
				Reason:        opts.Reason,
				DeleteHistory: opts.DeleteHistory,
			})
			if err != nil {
				return err
			}

			if out.HistoryDeleted {
				cmd.Printf("Dropped feature %s (history deleted)\n", out.FeatureID)
			} else {
				cmd.Printf("Dropped feature %s (history preserved)\n", out.FeatureID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Reason, "reason", "", "why the feature is dropped")
	cmd.Flags().BoolVar(&opts.DeleteHistory, "delete-history", false, "also purge the feature's history tree")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "skip confirmation")
	return cmd
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	cmd.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func newFeatureSubmitCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Prompt         string
		SpecVersion    string
		ConversationID string
		Revision       int
		Wait           bool
		Timeout        time.Duration
	}

	cmd := &cobra.Command{
		Use:   "submit <feature-id> <agent-id>",
		Short: "Queue a prompt for an agent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := opts.Prompt
			if prompt == "" {
				// Read the prompt from stdin when not given as a flag.
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read prompt from stdin: %w", err)
				}
				prompt = strings.TrimSpace(string(data))
			}

			floor := c.Clock.Now()
			out, err := c.SubmitPromptUseCase().Execute(cmd.Context(), usecase.SubmitPromptInput{
				FeatureID:      args[0],
				AgentID:        args[1],
				PromptText:     prompt,
				SpecVersion:    opts.SpecVersion,
				ConversationID: opts.ConversationID,
				Revision:       opts.Revision,
				HistoryRoot:    c.Paths.HistoryRoot,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Queued %s (conversation %s)\n", out.Path, out.ConversationID)

			if !opts.Wait {
				return nil
			}

			ctx, cancel := contextWithTimeout(cmd, opts.Timeout)
			defer cancel()
			res, err := c.WaitResultUseCase().Execute(ctx, usecase.WaitResultInput{
				FeatureID:    args[0],
				AgentID:      args[1],
				HistoryRoot:  c.Paths.HistoryRoot,
				After:        floor,
				PollInterval: c.Config.Watcher.PollInterval(),
			})
			if err != nil {
				return err
			}
			cmd.Println(res.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Prompt, "prompt", "p", "", "prompt text (stdin when omitted)")
	cmd.Flags().StringVar(&opts.SpecVersion, "spec-version", "", "prompt spec version")
	cmd.Flags().StringVar(&opts.ConversationID, "conversation", "", "conversation key (defaults to <feature>-<agent>)")
	cmd.Flags().IntVar(&opts.Revision, "revision", 0, "prompt revision; resubmitting replaces the same revision")
	cmd.Flags().BoolVar(&opts.Wait, "wait", false, "block until the agent's result arrives")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Minute, "how long --wait blocks")
	return cmd
}

func newFeatureAdvanceCommand(c *app.Container) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "advance <feature-id> <status>",
		Short: "Move a feature to the next lifecycle status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to := domain.Status(args[1])
			if !to.IsValid() {
				return fmt.Errorf("unknown status %q (one of: %s)", args[1], statusNames())
			}

			out, err := c.AdvanceFeatureUseCase().Execute(cmd.Context(), usecase.AdvanceFeatureInput{
				FeatureID: args[0],
				To:        to,
				Reason:    reason,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Feature %s is now %s\n", out.State.FeatureID, renderStatus(out.State.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the feature advances")
	return cmd
}

func newFeatureStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status <feature-id>",
		Short: "Show a feature's state and transition history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.States.Load(args[0])
			if err != nil {
				return err
			}

			cmd.Printf("%s  %s\n", headerStyle.Render(st.FeatureID), renderStatus(st.Status))
			cmd.Printf("created:       %s\n", st.CreatedAt.Local().Format(time.RFC1123))
			cmd.Printf("last activity: %s\n", st.LastActivity.Local().Format(time.RFC1123))

			if agents, err := history.FeatureAgents(c.Paths.HistoryRoot, args[0]); err == nil && len(agents) > 0 {
				cmd.Printf("agents:        %s\n", strings.Join(agents, ", "))
			}

			cmd.Println("\nTransitions:")
			for _, tr := range st.Transitions {
				from := "-"
				if tr.From != "" {
					from = tr.From.Display()
				}
				line := fmt.Sprintf("  %s  %s -> %s", tr.Timestamp.Local().Format("2006-01-02 15:04"), from, tr.To.Display())
				if tr.Reason != "" {
					line += dimStyle.Render("  (" + tr.Reason + ")")
				}
				cmd.Println(line)
			}
			return nil
		},
	}
}

func statusNames() string {
	names := make([]string, 0, len(domain.AllStatuses()))
	for _, s := range domain.AllStatuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
