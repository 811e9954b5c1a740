package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/weftlabs/weft/internal/audit"
	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/queue"
	"github.com/weftlabs/weft/internal/state"
)

// RunWatcherInput contains the watcher parameters. A watcher serves one
// agent across all features under the history root.
// Fields are ordered to minimize memory padding.
type RunWatcherInput struct {
	AgentID      string
	HistoryRoot  string
	PollInterval time.Duration
}

// RunWatcherOutput contains counters for a finished watcher run.
type RunWatcherOutput struct {
	Processed int
	Failed    int
}

// RunWatcher is the use case for the agent poller loop: read pending
// prompts, generate, write audited results, archive the prompts.
// Fields are ordered to minimize memory padding.
type RunWatcher struct {
	backend domain.Backend
	states  *state.Store
	logger  domain.Logger
	clock   domain.Clock
}

// NewRunWatcher creates a new RunWatcher use case.
func NewRunWatcher(backend domain.Backend, states *state.Store, logger domain.Logger, clock domain.Clock) *RunWatcher {
	return &RunWatcher{
		backend: backend,
		states:  states,
		logger:  logger,
		clock:   clock,
	}
}

// Execute polls until the context ends. A prompt that fails to process
// is logged and stays pending, so the next tick (or another watcher)
// picks it up again: delivery is at least once, and the only way out of
// the pending set is a successfully written result.
func (uc *RunWatcher) Execute(ctx context.Context, in RunWatcherInput) (*RunWatcherOutput, error) {
	interval := in.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	uc.logger.Info("", "watcher", fmt.Sprintf("agent %s watching %s", in.AgentID, in.HistoryRoot))

	out := &RunWatcherOutput{}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		processed, failed := uc.Tick(ctx, in)
		out.Processed += processed
		out.Failed += failed

		select {
		case <-ctx.Done():
			uc.logger.Info("", "watcher", fmt.Sprintf("agent %s stopping: %d processed, %d failed", in.AgentID, out.Processed, out.Failed))
			return out, nil
		case <-ticker.C:
		}
	}
}

// Tick runs a single poll pass over every feature and returns how many
// prompts were processed and how many failed.
func (uc *RunWatcher) Tick(ctx context.Context, in RunWatcherInput) (processed, failed int) {
	states, skipped, err := uc.states.List()
	if err != nil {
		uc.logger.Error("", "watcher", fmt.Sprintf("list features: %v", err))
		return 0, 0
	}
	// Prompts of a feature with an unreadable state file stall until an
	// operator repairs it; say so instead of going quiet.
	for _, id := range skipped {
		uc.logger.Warn(id, "watcher", "unreadable state file, feature skipped")
	}

	for _, st := range states {
		if st.Status.IsTerminal() {
			continue
		}

		agentDir := domain.AgentDir(in.HistoryRoot, st.FeatureID, in.AgentID)
		pendingPaths, err := queue.ListPending(agentDir)
		if err != nil {
			uc.logger.Error(st.FeatureID, "watcher", fmt.Sprintf("list pending: %v", err))
			continue
		}

		for _, path := range pendingPaths {
			if ctx.Err() != nil {
				return processed, failed
			}
			if err := uc.process(ctx, in, st.FeatureID, path); err != nil {
				failed++
				uc.logger.Error(st.FeatureID, "watcher", fmt.Sprintf("process %s: %v", path, err))
				continue
			}
			processed++
		}
	}
	return processed, failed
}

// process handles one pending prompt end to end. The prompt is archived
// only after its result is durably written; a failure at any step
// leaves it pending.
func (uc *RunWatcher) process(ctx context.Context, in RunWatcherInput, featureID, path string) error {
	task, err := queue.ReadPrompt(path)
	if err != nil {
		return err
	}

	conversationID := task.ConversationID
	if conversationID == "" {
		conversationID = domain.DefaultConversationID(task.FeatureID, task.AgentID)
	}

	history := uc.conversationHistory(in.HistoryRoot, task.FeatureID, task.AgentID, conversationID)

	output, err := uc.backend.Generate(ctx, task.PromptText, history)
	if err != nil {
		return err
	}
	output = strings.TrimSpace(output)

	result := domain.ResultTask{
		FeatureID:      task.FeatureID,
		AgentID:        task.AgentID,
		OutputText:     output,
		PromptHash:     audit.Hash(task.PromptText),
		OutputHash:     audit.Hash(output),
		ConversationID: conversationID,
		Timestamp:      uc.clock.Now(),
		Artifact:       queue.ExtractArtifact(output),
	}
	if _, err := queue.WriteResult(in.HistoryRoot, task.FeatureID, task.AgentID, result); err != nil {
		return err
	}

	if _, err := queue.MarkProcessed(path); err != nil {
		return err
	}

	if result.Artifact != nil {
		uc.logger.Info(featureID, "watcher", fmt.Sprintf("result with %d code patches written for %s", result.Artifact.FileCount(), task.AgentID))
	} else {
		uc.logger.Info(featureID, "watcher", fmt.Sprintf("result written for %s", task.AgentID))
	}
	return nil
}

// conversationHistory rebuilds prior turns of a conversation from the
// archived prompts and written results of the (feature, agent) pair,
// oldest first. Entries belonging to other conversations are skipped.
func (uc *RunWatcher) conversationHistory(historyRoot, featureID, agentID, conversationID string) []domain.Message {
	agentDir := domain.AgentDir(historyRoot, featureID, agentID)

	var messages []domain.Message
	for _, entry := range chronological(agentDir) {
		switch entry.kind {
		case entryPrompt:
			task, err := queue.ReadPrompt(entry.path)
			if err != nil {
				continue
			}
			id := task.ConversationID
			if id == "" {
				id = domain.DefaultConversationID(task.FeatureID, task.AgentID)
			}
			if id != conversationID {
				continue
			}
			messages = append(messages, domain.Message{Role: domain.RoleUser, Content: task.PromptText})
		case entryResult:
			content, meta, err := readResult(entry.path)
			if err != nil {
				continue
			}
			if meta["conversation_id"] != conversationID {
				continue
			}
			messages = append(messages, domain.Message{Role: domain.RoleAssistant, Content: content})
		}
	}
	return messages
}
