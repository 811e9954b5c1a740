package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/weftlabs/weft/internal/domain"
)

// WaitResultInput contains the parameters for awaiting an agent result.
// Fields are ordered to minimize memory padding.
type WaitResultInput struct {
	FeatureID    string
	AgentID      string
	HistoryRoot  string
	After        time.Time
	PollInterval time.Duration
}

// WaitResultOutput contains the result file that appeared.
type WaitResultOutput struct {
	Path    string
	Content string
}

// WaitResult is the use case for blocking until an agent produces a
// result newer than a floor timestamp.
type WaitResult struct {
	logger domain.Logger
}

// NewWaitResult creates a new WaitResult use case.
func NewWaitResult(logger domain.Logger) *WaitResult {
	return &WaitResult{logger: logger}
}

// Execute polls the agent's outgoing directory until a result written
// after in.After appears or the context ends. The deadline lives on the
// context so callers own the timeout policy.
func (uc *WaitResult) Execute(ctx context.Context, in WaitResultInput) (*WaitResultOutput, error) {
	interval := in.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	outDir := filepath.Join(domain.AgentDir(in.HistoryRoot, in.FeatureID, in.AgentID), domain.OutgoingDirName)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if path, ok := newestResultAfter(outDir, in.After); ok {
			content, err := os.ReadFile(path) //nolint:gosec // path comes from directory listing
			if err != nil {
				return nil, fmt.Errorf("read result %s: %w", path, err)
			}
			uc.logger.Debug(in.FeatureID, "wait", fmt.Sprintf("result from %s: %s", in.AgentID, filepath.Base(path)))
			return &WaitResultOutput{Path: path, Content: string(content)}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for %s/%s result: %w", in.FeatureID, in.AgentID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// newestResultAfter returns the most recent result file modified after
// the floor, if any. Results are write-once, so modification time is
// the creation time.
func newestResultAfter(outDir string, after time.Time) (string, bool) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", false
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), domain.PendingExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(after) {
			found = append(found, candidate{path: filepath.Join(outDir, entry.Name()), modTime: info.ModTime()})
		}
	}
	if len(found) == 0 {
		return "", false
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].modTime.After(found[j].modTime)
	})
	return found[0].path, true
}
