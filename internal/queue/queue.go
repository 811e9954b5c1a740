// Package queue implements the file-based task queue used to exchange
// prompts and results with agent processes. All writes are atomic:
// content goes to a sibling temporary file first and is renamed into
// place, so readers never observe a partially written entry.
package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/weftlabs/weft/internal/domain"
)

// timestampFormat names queue entries with sub-second precision so that
// rapid revision-less submissions never collide.
const timestampFormat = "20060102_150405"

// WritePrompt writes a prompt into the agent's incoming directory and
// returns the created path. A task with an explicit revision gets a
// deterministic name, so resubmitting the same revision overwrites it
// (last writer wins). Otherwise the name carries a UTC timestamp with
// microsecond resolution.
func WritePrompt(historyRoot, featureID, agentID string, task domain.PromptTask) (string, error) {
	inDir := filepath.Join(domain.AgentDir(historyRoot, featureID, agentID), domain.IncomingDirName)
	if err := os.MkdirAll(inDir, 0o750); err != nil {
		return "", fmt.Errorf("create incoming directory: %w", err)
	}

	var filename string
	if task.Revision > 0 {
		filename = fmt.Sprintf("%s_prompt_v%d%s", domain.SanitizeFeatureID(featureID), task.Revision, domain.PendingExt)
	} else {
		filename = timestampedName(time.Now().UTC(), "prompt")
	}

	target := filepath.Join(inDir, filename)
	if err := atomicWrite(target, MarshalPrompt(task)); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	return target, nil
}

// ReadPrompt reads and parses a prompt file. A missing file returns
// ErrPromptNotFound; unparsable content returns ErrInvalidFormat with
// the offending path.
func ReadPrompt(path string) (domain.PromptTask, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path comes from queue listing
	if err != nil {
		if os.IsNotExist(err) {
			return domain.PromptTask{}, fmt.Errorf("%w: %s", domain.ErrPromptNotFound, path)
		}
		return domain.PromptTask{}, fmt.Errorf("read prompt %s: %w", path, err)
	}

	task, err := UnmarshalPrompt(string(content))
	if err != nil {
		return domain.PromptTask{}, fmt.Errorf("%s: %w", path, err)
	}
	return task, nil
}

// WriteResult writes a result into the agent's outgoing directory.
// Result names are always timestamp-based: results are append-only and
// never revised in place.
func WriteResult(historyRoot, featureID, agentID string, task domain.ResultTask) (string, error) {
	outDir := filepath.Join(domain.AgentDir(historyRoot, featureID, agentID), domain.OutgoingDirName)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return "", fmt.Errorf("create outgoing directory: %w", err)
	}

	target := filepath.Join(outDir, timestampedName(time.Now().UTC(), "result"))
	if err := atomicWrite(target, MarshalResult(task)); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return target, nil
}

// MarkProcessed renames a pending entry to its archived extension, in
// place, and returns the new path. This is the sole transition out of
// pending and is irreversible: once the rename succeeds the entry
// vanishes from pending listings, so racing pollers cannot both win.
func MarkProcessed(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrPromptNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	processed := strings.TrimSuffix(path, filepath.Ext(path)) + domain.ProcessedExt
	if err := os.Rename(path, processed); err != nil {
		return "", fmt.Errorf("mark processed: %w", err)
	}
	return processed, nil
}

// ListPending returns the pending entries in an agent's incoming
// directory, ordered by file modification time ascending. Queue entries
// are written once and never touched again, so modification time is the
// creation time; names are not chronologically sortable because
// revision-based names carry no timestamp. A missing directory yields
// an empty list, not an error.
func ListPending(agentDir string) ([]string, error) {
	inDir := filepath.Join(agentDir, domain.IncomingDirName)

	entries, err := os.ReadDir(inDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list incoming directory: %w", err)
	}

	type pending struct {
		path    string
		modTime time.Time
	}
	var found []pending
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != domain.PendingExt {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Entry vanished between listing and stat; a racing poller
			// archived it.
			continue
		}
		found = append(found, pending{
			path:    filepath.Join(inDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].modTime.Before(found[j].modTime)
	})

	paths := make([]string, 0, len(found))
	for _, p := range found {
		paths = append(paths, p.path)
	}
	return paths, nil
}

// timestampedName builds a unique queue entry name: UTC timestamp,
// microseconds, kind suffix, pending extension.
func timestampedName(now time.Time, kind string) string {
	return fmt.Sprintf("%s_%06d_%s%s",
		now.Format(timestampFormat),
		now.Nanosecond()/1000,
		kind,
		domain.PendingExt,
	)
}

// atomicWrite writes content to a temporary file in the target's
// directory, then renames it into place. A crash between the two steps
// leaves either nothing under the final name or an orphaned *.tmp file
// that the pending-entry discovery pattern never matches.
func atomicWrite(target, content string) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".weft-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
