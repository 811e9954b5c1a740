package usecase

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/weftlabs/weft/internal/audit"
	"github.com/weftlabs/weft/internal/domain"
)

type entryKind int

const (
	entryPrompt entryKind = iota
	entryResult
)

type conversationEntry struct {
	path    string
	modTime time.Time
	kind    entryKind
}

// chronological lists an agent's archived prompts and written results,
// oldest first. Both are write-once files, so modification time orders
// the conversation faithfully.
func chronological(agentDir string) []conversationEntry {
	var entries []conversationEntry

	collect := func(dir, ext string, kind entryKind) {
		dirEntries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range dirEntries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			entries = append(entries, conversationEntry{
				path:    filepath.Join(dir, e.Name()),
				modTime: info.ModTime(),
				kind:    kind,
			})
		}
	}

	collect(filepath.Join(agentDir, domain.IncomingDirName), domain.ProcessedExt, entryPrompt)
	collect(filepath.Join(agentDir, domain.OutgoingDirName), domain.PendingExt, entryResult)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime.Before(entries[j].modTime)
	})
	return entries
}

// readResult reads a result file, returning its body with the audit
// frontmatter stripped, plus the frontmatter fields.
func readResult(path string) (string, map[string]string, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from directory listing
	if err != nil {
		return "", nil, err
	}
	content := string(raw)
	meta := audit.ParseFrontmatter(content)
	body := strings.TrimSpace(audit.StripFrontmatter(content))
	return body, meta, nil
}
