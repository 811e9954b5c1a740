// Package git provides repository detection for the CLI entry point.
package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/weftlabs/weft/internal/domain"
)

// Client describes the repository the command runs in.
type Client struct {
	repoRoot   string // main repository root (parent of .git)
	workingDir string // toplevel of the current worktree or main repo
}

// NewClient detects the repository containing dir. It works both in the
// main checkout and inside feature worktrees.
func NewClient(dir string) (*Client, error) {
	cmd := exec.Command("git", "rev-parse", "--git-common-dir")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, domain.ErrNotGitRepository
	}
	gitDir := strings.TrimSpace(string(out))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}

	cmd = exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	toplevel, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("find toplevel: %w", err)
	}

	return &Client{
		repoRoot:   filepath.Dir(filepath.Clean(gitDir)),
		workingDir: strings.TrimSpace(string(toplevel)),
	}, nil
}

// RepoRoot returns the main repository root directory.
func (c *Client) RepoRoot() string {
	return c.repoRoot
}

// CurrentBranch returns the branch checked out in the working directory.
func (c *Client) CurrentBranch() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = c.workingDir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
