// Package worktree provides the git worktree-based workspace provider.
// Each feature gets an isolated working directory on its own branch so
// agent-generated changes never touch the main checkout.
package worktree

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/weftlabs/weft/internal/domain"
)

// Client manages feature workspaces as git worktrees under
// <repo>/worktrees/<feature> on branch feature/<feature>.
type Client struct{}

// NewClient creates a worktree client.
func NewClient() *Client {
	return &Client{}
}

var _ domain.WorkspaceProvider = (*Client)(nil)

// Create creates the worktree and branch for a feature and returns the
// worktree path. The branch is created from baseBranch; a branch that
// already exists or a missing base branch is reported distinctly so
// callers can give an actionable message.
func (c *Client) Create(repoPath, featureID, baseBranch string) (string, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("%w: open repository %s: %v", domain.ErrWorkspace, repoPath, err)
	}

	branch := domain.BranchName(featureID)
	if exists, err := branchExists(repo, branch); err != nil {
		return "", fmt.Errorf("%w: check branch %s: %v", domain.ErrWorkspace, branch, err)
	} else if exists {
		return "", fmt.Errorf("%w: %s", domain.ErrBranchExists, branch)
	}
	if exists, err := branchExists(repo, baseBranch); err != nil {
		return "", fmt.Errorf("%w: check base branch %s: %v", domain.ErrWorkspace, baseBranch, err)
	} else if !exists {
		return "", fmt.Errorf("%w: %s", domain.ErrBaseBranchMissing, baseBranch)
	}

	path := domain.WorktreePath(repoPath, featureID)
	cmd := exec.Command("git", "worktree", "add", "-b", branch, path, baseBranch)
	cmd.Dir = repoPath
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: create worktree: %v: %s", domain.ErrWorkspace, err, strings.TrimSpace(string(out)))
	}
	return path, nil
}

// Remove deletes a feature's worktree and branch. A worktree whose
// directory is already gone is pruned rather than failing, so Remove
// can serve as rollback after a partially failed Create.
func (c *Client) Remove(repoPath, featureID string) error {
	path := domain.WorktreePath(repoPath, featureID)

	if _, err := os.Stat(path); err == nil {
		cmd := exec.Command("git", "worktree", "remove", "--force", path)
		cmd.Dir = repoPath
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%w: remove worktree: %v: %s", domain.ErrWorkspace, err, strings.TrimSpace(string(out)))
		}
	} else {
		cmd := exec.Command("git", "worktree", "prune")
		cmd.Dir = repoPath
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%w: prune worktrees: %v: %s", domain.ErrWorkspace, err, strings.TrimSpace(string(out)))
		}
	}

	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("%w: open repository %s: %v", domain.ErrWorkspace, repoPath, err)
	}

	branch := domain.BranchName(featureID)
	exists, err := branchExists(repo, branch)
	if err != nil {
		return fmt.Errorf("%w: check branch %s: %v", domain.ErrWorkspace, branch, err)
	}
	if !exists {
		return nil
	}

	cmd := exec.Command("git", "branch", "-D", branch)
	cmd.Dir = repoPath
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: delete branch %s: %v: %s", domain.ErrWorkspace, branch, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func branchExists(repo *git.Repository, name string) (bool, error) {
	_, err := repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	return false, err
}
