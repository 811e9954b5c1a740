package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/domain"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-b", "main"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o600))
	for _, args := range [][]string{
		{"add", "."},
		{"commit", "-m", "initial"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	return dir
}

func TestNewClient(t *testing.T) {
	repo := initRepo(t)

	client, err := NewClient(repo)
	require.NoError(t, err)

	// TempDir may contain symlinked segments; resolve both sides.
	wantRoot, err := filepath.EvalSymlinks(repo)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(client.RepoRoot())
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)

	branch, err := client.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestNewClient_Subdirectory(t *testing.T) {
	repo := initRepo(t)
	sub := filepath.Join(repo, "internal", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	client, err := NewClient(sub)
	require.NoError(t, err)

	wantRoot, err := filepath.EvalSymlinks(repo)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(client.RepoRoot())
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
}

func TestNewClient_NotARepo(t *testing.T) {
	_, err := NewClient(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrNotGitRepository)
}
