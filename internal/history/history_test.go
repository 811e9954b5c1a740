package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/domain"
)

func TestEnsureRoot_InitializesMissingDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "history")

	require.NoError(t, EnsureRoot(root))

	_, err := git.PlainOpen(root)
	assert.NoError(t, err)

	// Idempotent on an already-initialized root.
	assert.NoError(t, EnsureRoot(root))
}

func TestEnsureRoot_RejectsNonRepoDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))

	err := EnsureRoot(root)
	assert.ErrorIs(t, err, domain.ErrHistoryRootInvalid)
}

func TestEnsureRoot_InitializesEmptyDirectory(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, EnsureRoot(root))

	_, err := git.PlainOpen(root)
	assert.NoError(t, err)
}

func TestCreateFeatureStructure(t *testing.T) {
	root := t.TempDir()
	agents := []string{"00-meta", "01-architect"}

	require.NoError(t, CreateFeatureStructure(root, "feat-x", agents))

	for _, agent := range agents {
		for _, sub := range []string{"incoming", "outgoing", "log"} {
			assert.DirExists(t, filepath.Join(root, "feat-x", agent, sub))
		}
	}

	// Idempotent.
	assert.NoError(t, CreateFeatureStructure(root, "feat-x", agents))
}

func TestCreateFeatureStructure_DefaultAgents(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, CreateFeatureStructure(root, "feat-x", nil))

	agents, err := FeatureAgents(root, "feat-x")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAgents(), agents)
}

func TestFeatureAgents_SkipsIncompleteLayouts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, CreateFeatureStructure(root, "feat-x", []string{"00-meta"}))

	// Missing the log subdirectory.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "feat-x", "99-broken", "incoming"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "feat-x", "99-broken", "outgoing"), 0o750))
	// Stray file alongside agent directories.
	require.NoError(t, os.WriteFile(filepath.Join(root, "feat-x", "state.yaml"), []byte("status: draft"), 0o600))

	agents, err := FeatureAgents(root, "feat-x")
	require.NoError(t, err)
	assert.Equal(t, []string{"00-meta"}, agents)
}

func TestFeatureAgents_MissingFeature(t *testing.T) {
	_, err := FeatureAgents(t.TempDir(), "ghost")
	assert.ErrorIs(t, err, domain.ErrFeatureNotFound)
}

func TestWriteDroppedMarker(t *testing.T) {
	root := t.TempDir()
	droppedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, WriteDroppedMarker(root, "feat-x", "superseded by feat-y", droppedAt))

	content, err := os.ReadFile(domain.DroppedMarkerPath(root, "feat-x"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "superseded by feat-y")
	assert.Contains(t, string(content), "2024-06-01T12:00:00Z")
}

func TestRemoveFeature(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, CreateFeatureStructure(root, "feat-x", []string{"00-meta"}))

	require.NoError(t, RemoveFeature(root, "feat-x"))
	assert.NoDirExists(t, filepath.Join(root, "feat-x"))

	err := RemoveFeature(root, "feat-x")
	assert.ErrorIs(t, err, domain.ErrFeatureNotFound)
}
