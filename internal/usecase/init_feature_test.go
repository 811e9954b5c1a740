package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/state"
	"github.com/weftlabs/weft/internal/testutil"
)

func newStateStore(t *testing.T) (*state.Store, string) {
	t.Helper()
	root := t.TempDir()
	clock := &testutil.MockClock{NowTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return state.New(root, clock), root
}

func TestInitFeature_Execute_Success(t *testing.T) {
	states, historyRoot := newStateStore(t)
	workspaces := &testutil.MockWorkspaceProvider{}
	logger := &testutil.MockLogger{}

	uc := NewInitFeature(workspaces, states, logger)
	out, err := uc.Execute(context.Background(), InitFeatureInput{
		FeatureID:   "feat-auth",
		RepoPath:    "/repo",
		HistoryRoot: historyRoot,
		BaseBranch:  "main",
		Agents:      []string{"00-meta", "01-architect"},
	})
	require.NoError(t, err)

	assert.Equal(t, "feat-auth", out.FeatureID)
	assert.Equal(t, domain.WorktreePath("/repo", "feat-auth"), out.WorkspacePath)
	assert.Equal(t, filepath.Join(historyRoot, "feat-auth"), out.HistoryPath)
	assert.Equal(t, []string{"00-meta", "01-architect"}, out.Agents)

	require.Len(t, workspaces.CreateCalls, 1)
	assert.Equal(t, "main", workspaces.CreateCalls[0].BaseBranch)

	assert.DirExists(t, filepath.Join(historyRoot, "feat-auth", "01-architect", "incoming"))

	st, err := states.Load("feat-auth")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, st.Status)
}

func TestInitFeature_Execute_DefaultAgents(t *testing.T) {
	states, historyRoot := newStateStore(t)

	uc := NewInitFeature(&testutil.MockWorkspaceProvider{}, states, &testutil.MockLogger{})
	out, err := uc.Execute(context.Background(), InitFeatureInput{
		FeatureID:   "feat-auth",
		RepoPath:    "/repo",
		HistoryRoot: historyRoot,
		BaseBranch:  "main",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAgents(), out.Agents)
}

func TestInitFeature_Execute_InvalidID(t *testing.T) {
	states, historyRoot := newStateStore(t)
	workspaces := &testutil.MockWorkspaceProvider{}

	uc := NewInitFeature(workspaces, states, &testutil.MockLogger{})

	for _, id := range []string{"", "ab", "1feature", "feat space", "-leading"} {
		_, err := uc.Execute(context.Background(), InitFeatureInput{
			FeatureID:   id,
			RepoPath:    "/repo",
			HistoryRoot: historyRoot,
			BaseBranch:  "main",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidFeatureID, "id %q", id)
	}
	// Validation failures never touch the workspace provider.
	assert.Empty(t, workspaces.CreateCalls)
}

func TestInitFeature_Execute_WorkspaceFailure(t *testing.T) {
	states, historyRoot := newStateStore(t)
	workspaces := &testutil.MockWorkspaceProvider{CreateErr: domain.ErrBranchExists}

	uc := NewInitFeature(workspaces, states, &testutil.MockLogger{})
	_, err := uc.Execute(context.Background(), InitFeatureInput{
		FeatureID:   "feat-auth",
		RepoPath:    "/repo",
		HistoryRoot: historyRoot,
		BaseBranch:  "main",
	})
	assert.ErrorIs(t, err, domain.ErrBranchExists)

	// No state was persisted either.
	_, err = states.Load("feat-auth")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestInitFeature_Execute_HistoryFailureRollsBackWorkspace(t *testing.T) {
	states, historyRoot := newStateStore(t)
	workspaces := &testutil.MockWorkspaceProvider{}

	// Make history creation fail: a file blocks the feature directory.
	blockPath := filepath.Join(historyRoot, "feat-auth")
	require.NoError(t, writeFile(t, blockPath, "in the way"))

	uc := NewInitFeature(workspaces, states, &testutil.MockLogger{})
	_, err := uc.Execute(context.Background(), InitFeatureInput{
		FeatureID:   "feat-auth",
		RepoPath:    "/repo",
		HistoryRoot: historyRoot,
		BaseBranch:  "main",
	})
	require.Error(t, err)

	// Workspace and history were created as one unit; the workspace is
	// removed when the history tree cannot be built.
	require.Len(t, workspaces.RemoveCalls, 1)
	assert.Equal(t, "feat-auth", workspaces.RemoveCalls[0].FeatureID)
}

func TestInitFeature_Execute_StateFailureRollsBackWorkspaceAndHistory(t *testing.T) {
	states, historyRoot := newStateStore(t)
	workspaces := &testutil.MockWorkspaceProvider{}

	// Make state persistence fail: a directory occupies the state file
	// path, so the atomic rename cannot land.
	statePath := domain.StateFilePath(historyRoot, "feat-auth")
	require.NoError(t, os.MkdirAll(statePath, 0o750))

	uc := NewInitFeature(workspaces, states, &testutil.MockLogger{})
	_, err := uc.Execute(context.Background(), InitFeatureInput{
		FeatureID:   "feat-auth",
		RepoPath:    "/repo",
		HistoryRoot: historyRoot,
		BaseBranch:  "main",
	})
	require.Error(t, err)

	// Both halves of the unit are rolled back: the workspace and the
	// freshly created history tree.
	require.Len(t, workspaces.RemoveCalls, 1)
	assert.NoDirExists(t, filepath.Join(historyRoot, "feat-auth"))
}
