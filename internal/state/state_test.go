package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/domain"
	"github.com/weftlabs/weft/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, *testutil.MockClock) {
	t.Helper()
	clock := &testutil.MockClock{NowTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return New(t.TempDir(), clock), clock
}

func TestStore_CreateInitialAndLoad(t *testing.T) {
	store, clock := newTestStore(t)

	created, err := store.CreateInitial("feat-auth")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, created.Status)
	assert.Equal(t, clock.NowTime, created.CreatedAt)

	loaded, err := store.Load("feat-auth")
	require.NoError(t, err)
	assert.Equal(t, created, loaded)
	require.Len(t, loaded.Transitions, 1)
	assert.Equal(t, domain.StatusDraft, loaded.Transitions[0].To)
}

func TestStore_CreateInitialRejectsExisting(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.CreateInitial("feat-auth")
	require.NoError(t, err)

	_, err = store.CreateInitial("feat-auth")
	assert.Error(t, err)
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load("never-created")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestStore_LoadCorrupt(t *testing.T) {
	store, _ := newTestStore(t)

	path := domain.StateFilePath(store.historyRoot, "feat-bad")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("{{{not yaml"), 0o600))

	_, err := store.Load("feat-bad")
	assert.ErrorIs(t, err, domain.ErrStateFile)
}

func TestStore_LoadUnknownStatus(t *testing.T) {
	store, _ := newTestStore(t)

	path := domain.StateFilePath(store.historyRoot, "feat-bad")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("feature_id: feat-bad\nstatus: launched\n"), 0o600))

	_, err := store.Load("feat-bad")
	assert.ErrorIs(t, err, domain.ErrStateFile)
}

func TestStore_GetOrCreate(t *testing.T) {
	store, _ := newTestStore(t)

	st, err := store.GetOrCreate("feat-lazy")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, st.Status)

	// State file now exists; a second call loads, not re-creates.
	_, err = store.Transition("feat-lazy", domain.StatusInProgress, "work started")
	require.NoError(t, err)

	again, err := store.GetOrCreate("feat-lazy")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, again.Status)
}

func TestStore_GetOrCreateDoesNotMaskCorruption(t *testing.T) {
	store, _ := newTestStore(t)

	path := domain.StateFilePath(store.historyRoot, "feat-bad")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("{{{not yaml"), 0o600))

	_, err := store.GetOrCreate("feat-bad")
	assert.ErrorIs(t, err, domain.ErrStateFile)
}

func TestStore_Transition(t *testing.T) {
	store, clock := newTestStore(t)

	_, err := store.CreateInitial("feat-auth")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	st, err := store.Transition("feat-auth", domain.StatusInProgress, "prompts submitted")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, st.Status)
	assert.Equal(t, clock.NowTime, st.LastActivity)

	loaded, err := store.Load("feat-auth")
	require.NoError(t, err)
	require.Len(t, loaded.Transitions, 2)
	assert.Equal(t, domain.StatusDraft, loaded.Transitions[1].From)
	assert.Equal(t, domain.StatusInProgress, loaded.Transitions[1].To)
	assert.Equal(t, "prompts submitted", loaded.Transitions[1].Reason)
}

func TestStore_TransitionInvalidLeavesFileUntouched(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.CreateInitial("feat-auth")
	require.NoError(t, err)

	_, err = store.Transition("feat-auth", domain.StatusCompleted, "skipping ahead")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	loaded, err := store.Load("feat-auth")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, loaded.Status)
	assert.Len(t, loaded.Transitions, 1)
}

func TestStore_TransitionMissingFeature(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Transition("ghost", domain.StatusInProgress, "x")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestStore_List(t *testing.T) {
	store, _ := newTestStore(t)

	for _, id := range []string{"feat-c", "feat-a", "feat-b"} {
		_, err := store.CreateInitial(id)
		require.NoError(t, err)
	}

	// A directory with a corrupt state file is skipped, not fatal.
	badPath := domain.StateFilePath(store.historyRoot, "feat-corrupt")
	require.NoError(t, os.MkdirAll(filepath.Dir(badPath), 0o750))
	require.NoError(t, os.WriteFile(badPath, []byte("{{{"), 0o600))

	// So is a feature directory with no state file at all.
	require.NoError(t, os.MkdirAll(filepath.Join(store.historyRoot, "feat-stateless"), 0o750))

	states, skipped, err := store.List()
	require.NoError(t, err)

	ids := make([]string, 0, len(states))
	for _, st := range states {
		ids = append(ids, st.FeatureID)
	}
	assert.Equal(t, []string{"feat-a", "feat-b", "feat-c"}, ids)
	assert.ElementsMatch(t, []string{"feat-corrupt", "feat-stateless"}, skipped)
}

func TestStore_ListIgnoresDotDirectories(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.CreateInitial("feat-a")
	require.NoError(t, err)

	// The history root is itself a git repository; its .git directory
	// (and any other dot directory) is not a feature.
	require.NoError(t, os.MkdirAll(filepath.Join(store.historyRoot, ".git", "objects"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(store.historyRoot, ".weft-cache"), 0o750))

	states, skipped, err := store.List()
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "feat-a", states[0].FeatureID)
	assert.Empty(t, skipped)
}

func TestStore_ListMissingRoot(t *testing.T) {
	clock := &testutil.MockClock{NowTime: time.Now()}
	store := New(filepath.Join(t.TempDir(), "nonexistent"), clock)

	states, skipped, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, states)
	assert.Empty(t, skipped)
}

func TestStore_ListByStatus(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.CreateInitial("feat-a")
	require.NoError(t, err)
	_, err = store.CreateInitial("feat-b")
	require.NoError(t, err)
	_, err = store.Transition("feat-b", domain.StatusInProgress, "go")
	require.NoError(t, err)

	drafts, err := store.ListByStatus(domain.StatusDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "feat-a", drafts[0].FeatureID)

	done, err := store.ListByStatus(domain.StatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, done)
}

func TestStore_SaveRoundTripPreservesTimestamps(t *testing.T) {
	store, clock := newTestStore(t)

	st := domain.NewFeatureState("feat-rt", clock.NowTime)
	require.NoError(t, store.Save(st))

	loaded, err := store.Load("feat-rt")
	require.NoError(t, err)
	assert.True(t, loaded.CreatedAt.Equal(st.CreatedAt))
	assert.True(t, loaded.LastActivity.Equal(st.LastActivity))
}
