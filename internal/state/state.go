// Package state persists feature lifecycle state as one YAML file per
// feature under the history root. Writes go through a temporary file
// and a rename, matching the queue's atomicity guarantee.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/weftlabs/weft/internal/domain"
)

// Store reads and writes feature state files.
type Store struct {
	clock       domain.Clock
	historyRoot string
}

// New creates a Store rooted at the given history directory.
func New(historyRoot string, clock domain.Clock) *Store {
	return &Store{historyRoot: historyRoot, clock: clock}
}

// Load reads the state of a feature. A missing state file returns
// ErrStateNotFound; an unreadable or unparsable file returns
// ErrStateFile.
func (s *Store) Load(featureID string) (*domain.FeatureState, error) {
	path := domain.StateFilePath(s.historyRoot, featureID)

	content, err := os.ReadFile(path) //nolint:gosec // path derives from validated feature ID
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrStateNotFound, featureID)
		}
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStateFile, path, err)
	}

	var st domain.FeatureState
	if err := yaml.Unmarshal(content, &st); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrStateFile, path, err)
	}
	if !st.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s has unknown status %q", domain.ErrStateFile, path, st.Status)
	}
	return &st, nil
}

// Save writes a feature state atomically.
func (s *Store) Save(st *domain.FeatureState) error {
	path := domain.StateFilePath(s.historyRoot, st.FeatureID)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create feature directory: %w", err)
	}

	content, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state for %s: %w", st.FeatureID, err)
	}
	if err := atomicWrite(path, content); err != nil {
		return fmt.Errorf("save state for %s: %w", st.FeatureID, err)
	}
	return nil
}

// CreateInitial creates and persists a fresh draft state for a feature.
// An existing state file is an error: feature creation is not meant to
// reset history.
func (s *Store) CreateInitial(featureID string) (*domain.FeatureState, error) {
	if _, err := s.Load(featureID); err == nil {
		return nil, fmt.Errorf("state for %s already exists", featureID)
	}

	st := domain.NewFeatureState(featureID, s.clock.Now())
	if err := s.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// GetOrCreate loads a feature's state, creating a draft state on first
// access. Watcher processes use this so that a feature whose state file
// was never written (or was removed) still has a well-defined status.
func (s *Store) GetOrCreate(featureID string) (*domain.FeatureState, error) {
	st, err := s.Load(featureID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, domain.ErrStateNotFound) {
		return nil, err
	}

	st = domain.NewFeatureState(featureID, s.clock.Now())
	if err := s.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Transition loads a feature's state, applies the transition and
// persists the result. The persisted file only changes when the whole
// sequence succeeds; an invalid transition or a failed write leaves it
// untouched.
func (s *Store) Transition(featureID string, to domain.Status, reason string) (*domain.FeatureState, error) {
	st, err := s.Load(featureID)
	if err != nil {
		return nil, err
	}
	if err := st.Transition(to, reason, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// List returns the states of all features under the history root,
// sorted by feature ID. Directories whose state file is missing or
// corrupt are skipped rather than failing the whole listing; their IDs
// come back separately so callers can surface them.
func (s *Store) List() (states []*domain.FeatureState, skipped []string, err error) {
	entries, err := os.ReadDir(s.historyRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("list history root: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		st, err := s.Load(entry.Name())
		if err != nil {
			skipped = append(skipped, entry.Name())
			continue
		}
		states = append(states, st)
	}

	slices.SortFunc(states, func(a, b *domain.FeatureState) int {
		return strings.Compare(a.FeatureID, b.FeatureID)
	})
	return states, skipped, nil
}

// ListByStatus returns the states of all features currently in the
// given status, sorted by feature ID.
func (s *Store) ListByStatus(status domain.Status) ([]*domain.FeatureState, error) {
	all, _, err := s.List()
	if err != nil {
		return nil, err
	}

	filtered := make([]*domain.FeatureState, 0, len(all))
	for _, st := range all {
		if st.Status == status {
			filtered = append(filtered, st)
		}
	}
	return filtered, nil
}

func atomicWrite(target string, content []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
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
