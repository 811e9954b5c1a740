// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/weftlabs/weft/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward and returns the new time.
func (m *MockClock) Advance(d time.Duration) time.Time {
	m.NowTime = m.NowTime.Add(d)
	return m.NowTime
}

// WorkspaceCall records the arguments of one provider invocation.
type WorkspaceCall struct {
	RepoPath   string
	FeatureID  string
	BaseBranch string
}

// MockWorkspaceProvider is a test double for domain.WorkspaceProvider.
// Fields are ordered to minimize memory padding.
type MockWorkspaceProvider struct {
	CreateErr   error
	RemoveErr   error
	CreatedPath string
	CreateCalls []WorkspaceCall
	RemoveCalls []WorkspaceCall
}

// Create records the call and returns the configured path or error.
func (m *MockWorkspaceProvider) Create(repoPath, featureID, baseBranch string) (string, error) {
	m.CreateCalls = append(m.CreateCalls, WorkspaceCall{RepoPath: repoPath, FeatureID: featureID, BaseBranch: baseBranch})
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	if m.CreatedPath != "" {
		return m.CreatedPath, nil
	}
	return domain.WorktreePath(repoPath, featureID), nil
}

// Remove records the call and returns the configured error.
func (m *MockWorkspaceProvider) Remove(repoPath, featureID string) error {
	m.RemoveCalls = append(m.RemoveCalls, WorkspaceCall{RepoPath: repoPath, FeatureID: featureID})
	return m.RemoveErr
}

// MockBackend is a test double for domain.Backend.
// Fields are ordered to minimize memory padding.
type MockBackend struct {
	GenerateErr error
	Output      string
	Prompts     []string
	Histories   [][]domain.Message
}

// Generate records the call and returns the configured output or error.
func (m *MockBackend) Generate(_ context.Context, prompt string, history []domain.Message) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	m.Histories = append(m.Histories, history)
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return m.Output, nil
}

// LogEntry records one logger invocation.
type LogEntry struct {
	FeatureID string
	Category  string
	Message   string
	Level     string
}

// MockLogger is a test double for domain.Logger that records entries.
type MockLogger struct {
	Entries []LogEntry
}

// Debug records a debug entry.
func (m *MockLogger) Debug(featureID, category, msg string) {
	m.append("debug", featureID, category, msg)
}

// Info records an info entry.
func (m *MockLogger) Info(featureID, category, msg string) {
	m.append("info", featureID, category, msg)
}

// Warn records a warn entry.
func (m *MockLogger) Warn(featureID, category, msg string) {
	m.append("warn", featureID, category, msg)
}

// Error records an error entry.
func (m *MockLogger) Error(featureID, category, msg string) {
	m.append("error", featureID, category, msg)
}

// HasMessage reports whether any recorded entry contains the substring.
func (m *MockLogger) HasMessage(substr string) bool {
	for _, e := range m.Entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func (m *MockLogger) append(level, featureID, category, msg string) {
	m.Entries = append(m.Entries, LogEntry{Level: level, FeatureID: featureID, Category: category, Message: msg})
}
