package domain

import "errors"

// Domain errors.
var (
	ErrInvalidFeatureID   = errors.New("invalid feature id")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidFormat      = errors.New("invalid task file format")
	ErrPromptNotFound     = errors.New("prompt file not found")
	ErrStateNotFound      = errors.New("state file not found")
	ErrStateFile          = errors.New("state file operation failed")
	ErrFeatureNotFound    = errors.New("feature not found")
	ErrHistoryRootInvalid = errors.New("history root is not a git repository")
	ErrWorkspace          = errors.New("workspace operation failed")
	ErrBranchExists       = errors.New("feature branch already exists")
	ErrBaseBranchMissing  = errors.New("base branch not found")
	ErrGeneration         = errors.New("generation failed")
	ErrBackendUnavailable = errors.New("backend not available")
	ErrUnknownBackend     = errors.New("unknown backend variant")
	ErrNotGitRepository   = errors.New("not a git repository")
)
