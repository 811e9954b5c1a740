package backend

import (
	"context"
	"fmt"

	"github.com/weftlabs/weft/internal/domain"
)

// Local is a placeholder for an on-machine model runtime. No runtime is
// wired yet, so every generation fails with ErrBackendUnavailable: a
// watcher misconfigured to use it stops visibly instead of producing
// degraded results that would poison the audit trail.
type Local struct{}

var _ domain.Backend = (*Local)(nil)

// NewLocal creates the local backend.
func NewLocal() *Local {
	return &Local{}
}

// Generate always fails; see the type comment.
func (l *Local) Generate(_ context.Context, _ string, _ []domain.Message) (string, error) {
	return "", fmt.Errorf("%w: local backend has no model runtime configured", domain.ErrBackendUnavailable)
}
