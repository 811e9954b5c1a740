// Package backend provides the generative backends that turn agent
// prompts into results. The variant set is closed: an unrecognized
// name in configuration is a hard error rather than a silent fallback.
package backend

import (
	"fmt"

	"github.com/weftlabs/weft/internal/domain"
)

// New builds the backend selected by the configuration.
func New(cfg domain.BackendConfig) (domain.Backend, error) {
	switch cfg.Variant {
	case domain.BackendAnthropic:
		return NewAnthropic(cfg), nil
	case domain.BackendLocal:
		return NewLocal(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, cfg.Variant)
	}
}
