// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/weftlabs/weft/internal/domain"
)

var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	weftDir       string // path to the repo's .weft directory
	globalConfDir string // path to the global config directory (e.g. ~/.config/weft)
}

// NewLoader creates a new Loader.
func NewLoader(weftDir string) *Loader {
	return &Loader{
		weftDir:       weftDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config
// directory. This is useful for testing.
func NewLoaderWithGlobalDir(weftDir, globalConfDir string) *Loader {
	return &Loader{
		weftDir:       weftDir,
		globalConfDir: globalConfDir,
	}
}

func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalWeftDir(configHome)
}

// Load returns the merged configuration. Precedence: defaults, then the
// global file, then the repository file. Missing files are fine; a file
// that exists but does not parse is an error.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		if err := mergeFile(base, filepath.Join(l.globalConfDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}
	if err := mergeFile(base, filepath.Join(l.weftDir, domain.ConfigFileName)); err != nil {
		return nil, err
	}

	if err := validate(base); err != nil {
		return nil, err
	}
	return base, nil
}

// mergeFile unmarshals a TOML file on top of cfg. Keys absent from the
// file keep their current values.
func mergeFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // fixed config file locations
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func validate(cfg *domain.Config) error {
	switch cfg.Backend.Variant {
	case domain.BackendAnthropic, domain.BackendLocal:
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownBackend, cfg.Backend.Variant)
	}
	if cfg.Watcher.PollSeconds <= 0 {
		cfg.Watcher.PollSeconds = 1
	}
	if len(cfg.Agents) == 0 {
		cfg.Agents = domain.DefaultAgents()
	}
	return nil
}
