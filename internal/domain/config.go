package domain

import "time"

// Config is the application configuration. It is constructed once at
// process start and passed by reference; there is no global mutable state.
type Config struct {
	History HistoryConfig `toml:"history"`
	Backend BackendConfig `toml:"backend"`
	Watcher WatcherConfig `toml:"watcher"`
	Log     LogConfig     `toml:"log"`

	// BaseBranch is the default base branch for new feature workspaces.
	BaseBranch string `toml:"base_branch"`

	// Agents is the agent pipeline for new features.
	Agents []string `toml:"agents"`
}

// HistoryConfig holds settings for the audit history repository.
type HistoryConfig struct {
	// Path to the history root. Relative paths resolve against the code repo.
	Path string `toml:"path"`
}

// Backend variant names. The set is closed; configuration naming
// anything else is rejected at construction time.
const (
	BackendAnthropic = "anthropic"
	BackendLocal     = "local"
)

// BackendConfig selects and configures the generative backend.
type BackendConfig struct {
	// Variant names the backend: "anthropic" or "local".
	Variant string `toml:"variant"`

	// Model is the model identifier for hosted backends.
	Model string `toml:"model"`

	// APIKey overrides the environment-provided key (normally unset).
	APIKey string `toml:"api_key"`

	// MaxTokens caps the output length per generation.
	MaxTokens int `toml:"max_tokens"`

	// MaxRetries bounds the retry loop for retryable failures.
	MaxRetries int `toml:"max_retries"`
}

// WatcherConfig holds agent watcher settings.
type WatcherConfig struct {
	// PollSeconds is the queue polling interval in seconds.
	PollSeconds int `toml:"poll_seconds"`
}

// PollInterval returns the polling interval as a duration.
func (w WatcherConfig) PollInterval() time.Duration {
	return time.Duration(w.PollSeconds) * time.Second
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error.
	Level string `toml:"level"`
}

// NewDefaultConfig returns the configuration defaults.
func NewDefaultConfig() *Config {
	return &Config{
		History:    HistoryConfig{Path: ".weft/history"},
		BaseBranch: "main",
		Agents:     DefaultAgents(),
		Backend: BackendConfig{
			Variant:    BackendAnthropic,
			Model:      "claude-3-5-sonnet-20241022",
			MaxTokens:  4096,
			MaxRetries: 3,
		},
		Watcher: WatcherConfig{PollSeconds: 2},
		Log:     LogConfig{Level: "info"},
	}
}
