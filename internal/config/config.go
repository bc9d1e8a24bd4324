package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names for the session store.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ValidBackends lists all supported state backends.
var ValidBackends = []string{BackendFile, BackendSQLite}

// ValidLogLevels lists the accepted log levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds mapbench settings from config.yaml.
type Config struct {
	// DefaultSession is used when --session is not given
	DefaultSession string `yaml:"default_session"`

	State StateConfig `yaml:"state"`
	Log   LogConfig   `yaml:"log"`
	UI    UIConfig    `yaml:"ui"`
}

// StateConfig selects where sessions are stored.
type StateConfig struct {
	Backend string `yaml:"backend"` // file, sqlite
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// UIConfig configures the interactive workbench.
type UIConfig struct {
	// Watch reloads the session when its file changes on disk
	Watch bool `yaml:"watch"`

	// Debounce collapses bursts of file events
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultSession: "default",
		State: StateConfig{
			Backend: BackendFile,
		},
		Log: LogConfig{
			Level: "warn",
		},
		UI: UIConfig{
			Watch:    true,
			Debounce: "200ms",
		},
	}
}

// Load reads config.yaml at path on top of the defaults. A missing file
// yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if s := os.Getenv("MAPBENCH_SESSION"); s != "" {
		c.DefaultSession = s
	}
	if b := os.Getenv("MAPBENCH_BACKEND"); b != "" {
		c.State.Backend = b
	}
	if l := os.Getenv("MAPBENCH_LOG_LEVEL"); l != "" {
		c.Log.Level = l
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !slices.Contains(ValidBackends, c.State.Backend) {
		return fmt.Errorf("invalid state backend: %s (valid: %v)", c.State.Backend, ValidBackends)
	}
	if !slices.Contains(ValidLogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Log.Level, ValidLogLevels)
	}
	if _, err := time.ParseDuration(c.UI.Debounce); err != nil {
		return fmt.Errorf("invalid ui.debounce %q: %w", c.UI.Debounce, err)
	}
	return nil
}

// GetDebounce returns the watcher debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.UI.Debounce)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}
