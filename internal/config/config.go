// Package config loads and saves the critterfocus YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory under $HOME holding config, data, and logs.
const DirName = ".critterfocus"

// Config holds critterfocus configuration.
type Config struct {
	// DBPath is the SQLite database holding snapshots and the audit trail.
	DBPath string `yaml:"db_path"`
	// LogPath receives engine logs. Empty logs to stderr.
	LogPath string `yaml:"log_path"`
	// DefaultFocusMinutes is used when focus start/run get no --minutes.
	DefaultFocusMinutes int `yaml:"default_focus_minutes"`
	// MaxFocusMinutes caps a single focus session.
	MaxFocusMinutes int `yaml:"max_focus_minutes"`
	// ProgressPerSession is added to a task when a session completes.
	ProgressPerSession float64 `yaml:"progress_per_session"`
	// InjuryLabel is recorded on a creature when a session is abandoned.
	InjuryLabel string `yaml:"injury_label"`
}

// Dir returns ~/.critterfocus, or .critterfocus when $HOME is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath is the config file used when --config is not given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		DBPath:              filepath.Join(dir, "critter.db"),
		LogPath:             filepath.Join(dir, "critter.log"),
		DefaultFocusMinutes: 25,
		MaxFocusMinutes:     120,
		ProgressPerSession:  1,
		InjuryLabel:         "Abandoned focus session",
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.LogPath = expandHome(cfg.LogPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes configuration to a YAML file, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.DefaultFocusMinutes < 1 {
		return fmt.Errorf("default_focus_minutes must be at least 1")
	}
	if c.MaxFocusMinutes < c.DefaultFocusMinutes {
		return fmt.Errorf("max_focus_minutes (%d) must not be below default_focus_minutes (%d)", c.MaxFocusMinutes, c.DefaultFocusMinutes)
	}
	if c.ProgressPerSession < 0 {
		return fmt.Errorf("progress_per_session must not be negative")
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
