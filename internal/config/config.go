package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds blankcheck settings loaded from a YAML file. Command-line
// flags and environment variables take precedence over these values.
type Config struct {
	// DB is the SQLite database path. Empty means the default data path.
	DB string `yaml:"db"`

	// CoursesDir is the root scanned by "audit --source files" and "import"
	// when no path is given.
	CoursesDir string `yaml:"courses_dir"`

	Audit AuditConfig `yaml:"audit"`
	Fix   FixConfig   `yaml:"fix"`
	Log   LogConfig   `yaml:"log"`
}

// AuditConfig holds defaults for the audit command.
type AuditConfig struct {
	Limit        int  `yaml:"limit"`
	IncludeDraft bool `yaml:"include_draft"`
}

// FixConfig holds defaults for the fix-choice command.
type FixConfig struct {
	Limit int `yaml:"limit"`
}

// LogConfig selects the logging level (debug, info, warn or error) and an
// optional rotated log file written in addition to stderr.
type LogConfig struct {
	Level string `yaml:"level"`

	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CoursesDir: "courses",
		Audit:      AuditConfig{Limit: 30},
		Fix:        FixConfig{Limit: 100},
		Log:        LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/blankcheck/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "blankcheck", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Audit.Limit < 1 {
		return fmt.Errorf("audit.limit must be a positive integer, got %d", c.Audit.Limit)
	}
	if c.Fix.Limit < 1 {
		return fmt.Errorf("fix.limit must be a positive integer, got %d", c.Fix.Limit)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB < 1 {
		return fmt.Errorf("log.max_size_mb must be a positive integer, got %d", c.Log.MaxSizeMB)
	}
	return nil
}
