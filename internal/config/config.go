package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type PrometheusCfg struct {
	Port int `yaml:"port" json:"port"` // 0 disables the exporter
}

type LoggingCfg struct {
	RotationDays int `yaml:"rotation_days" json:"rotation_days"` // Days to keep logs before rotation
}

type Config struct {
	HistoryPath    string        `yaml:"history_path" json:"history_path"`       // SQLite file for deletion history; defaulted when empty
	DisableHistory bool          `yaml:"disable_history" json:"disable_history"` // Turn off the deletion history database
	TrashDir       string        `yaml:"trash_dir" json:"trash_dir"`             // Destination for --trash relocations
	FollowSymlinks *bool         `yaml:"follow_symlinks" json:"follow_symlinks"` // Follow symlinked directories; defaults to true
	ProtectedPaths []string      `yaml:"protected_paths" json:"protected_paths"` // Extra paths the validator must never delete under
	Prometheus     PrometheusCfg `yaml:"prometheus" json:"prometheus"`
	Logging        LoggingCfg    `yaml:"logging" json:"logging"`
}

var errRelativeProtected = errors.New("protected path must be absolute")

// Default returns the configuration used when no config file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	for _, p := range c.ProtectedPaths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("%w: %s", errRelativeProtected, p)
		}
	}
	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Logging.RotationDays <= 0 {
		c.Logging.RotationDays = 30 // Default: keep logs for 30 days
	}

	// Prometheus.Port stays 0 unless configured: an interactive tool
	// only needs the exporter for unusually long sessions.

	if c.FollowSymlinks == nil {
		follow := true
		c.FollowSymlinks = &follow
	}

	base := stateDir()
	if c.DisableHistory {
		c.HistoryPath = ""
	} else if c.HistoryPath == "" && base != "" {
		c.HistoryPath = filepath.Join(base, "history.db")
	}
	if c.TrashDir == "" && base != "" {
		c.TrashDir = filepath.Join(base, "trash")
	}

	cleaned := make([]string, 0, len(c.ProtectedPaths))
	for _, p := range c.ProtectedPaths {
		cleaned = append(cleaned, filepath.Clean(p))
	}
	c.ProtectedPaths = cleaned
}

// stateDir returns the per-user directory for history, trash and logs.
// Empty when the user cache directory cannot be resolved; the features
// that depend on it degrade to disabled.
func stateDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "dupesweep")
}

func (c *Config) PrometheusAddress() string {
	return fmt.Sprintf(":%d", c.Prometheus.Port)
}
