package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsApplied(t *testing.T) {
	cfg := Default()

	if cfg.Logging.RotationDays != 30 {
		t.Errorf("Expected rotation_days default 30, got %d", cfg.Logging.RotationDays)
	}
	if cfg.Prometheus.Port != 0 {
		t.Errorf("Expected exporter disabled by default, got port %d", cfg.Prometheus.Port)
	}
	if cfg.FollowSymlinks == nil || !*cfg.FollowSymlinks {
		t.Error("Expected follow_symlinks default true")
	}
	if base := stateDir(); base != "" {
		if cfg.HistoryPath != filepath.Join(base, "history.db") {
			t.Errorf("Unexpected default history path: %s", cfg.HistoryPath)
		}
		if cfg.TrashDir != filepath.Join(base, "trash") {
			t.Errorf("Unexpected default trash dir: %s", cfg.TrashDir)
		}
	}
}

func TestDecodeOverridesDefaults(t *testing.T) {
	yaml := `
history_path: /tmp/dupesweep-test/history.db
trash_dir: /tmp/dupesweep-test/trash
follow_symlinks: false
protected_paths:
  - /srv/keep
prometheus:
  port: 9213
logging:
  rotation_days: 7
`
	cfg, err := decode(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if err := cfg.validateAndDefault(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if cfg.HistoryPath != "/tmp/dupesweep-test/history.db" {
		t.Errorf("history_path not honored: %s", cfg.HistoryPath)
	}
	if cfg.TrashDir != "/tmp/dupesweep-test/trash" {
		t.Errorf("trash_dir not honored: %s", cfg.TrashDir)
	}
	if cfg.FollowSymlinks == nil || *cfg.FollowSymlinks {
		t.Error("follow_symlinks: false not honored")
	}
	if len(cfg.ProtectedPaths) != 1 || cfg.ProtectedPaths[0] != "/srv/keep" {
		t.Errorf("protected_paths not honored: %v", cfg.ProtectedPaths)
	}
	if cfg.Prometheus.Port != 9213 {
		t.Errorf("prometheus port not honored: %d", cfg.Prometheus.Port)
	}
	if cfg.Logging.RotationDays != 7 {
		t.Errorf("rotation_days not honored: %d", cfg.Logging.RotationDays)
	}
	if cfg.PrometheusAddress() != ":9213" {
		t.Errorf("unexpected prometheus address: %s", cfg.PrometheusAddress())
	}
}

// TestDisableHistoryLeavesPathEmpty verifies disable_history wins over
// the defaulted state-dir path, so the session runs without a database
func TestDisableHistoryLeavesPathEmpty(t *testing.T) {
	cfg, err := decode(strings.NewReader("disable_history: true\n"))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if err := cfg.validateAndDefault(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if cfg.HistoryPath != "" {
		t.Errorf("Expected empty history path when disabled, got %s", cfg.HistoryPath)
	}

	// An explicit path is still cleared: disable_history is absolute
	cfg = &Config{HistoryPath: "/tmp/dupesweep-test/history.db", DisableHistory: true}
	if err := cfg.validateAndDefault(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if cfg.HistoryPath != "" {
		t.Errorf("Expected disable_history to override explicit path, got %s", cfg.HistoryPath)
	}
}

func TestRelativeProtectedPathRejected(t *testing.T) {
	cfg := &Config{ProtectedPaths: []string{"relative/keep"}}
	if err := cfg.validateAndDefault(); err == nil {
		t.Error("expected error for relative protected path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "logging:\n  rotation_days: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.RotationDays != 3 {
		t.Errorf("Expected rotation_days 3, got %d", cfg.Logging.RotationDays)
	}
}
