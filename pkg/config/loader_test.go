package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".steamharvest.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q, want data", cfg.DataDir)
	}
	if cfg.Collect.BatchSize != 100 {
		t.Errorf("BatchSize = %d, want 100", cfg.Collect.BatchSize)
	}
	if cfg.Collect.Pause != 0 {
		t.Errorf("Pause = %v, want 0", cfg.Collect.Pause)
	}
	if !cfg.Collect.Progress {
		t.Error("Progress = false, want true")
	}
	if cfg.Client.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Client.Timeout)
	}
	if cfg.Client.MaxAttempts != 0 {
		t.Errorf("MaxAttempts = %d, want 0", cfg.Client.MaxAttempts)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled = true, want false")
	}
	if cfg.Cache.Addr != "localhost:6379" || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Metrics.Enabled || cfg.Metrics.Addr != ":9090" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
data_dir: /srv/steamharvest
collect:
  batch_size: 50
  pause: 2s
  continue_on_error: true
client:
  user_agent: research-bot/2.0
  max_attempts: 5
cache:
  enabled: true
  addr: redis.internal:6379
  db: 3
logging:
  level: debug
  pretty: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/srv/steamharvest" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Collect.BatchSize != 50 || cfg.Collect.Pause != 2*time.Second || !cfg.Collect.ContinueOnError {
		t.Errorf("Collect = %+v", cfg.Collect)
	}
	if cfg.Client.UserAgent != "research-bot/2.0" || cfg.Client.MaxAttempts != 5 {
		t.Errorf("Client = %+v", cfg.Client)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Addr != "redis.internal:6379" || cfg.Cache.DB != 3 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Pretty {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	// Unset fields keep their defaults.
	if cfg.Client.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", cfg.Client.Timeout)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("STEAMHARVEST_COLLECT_BATCH_SIZE", "25")
	t.Setenv("STEAMHARVEST_DATA_DIR", "/tmp/harvest")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Collect.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want env override 25", cfg.Collect.BatchSize)
	}
	if cfg.DataDir != "/tmp/harvest" {
		t.Errorf("DataDir = %q, want env override", cfg.DataDir)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	if _, err := Load(writeConfig(t, "collect: [not a map")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	if _, err := Load(writeConfig(t, "collect:\n  batch_size: 0\n")); err == nil {
		t.Fatal("expected validation error for batch_size 0")
	}
}
