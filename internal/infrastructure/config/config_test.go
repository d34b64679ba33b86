package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	path := filepath.Join(dir, "cfg", "config.yml")
	loader, err := NewLoaderFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Storage.Backend != BackendFilesystem {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Sync.FetchFailurePolicy != "keep-last-good" {
		t.Errorf("policy = %q", cfg.Sync.FetchFailurePolicy)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
	if !strings.HasSuffix(cfg.SocketPath(), "taskboardd.sock") {
		t.Errorf("socket path = %s", cfg.SocketPath())
	}
}

func TestLoadKeepsDefaultsForMissingSections(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: memory\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader, _ := NewLoaderFrom(path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("backend = %q, want memory", cfg.Storage.Backend)
	}
	if len(cfg.Keybindings.Quit) == 0 || cfg.Daemon.SocketName == "" {
		t.Error("missing sections should keep their defaults")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("TASKBOARD_BACKEND", "redis")
	t.Setenv("TASKBOARD_REDIS_DB", "4")
	t.Setenv("TASKBOARD_LOG_LEVEL", "debug")

	loader, _ := NewLoaderFrom(filepath.Join(dir, "config.yml"))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Storage.Backend != BackendRedis || cfg.Storage.Redis.DB != 4 || cfg.Logging.Level != "debug" {
		t.Errorf("env not applied: %+v %+v", cfg.Storage, cfg.Logging)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.Storage.Backend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown backend to be rejected")
	}

	cfg = DefaultConfig(t.TempDir())
	cfg.Daemon.Backend = BackendDaemon
	if err := cfg.Validate(); err == nil {
		t.Error("daemon cannot serve itself")
	}
}

func TestEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("TASKBOARD_REDIS_DB", "four")
	if err := ApplyEnv(DefaultConfig(t.TempDir())); err == nil {
		t.Error("expected a parse error")
	}
}
