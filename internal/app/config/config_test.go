package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithMemoryStorage(t *testing.T) {
	t.Setenv("STORAGE", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.NotifyWorkers != 4 || cfg.RecoveryWindow.Duration != 24*time.Hour {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error without DATABASE_URL")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubhub.toml")
	data := `
storage = "memory"
http_addr = ":9090"
recovery_window = "2h"

notify_workers = 16

[bus]
handler_timeout = "3s"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("NOTIFY_WORKERS", "32")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.NotifyWorkers != 32 {
		t.Errorf("NotifyWorkers = %d, want env override 32", cfg.NotifyWorkers)
	}
	if cfg.Bus.HandlerTimeout.Duration != 3*time.Second || cfg.RecoveryWindow.Duration != 2*time.Hour {
		t.Errorf("durations not read from file: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("BUS_HANDLER_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for bad duration")
	}
}
