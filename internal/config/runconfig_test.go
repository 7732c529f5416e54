package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ggirelli/kman/internal/config"
)

func TestLoadTOMLOverlaysOnlyPresentFields(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	path := filepath.Join(dir, "kman.toml")
	if err := os.WriteFile(path, []byte("k = 15\nthreads = 4\n"), 0o644); err != nil {
		t.Fatalf("write toml: %v", err)
	}

	got, err := config.LoadTOML(cfg, path)
	if err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}
	if got.K != 15 {
		t.Fatalf("expected K=15, got %d", got.K)
	}
	if got.Threads != 4 {
		t.Fatalf("expected Threads=4, got %d", got.Threads)
	}
	if got.ScanMode != cfg.ScanMode {
		t.Fatalf("expected untouched ScanMode %q, got %q", cfg.ScanMode, got.ScanMode)
	}
}

func TestRunConfigParsers(t *testing.T) {
	cfg := config.Default()
	if _, err := cfg.NAT(); err != nil {
		t.Fatalf("NAT: %v", err)
	}
	if _, err := cfg.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if _, err := cfg.Feed(); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if _, err := cfg.Count(); err != nil {
		t.Fatalf("Count: %v", err)
	}
	if _, err := cfg.Memory(); err != nil {
		t.Fatalf("Memory: %v", err)
	}
}

func TestRunConfigRejectsUnknownMode(t *testing.T) {
	cfg := config.Default()
	cfg.ScanMode = "bogus"
	if _, err := cfg.Scan(); err == nil {
		t.Fatal("expected error for unknown scan mode")
	}
}
