package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "visca2uvc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
backend: native
vendor_id: 1133
product_id: 2093
serial: ABC123
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "native" {
		t.Errorf("Backend = %q, want %q", cfg.Backend, "native")
	}
	if cfg.VendorID != 1133 || cfg.ProductID != 2093 {
		t.Errorf("filter = %04x:%04x, want 046d:082d", cfg.VendorID, cfg.ProductID)
	}
	if cfg.Serial != "ABC123" {
		t.Errorf("Serial = %q, want %q", cfg.Serial, "ABC123")
	}
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("empty file should produce zero config, got %+v", cfg)
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	if _, err := Load(writeConfig(t, "backend: v4l2\n")); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
