// internal/appconfig/load_integration_test.go
package appconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultPath(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}

	payload := `{
  "dataset": "data/merged.json",
  "exportDir": "out_cards",
  "browser": { "viewportWidth": 1280, "viewportHeight": 900, "deviceScaleFactor": 1 }
}`
	path := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ConfigPath != DefaultConfigPath {
		t.Fatalf("expected default config path, got %q", cfg.ConfigPath)
	}
	if cfg.ExportDirName() != "out_cards" {
		t.Fatalf("unexpected export dir %q", cfg.ExportDirName())
	}
	w, h := cfg.Browser.Viewport()
	if w != 1280 || h != 900 || cfg.Browser.Scale() != 1 {
		t.Fatalf("unexpected browser settings %dx%d @%v", w, h, cfg.Browser.Scale())
	}
}

func TestLoadDefaultPathMissingUsesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ConfigPath != "" {
		t.Fatalf("expected no config path, got %q", cfg.ConfigPath)
	}
	if cfg.DatasetPath() != "data/card_data_merged.json" {
		t.Fatalf("unexpected dataset default %q", cfg.DatasetPath())
	}
}
