package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Transcription.DefaultModel != "turbo" {
		t.Errorf("default model = %q, want turbo", cfg.Transcription.DefaultModel)
	}
	if cfg.Workers.Count != 1 {
		t.Errorf("workers = %d, want 1", cfg.Workers.Count)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
transcription:
  default_model: whisper-1
cleaning:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Transcription.DefaultModel != "whisper-1" {
		t.Errorf("default model = %q, want whisper-1", cfg.Transcription.DefaultModel)
	}
	if cfg.Cleaning.Enabled {
		t.Error("cleaning should be disabled by the file")
	}
	// Untouched sections keep their defaults.
	if cfg.Storage.OutputDir != "outputs" {
		t.Errorf("output dir = %q, want outputs", cfg.Storage.OutputDir)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
