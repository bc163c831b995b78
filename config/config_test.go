package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine.ConfidenceFloor != 0.5 {
		t.Errorf("expected ConfidenceFloor=0.5, got %f", cfg.Engine.ConfidenceFloor)
	}
	if cfg.Engine.PreviousApplicationLimit != 5 {
		t.Errorf("expected PreviousApplicationLimit=5, got %d", cfg.Engine.PreviousApplicationLimit)
	}
	if cfg.Engine.CombineExtractionConfidence {
		t.Error("expected CombineExtractionConfidence to default to false")
	}
	if cfg.Generation.Concurrency != 4 {
		t.Errorf("expected Concurrency=4, got %d", cfg.Generation.Concurrency)
	}
	if cfg.GenerationTimeout() != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", cfg.GenerationTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "autoapply.yaml")

	content := `
engine:
  confidence_floor: 0.7
  combine_extraction_confidence: true
generation:
  provider: mock
  concurrency: 2
logging:
  format: json
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine.ConfidenceFloor != 0.7 {
		t.Errorf("expected ConfidenceFloor=0.7, got %f", cfg.Engine.ConfidenceFloor)
	}
	if !cfg.Engine.CombineExtractionConfidence {
		t.Error("expected CombineExtractionConfidence=true")
	}
	if cfg.Generation.Provider != "mock" || cfg.Generation.Concurrency != 2 {
		t.Errorf("unexpected generation config %+v", cfg.Generation)
	}
	if cfg.Generation.TimeoutSeconds != 60 {
		t.Errorf("expected unset keys to keep defaults, got TimeoutSeconds=%d", cfg.Generation.TimeoutSeconds)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json format, got %s", cfg.Logging.Format)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"floor above one", "engine:\n  confidence_floor: 1.5\n"},
		{"zero concurrency", "generation:\n  concurrency: 0\n"},
		{"unknown log format", "logging:\n  format: xml\n"},
		{"malformed yaml", "engine: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "autoapply.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, DataDir), 0755); err != nil {
		t.Fatal(err)
	}
	content := "generation:\n  model: deepseek-chat\n"
	if err := os.WriteFile(filepath.Join(tmpDir, DataDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Generation.Model != "deepseek-chat" {
		t.Errorf("expected model from .autoapply/config.yaml, got %s", cfg.Generation.Model)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "autoapply.yaml")

	cfg := DefaultConfig()
	cfg.Engine.ConfidenceFloor = 0.6
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Engine.ConfidenceFloor != 0.6 {
		t.Errorf("expected 0.6, got %f", loaded.Engine.ConfidenceFloor)
	}
}

func TestStoreDBPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.StoreDBPath("/work"); got != filepath.Join("/work", ".autoapply", "autoapply.db") {
		t.Errorf("unexpected relative path %s", got)
	}

	cfg.Store.Path = "/var/lib/autoapply.db"
	if got := cfg.StoreDBPath("/work"); got != "/var/lib/autoapply.db" {
		t.Errorf("expected absolute path to be kept, got %s", got)
	}
}

func TestEnsureDataDir(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	if err := cfg.EnsureDataDir(tmpDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, DataDir)); err != nil {
		t.Errorf("expected data dir to exist: %v", err)
	}
}
