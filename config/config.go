package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DataDir is the per-workspace directory holding the database and config.
const DataDir = ".autoapply"

// Config holds all configuration for the auto-apply engine.
type Config struct {
	Engine     EngineConfig     `yaml:"engine"`
	Generation GenerationConfig `yaml:"generation"`
	Store      StoreConfig      `yaml:"store"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// EngineConfig holds resolution settings.
type EngineConfig struct {
	// ConfidenceFloor is the minimum resolver confidence accepted without generation.
	ConfidenceFloor          float64 `yaml:"confidence_floor"`
	PreviousApplicationLimit int     `yaml:"previous_application_limit"`
	// CombineExtractionConfidence multiplies the document weight by each extraction's own confidence.
	CombineExtractionConfidence bool `yaml:"combine_extraction_confidence"`
}

// GenerationConfig holds text-generation collaborator settings.
type GenerationConfig struct {
	Provider        string `yaml:"provider"` // "openai", "deepseek", "ollama", "mock"
	Model           string `yaml:"model"`
	BaseURL         string `yaml:"base_url,omitempty"`
	APIKeyEnv       string `yaml:"api_key_env"`
	Concurrency     int    `yaml:"concurrency"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	CacheSize       int    `yaml:"cache_size"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			ConfidenceFloor:          0.5,
			PreviousApplicationLimit: 5,
		},
		Generation: GenerationConfig{
			Provider:        "openai",
			Model:           "gpt-4o-mini",
			APIKeyEnv:       "OPENAI_API_KEY",
			Concurrency:     4,
			TimeoutSeconds:  60,
			CacheSize:       100,
			CacheTTLMinutes: 30,
		},
		Store: StoreConfig{
			Path: filepath.Join(DataDir, "autoapply.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// LoadFromDir looks for autoapply.yaml, then .autoapply/config.yaml.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "autoapply.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, DataDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.ConfidenceFloor < 0 || c.Engine.ConfidenceFloor > 1 {
		return fmt.Errorf("engine.confidence_floor must be within [0, 1], got %v", c.Engine.ConfidenceFloor)
	}
	if c.Engine.PreviousApplicationLimit < 1 {
		return fmt.Errorf("engine.previous_application_limit must be at least 1, got %d", c.Engine.PreviousApplicationLimit)
	}
	if c.Generation.Concurrency < 1 {
		return fmt.Errorf("generation.concurrency must be at least 1, got %d", c.Generation.Concurrency)
	}
	if c.Generation.TimeoutSeconds < 1 {
		return fmt.Errorf("generation.timeout_seconds must be at least 1, got %d", c.Generation.TimeoutSeconds)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// GenerationTimeout is the bounded wait for a single generation call.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}

// CacheTTL is how long generated answers are reused.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Generation.CacheTTLMinutes) * time.Minute
}

// StoreDBPath resolves the database path against dir unless it is absolute.
func (c *Config) StoreDBPath(dir string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(dir, c.Store.Path)
}

// EnsureDataDir ensures the directory holding the database exists.
func (c *Config) EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Dir(c.StoreDBPath(dir)), 0755)
}
