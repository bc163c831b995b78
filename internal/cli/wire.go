package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"autoapply/config"
	"autoapply/internal/adapter/cache"
	"autoapply/internal/adapter/llm"
	"autoapply/internal/adapter/store"
	"autoapply/internal/adapter/template"
	"autoapply/internal/port"
	"autoapply/internal/usecase"
)

// openStore opens the workspace database, creating or upgrading it as needed.
func openStore(cfg *config.Config, dir string) (*store.BoltStore, error) {
	if err := cfg.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.NewBoltStore(cfg.StoreDBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	migration, err := st.CheckMigration(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to check migration: %w", err)
	}
	if migration.NeedsMigration {
		GetLogger().Info("migrating store", zap.String("reason", migration.Reason))
		if err := st.Migrate(cfg); err != nil {
			st.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return st, nil
}

// newGeneration builds the generation and critique collaborators for the
// configured provider. Non-mock providers are wrapped in a response cache.
func newGeneration(cfg *config.Config, logger *zap.Logger) (port.Generator, port.Critic, error) {
	if cfg.Generation.Provider == "mock" {
		mock := llm.NewMockGenerator(80)
		return mock, mock, nil
	}

	client, err := llm.NewChatClient(llm.ClientOptions{
		Provider:  cfg.Generation.Provider,
		Model:     cfg.Generation.Model,
		BaseURL:   cfg.Generation.BaseURL,
		APIKeyEnv: cfg.Generation.APIKeyEnv,
		Timeout:   cfg.GenerationTimeout(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s client: %w", cfg.Generation.Provider, err)
	}

	gen := llm.NewGenerator(client, logger)
	cached := cache.NewCachedGenerator(gen, cache.NewGenerationCache(cfg.Generation.CacheSize, cfg.CacheTTL()))
	return cached, gen, nil
}

// newEngine wires an engine over st with the configured collaborators.
func newEngine(cfg *config.Config, st *store.BoltStore) (*usecase.ApplicationEngine, error) {
	logger := GetLogger()
	gen, critic, err := newGeneration(cfg, logger)
	if err != nil {
		return nil, err
	}

	return usecase.NewApplicationEngine(usecase.EngineDeps{
		Generator:    gen,
		Critic:       critic,
		Applications: st,
		Knowledge:    st,
		Templates:    template.NewRegistry(),
		Logger:       logger,
	}, engineOptions(cfg))
}

func engineOptions(cfg *config.Config) usecase.EngineOptions {
	return usecase.EngineOptions{
		ConfidenceFloor:             cfg.Engine.ConfidenceFloor,
		PreviousApplicationLimit:    cfg.Engine.PreviousApplicationLimit,
		CombineExtractionConfidence: cfg.Engine.CombineExtractionConfidence,
		Concurrency:                 cfg.Generation.Concurrency,
		GenerationTimeout:           cfg.GenerationTimeout(),
		SettingsHash:                store.ComputeConfigHash(cfg),
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readContent returns inline content, or the contents of path when set.
func readContent(inline, path string) (string, error) {
	if path == "" {
		return inline, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read content file: %w", err)
	}
	return string(data), nil
}
