package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-ledger-must-flow/internal/ai"
	"github.com/Veraticus/the-ledger-must-flow/internal/match"
	"github.com/Veraticus/the-ledger-must-flow/internal/service"
	"github.com/Veraticus/the-ledger-must-flow/internal/storage"
	"github.com/Veraticus/the-ledger-must-flow/internal/suggest"
)

// defaultDBPath is used when database.path is not configured.
func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "ledger", "ledger.db"), nil
}

// initStorage initializes the storage service with auto-migration.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initAdvisor builds the AI advisor from config. Returns nil when no provider
// is configured; the pipeline then runs on rules and history alone.
func initAdvisor() ai.Advisor {
	provider := viper.GetString("ai.provider")
	if provider == "" {
		slog.Info("no AI provider configured, suggestions run on rules and history only")
		return nil
	}

	advisor, err := ai.NewAdvisor(ai.Config{
		Provider:    provider,
		APIKey:      viper.GetString("ai.api_key"),
		Model:       viper.GetString("ai.model"),
		Temperature: viper.GetFloat64("ai.temperature"),
		MaxTokens:   viper.GetInt("ai.max_tokens"),
		RateLimit:   viper.GetInt("ai.rate_limit"),
		Timeout:     viper.GetDuration("ai.timeout"),
		CacheTTL:    viper.GetDuration("ai.cache_ttl"),
		MaxRetries:  viper.GetInt("ai.max_retries"),
		RetryDelay:  viper.GetDuration("ai.retry_delay"),
	}, slog.Default())
	if err != nil {
		slog.Warn("failed to create AI advisor, continuing without it", "error", err)
		return nil
	}

	return advisor
}

// suggestConfig reads the pipeline thresholds from config, falling back to
// the defaults where unset.
func suggestConfig() suggest.Config {
	cfg := suggest.DefaultConfig()
	if v := viper.GetInt("suggest.max_suggestions"); v > 0 {
		cfg.MaxSuggestions = v
	}
	if v := viper.GetFloat64("suggest.match_threshold"); v > 0 {
		cfg.MatchThreshold = v
	}
	if v := viper.GetFloat64("suggest.strong_match"); v > 0 {
		cfg.StrongMatch = v
	}
	if v := viper.GetFloat64("suggest.ai_confidence"); v > 0 {
		cfg.AIConfidence = v
	}
	return cfg
}

// initOrchestrator assembles the suggestion pipeline over the given storage.
func initOrchestrator(store service.Storage, advisor ai.Advisor) *suggest.Orchestrator {
	cfg := suggestConfig()
	history := match.NewMatcher(store, cfg.MatchThreshold, slog.Default())
	return suggest.New(store, history, advisor, cfg, slog.Default())
}
