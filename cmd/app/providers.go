package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/support-bot/internal/domain/matcher"
	"github.com/yanqian/support-bot/internal/domain/support"
	"github.com/yanqian/support-bot/internal/infra/catalog"
	"github.com/yanqian/support-bot/internal/infra/config"
	"github.com/yanqian/support-bot/internal/infra/fallback"
	"github.com/yanqian/support-bot/internal/infra/llm/chatgpt"
	"github.com/yanqian/support-bot/internal/infra/supportstore"
)

func provideMatcherConfig(cfg *config.Config) matcher.Config {
	return matcher.Config{
		SimilarityWeight: cfg.Matcher.SimilarityWeight,
		OverlapWeight:    cfg.Matcher.OverlapWeight,
		Threshold:        cfg.Matcher.Threshold,
		Algorithm:        cfg.Matcher.Algorithm,
		Stemming:         cfg.Matcher.Stemming,
	}
}

func provideSupportConfig(cfg *config.Config) support.Config {
	return support.Config{
		SessionTTL:         cfg.Support.SessionTTL,
		MaxRecentQuestions: cfg.Support.MaxRecentQuestions,
		TopRecommendations: cfg.Support.TopRecommendations,
	}
}

// provideMatcher loads the catalog from Postgres, a YAML file, or the
// built-in entries, in that order of preference.
func provideMatcher(cfg *config.Config, logger *slog.Logger) *matcher.Matcher {
	entries := loadCatalog(cfg, logger)
	logger.Info("faq catalog loaded", "entries", len(entries))
	return matcher.New(provideMatcherConfig(cfg), entries)
}

func loadCatalog(cfg *config.Config, logger *slog.Logger) []matcher.QA {
	if dsn := strings.TrimSpace(cfg.Catalog.Postgres.DSN); dsn != "" {
		if entries, ok := loadPostgresCatalog(cfg, dsn, logger); ok {
			return entries
		}
	}
	if path := strings.TrimSpace(cfg.Catalog.Path); path != "" {
		entries, err := catalog.LoadFile(path)
		if err != nil {
			logger.Error("catalog file load failed, using built-in catalog", "path", path, "error", err)
			return catalog.Defaults()
		}
		logger.Info("catalog file loaded", "path", path)
		return entries
	}
	return catalog.Defaults()
}

func loadPostgresCatalog(cfg *config.Config, dsn string, logger *slog.Logger) ([]matcher.QA, bool) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, skipping postgres catalog", "error", err)
		return nil, false
	}
	if cfg.Catalog.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Catalog.Postgres.MaxConns
	}
	if cfg.Catalog.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Catalog.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, skipping postgres catalog", "error", err)
		return nil, false
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entries, err := catalog.NewPostgresCatalog(pool).Entries(ctx)
	if err != nil {
		logger.Error("postgres catalog query failed, skipping postgres catalog", "error", err)
		return nil, false
	}
	if len(entries) == 0 {
		logger.Warn("postgres catalog is empty, skipping postgres catalog")
		return nil, false
	}
	logger.Info("postgres catalog loaded")
	return entries, true
}

func provideStore(cfg *config.Config, logger *slog.Logger) support.Store {
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return supportstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return supportstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey store enabled", "addr", cfg.Valkey.Addr)
			return supportstore.NewValkeyStore(client, "support")
		}
	}
	return supportstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// provideGenerator picks the LLM fallback when credentials are configured
// and the canned reply otherwise.
func provideGenerator(cfg *config.Config, logger *slog.Logger) support.Generator {
	apiKey := strings.TrimSpace(cfg.Fallback.APIKey)
	if apiKey == "" {
		logger.Info("no fallback api key configured, using static fallback replies")
		return fallback.NewStatic()
	}
	client, err := chatgpt.NewClient(apiKey, cfg.Fallback.BaseURL)
	if err != nil {
		logger.Error("failed to create chatgpt client, using static fallback replies", "error", err)
		return fallback.NewStatic()
	}
	logger.Info("llm fallback enabled", "model", cfg.Fallback.Model)
	return fallback.NewLLM(fallback.Config{
		Model:       cfg.Fallback.Model,
		Temperature: cfg.Fallback.Temperature,
		Prompt:      cfg.Fallback.Prompt,
	}, client, logger)
}
