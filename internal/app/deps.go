package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"talent-search/internal/cache"
	"talent-search/internal/config"
	"talent-search/internal/embeddings"
	"talent-search/internal/employee"
	"talent-search/internal/index"
	"talent-search/internal/logger"
	"talent-search/internal/policy"
	"talent-search/internal/search"
)

// Deps bundles runtime dependencies for the search service.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	Cache  cache.Cache
	Search *search.Service
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	// .env is optional outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("search", cfg.LogLevel)

	embedder, err := buildEmbedder(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	c := buildCache(cfg, log)

	lazy := index.NewLazy(indexBuilder(cfg, log, embedder))
	svc := search.NewService(embedder, policy.NewAllowAll(), lazy, log)

	return Deps{
		Config: cfg,
		Log:    log,
		Cache:  c,
		Search: svc,
	}, nil
}

func buildEmbedder(cfg config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when EMBEDDING_PROVIDER=openai")
		}
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey, openai.EmbeddingModel(cfg.EmbeddingModel))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI embedder: %w", err)
		}
		log.Info("using OpenAI embedder", "model", cfg.EmbeddingModel)
		return embeddings.NewRetrying(embedder, cfg.EmbedMaxRetries, 200*time.Millisecond), nil
	default:
		return nil, fmt.Errorf("invalid EMBEDDING_PROVIDER: %s (valid option: openai)", cfg.EmbeddingProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, falling back to no-op cache", "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis result cache", "addr", cfg.RedisAddr)
		return c
	default:
		return cache.NewNoOpCache()
	}
}

// indexBuilder returns the lazy build step: load the dataset, synthesize
// profiles, embed them in one batch. A missing or corrupt dataset degrades
// to an empty corpus instead of failing the request that triggered the
// build; operators see the error log.
func indexBuilder(cfg config.Config, log *slog.Logger, embedder embeddings.Embedder) index.BuildFunc {
	return func(ctx context.Context) (*index.Index, error) {
		buildID := uuid.New().String()

		records, err := employee.Load(cfg.DatasetPath)
		if err != nil {
			log.Error("failed to load employee dataset, serving empty corpus",
				"build_id", buildID,
				"path", cfg.DatasetPath,
				"err", err,
			)
			records = nil
		}

		profiles := employee.SynthesizeAll(records)
		log.Info("building vector index",
			"build_id", buildID,
			"profiles", len(profiles),
			"model", cfg.EmbeddingModel,
		)

		idx, err := index.Build(ctx, profiles, embedder)
		if err != nil {
			log.Error("vector index build failed",
				"build_id", buildID,
				"profiles", len(profiles),
				"model", cfg.EmbeddingModel,
				"err", err,
			)
			return nil, err
		}
		log.Info("vector index ready", "build_id", buildID, "size", idx.Size())
		return idx, nil
	}
}
