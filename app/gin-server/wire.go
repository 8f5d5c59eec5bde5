package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/coldreach/config"
	"github.com/yoockh/coldreach/internal/api/handlers"
	"github.com/yoockh/coldreach/internal/api/routes"
	"github.com/yoockh/coldreach/internal/cache"
	"github.com/yoockh/coldreach/internal/chain"
	"github.com/yoockh/coldreach/internal/portfolio"
	"github.com/yoockh/coldreach/internal/providers/embedding"
	"github.com/yoockh/coldreach/internal/providers/llm"
	"github.com/yoockh/coldreach/internal/repositories/file"
	"github.com/yoockh/coldreach/internal/repositories/memory"
	mongorepo "github.com/yoockh/coldreach/internal/repositories/mongo"
	pgrepo "github.com/yoockh/coldreach/internal/repositories/postgres"
	"github.com/yoockh/coldreach/internal/scrape"
	"github.com/yoockh/coldreach/internal/services"
	"github.com/yoockh/coldreach/internal/storage"
)

type application struct {
	deps    routes.Deps
	closers []func() error
}

func (a *application) close(log *logrus.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.WithError(err).Warn("close")
		}
	}
}

// optional reports whether an Init* error means "use the in-process fallback".
func optional(log *logrus.Logger, name string, err error) (bool, error) {
	if err == nil {
		log.WithField("backend", name).Info("connected")
		return true, nil
	}
	if errors.Is(err, config.ErrNotConfigured) {
		log.WithField("backend", name).Info("not configured; using in-memory fallback")
		return false, nil
	}
	return false, fmt.Errorf("%s: %w", name, err)
}

func build(ctx context.Context, cfg config.Config, log *logrus.Logger) (*application, error) {
	app := &application{}

	// cache: sessions + composed emails
	var (
		c       cache.Cache
		checker cache.Checker
	)
	if ok, err := optional(log, "redis", config.InitRedis()); err != nil {
		return nil, err
	} else if ok {
		rc := cache.NewRedisCache(config.RedisClient)
		c, checker = rc, rc
		app.closers = append(app.closers, config.RedisClient.Close)
	} else {
		mc := cache.NewMemoryCache()
		c, checker = mc, mc
	}

	// portfolio vector store
	var store portfolio.VectorStore = portfolio.NewMemoryStore()
	if ok, err := optional(log, "postgres", config.InitPostgres()); err != nil {
		return nil, err
	} else if ok {
		if err := config.RunMigrations(ctx, config.PostgresDB); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		store = pgrepo.NewPortfolioRepo(config.PostgresDB)
	}

	// draft records
	var drafts mongorepo.DraftRepository = memory.NewDraftRepo()
	if ok, err := optional(log, "mongo", config.InitMongo()); err != nil {
		return nil, err
	} else if ok {
		if err := config.EnsureMongoIndexes(cfg.MongoDB); err != nil {
			log.WithError(err).Warn("mongo indexes")
		}
		drafts = mongorepo.NewDraftRepo(config.MongoClient.Database(cfg.MongoDB), config.DraftsCollection)
		app.closers = append(app.closers, func() error { return config.CloseMongo(context.Background()) })
	}

	files, err := newUploader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, files.Close)

	model, err := llm.New(ctx, llm.Options{
		Provider:       cfg.LLMProvider,
		Model:          cfg.LLMModel,
		BaseURL:        cfg.LLMBaseURL,
		GroqAPIKey:     cfg.GroqAPIKey,
		OpenAIAPIKey:   cfg.OpenAIAPIKey,
		GeminiAPIKey:   cfg.GeminiAPIKey,
		VertexProject:  cfg.VertexProject,
		VertexLocation: cfg.VertexLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	app.closers = append(app.closers, model.Close)

	embedKey := cfg.OpenAIAPIKey
	if cfg.EmbeddingProvider == "googleai" || cfg.EmbeddingProvider == "gemini" {
		embedKey = cfg.GeminiAPIKey
	}
	embedder, err := embedding.New(ctx, embedding.Options{
		Provider: cfg.EmbeddingProvider,
		Model:    cfg.EmbeddingModel,
		APIKey:   embedKey,
		Dims:     cfg.EmbeddingDims,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	index := portfolio.NewIndex(cfg.PortfolioPath, store, embedder, cfg.PortfolioResults, log)
	if ok, err := index.Load(ctx); err != nil || !ok {
		log.WithError(err).WithField("path", cfg.PortfolioPath).Warn("portfolio not indexed at startup")
	}

	profileSvc := services.NewProfileService(file.NewProfileRepo(cfg.ProfilePath), cfg.DefaultProfile, log)
	sessionSvc := services.NewSessionService(c, cfg.SessionTTL)
	generatorSvc := services.NewGeneratorService(
		scrape.NewFetcher(cfg.FetchUserAgent, cfg.FetchTimeout),
		chain.New(model, log),
		index,
		profileSvc,
		sessionSvc,
		log,
	)
	draftSvc := services.NewDraftService(files, drafts, log)
	portfolioSvc := services.NewPortfolioService(index, log)

	app.deps = routes.Deps{
		Health:        handlers.NewHealthHandler(checker),
		Page:          handlers.NewPageHandler(sessionSvc, generatorSvc, profileSvc, draftSvc, portfolioSvc, log),
		Settings:      handlers.NewSettingsHandler(sessionSvc, profileSvc, portfolioSvc),
		Draft:         handlers.NewDraftHandler(sessionSvc, draftSvc),
		WS:            handlers.NewWSHandler(sessionSvc, generatorSvc, log),
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
	}
	return app, nil
}

func newUploader(ctx context.Context, cfg config.Config) (storage.Uploader, error) {
	switch cfg.DraftStore {
	case "gcs":
		return storage.NewGCSUploader(ctx, cfg.GCSBucket, cfg.S3Prefix)
	case "s3":
		return storage.NewS3Uploader(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	case "", "local":
		return storage.NewLocalUploader(cfg.DraftDir)
	default:
		return nil, fmt.Errorf("unknown DRAFT_STORE %q", cfg.DraftStore)
	}
}
