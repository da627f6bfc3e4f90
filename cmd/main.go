package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ona-rest/ona/internal/api"
	"github.com/ona-rest/ona/internal/cache"
	"github.com/ona-rest/ona/internal/config"
	"github.com/ona-rest/ona/internal/i18n"
	"github.com/ona-rest/ona/internal/logger"
	"github.com/ona-rest/ona/internal/media"
	"github.com/ona-rest/ona/internal/middleware"
	"github.com/ona-rest/ona/internal/news"
	"github.com/ona-rest/ona/internal/pages"
	"github.com/ona-rest/ona/internal/storage"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	output := "stdout"
	if cfg.LogFile != "" {
		output = cfg.LogFile
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: !cfg.IsProduction(),
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Msg("Starting application...")

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	store := openStore(startCtx, cfg)
	defer func() {
		log.Info().Msg("Closing article store...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Error().Err(err).Msg("Error closing article store")
		}
	}()

	cacheStore := openCache(startCtx, cfg)
	defer func() {
		log.Info().Msg("Closing cache...")
		if err := cacheStore.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache")
		}
	}()

	host, err := media.New(startCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image host")
	}

	bundle, err := i18n.Default(cfg.DefaultLocale)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load message catalogs")
	}

	svc := news.NewService(store, cacheStore, host, cfg.CacheTTL)
	apiHandlers := api.NewHandlers(cfg, svc, cacheStore)
	pageHandlers := pages.NewHandlers(svc, bundle, apiHandlers.Session())

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    int(cfg.MaxFileSize) + 1<<20,
		Views:        pages.NewEngine(),
		ErrorHandler: middleware.NewErrorHandler(pageHandlers.ErrorPage),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())

	// The API goes first so the localized catch-all never sees /api
	api.SetupRoutes(app, apiHandlers)
	pages.SetupRoutes(app, pageHandlers)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func openStore(ctx context.Context, cfg *config.Config) storage.ArticleStore {
	log := logger.Get()

	if cfg.MongoURI == storage.MemoryURI {
		log.Warn().Msg("Using in-memory article store; articles are lost on restart")
		return storage.NewMemoryStore()
	}

	store, err := storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to ensure article indexes")
	}
	return store
}

func openCache(ctx context.Context, cfg *config.Config) cache.Store {
	log := logger.Get()

	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set, using in-memory cache")
		return cache.NewMemoryClient()
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Redis client")
	}
	return client
}
