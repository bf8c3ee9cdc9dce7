package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mamoritalk-ai/internal/api"
	"mamoritalk-ai/internal/api/handlers"
	"mamoritalk-ai/internal/config"
	"mamoritalk-ai/internal/domain/services"
	"mamoritalk-ai/internal/infrastructure/cache"
	"mamoritalk-ai/internal/infrastructure/database"
	"mamoritalk-ai/internal/infrastructure/database/repository"
	"mamoritalk-ai/internal/streaming"
	"mamoritalk-ai/pkg/logger"
)

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting MamoriTalk AI service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional infrastructure; the scoring core runs without any of it
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	var statsRepo *repository.StatisticsRepository
	if db != nil {
		statsRepo = repository.NewStatisticsRepository(db)
		log.Info().Msg("statistics repository initialized with database")
	} else {
		log.Warn().Msg("running without database - regional statistics unavailable")
	}

	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without distributed alerts")
			natsPublisher = nil
		} else {
			log.Info().Str("url", cfg.NATS.URL).Msg("connected to NATS")
		}
	}

	eventBus := streaming.NewEventBus(natsPublisher, log)
	log.Info().Bool("nats_enabled", natsPublisher != nil).Msg("event bus initialized")

	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	// Analyzers
	scamAnalyzer := services.NewScamAnalyzer(log)
	darkJobChecker := services.NewDarkJobChecker(
		services.NewHeuristicEscalator(),
		services.NewHeuristicTextExtractor(log),
		log,
	)
	metadataAnalyzer := services.NewMetadataAnalyzer(log)
	summarizer := services.NewSummarizer(scamAnalyzer, log)
	adviceGenerator := services.NewAdviceGenerator(log)

	deps := handlers.Dependencies{
		Config:       *cfg,
		Database:     db,
		ScamAnalyzer: scamAnalyzer,
		DarkJob:      darkJobChecker,
		Metadata:     metadataAnalyzer,
		Summarizer:   summarizer,
		Advice:       adviceGenerator,
		Cache:        redisCache,
		Statistics:   statsRepo,
		EventBus:     eventBus,
		Hub:          wsHub,
		Logger:       log,
	}
	h := handlers.NewHandlers(deps)

	router := api.NewRouter(*cfg, h, redisCache, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	eventBus.Close()

	log.Info().Msg("shutdown complete")
}

// initInfrastructure connects to Postgres and Redis when enabled.
// Both are optional: failures degrade to in-process operation.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
			db = nil
		}
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}

	return db, redisCache
}
