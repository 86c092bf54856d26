package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"recoverydesk/internal/backend"
	"recoverydesk/internal/broadcast"
	"recoverydesk/internal/config"
	"recoverydesk/internal/db"
	"recoverydesk/internal/email"
	"recoverydesk/internal/eventfeed"
	"recoverydesk/internal/jobs"
	"recoverydesk/internal/metrics"
	"recoverydesk/internal/pricing"
	"recoverydesk/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if cfg.IsDev() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(logger)

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	metrics.Init(database)

	prices, err := pricing.NewTable(yamlCfg.Pricing)
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}
	prices.LogWarnings(logger)

	// Shared Redis storage for sessions, rate limiting and the recommendation cache
	var storage fiber.Storage
	var cache backend.Cache
	if cfg.RedisURL != "" {
		redisStorage := server.NewRedisStorage(cfg.RedisURL)
		defer redisStorage.Close()
		storage = redisStorage
		cache = redisStorage
		log.Println("Using Redis for sessions, rate limiting and caching")
	}

	client := backend.NewClient(backend.Options{
		BaseURL:            cfg.BackendURL,
		APIKey:             cfg.BackendAPIKey,
		Timeout:            cfg.BackendTimeout,
		RecommendationPath: cfg.RecommendationPath,
		LaunchPath:         cfg.LaunchPath,
	})
	cachedProvider := backend.NewCachedProvider(client, cache, cfg.RecommendationCacheTTL)

	// Launches always allocate against a fresh recommendation
	broadcasts := broadcast.NewService(database, client, client, prices, logger)
	broadcasts.SetNotifier(email.NewNotifier(cfg, database))

	var feed *eventfeed.Consumer
	if yamlCfg.Feed.Enabled {
		feed = eventfeed.NewConsumer(eventfeed.Options{
			URL:            strings.TrimRight(cfg.BackendURL, "/") + cfg.EventStreamPath,
			APIKey:         cfg.BackendAPIKey,
			BufferSize:     yamlCfg.Feed.BufferSize,
			ReconnectDelay: yamlCfg.Feed.ReconnectDelay,
			Logger:         logger,
		})
		go func() {
			if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Event feed stopped: %v", err)
			}
		}()
	} else {
		log.Println("Live event feed is disabled")
	}

	if yamlCfg.Snapshots.Enabled {
		recorder, err := jobs.NewSnapshotRecorder(database, client, yamlCfg.Snapshots.Cron)
		if err != nil {
			log.Fatalf("Invalid snapshot schedule: %v", err)
		}
		recorder.Start()
		defer recorder.Stop()
	}

	srv := server.New(cfg, storage)
	if err := srv.RegisterRoutes(ctx, server.Deps{
		DB:         database,
		Provider:   cachedProvider,
		Broadcasts: broadcasts,
		Prices:     prices,
		Feed:       feed,
	}); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	<-ctx.Done()

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
