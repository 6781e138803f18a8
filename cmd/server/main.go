package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	config "github.com/avatarctic/news-dashboard/go/configs"
	"github.com/avatarctic/news-dashboard/go/internal/application/services"
	"github.com/avatarctic/news-dashboard/go/internal/bootstrap"
	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/db"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/health"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/httpserver"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := bootstrap.NewLogger(&cfg.Log)
	logger.Infof("Starting %s %s...", cfg.App.Name, cfg.App.Version)

	// Redis is optional: without it the feed is served uncached.
	redisClient, cache := bootstrap.OpenCache(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Postgres only backs the item endpoints.
	database, err := db.Open(context.Background(), &cfg.Database)
	if err != nil {
		logger.WithError(err).Warn("Database unavailable; item endpoints disabled")
	} else {
		defer database.Close()
		logger.Info("Connected to database successfully")
		if version, err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
			logger.WithError(err).Warn("Failed to run migrations")
		} else {
			logger.WithField("schema_version", version).Info("Database migrations applied")
		}
	}

	provider := bootstrap.NewProvider(&cfg.News, logger)
	metrics := services.NewCacheMetrics(prometheus.DefaultRegisterer)
	newsService := bootstrap.NewNewsService(cfg, cache, provider, metrics, logger)

	var itemService ports.ItemService
	if database != nil {
		itemRepo := repositories.NewItemRepository(database, logger)
		if cache != nil {
			itemRepo = repositories.NewCachingItemRepository(itemRepo, cache, cfg.Cache.ItemTTL)
		}
		itemService = services.NewItemService(itemRepo, logger)
	}

	adminTokens := services.NewAdminTokenService(cfg.Admin.JWTSecret)
	if !adminTokens.Enabled() {
		logger.Warn("ADMIN_JWT_SECRET not set; cache refresh and item mutations are unauthenticated")
	}

	var rateLimiter ports.RateLimiterService
	if cfg.Rate.Enabled && redisClient != nil {
		rateLimiter = services.NewRateLimiterService(
			repositories.NewRateLimitRedisRepository(redisClient),
			&services.RateLimiterConfig{
				RequestsPerMinute: cfg.Rate.RequestsPerMinute,
				BurstMultiplier:   cfg.Rate.BurstMultiplier,
				Window:            cfg.Rate.Window,
				KeyPrefix:         cfg.Rate.KeyPrefix,
			},
			logger,
		)
	}

	hcSlice := []ports.HealthChecker{health.NewRedisHealthChecker(redisClient), health.NewDBHealthChecker(database)}

	environment := "production"
	if cfg.App.Debug {
		environment = "development"
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Environment:    environment,
	}

	server := httpserver.NewServer(serverConfig, logger, httpserver.ServerDeps{
		NewsService:        newsService,
		ItemService:        itemService,
		AdminTokens:        adminTokens,
		RateLimiterService: rateLimiter,
		HealthCheckers:     hcSlice,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
