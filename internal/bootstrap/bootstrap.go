// Package bootstrap builds the infrastructure shared by the server and the feedctl CLI.
package bootstrap

import (
	"context"
	"net/http"
	"os"
	"strings"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/news-dashboard/go/configs"
	"github.com/avatarctic/news-dashboard/go/internal/application/services"
	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/newsapi"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/redis"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/rss"
)

// NewLogger configures logrus from the log section. Unknown levels fall back to info.
func NewLogger(cfg *config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	return logger
}

// NewProvider selects the upstream feed source named by the news section.
func NewProvider(cfg *config.NewsConfig, logger *logrus.Logger) ports.NewsProvider {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Provider == "rss" {
		return rss.NewProvider(cfg.RSSFeeds, httpClient, cfg.Timeout, logger)
	}
	if cfg.APIKey == "" {
		logger.Warn("NEWS_API_KEY not set; feed requests will be served from fallback data")
	}
	return newsapi.NewClient(&newsapi.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Language: cfg.Language,
		Timeout:  cfg.Timeout,
	}, httpClient, logger)
}

// OpenCache connects to Redis. When Redis is unreachable it logs a warning and returns
// a nil client and a nil cache so callers run without caching.
func OpenCache(cfg *config.Config, logger *logrus.Logger) (*goredis.Client, ports.Cache) {
	client, err := redis.Connect(context.Background(), &cfg.Redis)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable; running without cache")
		return nil, nil
	}
	logger.Info("Connected to Redis successfully")
	return client, redis.NewRedisCache(client, cfg.Cache.KeyPrefix)
}

// NewNewsService wires the feed service over cache and provider with the configured TTLs.
func NewNewsService(cfg *config.Config, cache ports.Cache, provider ports.NewsProvider, metrics *services.CacheMetrics, logger *logrus.Logger) *services.NewsService {
	return services.NewNewsService(cache, provider, metrics, &services.NewsServiceConfig{
		FeedTTL:      cfg.Cache.FeedTTL,
		WriteTimeout: cfg.Cache.WriteTimeout,
	}, logger)
}
