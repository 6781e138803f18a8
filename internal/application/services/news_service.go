package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/news"
	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
)

// NewsServiceConfig groups the cache policy parameters of the feed service.
type NewsServiceConfig struct {
	// FeedTTL is the lifetime of every page written back to the cache.
	FeedTTL time.Duration
	// WriteTimeout bounds a single cache write-back.
	WriteTimeout time.Duration
}

// NewsService serves feed pages cache-aside: cache first, upstream provider on a
// miss or forced refresh, deterministic fallback data when the provider fails.
// It is safe for concurrent use; the metrics counters are its only shared state.
type NewsService struct {
	cache        ports.Cache
	provider     ports.NewsProvider
	metrics      *CacheMetrics
	feedTTL      time.Duration
	writeTimeout time.Duration
	logger       *logrus.Logger
}

// NewNewsService wires the service. A nil cache runs the service without caching;
// a nil provider always serves fallback data.
func NewNewsService(cache ports.Cache, provider ports.NewsProvider, metrics *CacheMetrics, cfg *NewsServiceConfig, logger *logrus.Logger) *NewsService {
	// Apply defaults
	ttl := 180 * time.Second
	wt := 2 * time.Second
	if cfg != nil {
		if cfg.FeedTTL > 0 {
			ttl = cfg.FeedTTL
		}
		if cfg.WriteTimeout > 0 {
			wt = cfg.WriteTimeout
		}
	}
	if metrics == nil {
		metrics = NewCacheMetrics(nil)
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &NewsService{cache: cache, provider: provider, metrics: metrics, feedTTL: ttl, writeTimeout: wt, logger: logger}
}

func (s *NewsService) GetFeed(ctx context.Context, rawCategory string, page, pageSize int, forceRefresh bool) (*news.FeedResult, error) {
	category := news.NormalizeCategory(rawCategory)
	key := news.CacheKey(category, page)
	log := s.logger.WithFields(logrus.Fields{"category": category, "page": page, "key": key})

	if !forceRefresh {
		if payload, ok := s.lookup(ctx, key, log); ok {
			s.metrics.RecordHit()
			log.Info("cache hit")
			return &news.FeedResult{
				Articles:     payload.Articles,
				TotalResults: payload.TotalResults,
				FromCache:    true,
				CacheTTL:     s.remainingTTL(ctx, key, log),
				Category:     category,
			}, nil
		}
	}

	s.metrics.RecordMiss()
	log.WithField("force_refresh", forceRefresh).Info("cache miss")

	articles, err := s.fetch(ctx, category, page, pageSize, log)
	if err != nil {
		return nil, err
	}

	payload := news.FeedPayload{Articles: articles, TotalResults: len(articles)}
	s.store(ctx, key, &payload, log)

	return &news.FeedResult{
		Articles:     payload.Articles,
		TotalResults: payload.TotalResults,
		FromCache:    false,
		Category:     category,
	}, nil
}

// lookup returns the cached payload for key. Store errors and undecodable values count as a miss.
func (s *NewsService) lookup(ctx context.Context, key string, log *logrus.Entry) (*news.FeedPayload, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.WithError(err).Warn("cache get failed; treating as miss")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	payload, err := decodePayload(b)
	if err != nil {
		log.WithError(err).Error("invalid payload in cache; refetching")
		return nil, false
	}
	return payload, true
}

var errMissingArticles = errors.New("payload has no articles list")

// decodePayload accepts only a JSON object carrying an articles array. null, {} and
// {"articles":null} decode cleanly but are not pages.
func decodePayload(b []byte) (*news.FeedPayload, error) {
	var raw struct {
		Articles     *[]news.Article `json:"articles"`
		TotalResults int             `json:"total_results"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	if raw.Articles == nil {
		return nil, errMissingArticles
	}
	return &news.FeedPayload{Articles: *raw.Articles, TotalResults: raw.TotalResults}, nil
}

// remainingTTL is best-effort: the entry may expire between the read and this call.
func (s *NewsService) remainingTTL(ctx context.Context, key string, log *logrus.Entry) *int {
	ttl, err := s.cache.TTL(ctx, key)
	if err != nil {
		log.WithError(err).Debug("cache ttl lookup failed")
		return nil
	}
	secs := int(ttl / time.Second)
	if secs <= 0 {
		return nil
	}
	return &secs
}

// fetch calls the provider once. Any provider failure is replaced by fallback data;
// only cancellation of the caller's context is reported.
func (s *NewsService) fetch(ctx context.Context, category news.Category, page, pageSize int, log *logrus.Entry) ([]news.Article, error) {
	if s.provider == nil {
		log.Warn("no news provider configured, using fallback data")
		s.metrics.RecordFallback()
		return news.FallbackArticles(category, pageSize), nil
	}

	res, err := s.provider.FetchPage(ctx, category, page, pageSize)
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.WithError(ctxErr).Info("request cancelled during upstream fetch; discarding result")
		return nil, fmt.Errorf("fetching %s page %d: %w", category, page, ctxErr)
	}

	switch {
	case err != nil:
		log.WithError(err).WithField("provider", s.provider.Name()).Error("upstream fetch failed, using fallback data")
	case res.Status == news.ProviderStatusUnconfigured:
		log.WithFields(logrus.Fields{"provider": s.provider.Name(), "upstream_message": res.Message}).Warn("news provider not configured, using fallback data")
	case !res.OK():
		log.WithFields(logrus.Fields{"provider": s.provider.Name(), "upstream_message": res.Message}).Error("upstream reported an error, using fallback data")
	default:
		log.WithFields(logrus.Fields{"provider": s.provider.Name(), "count": len(res.Articles)}).Info("fetched articles from upstream")
		if res.Articles == nil {
			return []news.Article{}, nil
		}
		return res.Articles, nil
	}

	s.metrics.RecordFallback()
	return news.FallbackArticles(category, pageSize), nil
}

// store writes payload back with the feed TTL. The write outlives caller cancellation
// but is bounded by writeTimeout; failures are only logged.
func (s *NewsService) store(ctx context.Context, key string, payload *news.FeedPayload, log *logrus.Entry) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("failed to encode feed payload")
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()
	if err := s.cache.Set(writeCtx, key, b, s.feedTTL); err != nil {
		log.WithError(err).Warn("cache set failed; serving uncached result")
		return
	}
	log.WithField("ttl", s.feedTTL).Debug("cache set")
}

func (s *NewsService) InvalidateCache(ctx context.Context, category *string) (int, error) {
	pattern := news.AllPattern
	if category != nil && *category != "" {
		pattern = news.CategoryPattern(*category)
	}
	log := s.logger.WithField("pattern", pattern)
	if s.cache == nil {
		log.Warn("cache unavailable; nothing to invalidate")
		return 0, nil
	}

	keys, err := s.cache.Keys(ctx, pattern)
	if err != nil {
		log.WithError(err).Error("failed to list cache keys")
		return 0, nil
	}

	deleted := 0
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			log.WithError(err).WithField("key", key).Warn("failed to delete cache key")
			continue
		}
		deleted++
	}
	s.metrics.RecordInvalidated(deleted)
	log.WithFields(logrus.Fields{"matched": len(keys), "deleted": deleted}).Info("invalidated cache keys")
	return deleted, nil
}

func (s *NewsService) GetMetrics() news.MetricsSnapshot {
	return s.metrics.Snapshot()
}

func (s *NewsService) GetCategories() []news.Category {
	return news.Categories()
}
