package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/atomic"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/news"
)

// CacheMetrics holds the feed cache hit/miss counters. Counters only ever grow;
// they live as long as the process.
type CacheMetrics struct {
	hits   atomic.Int64
	misses atomic.Int64

	hitsTotal        prometheus.Counter
	missesTotal      prometheus.Counter
	fallbacksTotal   prometheus.Counter
	invalidatedTotal prometheus.Counter
}

// NewCacheMetrics creates a fresh counter set. When reg is non-nil the counters are
// also exported as Prometheus metrics on it.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	factory := promauto.With(reg)
	return &CacheMetrics{
		hitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "news_cache_hits_total",
			Help: "Feed requests served from cache",
		}),
		missesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "news_cache_misses_total",
			Help: "Feed requests that bypassed or missed the cache",
		}),
		fallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "news_upstream_fallbacks_total",
			Help: "Upstream fetches replaced by fallback data",
		}),
		invalidatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "news_cache_invalidated_keys_total",
			Help: "Feed cache keys deleted by invalidation",
		}),
	}
}

func (m *CacheMetrics) RecordHit() {
	m.hits.Inc()
	m.hitsTotal.Inc()
}

func (m *CacheMetrics) RecordMiss() {
	m.misses.Inc()
	m.missesTotal.Inc()
}

func (m *CacheMetrics) RecordFallback() {
	m.fallbacksTotal.Inc()
}

func (m *CacheMetrics) RecordInvalidated(n int) {
	if n > 0 {
		m.invalidatedTotal.Add(float64(n))
	}
}

// Snapshot reads both counters without locking and derives totals.
func (m *CacheMetrics) Snapshot() news.MetricsSnapshot {
	return news.NewMetricsSnapshot(m.hits.Load(), m.misses.Load())
}
