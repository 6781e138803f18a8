package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	impl "github.com/avatarctic/news-dashboard/go/internal/application/services"
	"github.com/avatarctic/news-dashboard/go/internal/core/domain/news"
	"github.com/avatarctic/news-dashboard/go/internal/testutil"
)

func okProvider(articles ...news.Article) *testutil.ProviderMock {
	return &testutil.ProviderMock{FetchPageFn: func(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error) {
		return news.ProviderPage{Status: news.ProviderStatusOK, Articles: articles}, nil
	}}
}

func sampleArticle(id string) news.Article {
	return news.Article{ID: id, Title: "t-" + id, URL: "https://example.com/" + id, Source: "s", Category: news.CategoryTechnology, PublishedAt: time.Unix(1700000000, 0).UTC()}
}

func newService(cache *testutil.MemoryCache, provider *testutil.ProviderMock) *impl.NewsService {
	return impl.NewNewsService(cache, provider, impl.NewCacheMetrics(nil), &impl.NewsServiceConfig{FeedTTL: 180 * time.Second}, nil)
}

func seed(t *testing.T, cache *testutil.MemoryCache, key string, payload news.FeedPayload, ttl time.Duration) {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	cache.Put(key, b, ttl)
}

func TestGetFeed_MissThenHit(t *testing.T) {
	cache := testutil.NewMemoryCache()
	provider := okProvider(sampleArticle("a"), sampleArticle("b"))
	svc := newService(cache, provider)
	ctx := context.Background()

	first, err := svc.GetFeed(ctx, "technology", 1, 5, false)
	require.NoError(t, err)
	require.False(t, first.FromCache)
	require.Nil(t, first.CacheTTL)
	require.Equal(t, 2, first.TotalResults)
	require.Equal(t, news.CategoryTechnology, first.Category)
	require.True(t, cache.Has("news:technology:page:1"))

	second, err := svc.GetFeed(ctx, "technology", 1, 5, false)
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.NotNil(t, second.CacheTTL)
	require.Greater(t, *second.CacheTTL, 0)
	require.LessOrEqual(t, *second.CacheTTL, 180)
	require.Equal(t, first.Articles, second.Articles)
	require.Equal(t, 1, provider.Calls)

	m := svc.GetMetrics()
	require.Equal(t, int64(1), m.Hits)
	require.Equal(t, int64(1), m.Misses)
	require.Equal(t, int64(2), m.TotalRequests)
	require.InDelta(t, 50.0, m.HitRatePercent, 0.001)
}

func TestGetFeed_ForceRefreshBypassesCache(t *testing.T) {
	cache := testutil.NewMemoryCache()
	seed(t, cache, "news:business:page:1", news.FeedPayload{Articles: []news.Article{sampleArticle("old")}, TotalResults: 1}, time.Minute)
	provider := okProvider(sampleArticle("new"))
	svc := newService(cache, provider)

	res, err := svc.GetFeed(context.Background(), "business", 1, 5, true)
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.Equal(t, "new", res.Articles[0].ID)
	require.Equal(t, 1, provider.Calls)

	m := svc.GetMetrics()
	require.Equal(t, int64(0), m.Hits)
	require.Equal(t, int64(1), m.Misses)

	// the refreshed page replaced the old one
	again, err := svc.GetFeed(context.Background(), "business", 1, 5, false)
	require.NoError(t, err)
	require.True(t, again.FromCache)
	require.Equal(t, "new", again.Articles[0].ID)
}

func TestGetFeed_UnknownCategoryUsesDefault(t *testing.T) {
	cache := testutil.NewMemoryCache()
	var gotCategory news.Category
	provider := &testutil.ProviderMock{FetchPageFn: func(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error) {
		gotCategory = category
		return news.ProviderPage{Status: news.ProviderStatusOK}, nil
	}}
	svc := newService(cache, provider)

	res, err := svc.GetFeed(context.Background(), "astrology", 2, 5, false)
	require.NoError(t, err)
	require.Equal(t, news.CategoryTechnology, res.Category)
	require.Equal(t, news.CategoryTechnology, gotCategory)
	require.True(t, cache.Has("news:technology:page:2"))
	require.NotNil(t, res.Articles)
	require.Empty(t, res.Articles)
}

func TestGetFeed_UpstreamErrorServesAndCachesFallback(t *testing.T) {
	cache := testutil.NewMemoryCache()
	provider := &testutil.ProviderMock{FetchPageFn: func(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error) {
		return news.ProviderPage{}, errors.New("connection refused")
	}}
	svc := newService(cache, provider)

	res, err := svc.GetFeed(context.Background(), "health", 1, 3, false)
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.Equal(t, news.FallbackArticles(news.CategoryHealth, 3), res.Articles)
	require.Equal(t, 3, res.TotalResults)

	cached, err := svc.GetFeed(context.Background(), "health", 1, 3, false)
	require.NoError(t, err)
	require.True(t, cached.FromCache)
	require.Equal(t, 1, provider.Calls)
}

func TestGetFeed_UpstreamStatusErrorServesFallback(t *testing.T) {
	provider := &testutil.ProviderMock{FetchPageFn: func(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error) {
		return news.ErrorPage("apiKeyInvalid"), nil
	}}
	svc := newService(testutil.NewMemoryCache(), provider)

	res, err := svc.GetFeed(context.Background(), "science", 1, 5, false)
	require.NoError(t, err)
	require.Len(t, res.Articles, 5)
	require.Equal(t, "mock-science-0", res.Articles[0].ID)
}

func TestGetFeed_NilProviderServesFallback(t *testing.T) {
	svc := impl.NewNewsService(testutil.NewMemoryCache(), nil, nil, nil, nil)
	res, err := svc.GetFeed(context.Background(), "general", 1, 2, false)
	require.NoError(t, err)
	require.Len(t, res.Articles, 2)
}

func TestGetFeed_MalformedPayloadTreatedAsMiss(t *testing.T) {
	cache := testutil.NewMemoryCache()
	cache.Put("news:technology:page:1", []byte("{not json"), time.Minute)
	provider := okProvider(sampleArticle("fresh"))
	svc := newService(cache, provider)

	res, err := svc.GetFeed(context.Background(), "technology", 1, 5, false)
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.Equal(t, "fresh", res.Articles[0].ID)
	require.Equal(t, int64(1), svc.GetMetrics().Misses)

	b, ok, err := cache.Get(context.Background(), "news:technology:page:1")
	require.NoError(t, err)
	require.True(t, ok)
	var payload news.FeedPayload
	require.NoError(t, json.Unmarshal(b, &payload))
	require.Equal(t, "fresh", payload.Articles[0].ID)
}

func TestGetFeed_EmptyShapedPayloadsTreatedAsMiss(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"json null", `null`},
		{"empty object", `{}`},
		{"null articles", `{"articles":null,"total_results":3}`},
		{"articles not a list", `{"articles":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := testutil.NewMemoryCache()
			cache.Put("news:technology:page:1", []byte(tt.payload), time.Minute)
			svc := newService(cache, okProvider(sampleArticle("fresh")))

			res, err := svc.GetFeed(context.Background(), "technology", 1, 5, false)
			require.NoError(t, err)
			require.False(t, res.FromCache)
			require.Len(t, res.Articles, 1)
			require.Equal(t, "fresh", res.Articles[0].ID)
			require.Equal(t, int64(0), svc.GetMetrics().Hits)
			require.Equal(t, int64(1), svc.GetMetrics().Misses)
		})
	}
}

func TestGetFeed_EmptyArticleListIsAHit(t *testing.T) {
	cache := testutil.NewMemoryCache()
	cache.Put("news:technology:page:1", []byte(`{"articles":[],"total_results":0}`), time.Minute)
	provider := okProvider(sampleArticle("fresh"))
	svc := newService(cache, provider)

	res, err := svc.GetFeed(context.Background(), "technology", 1, 5, false)
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.Empty(t, res.Articles)
	require.Zero(t, provider.Calls)
}

func TestGetFeed_CacheErrorsDegradeToUpstream(t *testing.T) {
	cache := testutil.NewMemoryCache()
	cache.GetErr = func(string) error { return errors.New("read timeout") }
	cache.SetErr = func(string) error { return errors.New("write timeout") }
	provider := okProvider(sampleArticle("a"))
	svc := newService(cache, provider)

	for i := 0; i < 2; i++ {
		res, err := svc.GetFeed(context.Background(), "technology", 1, 5, false)
		require.NoError(t, err)
		require.False(t, res.FromCache)
		require.Equal(t, "a", res.Articles[0].ID)
	}
	require.Equal(t, 2, provider.Calls)
	require.Equal(t, 0, cache.Len())
	require.Equal(t, int64(2), svc.GetMetrics().Misses)
}

func TestGetFeed_NilCacheAlwaysFetches(t *testing.T) {
	provider := okProvider(sampleArticle("a"))
	svc := impl.NewNewsService(nil, provider, nil, nil, nil)
	for i := 0; i < 3; i++ {
		res, err := svc.GetFeed(context.Background(), "technology", 1, 5, false)
		require.NoError(t, err)
		require.False(t, res.FromCache)
	}
	require.Equal(t, 3, provider.Calls)

	n, err := svc.InvalidateCache(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestGetFeed_CancelledRequestIsNotCached(t *testing.T) {
	cache := testutil.NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	provider := &testutil.ProviderMock{FetchPageFn: func(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error) {
		cancel()
		return news.ProviderPage{}, ctx.Err()
	}}
	svc := newService(cache, provider)

	res, err := svc.GetFeed(ctx, "sports", 1, 5, false)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, res)
	require.Equal(t, 0, cache.Len())
	require.Zero(t, cache.SetCalls)
}

func TestGetFeed_WriteBackSurvivesLateCancellation(t *testing.T) {
	cache := testutil.NewMemoryCache()
	svc := newService(cache, okProvider(sampleArticle("a")))
	ctx, cancel := context.WithCancel(context.Background())
	res, err := svc.GetFeed(ctx, "technology", 1, 5, false)
	cancel()
	require.NoError(t, err)
	require.NotNil(t, res)
	require.True(t, cache.Has("news:technology:page:1"))
}

func TestGetFeed_TTLUnknownIsNil(t *testing.T) {
	cache := testutil.NewMemoryCache()
	seed(t, cache, "news:technology:page:1", news.FeedPayload{Articles: []news.Article{}, TotalResults: 0}, 0)
	svc := newService(cache, okProvider())

	// no expiry reports -1s
	res, err := svc.GetFeed(context.Background(), "technology", 1, 5, false)
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.Nil(t, res.CacheTTL)

	cache.TTLErr = func(string) error { return errors.New("boom") }
	res, err = svc.GetFeed(context.Background(), "technology", 1, 5, false)
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.Nil(t, res.CacheTTL)
}

func TestGetFeed_EntryExpires(t *testing.T) {
	cache := testutil.NewMemoryCache()
	now := time.Unix(1700000000, 0)
	cache.SetClock(func() time.Time { return now })
	provider := okProvider(sampleArticle("a"))
	svc := newService(cache, provider)

	_, err := svc.GetFeed(context.Background(), "technology", 1, 5, false)
	require.NoError(t, err)

	now = now.Add(60 * time.Second)
	res, err := svc.GetFeed(context.Background(), "technology", 1, 5, false)
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.Equal(t, 120, *res.CacheTTL)

	now = now.Add(121 * time.Second)
	res, err = svc.GetFeed(context.Background(), "technology", 1, 5, false)
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.Equal(t, 2, provider.Calls)
}

func seedInvalidationFixture(t *testing.T, cache *testutil.MemoryCache) {
	t.Helper()
	p := news.FeedPayload{Articles: []news.Article{}}
	seed(t, cache, "news:technology:page:1", p, time.Minute)
	seed(t, cache, "news:technology:page:2", p, time.Minute)
	seed(t, cache, "news:sports:page:1", p, time.Minute)
	seed(t, cache, "items:all", p, time.Minute)
}

func TestInvalidateCache_CategoryScoped(t *testing.T) {
	cache := testutil.NewMemoryCache()
	seedInvalidationFixture(t, cache)
	svc := newService(cache, okProvider())

	category := "technology"
	n, err := svc.InvalidateCache(context.Background(), &category)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.False(t, cache.Has("news:technology:page:1"))
	require.False(t, cache.Has("news:technology:page:2"))
	require.True(t, cache.Has("news:sports:page:1"))
	require.True(t, cache.Has("items:all"))
}

func TestInvalidateCache_All(t *testing.T) {
	cache := testutil.NewMemoryCache()
	seedInvalidationFixture(t, cache)
	svc := newService(cache, okProvider())

	n, err := svc.InvalidateCache(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.True(t, cache.Has("items:all"))

	empty := ""
	seedInvalidationFixture(t, cache)
	n, err = svc.InvalidateCache(context.Background(), &empty)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestInvalidateCache_NoMatches(t *testing.T) {
	svc := newService(testutil.NewMemoryCache(), okProvider())
	category := "sports"
	n, err := svc.InvalidateCache(context.Background(), &category)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestInvalidateCache_PartialDeleteFailure(t *testing.T) {
	cache := testutil.NewMemoryCache()
	seedInvalidationFixture(t, cache)
	cache.DeleteErr = func(key string) error {
		if key == "news:technology:page:2" {
			return errors.New("busy")
		}
		return nil
	}
	svc := newService(cache, okProvider())

	n, err := svc.InvalidateCache(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.True(t, cache.Has("news:technology:page:2"))
}

func TestInvalidateCache_KeysErrorReturnsZero(t *testing.T) {
	cache := testutil.NewMemoryCache()
	seedInvalidationFixture(t, cache)
	cache.KeysErr = func(string) error { return errors.New("scan failed") }
	svc := newService(cache, okProvider())

	n, err := svc.InvalidateCache(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, 4, cache.Len())
}

func TestGetFeed_ConcurrentHitsAreCounted(t *testing.T) {
	cache := testutil.NewMemoryCache()
	seed(t, cache, "news:technology:page:1", news.FeedPayload{Articles: []news.Article{sampleArticle("a")}, TotalResults: 1}, time.Minute)
	svc := newService(cache, okProvider())

	const workers = 64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			res, err := svc.GetFeed(context.Background(), "technology", 1, 5, false)
			if err == nil && !res.FromCache {
				t.Errorf("expected cache hit")
			}
		}()
	}
	wg.Wait()

	m := svc.GetMetrics()
	require.Equal(t, int64(workers), m.Hits)
	require.Equal(t, int64(0), m.Misses)
	require.InDelta(t, 100.0, m.HitRatePercent, 0.001)
}

func TestGetCategories(t *testing.T) {
	svc := newService(testutil.NewMemoryCache(), okProvider())
	require.Equal(t, news.Categories(), svc.GetCategories())
}

func TestCacheMetrics_FreshSnapshot(t *testing.T) {
	m := impl.NewCacheMetrics(nil)
	s := m.Snapshot()
	require.Zero(t, s.TotalRequests)
	require.Zero(t, s.HitRatePercent)
	m.RecordHit()
	m.RecordMiss()
	m.RecordMiss()
	m.RecordFallback()
	m.RecordInvalidated(3)
	s = m.Snapshot()
	require.Equal(t, int64(3), s.TotalRequests)
	require.InDelta(t, 33.33, s.HitRatePercent, 0.001)
}

func TestGetFeed_UnconfiguredProviderWarnsAndFallsBack(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	provider := &testutil.ProviderMock{FetchPageFn: func(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error) {
		return news.UnconfiguredPage("news api key not configured"), nil
	}}
	svc := impl.NewNewsService(testutil.NewMemoryCache(), provider, impl.NewCacheMetrics(nil), &impl.NewsServiceConfig{FeedTTL: time.Minute}, logger)

	res, err := svc.GetFeed(context.Background(), "sports", 1, 3, false)
	require.NoError(t, err)
	require.Len(t, res.Articles, 3)

	var warned bool
	for _, e := range hook.AllEntries() {
		require.NotEqual(t, logrus.ErrorLevel, e.Level, e.Message)
		if e.Level == logrus.WarnLevel && e.Message == "news provider not configured, using fallback data" {
			warned = true
		}
	}
	require.True(t, warned)
}
