package ports

import (
	"context"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/news"
)

// NewsProvider fetches one page of normalized articles from an upstream source.
// A returned error means the call itself failed (transport, decoding); a page with
// a non-ok Status means the upstream answered but reported a problem. Both are
// single attempts with no retry.
type NewsProvider interface {
	Name() string
	FetchPage(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error)
}

// NewsService defines the cache-aside feed operations exposed to the boundary layer.
type NewsService interface {
	GetFeed(ctx context.Context, category string, page, pageSize int, forceRefresh bool) (*news.FeedResult, error)
	// InvalidateCache deletes cached pages of category, or of every category when nil.
	InvalidateCache(ctx context.Context, category *string) (int, error)
	GetMetrics() news.MetricsSnapshot
	GetCategories() []news.Category
}
