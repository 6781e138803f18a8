package news

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"slices"
	"time"
)

type Category string

const (
	CategoryTechnology    Category = "technology"
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryGeneral       Category = "general"

	// DefaultCategory is served when a request names a category we do not know.
	DefaultCategory = CategoryTechnology
)

var categories = []Category{
	CategoryTechnology,
	CategoryBusiness,
	CategoryEntertainment,
	CategoryHealth,
	CategoryScience,
	CategorySports,
	CategoryGeneral,
}

// Categories returns the known categories in a stable order.
func Categories() []Category {
	return slices.Clone(categories)
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	return slices.Contains(categories, c)
}

// NormalizeCategory maps raw to a known category, falling back to DefaultCategory.
func NormalizeCategory(raw string) Category {
	c := Category(raw)
	if c.IsValid() {
		return c
	}
	return DefaultCategory
}

const (
	keyNamespace = "news"
	// AllPattern matches every feed key regardless of category.
	AllPattern = keyNamespace + ":*"
)

// CacheKey builds the cache key for one page of a category.
func CacheKey(category Category, page int) string {
	return fmt.Sprintf("%s:%s:page:%d", keyNamespace, category, page)
}

// CategoryPattern matches every cached page of category.
func CategoryPattern(category string) string {
	return fmt.Sprintf("%s:%s:*", keyNamespace, category)
}

// ArticleID derives the article identifier from its URL.
func ArticleID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Content     *string   `json:"content"`
	URL         string    `json:"url"`
	ImageURL    *string   `json:"image_url"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	Author      *string   `json:"author"`
	Category    Category  `json:"category"`
}

// FeedPayload is the value stored under a cache key.
type FeedPayload struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"total_results"`
}

// FeedResult is what callers of the feed service receive.
type FeedResult struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"total_results"`
	FromCache    bool      `json:"from_cache"`
	// CacheTTL is the remaining lifetime in seconds; nil when fresh or unknown.
	CacheTTL *int     `json:"cache_ttl"`
	Category Category `json:"category"`
}

type ProviderStatus string

const (
	ProviderStatusOK    ProviderStatus = "ok"
	ProviderStatusError ProviderStatus = "error"
	// ProviderStatusUnconfigured marks a provider missing its credentials. It is a
	// deployment choice rather than an upstream fault.
	ProviderStatusUnconfigured ProviderStatus = "unconfigured"
)

// ProviderPage is one page as reported by an upstream provider.
type ProviderPage struct {
	Status   ProviderStatus
	Message  string
	Articles []Article
}

// OK reports whether the provider returned usable data.
func (p ProviderPage) OK() bool {
	return p.Status == ProviderStatusOK
}

// ErrorPage builds a degraded page carrying msg.
func ErrorPage(format string, args ...any) ProviderPage {
	return ProviderPage{Status: ProviderStatusError, Message: fmt.Sprintf(format, args...)}
}

// UnconfiguredPage reports that the provider cannot be called in this deployment.
func UnconfiguredPage(msg string) ProviderPage {
	return ProviderPage{Status: ProviderStatusUnconfigured, Message: msg}
}

type MetricsSnapshot struct {
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	TotalRequests  int64   `json:"total_requests"`
	HitRatePercent float64 `json:"hit_rate_percent"`
}

// NewMetricsSnapshot derives totals and the hit rate (2 decimals) from raw counters.
func NewMetricsSnapshot(hits, misses int64) MetricsSnapshot {
	total := hits + misses
	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(hits)/float64(total)*100*100) / 100
	}
	return MetricsSnapshot{
		Hits:           hits,
		Misses:         misses,
		TotalRequests:  total,
		HitRatePercent: rate,
	}
}
