package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/auth"
	"github.com/avatarctic/news-dashboard/go/internal/core/domain/item"
	"github.com/avatarctic/news-dashboard/go/internal/core/domain/news"
)

// ProviderMock implements ports.NewsProvider.
type ProviderMock struct {
	FetchPageFn func(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error)
	Calls       int
}

func (m *ProviderMock) Name() string { return "mock" }

func (m *ProviderMock) FetchPage(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error) {
	m.Calls++
	if m.FetchPageFn != nil {
		return m.FetchPageFn(ctx, category, page, pageSize)
	}
	return news.ProviderPage{Status: news.ProviderStatusOK}, nil
}

// NewsServiceMock implements ports.NewsService.
type NewsServiceMock struct {
	GetFeedFn         func(ctx context.Context, category string, page, pageSize int, forceRefresh bool) (*news.FeedResult, error)
	InvalidateCacheFn func(ctx context.Context, category *string) (int, error)
	GetMetricsFn      func() news.MetricsSnapshot
}

func (m *NewsServiceMock) GetFeed(ctx context.Context, category string, page, pageSize int, forceRefresh bool) (*news.FeedResult, error) {
	if m.GetFeedFn != nil {
		return m.GetFeedFn(ctx, category, page, pageSize, forceRefresh)
	}
	return &news.FeedResult{Articles: []news.Article{}, Category: news.NormalizeCategory(category)}, nil
}

func (m *NewsServiceMock) InvalidateCache(ctx context.Context, category *string) (int, error) {
	if m.InvalidateCacheFn != nil {
		return m.InvalidateCacheFn(ctx, category)
	}
	return 0, nil
}

func (m *NewsServiceMock) GetMetrics() news.MetricsSnapshot {
	if m.GetMetricsFn != nil {
		return m.GetMetricsFn()
	}
	return news.NewMetricsSnapshot(0, 0)
}

func (m *NewsServiceMock) GetCategories() []news.Category { return news.Categories() }

// ItemRepositoryMock implements ports.ItemRepository over a map when no hook is set.
type ItemRepositoryMock struct {
	Items      map[uuid.UUID]*item.Item
	CreateFn   func(ctx context.Context, it *item.Item) error
	GetByIDFn  func(ctx context.Context, id uuid.UUID) (*item.Item, error)
	UpdateFn   func(ctx context.Context, it *item.Item) error
	ListCalls  int
	GetCalls   int
	CountCalls int
}

func NewItemRepositoryMock() *ItemRepositoryMock {
	return &ItemRepositoryMock{Items: map[uuid.UUID]*item.Item{}}
}

func (m *ItemRepositoryMock) Create(ctx context.Context, it *item.Item) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, it)
	}
	cp := *it
	m.Items[it.ID] = &cp
	return nil
}

func (m *ItemRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	m.GetCalls++
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	it, ok := m.Items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *ItemRepositoryMock) Update(ctx context.Context, it *item.Item) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, it)
	}
	if _, ok := m.Items[it.ID]; !ok {
		return item.ErrNotFound
	}
	cp := *it
	m.Items[it.ID] = &cp
	return nil
}

func (m *ItemRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.Items[id]; !ok {
		return item.ErrNotFound
	}
	delete(m.Items, id)
	return nil
}

// List orders by name for deterministic pages.
func (m *ItemRepositoryMock) List(ctx context.Context, limit, offset int) ([]*item.Item, error) {
	m.ListCalls++
	all := make([]*item.Item, 0, len(m.Items))
	for _, it := range m.Items {
		cp := *it
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return []*item.Item{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *ItemRepositoryMock) Count(ctx context.Context) (int, error) {
	m.CountCalls++
	return len(m.Items), nil
}

// ItemServiceMock implements ports.ItemService.
type ItemServiceMock struct {
	CreateItemFn func(ctx context.Context, req *item.CreateItemRequest) (*item.Item, error)
	GetItemFn    func(ctx context.Context, id uuid.UUID) (*item.Item, error)
	ListItemsFn  func(ctx context.Context, limit, offset int) ([]*item.Item, int, error)
	UpdateItemFn func(ctx context.Context, id uuid.UUID, req *item.UpdateItemRequest) (*item.Item, error)
	DeleteItemFn func(ctx context.Context, id uuid.UUID) error
}

func (m *ItemServiceMock) CreateItem(ctx context.Context, req *item.CreateItemRequest) (*item.Item, error) {
	if m.CreateItemFn != nil {
		return m.CreateItemFn(ctx, req)
	}
	return &item.Item{ID: uuid.New(), Name: req.Name, Description: req.Description}, nil
}

func (m *ItemServiceMock) GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, id)
	}
	return nil, item.ErrNotFound
}

func (m *ItemServiceMock) ListItems(ctx context.Context, limit, offset int) ([]*item.Item, int, error) {
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, limit, offset)
	}
	return []*item.Item{}, 0, nil
}

func (m *ItemServiceMock) UpdateItem(ctx context.Context, id uuid.UUID, req *item.UpdateItemRequest) (*item.Item, error) {
	if m.UpdateItemFn != nil {
		return m.UpdateItemFn(ctx, id, req)
	}
	return nil, item.ErrNotFound
}

func (m *ItemServiceMock) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, id)
	}
	return nil
}

// RateLimiterMock implements ports.RateLimiterService.
type RateLimiterMock struct {
	AllowFn func(ctx context.Context, clientID string) (bool, int, int, time.Time, error)
	Clients []string
}

func (m *RateLimiterMock) Allow(ctx context.Context, clientID string) (bool, int, int, time.Time, error) {
	m.Clients = append(m.Clients, clientID)
	if m.AllowFn != nil {
		return m.AllowFn(ctx, clientID)
	}
	return true, 9, 10, time.Unix(1700000060, 0), nil
}

// AdminTokensMock implements ports.AdminTokenService.
type AdminTokensMock struct {
	EnabledValue    bool
	ValidateTokenFn func(token string) (*auth.Claims, error)
}

func (m *AdminTokensMock) Enabled() bool { return m.EnabledValue }

func (m *AdminTokensMock) GenerateToken(subject string, ttl time.Duration) (*auth.AdminToken, error) {
	return &auth.AdminToken{AccessToken: "token-" + subject, ExpiresIn: int64(ttl.Seconds())}, nil
}

func (m *AdminTokensMock) ValidateToken(token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(token)
	}
	claims := &auth.Claims{Role: auth.AdminRole}
	claims.Subject = "ops"
	return claims, nil
}
