package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/item"
	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
)

const (
	itemsAllKey   = "items:all"
	itemsCountKey = "items:count"
)

func itemIDKey(id uuid.UUID) string { return "item:id:" + id.String() }

// jsonCache stores JSON documents in a ports.Cache. Every failure is swallowed and
// reads degrade to misses, so a nil or broken cache only costs database round trips.
type jsonCache struct {
	cache ports.Cache
	ttl   time.Duration
}

func (j jsonCache) put(ctx context.Context, key string, v any) {
	if j.cache == nil {
		return
	}
	if b, err := json.Marshal(v); err == nil {
		_ = j.cache.Set(ctx, key, b, j.ttl)
	}
}

func (j jsonCache) drop(ctx context.Context, keys ...string) {
	if j.cache == nil {
		return
	}
	for _, k := range keys {
		_ = j.cache.Delete(ctx, k)
	}
}

func lookup[T any](ctx context.Context, j jsonCache, key string) (T, bool) {
	var v T
	if j.cache == nil {
		return v, false
	}
	b, ok, err := j.cache.Get(ctx, key)
	if err != nil || !ok {
		return v, false
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, false
	}
	return v, true
}

// CachingItemRepository decorates an ItemRepository with cache-aside. Single items
// are cached by ID; listings are served from one cached full list.
type CachingItemRepository struct {
	inner ports.ItemRepository
	store jsonCache
	group singleflight.Group
}

func NewCachingItemRepository(inner ports.ItemRepository, cache ports.Cache, ttl time.Duration) ports.ItemRepository {
	return &CachingItemRepository{inner: inner, store: jsonCache{cache: cache, ttl: ttl}}
}

func (c *CachingItemRepository) Create(ctx context.Context, it *item.Item) error {
	if err := c.inner.Create(ctx, it); err != nil {
		return err
	}
	c.store.put(ctx, itemIDKey(it.ID), it)
	c.store.drop(ctx, itemsAllKey, itemsCountKey)
	return nil
}

func (c *CachingItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	if it, ok := lookup[*item.Item](ctx, c.store, itemIDKey(id)); ok && it != nil {
		return it, nil
	}
	it, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store.put(ctx, itemIDKey(id), it)
	return it, nil
}

func (c *CachingItemRepository) Update(ctx context.Context, it *item.Item) error {
	if err := c.inner.Update(ctx, it); err != nil {
		return err
	}
	c.store.put(ctx, itemIDKey(it.ID), it)
	c.store.drop(ctx, itemsAllKey)
	return nil
}

func (c *CachingItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.store.drop(ctx, itemIDKey(id), itemsAllKey, itemsCountKey)
	return nil
}

func (c *CachingItemRepository) List(ctx context.Context, limit, offset int) ([]*item.Item, error) {
	all, err := c.fullList(ctx)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return []*item.Item{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// fullList returns every item, loading from the inner repository at most once per
// burst of concurrent misses.
func (c *CachingItemRepository) fullList(ctx context.Context) ([]*item.Item, error) {
	if all, ok := lookup[[]*item.Item](ctx, c.store, itemsAllKey); ok {
		return all, nil
	}
	v, err, _ := c.group.Do(itemsAllKey, func() (any, error) {
		if all, ok := lookup[[]*item.Item](ctx, c.store, itemsAllKey); ok {
			return all, nil
		}
		cnt, err := c.inner.Count(ctx)
		if err != nil {
			return nil, err
		}
		all, err := c.inner.List(ctx, cnt, 0)
		if err != nil {
			return nil, err
		}
		c.store.put(ctx, itemsAllKey, all)
		c.store.put(ctx, itemsCountKey, len(all))
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*item.Item), nil
}

func (c *CachingItemRepository) Count(ctx context.Context) (int, error) {
	if n, ok := lookup[int](ctx, c.store, itemsCountKey); ok {
		return n, nil
	}
	if all, ok := lookup[[]*item.Item](ctx, c.store, itemsAllKey); ok {
		return len(all), nil
	}
	n, err := c.inner.Count(ctx)
	if err != nil {
		return 0, err
	}
	c.store.put(ctx, itemsCountKey, n)
	return n, nil
}
