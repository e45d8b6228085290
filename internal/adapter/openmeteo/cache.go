package openmeteo

import (
	"container/list"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/couchcryptid/weather-now/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache keyed by the
// normalized query. City coordinates do not change, so entries never expire.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Resolve(ctx context.Context, name string) ([]domain.Location, error) {
	key := cacheKey(name)
	if locs, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return locs, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	locs, err := c.inner.Resolve(ctx, name)
	if err != nil {
		return locs, err
	}
	// Only cache non-empty results so "not found" can be retried.
	if len(locs) > 0 {
		c.cache.put(key, locs)
	}
	return locs, nil
}

func cacheKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// lruCache is a thread-safe LRU of geocoding candidates. The front of order
// is the most recently used key.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List
	byKey      map[string]*list.Element
}

type cached struct {
	key  string
	locs []domain.Location
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		byKey:      make(map[string]*list.Element),
	}
}

// get returns a copy so callers cannot mutate cached candidates.
func (c *lruCache) get(key string) ([]domain.Location, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return slices.Clone(el.Value.(*cached).locs), true
}

func (c *lruCache) put(key string, locs []domain.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	locs = slices.Clone(locs)
	if el, ok := c.byKey[key]; ok {
		el.Value.(*cached).locs = locs
		c.order.MoveToFront(el)
		return
	}
	c.byKey[key] = c.order.PushFront(&cached{key: key, locs: locs})

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byKey, oldest.Value.(*cached).key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
