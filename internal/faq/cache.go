package faq

import (
	"context"
	"time"

	"github.com/ashureev/faqbot/internal/domain"
	"github.com/patrickmn/go-cache"
)

const datasetKey = "dataset"

// CachedSource memoizes successful loads of an underlying Source.
// Failed or empty loads are never cached.
type CachedSource struct {
	src   Source
	cache *cache.Cache
	ttl   time.Duration
}

// NewCachedSource wraps src with a TTL cache. A ttl <= 0 disables caching.
func NewCachedSource(src Source, ttl time.Duration) *CachedSource {
	cleanup := ttl * 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &CachedSource{
		src:   src,
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// FetchAll returns the cached dataset or loads it from the wrapped source.
func (c *CachedSource) FetchAll(ctx context.Context) (domain.Dataset, error) {
	if c.ttl > 0 {
		if x, found := c.cache.Get(datasetKey); found {
			return x.(domain.Dataset), nil
		}
	}

	data, err := c.src.FetchAll(ctx)
	if err != nil {
		return data, err
	}
	if c.ttl > 0 && !data.Empty() {
		c.cache.Set(datasetKey, data, c.ttl)
	}
	return data, nil
}

// Invalidate drops the cached dataset.
func (c *CachedSource) Invalidate() {
	c.cache.Delete(datasetKey)
}
