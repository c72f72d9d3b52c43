package convert

import (
	"context"
	"sync"
	"time"

	"github.com/fermibench/fermibench/internal/model"
	fbotel "github.com/fermibench/fermibench/internal/otel"
)

// CachedConverter memoizes conversion results per (unit1, unit2) pair,
// saving an LLM call when the same pair recurs within a batch. The direction
// matters, so ("kg", "lb") and ("lb", "kg") are distinct keys.
//
// Caching is opt-in: the observed contract is one conversion call per
// scoring call, so callers enable this explicitly. Entries have a TTL; a
// TTL of 0 disables caching entirely.
type CachedConverter struct {
	inner   Converter
	ttl     time.Duration
	metrics *fbotel.Metrics

	mu      sync.RWMutex
	entries map[cacheKey]*cacheEntry
}

type cacheKey struct {
	unit1 string
	unit2 string
}

type cacheEntry struct {
	conv     model.Conversion
	cachedAt time.Time
	hitCount int
}

// NewCachedConverter wraps inner with a TTL cache. metrics may be nil.
func NewCachedConverter(inner Converter, ttl time.Duration, metrics *fbotel.Metrics) *CachedConverter {
	return &CachedConverter{
		inner:   inner,
		ttl:     ttl,
		metrics: metrics,
		entries: make(map[cacheKey]*cacheEntry),
	}
}

// Convert returns a cached result for the pair when present and fresh,
// otherwise delegates to the wrapped converter and stores the outcome.
// Transport failures are never cached.
func (c *CachedConverter) Convert(ctx context.Context, unit1, unit2 string) (model.Conversion, error) {
	if c.ttl <= 0 {
		return c.inner.Convert(ctx, unit1, unit2)
	}

	key := cacheKey{unit1: unit1, unit2: unit2}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && time.Since(entry.cachedAt) <= c.ttl {
		c.mu.Lock()
		entry.hitCount++
		c.mu.Unlock()
		c.metrics.RecordConversionCacheHit(ctx)
		return entry.conv, nil
	}

	c.metrics.RecordConversionCacheMiss(ctx)

	conv, err := c.inner.Convert(ctx, unit1, unit2)
	if err != nil {
		return model.Conversion{}, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{conv: conv, cachedAt: time.Now()}
	c.mu.Unlock()

	return conv, nil
}

// Len returns the number of cached pairs.
func (c *CachedConverter) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
