// Package cache provides caching implementations for the quote fetcher.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	analysisusecase "market_trends/internal/feature/analysis/usecase"
	"market_trends/internal/feature/quotes/domain/entity"
)

// CachingQuoteFetcher decorates a QuoteFetcher with Redis caching.
// Only successful payloads are cached; provider errors always reach the caller.
type CachingQuoteFetcher struct {
	inner     analysisusecase.QuoteFetcher
	rdb       redis.Cmdable
	ttl       time.Duration
	namespace string
}

var _ analysisusecase.QuoteFetcher = (*CachingQuoteFetcher)(nil)

// NewCachingQuoteFetcher decorates a QuoteFetcher with Redis caching.
// If ttl is 0, entries live until the next daily refresh. If namespace is empty, it uses "quotes".
func NewCachingQuoteFetcher(rdb redis.Cmdable, ttl time.Duration, inner analysisusecase.QuoteFetcher, namespace string) *CachingQuoteFetcher {
	if namespace == "" {
		namespace = "quotes"
	}
	return &CachingQuoteFetcher{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Fetch returns the cached payload when present, otherwise calls the inner fetcher.
func (c *CachingQuoteFetcher) Fetch(ctx context.Context, req entity.QuoteRequest) (entity.RawQuotePayload, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Fetch(ctx, req)
	}

	key := c.cacheKey(req)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.RawQuotePayload
		if err := json.Unmarshal(b, &out); err == nil && len(out.Entries) > 0 {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the provider
	out, err := c.inner.Fetch(ctx, req)
	if err != nil {
		return entity.RawQuotePayload{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.expiry()).Err()
	}

	return out, nil
}

func (c *CachingQuoteFetcher) expiry() time.Duration {
	if c.ttl > 0 {
		return c.ttl
	}
	return TimeUntilNextRefresh(time.Now())
}

// cacheKey generates a cache key for a specific request.
func (c *CachingQuoteFetcher) cacheKey(req entity.QuoteRequest) string {
	return fmt.Sprintf("%s:%s:%s",
		c.namespace,
		safe(strings.ToUpper(req.Symbol)),
		safe(string(req.OutputSize)),
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
