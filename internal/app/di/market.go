// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	analysisusecase "market_trends/internal/feature/analysis/usecase"
	"market_trends/internal/feature/quotes/adapters/alphavantage"
	"market_trends/internal/platform/cache"
	infrahttp "market_trends/internal/platform/http"
	"market_trends/internal/shared/ratelimiter"
)

// NewQuoteClient creates a fully configured Alpha Vantage client with HTTP client and rate limiter.
func NewQuoteClient(cfg alphavantage.Config) *alphavantage.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.CallsPerMinute, time.Minute)
	return alphavantage.NewClient(cfg, httpClient, limiter)
}

// NewQuoteFetcher returns the quote client, wrapped with a Redis cache when rdb is non-nil.
// Cache entries expire at the next daily refresh.
func NewQuoteFetcher(cfg alphavantage.Config, rdb *redis.Client) analysisusecase.QuoteFetcher {
	client := NewQuoteClient(cfg)
	if rdb == nil {
		return client
	}
	return cache.NewCachingQuoteFetcher(rdb, 0, client, "quotes")
}
