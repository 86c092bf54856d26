package backend

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const recommendationCacheKey = "recommendation:latest"

// Cache is the subset of fiber.Storage the provider cache needs.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
}

// CachedProvider serves recommendations from a short-lived cache, falling
// back to the wrapped provider on a miss. Cache failures are logged and
// otherwise ignored.
type CachedProvider struct {
	next  Provider
	cache Cache
	ttl   time.Duration
}

// NewCachedProvider wraps next. A nil cache or non-positive ttl returns next unchanged.
func NewCachedProvider(next Provider, cache Cache, ttl time.Duration) Provider {
	if cache == nil || ttl <= 0 {
		return next
	}
	return &CachedProvider{next: next, cache: cache, ttl: ttl}
}

// Recommendation returns the cached recommendation or fetches a fresh one.
func (p *CachedProvider) Recommendation(ctx context.Context) (*Recommendation, error) {
	if data, err := p.cache.Get(recommendationCacheKey); err != nil {
		slog.Warn("recommendation cache read failed", "error", err)
	} else if len(data) > 0 {
		var rec Recommendation
		if err := json.Unmarshal(data, &rec); err == nil {
			return &rec, nil
		}
	}

	rec, err := p.next.Recommendation(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rec); err == nil {
		if err := p.cache.Set(recommendationCacheKey, data, p.ttl); err != nil {
			slog.Warn("recommendation cache write failed", "error", err)
		}
	}
	return rec, nil
}
