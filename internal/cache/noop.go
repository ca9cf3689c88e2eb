package cache

import (
	"context"
	"time"

	"talent-search/internal/search"
)

// NoOpCache is a cache implementation that does nothing. Used as the
// fallback when Redis is unavailable - all operations succeed but every
// read is a miss.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetResults always returns nil (cache miss).
func (c *NoOpCache) GetResults(ctx context.Context, key string) ([]search.Result, error) {
	return nil, nil
}

// SetResults does nothing and always succeeds.
func (c *NoOpCache) SetResults(ctx context.Context, key string, results []search.Result, ttl time.Duration) error {
	return nil
}

// Flush does nothing and always succeeds.
func (c *NoOpCache) Flush(ctx context.Context) error {
	return nil
}

// Close does nothing and always succeeds.
func (c *NoOpCache) Close() error {
	return nil
}
