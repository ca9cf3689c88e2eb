package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"talent-search/internal/search"
)

// Cache stores search responses keyed by query so repeated staffing
// requests skip the embedding round trip.
type Cache interface {
	// GetResults retrieves cached results by key. Returns nil on a miss.
	GetResults(ctx context.Context, key string) ([]search.Result, error)

	// SetResults stores results with a TTL.
	SetResults(ctx context.Context, key string, results []search.Result, ttl time.Duration) error

	// Flush drops all cached results, used after an index rebuild.
	Flush(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}

// Key derives a stable cache key from the query and result count without
// storing the query text itself.
func Key(query string, k int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", query, k)))
	return hex.EncodeToString(sum[:])
}
