package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicpulse/civicpulse/internal/models"
)

// Cache is a TTL-keyed zone summary cache backed by Redis. It only shortcuts
// repeated summary reads; pattern detection never waits on it, and a cache
// miss or Redis outage simply regenerates the summary.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a cache with the given TTL. The TTL should not exceed the
// analysis poll interval, or clients may read summaries older than the
// latest detection run.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(zone string) string {
	return "summary:" + zone
}

// Get returns the cached summary for a zone, or ok=false on a miss.
func (c *Cache) Get(ctx context.Context, zone string) (*models.AreaSummary, bool, error) {
	payload, err := c.client.Get(ctx, cacheKey(zone)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("summary cache get: %w", err)
	}

	var summary models.AreaSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("summary cache decode: %w", err)
	}
	return &summary, true, nil
}

// Put stores a zone summary under the cache TTL.
func (c *Cache) Put(ctx context.Context, summary models.AreaSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("summary cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(summary.Zone), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("summary cache set: %w", err)
	}
	return nil
}
