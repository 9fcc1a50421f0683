package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dashboardKey = "dashboard:summary"

// DashboardCache provides Redis caching for the dashboard summary
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache creates a new dashboard cache with a 30-second TTL
func NewDashboardCache(client *redis.Client) *DashboardCache {
	return &DashboardCache{
		client: client,
		ttl:    30 * time.Second,
	}
}

// Get retrieves the cached summary into dest.
// Returns an error on cache miss or deserialization failure.
func (c *DashboardCache) Get(ctx context.Context, dest interface{}) error {
	val, err := c.client.Get(ctx, dashboardKey).Result()
	if err == redis.Nil {
		return fmt.Errorf("cache miss: dashboard summary not in cache")
	}
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("failed to deserialize dashboard summary: %w", err)
	}

	return nil
}

// Set stores the summary with TTL
func (c *DashboardCache) Set(ctx context.Context, summary interface{}) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize dashboard summary: %w", err)
	}

	if err := c.client.Set(ctx, dashboardKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Invalidate drops the cached summary. Used after writes that change counts.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, dashboardKey).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
