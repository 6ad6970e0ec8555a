package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PromptCache stores the resolved prompt-of-the-day id in Redis.
// Key format: journal:prompt_of_day:<yyyy-mm-dd>
type PromptCache struct {
	client *redis.Client
}

// NewPromptCache creates a PromptCache wrapping the given Redis client.
func NewPromptCache(client *redis.Client) *PromptCache {
	return &PromptCache{client: client}
}

// TodayPromptID returns the cached prompt id for the given day, or "" on a
// cache miss.
func (c *PromptCache) TodayPromptID(ctx context.Context, day time.Time) (string, error) {
	id, err := c.client.Get(ctx, c.key(day)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("prompt cache get: %w", err)
	}
	return id, nil
}

// SetTodayPromptID records the day's prompt id; ttl should span until the
// next midnight so the key expires with the day.
func (c *PromptCache) SetTodayPromptID(ctx context.Context, day time.Time, promptID string, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(day), promptID, ttl).Err()
}

// Forget drops the cached id, forcing the next lookup to re-resolve.
func (c *PromptCache) Forget(ctx context.Context, day time.Time) error {
	return c.client.Del(ctx, c.key(day)).Err()
}

func (c *PromptCache) key(day time.Time) string {
	return "journal:prompt_of_day:" + day.UTC().Format("2006-01-02")
}
