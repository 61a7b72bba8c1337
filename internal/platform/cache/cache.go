// Package cache is a thin optional Redis layer for read-heavy aggregate
// payloads. When REDIS_ADDR is unset every operation is a no-op, so callers
// never branch on whether caching is configured.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/utils"
)

type Client struct {
	rdb *redis.Client
	log *logger.Logger
}

// New builds the cache from the environment. A nil-backed client is valid
// and simply misses on every read.
func New(log *logger.Logger) *Client {
	addr := utils.GetEnv("REDIS_ADDR", "", log)
	c := &Client{log: log.With("client", "Cache")}
	if addr == "" {
		return c
	}
	c.rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", log),
	})
	return c
}

// Get returns the cached payload and whether it was present. Redis errors
// degrade to a miss.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

// Set stores a payload with a TTL. Failures are logged and dropped.
func (c *Client) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops a key.
func (c *Client) Invalidate(ctx context.Context, key string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", "key", key, "error", err)
	}
}

func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
