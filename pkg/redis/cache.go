package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheStore is the subset of Client used by Cache.
type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(name string) string
}

// Cache stores JSON documents under the cache namespace with a fixed TTL.
type Cache struct {
	store cacheStore
	ttl   time.Duration
}

// NewCache builds a JSON cache on top of the Redis client.
func NewCache(store cacheStore, ttl time.Duration) (*Cache, error) {
	if store == nil {
		return nil, errors.New("redis client required for cache")
	}
	if ttl <= 0 {
		return nil, errors.New("cache ttl must be positive")
	}
	return &Cache{store: store, ttl: ttl}, nil
}

// Load decodes the cached document into dest. It reports false on a miss.
func (c *Cache) Load(ctx context.Context, name string, dest any) (bool, error) {
	raw, err := c.store.Get(ctx, c.store.CacheKey(name))
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cache %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode cache %s: %w", name, err)
	}
	return true, nil
}

// Store encodes value and writes it with the cache TTL.
func (c *Cache) Store(ctx context.Context, name string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache %s: %w", name, err)
	}
	if err := c.store.Set(ctx, c.store.CacheKey(name), string(payload), c.ttl); err != nil {
		return fmt.Errorf("write cache %s: %w", name, err)
	}
	return nil
}

// Invalidate drops the cached document.
func (c *Cache) Invalidate(ctx context.Context, name string) error {
	if err := c.store.Del(ctx, c.store.CacheKey(name)); err != nil {
		return fmt.Errorf("invalidate cache %s: %w", name, err)
	}
	return nil
}
