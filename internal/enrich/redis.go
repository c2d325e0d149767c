package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"admitcast/internal/college"

	goredis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "admitcast:college:"

// RedisCache stores patches in Redis with a native expiry.
type RedisCache struct {
	rdb *goredis.Client
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{rdb: rdb}, nil
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, name string) (*college.Patch, bool, error) {
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+cacheKey(name)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	patch, err := decodePatch(raw)
	if err != nil {
		return nil, false, err
	}
	return patch, true, nil
}

// Put implements Cache. A zero ttl keeps the key until evicted.
func (r *RedisCache) Put(ctx context.Context, name string, patch college.Patch, ttl time.Duration) error {
	data, err := encodePatch(patch)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+cacheKey(name), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *RedisCache) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
