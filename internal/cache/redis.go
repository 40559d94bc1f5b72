// Package cache holds the Redis-backed cache used in front of the todo store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/redmonkez12/go-todo-api/internal/config"
)

// versionTTL bounds how long an invalidated key's version outlives it.
const versionTTL = 24 * time.Hour

// setIfVersion writes KEYS[1] only while the counter at KEYS[2] equals
// ARGV[1]. A missing counter counts as zero.
var setIfVersion = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// invalidate takes KEYS as value/counter pairs, bumps each counter and
// drops each value.
var invalidate = redis.NewScript(`
for i = 1, #KEYS, 2 do
	redis.call('INCR', KEYS[i + 1])
	redis.call('PEXPIRE', KEYS[i + 1], ARGV[1])
	redis.call('DEL', KEYS[i])
end
return #KEYS / 2
`)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// RedisCache stores raw values in Redis next to a per-key version counter.
type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func versionKey(key string) string {
	return key + ":version"
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, true, nil
}

func (c *RedisCache) Version(ctx context.Context, key string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get version of %s: %w", key, err)
	}
	return v, nil
}

// SetIfVersion is a no-op for a non-positive ttl.
func (c *RedisCache) SetIfVersion(ctx context.Context, key string, version int64, value []byte, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	n, err := setIfVersion.Run(ctx, c.client,
		[]string{key, versionKey(key)},
		version, value, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to set %s: %w", key, err)
	}
	return n == 1, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, key, versionKey(key))
	}
	if err := invalidate.Run(ctx, c.client, pairs, versionTTL.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate keys: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
