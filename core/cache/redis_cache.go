package cache

import (
	"context"
	"errors"
	"slot-swapper/core/constants"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) AddToTokenBlacklist(ctx context.Context, token string) error {
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, 1, constants.TokenBlacklistTTL).Err()
}

func (c *RedisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrementLoginAttempt bumps the failure counter; the window starts at the first failure.
func (c *RedisCache) IncrementLoginAttempt(ctx context.Context, key string) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, constants.RedisKeyLoginAttempt+key)
	pipe.ExpireNX(ctx, constants.RedisKeyLoginAttempt+key, constants.BlockDuration)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCache) IsLoginBlocked(ctx context.Context, key string) (bool, error) {
	val, err := c.client.Get(ctx, constants.RedisKeyLoginAttempt+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return false, err
	}
	return count >= constants.MaxLoginAttempts, nil
}

func (c *RedisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, constants.RedisKeyLoginAttempt+key, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, constants.RedisKeyLoginAttempt+key).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
