package cache

import (
	"context"
	"slot-swapper/core/constants"
	"sync"
	"time"
)

type entry struct {
	count     int
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache serves single-instance deployments that run without Redis.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *MemoryCache) get(key string) (entry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return entry{}, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		return entry{}, false
	}
	return e, true
}

func (c *MemoryCache) AddToTokenBlacklist(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[constants.RedisKeyTokenBlacklist+token] = entry{count: 1, expiresAt: c.now().Add(constants.TokenBlacklistTTL)}
	return nil
}

func (c *MemoryCache) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.get(constants.RedisKeyTokenBlacklist + token)
	return ok, nil
}

func (c *MemoryCache) IncrementLoginAttempt(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := constants.RedisKeyLoginAttempt + key
	e, ok := c.get(k)
	if !ok {
		e = entry{expiresAt: c.now().Add(constants.BlockDuration)}
	}
	e.count++
	c.entries[k] = e
	return nil
}

func (c *MemoryCache) IsLoginBlocked(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.get(constants.RedisKeyLoginAttempt + key)
	return ok && e.count >= constants.MaxLoginAttempts, nil
}

func (c *MemoryCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := constants.RedisKeyLoginAttempt + key
	if e, ok := c.get(k); ok {
		e.expiresAt = c.now().Add(ttl)
		c.entries[k] = e
	}
	return nil
}

func (c *MemoryCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, constants.RedisKeyLoginAttempt+key)
	return nil
}

func (c *MemoryCache) Ping(context.Context) error { return nil }

func (c *MemoryCache) Close() error { return nil }
