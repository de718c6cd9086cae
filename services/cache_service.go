package services

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

// CacheService keeps short-lived counters and flags: rate limits and the
// access token blacklist. Without Redis it falls back to an in-process
// table, which is enough for a single instance.
type CacheService struct {
	logger *gecho.Logger
	client *redis.Client

	mu    sync.Mutex
	local map[string]*localEntry
}

type localEntry struct {
	count     int
	expiresAt time.Time
}

func NewCacheService(logger *gecho.Logger, client *redis.Client) *CacheService {
	return &CacheService{
		logger: logger,
		client: client,
		local:  make(map[string]*localEntry),
	}
}

// withRetry executes a Redis operation with exponential backoff and
// jitter. Only connection level failures are retried.
func (cs *CacheService) withRetry(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			return nil
		}
		if attempt == maxRetries || !isRetryableError(lastErr) {
			break
		}

		backoff := min(100*(1<<attempt), 2000)
		var buf [4]byte
		jitter := 0
		if _, err := rand.Read(buf[:]); err == nil {
			jitter = int(binary.BigEndian.Uint32(buf[:]) % uint32(backoff/2+1))
		}
		time.Sleep(time.Duration(backoff/2+jitter) * time.Millisecond)
	}

	return fmt.Errorf("redis operation failed: %w", lastErr)
}

func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	msg := err.Error()
	for _, s := range []string{"connection refused", "connection reset", "timeout", "broken pipe", "no such host", "network is unreachable"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (cs *CacheService) Close() error {
	if cs.client != nil {
		return cs.client.Close()
	}
	return nil
}

// Ping checks the Redis connection. It is a no-op without Redis.
func (cs *CacheService) Ping(ctx context.Context) error {
	if cs.client == nil {
		return nil
	}
	return cs.withRetry(func() error {
		return cs.client.Ping(ctx).Err()
	}, 2)
}

// Enabled reports whether Redis backs the cache.
func (cs *CacheService) Enabled() bool {
	return cs.client != nil
}

func (cs *CacheService) incrLocal(key string, ttl time.Duration) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := time.Now()
	e, ok := cs.local[key]
	if !ok || now.After(e.expiresAt) {
		e = &localEntry{expiresAt: now.Add(ttl)}
		cs.local[key] = e
	}
	e.count++
	return e.count
}

func (cs *CacheService) getLocal(key string) (int, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	e, ok := cs.local[key]
	if !ok {
		return 0, false
	}
	if time.Now().After(e.expiresAt) {
		delete(cs.local, key)
		return 0, false
	}
	return e.count, true
}

// PruneLocal drops expired in-process entries.
func (cs *CacheService) PruneLocal() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	now := time.Now()
	for k, e := range cs.local {
		if now.After(e.expiresAt) {
			delete(cs.local, k)
		}
	}
}

// IncrementRateLimit increments the counter for an IP/endpoint pair and
// returns the new value. The window starts at the first increment.
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)
	if cs.client == nil {
		return cs.incrLocal(key, window), nil
	}

	var result int64
	err := cs.withRetry(func() error {
		val, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		result = val
		if val == 1 {
			return cs.client.Expire(ctx, key, window).Err()
		}
		return nil
	}, 2)

	return int(result), err
}

// BlacklistToken revokes jti for ttl.
func (cs *CacheService) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	key := "blacklist:" + jti
	if cs.client == nil {
		cs.incrLocal(key, ttl)
		return nil
	}
	return cs.withRetry(func() error {
		return cs.client.Set(ctx, key, "true", ttl).Err()
	}, 2)
}

func (cs *CacheService) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	key := "blacklist:" + jti
	if cs.client == nil {
		_, ok := cs.getLocal(key)
		return ok, nil
	}

	var revoked bool
	err := cs.withRetry(func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			revoked = false
			return nil
		}
		if err != nil {
			return err
		}
		revoked = val == "true"
		return nil
	}, 2)
	return revoked, err
}

// ConnectionStats returns Redis pool statistics, or nil without Redis.
func (cs *CacheService) ConnectionStats() map[string]any {
	if cs.client == nil {
		return nil
	}
	stats := cs.client.PoolStats()
	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
