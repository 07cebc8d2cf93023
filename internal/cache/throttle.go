package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// throttleKeyPrefix is the Redis key prefix for failed-login counters.
const throttleKeyPrefix = "throttle:login:"

// incrementScript bumps the failed-attempt counter and starts the decay
// window on the first failure. Atomic so concurrent failed logins cannot
// produce a counter without an expiry.
var incrementScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return current
`)

// LoginLimiter throttles login attempts per (identifier, client address)
// key using a Redis counter with a decay TTL.
type LoginLimiter struct {
	cache       *Cache
	maxAttempts int
	decay       time.Duration
}

// NewLoginLimiter creates a LoginLimiter allowing maxAttempts failures
// per key before locking the key out for the decay window.
func NewLoginLimiter(cache *Cache, maxAttempts int, decay time.Duration) *LoginLimiter {
	return &LoginLimiter{
		cache:       cache,
		maxAttempts: maxAttempts,
		decay:       decay,
	}
}

// TooManyAttempts reports whether the key has exhausted its attempts.
// Fails open on Redis errors so a cache outage cannot lock everyone out.
func (l *LoginLimiter) TooManyAttempts(ctx context.Context, key string) (bool, error) {
	count, err := l.cache.client.Get(ctx, throttleKey(key)).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read login attempts: %w", err)
	}
	return count >= l.maxAttempts, nil
}

// Increment records a failed attempt for the key.
func (l *LoginLimiter) Increment(ctx context.Context, key string) error {
	err := incrementScript.Run(ctx, l.cache.client,
		[]string{throttleKey(key)},
		int(l.decay.Seconds()),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to increment login attempts: %w", err)
	}
	return nil
}

// Clear resets the counter for the key after a successful login.
func (l *LoginLimiter) Clear(ctx context.Context, key string) error {
	if err := l.cache.client.Del(ctx, throttleKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// AvailableIn returns how long until the key may attempt again.
// Zero means the key is not locked out.
func (l *LoginLimiter) AvailableIn(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.cache.client.TTL(ctx, throttleKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read lockout TTL: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// throttleKey hashes the composite (identifier, address) key so raw
// emails and IP addresses never appear in Redis.
func throttleKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return throttleKeyPrefix + hex.EncodeToString(hash[:16])
}
