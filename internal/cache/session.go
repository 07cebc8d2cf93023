package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix is the Redis key prefix for live token sessions.
// A bearer token is valid only while its jti record exists; logout and
// refresh revoke tokens by deleting the record.
const sessionKeyPrefix = "session:token:"

// PutTokenSession records a live token session for the given jti.
// The TTL matches the token lifetime so records expire with their tokens.
func (c *Cache) PutTokenSession(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, sessionKeyPrefix+jti, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token session: %w", err)
	}
	return nil
}

// GetTokenSession returns the user ID bound to the jti, or "" when the
// session does not exist (expired or revoked).
func (c *Cache) GetTokenSession(ctx context.Context, jti string) (string, error) {
	userID, err := c.client.Get(ctx, sessionKeyPrefix+jti).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token session: %w", err)
	}
	return userID, nil
}

// DeleteTokenSession revokes the token bound to the jti.
func (c *Cache) DeleteTokenSession(ctx context.Context, jti string) error {
	if err := c.client.Del(ctx, sessionKeyPrefix+jti).Err(); err != nil {
		return fmt.Errorf("failed to delete token session: %w", err)
	}
	return nil
}
