package adapter

import (
	"context"
	"fmt"
	"time"

	"quiztube/internal/domain"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "auth:revoked:"

// RedisTokenBlacklist implements domain.TokenBlacklist on Redis.
// Revoked token IDs live only as long as the token itself would, so the
// set never needs explicit cleanup.
type RedisTokenBlacklist struct {
	client *redis.Client
}

func NewRedisTokenBlacklist(client *redis.Client) domain.TokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func blacklistKey(jti string) string {
	return blacklistKeyPrefix + jti
}

// Revoke marks a token ID as revoked until its natural expiry.
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return fmt.Errorf("cannot revoke token with empty jti")
	}
	if ttl <= 0 {
		// Already expired; nothing to record.
		return nil
	}
	if err := b.client.Set(ctx, blacklistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether a token ID has been revoked.
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token %s: %w", jti, err)
	}
	return n > 0, nil
}
