package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetKeyPrefix = "pwreset:"

// RedisResetStore tracks reset token jtis in Redis with the token's TTL.
type RedisResetStore struct {
	client *redis.Client
}

// NewRedisResetStore constructs a RedisResetStore.
func NewRedisResetStore(client *redis.Client) *RedisResetStore {
	return &RedisResetStore{client: client}
}

// Save records an issued jti; it expires together with the token.
func (s *RedisResetStore) Save(ctx context.Context, jti string, ttl time.Duration) error {
	return s.client.Set(ctx, resetKeyPrefix+jti, "1", ttl).Err()
}

// Consume claims the jti atomically so a reset token works exactly once.
func (s *RedisResetStore) Consume(ctx context.Context, jti string) (bool, error) {
	err := s.client.GetDel(ctx, resetKeyPrefix+jti).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
