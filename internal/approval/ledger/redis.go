package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "approval:consumed:"

// RedisStore implements the Store interface using redis, so single-use
// enforcement holds across processes and restarts.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a redis-backed ledger
func NewRedisStore(addr, username, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}, nil
}

// Consume atomically records the token as spent via SETNX. The key carries a
// TTL matching the token's remaining validity: after that the codec rejects
// the token as expired on its own.
func (s *RedisStore) Consume(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}

	ok, err := s.client.SetNX(ctx, s.prefix+hashToken(token), time.Now().Unix(), ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenConsumed
	}
	return nil
}

// IsConsumed reports whether the token has been spent
func (s *RedisStore) IsConsumed(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+hashToken(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close releases the redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
