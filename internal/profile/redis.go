package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rgehrsitz/sipgo/internal/domain"
)

const redisKeyPrefix = "sipgo:profile:"

// RedisStore keeps each profile under sipgo:profile:<user>
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr and pings it
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(userID string) string {
	return redisKeyPrefix + userID
}

func (s *RedisStore) Get(ctx context.Context, userID string) (domain.RiskProfile, error) {
	if err := validateUser("profile_get", userID); err != nil {
		return "", err
	}
	val, err := s.client.Get(ctx, redisKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", notFound("profile_get", userID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read profile: %w", err)
	}
	return domain.RiskProfile(val), nil
}

func (s *RedisStore) Set(ctx context.Context, userID string, p domain.RiskProfile) error {
	if err := validate("profile_set", userID, p); err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(userID), string(p), 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
