package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medigate/models"

	"github.com/go-redis/redis/v8"
)

// RedisTokenStore keeps a session's token pair in Redis under a per-session
// key with a TTL, so sessions survive process restarts and expire on their
// own.
type RedisTokenStore struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

func NewRedisTokenStore(client *redis.Client, key string, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{Client: client, Key: key, TTL: ttl}
}

func (s *RedisTokenStore) Pair(ctx context.Context) (models.TokenPair, error) {
	data, err := s.Client.Get(ctx, s.Key).Result()
	if err == redis.Nil {
		return models.TokenPair{}, nil
	}
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to load session tokens: %w", err)
	}
	var pair models.TokenPair
	if err := json.Unmarshal([]byte(data), &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to unmarshal session tokens: %w", err)
	}
	return pair, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, pair models.TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to marshal session tokens: %w", err)
	}
	if err := s.Client.Set(ctx, s.Key, data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to save session tokens: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	return s.Client.Del(ctx, s.Key).Err()
}
