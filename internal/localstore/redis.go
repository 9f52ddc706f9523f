package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session state is kept as long as a returning browser keeps its cookie
const sessionTTL = 30 * 24 * time.Hour

// RedisProvider stores session state in Redis so the storefront can restart
// without losing carts, drafts, or guest ids.
type RedisProvider struct {
	client *redis.Client
}

// NewRedisProvider creates a new Redis-backed session provider
func NewRedisProvider(client *redis.Client) *RedisProvider {
	return &RedisProvider{client: client}
}

// ForSession returns the store scoped to the given session id
func (p *RedisProvider) ForSession(id string) Store {
	return &redisStore{client: p.client, prefix: fmt.Sprintf("session:%s:", id)}
}

type redisStore struct {
	client *redis.Client
	prefix string
}

func (s *redisStore) Get(ctx context.Context, key string, v any) error {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("localstore: get %s: %w", key, err)
	}
	return json.Unmarshal(raw, v)
}

func (s *redisStore) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("localstore: set %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("localstore: delete %s: %w", key, err)
	}
	return nil
}
