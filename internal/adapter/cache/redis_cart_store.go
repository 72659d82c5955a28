package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/megatonytrader/express-entregas-zap/internal/cart"
)

// RedisCartStore mirrors serialized cart lines under a fixed key per
// session so a cart survives reloads and new connections.
type RedisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ttl: ttl}
}

func (s *RedisCartStore) key(sessionID string) string {
	return "cart:" + sessionID
}

func (s *RedisCartStore) Load(ctx context.Context, sessionID string) ([]cart.Line, error) {
	raw, err := s.rdb.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cart.DecodeLines(raw)
}

func (s *RedisCartStore) Save(ctx context.Context, sessionID string, lines []cart.Line) error {
	raw, err := cart.EncodeLines(lines)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(sessionID), raw, s.ttl).Err()
}

func (s *RedisCartStore) Erase(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, s.key(sessionID)).Err()
}

var _ cart.Store = (*RedisCartStore)(nil)
