package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"shopit/internal/cart/domain"
)

// Store holds one cart per session as JSON under cart:<id>. A session
// with no saved cart loads as empty. Concurrent requests from the same
// session are last-write-wins.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(sessionID string) string {
	return "cart:" + sessionID
}

func (s *Store) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	raw, err := s.rdb.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.New(), nil
	}
	if err != nil {
		return domain.Cart{}, err
	}

	var c domain.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Cart{}, err
	}
	if c.Entries == nil {
		c.Entries = map[int64]domain.Entry{}
	}
	return c, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, c domain.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(sessionID), raw, s.ttl).Err()
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, key(sessionID)).Err()
}
