package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store remembers processor event IDs so redelivered webhooks can be
// acknowledged without being reprocessed. Entries expire after ttl; the
// database-level unique constraint on webhook_events remains the
// durable guard.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Key(source, eventID string) string {
	return fmt.Sprintf("idem:%s:%s", source, eventID)
}

// Seen is read-only. Events are marked only after successful
// processing, so a failed first delivery stays retryable.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Mark(ctx context.Context, key string) error {
	return s.rdb.Set(ctx, key, "1", s.ttl).Err()
}
