package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayTTL = 24 * time.Hour

// ReplayStore backs the idempotent-create guard: it maps an owner's
// Idempotency-Key to the id of the entry created for it, so a retried
// request returns the original entry instead of a duplicate-title conflict.
// Key format: replay:<owner_id>:<idempotency_key>
type ReplayStore struct {
	client *redis.Client
}

// NewReplayStore creates a ReplayStore wrapping the given Redis client.
func NewReplayStore(client *redis.Client) *ReplayStore {
	return &ReplayStore{client: client}
}

// Lookup returns the entry id recorded for this owner and key, if any.
func (s *ReplayStore) Lookup(ctx context.Context, ownerID, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("replay lookup: %w", err)
	}
	return id, true, nil
}

// Remember records the created entry id for this owner and key (expires
// after replayTTL).
func (s *ReplayStore) Remember(ctx context.Context, ownerID, key, id string) error {
	return s.client.Set(ctx, s.key(ownerID, key), id, replayTTL).Err()
}

func (s *ReplayStore) key(ownerID, key string) string {
	return fmt.Sprintf("replay:%s:%s", ownerID, key)
}
