package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
)

// RedisStore keeps sessions in Redis as JSON values, one key per user.
// Each Set refreshes the key TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. A zero ttl keeps sessions forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(userID int64) string {
	return fmt.Sprintf("relaybots:session:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (Session, bool, error) {
	v, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("%w: get session %d: %w", boterrors.ErrStateStore, userID, err)
	}

	var session Session
	if err := json.Unmarshal(v, &session); err != nil {
		return Session{}, false, fmt.Errorf("%w: decode session %d: %w", boterrors.ErrStateStore, userID, err)
	}
	return session, true, nil
}

func (s *RedisStore) Set(ctx context.Context, userID int64, session Session) error {
	session.UpdatedAt = time.Now()

	b, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(userID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set session %d: %w", boterrors.ErrStateStore, userID, err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: reset session %d: %w", boterrors.ErrStateStore, userID, err)
	}
	return nil
}
