package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"chaletbook/internal/app/draftstore"
)

// SessionStore backs session state with a redis hash per session so
// multiple instances can serve the same tab. TTL slides on every write.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *SessionStore) Get(ctx context.Context, sessionID, key string) ([]byte, bool, error) {
	value, err := s.client.HGet(ctx, sessionKey(sessionID), key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SessionStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	k := sessionKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	pipe.Expire(ctx, k, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	k := sessionKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, k, keys...)
	pipe.Expire(ctx, k, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Drop(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

var _ draftstore.KV = (*SessionStore)(nil)
