package memory

import (
	"context"
	"sync"
	"time"

	"chaletbook/internal/app/checkout"
)

const defaultIdempotencyTTL = 7 * 24 * time.Hour

// IdempotencyStore keeps checkout receipts for Idempotency-Key replay
// in process memory. Records age out after the TTL, matching what the
// mongo-backed store does with its expiry index; expired entries are
// pruned lazily on write.
type IdempotencyStore struct {
	mu    sync.RWMutex
	items map[string]checkout.IdempotencyRecord
	ttl   time.Duration
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{
		items: make(map[string]checkout.IdempotencyRecord),
		ttl:   ttl,
	}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (checkout.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.items[key]
	if !ok || s.expired(rec, time.Now()) {
		return checkout.IdempotencyRecord{}, false, nil
	}
	return rec, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec checkout.IdempotencyRecord) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, old := range s.items {
		if s.expired(old, now) {
			delete(s.items, key)
		}
	}
	s.items[rec.Key] = rec
	return nil
}

func (s *IdempotencyStore) expired(rec checkout.IdempotencyRecord, now time.Time) bool {
	return now.Sub(rec.OccurredAt) > s.ttl
}

var _ checkout.IdempotencyStore = (*IdempotencyStore)(nil)
