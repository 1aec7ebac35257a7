package memory

import (
	"context"
	"sync"
	"time"

	"chaletbook/internal/app/draftstore"
)

// SessionStore keeps per-tab session state in process memory. Every
// read or write slides the session's expiry; a janitor goroutine sweeps
// expired sessions. Default backend for single-instance deployments.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

type sessionRecord struct {
	values    map[string][]byte
	expiresAt time.Time
}

const defaultSessionTTL = 2 * time.Hour

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s := &SessionStore{
		sessions: make(map[string]*sessionRecord),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *SessionStore) Get(ctx context.Context, sessionID, key string) ([]byte, bool, error) {
	s.mu.RLock()
	rec, ok := s.sessions[sessionID]
	if !ok || time.Now().After(rec.expiresAt) {
		s.mu.RUnlock()
		return nil, false, nil
	}
	value, ok := rec.values[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *SessionStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[sessionID]
	if !ok || time.Now().After(rec.expiresAt) {
		rec = &sessionRecord{values: make(map[string][]byte)}
		s.sessions[sessionID] = rec
	}
	rec.values[key] = stored
	rec.expiresAt = time.Now().Add(s.ttl)
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(rec.values, key)
	}
	rec.expiresAt = time.Now().Add(s.ttl)
	return nil
}

func (s *SessionStore) Drop(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *SessionStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *SessionStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, rec := range s.sessions {
				if now.After(rec.expiresAt) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

var _ draftstore.KV = (*SessionStore)(nil)
