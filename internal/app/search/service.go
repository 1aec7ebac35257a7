// Package search keeps the listing page's filter state. Edits are
// coalesced over a short window before they are persisted and the
// catalog is refetched, so a slider drag costs one request instead of
// dozens; responses apply last-request-wins so a slow early response
// cannot overwrite fresher results.
package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chaletbook/internal/app/draftstore"
	"chaletbook/internal/domain/booking"
	"chaletbook/internal/infra/backend"
)

// Gateway is the slice of the booking backend the listing page needs.
type Gateway interface {
	SearchChalets(ctx context.Context, filters booking.Filters, page int) (*backend.CatalogPage, error)
}

const (
	defaultDebounce = 300 * time.Millisecond
	refetchTimeout  = 15 * time.Second
	// defaultStateTTL matches the session KV default, so cached results
	// live no longer than the session they belong to.
	defaultStateTTL = 2 * time.Hour
	sweepInterval   = time.Minute
)

type Service struct {
	gateway  Gateway
	store    *draftstore.FilterDrafts
	debounce time.Duration
	ttl      time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionState
	closed   bool
	done     chan struct{}
}

type sessionState struct {
	timer   *time.Timer
	pending draftstore.FilterDraft
	dirty   bool
	// seq numbers outbound refetches; applied tracks the newest one
	// whose response has landed. Older responses are discarded.
	seq     uint64
	applied uint64
	results *backend.CatalogPage
	// touched drives the TTL sweep. Sessions that stop calling in are
	// evicted; the KV keys expire on their own.
	touched time.Time
}

func NewService(gateway Gateway, store *draftstore.FilterDrafts, debounce, ttl time.Duration, logger *slog.Logger) *Service {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	s := &Service{
		gateway:  gateway,
		store:    store,
		debounce: debounce,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*sessionState),
		done:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Update records a filter/page/scroll change. The write and the
// refetch fire after the debounce window; rapid edits within the window
// collapse into the final state.
func (s *Service) Update(sessionID string, draft draftstore.FilterDraft) {
	draft.Filters = draft.Filters.Normalized()
	if draft.Page < 1 {
		draft.Page = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{}
		s.sessions[sessionID] = st
	}
	st.pending = draft
	st.dirty = true
	st.touched = time.Now()
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(s.debounce, func() { s.Flush(sessionID) })
}

// Flush persists the pending draft and refetches the catalog
// immediately. The debounce timer calls it; tests and explicit
// page-leave handlers may too.
func (s *Service) Flush(sessionID string) {
	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if !ok || !st.dirty {
		s.mu.Unlock()
		return
	}
	draft := st.pending
	st.dirty = false
	st.seq++
	seq := st.seq
	s.mu.Unlock()

	// The originating HTTP request is long gone; this work is owned by
	// the session, bounded by its own timeout.
	ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
	defer cancel()

	if err := s.store.SaveAll(ctx, sessionID, draft); err != nil && s.logger != nil {
		s.logger.Warn("filter draft persist failed", "session_id", sessionID, "error", err)
	}

	page, err := s.gateway.SearchChalets(ctx, draft.Filters, draft.Page)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("catalog refetch failed", "session_id", sessionID, "error", err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok = s.sessions[sessionID]
	if !ok {
		// Session was reset or dropped while the fetch was in flight.
		return
	}
	if seq <= st.applied {
		return
	}
	st.applied = seq
	st.results = page
	st.touched = time.Now()
}

// Results returns the newest catalog page fetched for the session.
func (s *Service) Results(sessionID string) (*backend.CatalogPage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok || st.results == nil {
		return nil, false
	}
	st.touched = time.Now()
	return st.results, true
}

// Restore reads the persisted search context for a returning page.
func (s *Service) Restore(ctx context.Context, sessionID string) (draftstore.FilterDraft, error) {
	return s.store.LoadAll(ctx, sessionID)
}

// Reset clears the persisted context and cached results; the next
// restore starts at page 1 with no filters.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	s.drop(sessionID)
	return s.store.Clear(ctx, sessionID)
}

// Drop releases in-memory state when the session is destroyed.
func (s *Service) Drop(sessionID string) {
	s.drop(sessionID)
}

func (s *Service) drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok {
		if st.timer != nil {
			st.timer.Stop()
		}
		delete(s.sessions, sessionID)
	}
}

// Close stops all pending timers and the sweep loop.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	for id, st := range s.sessions {
		if st.timer != nil {
			st.timer.Stop()
		}
		delete(s.sessions, id)
	}
}

// janitor evicts sessions whose tab went away without an explicit
// destroy. The KV store reaps its keys by TTL on its own; this sweep
// keeps the in-memory map from outliving them.
func (s *Service) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *Service) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range s.sessions {
		if now.Sub(st.touched) > s.ttl {
			if st.timer != nil {
				st.timer.Stop()
			}
			delete(s.sessions, id)
		}
	}
}
