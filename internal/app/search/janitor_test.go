package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaletbook/internal/app/draftstore"
	"chaletbook/internal/domain/booking"
	"chaletbook/internal/infra/backend"
)

type stubCatalog struct{}

func (stubCatalog) SearchChalets(ctx context.Context, filters booking.Filters, page int) (*backend.CatalogPage, error) {
	return &backend.CatalogPage{Page: page}, nil
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	svc := NewService(stubCatalog{}, nil, time.Hour, time.Hour, nil)
	defer svc.Close()

	svc.mu.Lock()
	svc.sessions["stale"] = &sessionState{
		results: &backend.CatalogPage{},
		touched: time.Now().Add(-2 * time.Hour),
	}
	svc.sessions["active"] = &sessionState{
		results: &backend.CatalogPage{},
		touched: time.Now(),
	}
	svc.mu.Unlock()

	svc.sweep(time.Now())

	_, ok := svc.Results("stale")
	assert.False(t, ok, "idle session state must be evicted")
	_, ok = svc.Results("active")
	assert.True(t, ok)
}

func TestSweepStopsPendingTimer(t *testing.T) {
	svc := NewService(stubCatalog{}, nil, time.Hour, 10*time.Millisecond, nil)
	defer svc.Close()

	// A pending debounce on an abandoned session must not fire after
	// eviction; Flush against a missing session would be a no-op anyway,
	// but the timer itself must be released.
	svc.Update("stale", draftstore.FilterDraft{Filters: booking.Filters{City: "faraya"}})

	time.Sleep(30 * time.Millisecond)
	svc.sweep(time.Now())

	svc.mu.Lock()
	_, ok := svc.sessions["stale"]
	svc.mu.Unlock()
	assert.False(t, ok)
}

func TestReadsKeepSessionsAlive(t *testing.T) {
	svc := NewService(stubCatalog{}, nil, time.Hour, time.Hour, nil)
	defer svc.Close()

	svc.mu.Lock()
	svc.sessions["tab-1"] = &sessionState{
		results: &backend.CatalogPage{},
		touched: time.Now().Add(-50 * time.Minute),
	}
	svc.mu.Unlock()

	// The read slides the touch timestamp past the would-be deadline.
	_, ok := svc.Results("tab-1")
	require.True(t, ok)

	svc.sweep(time.Now().Add(30 * time.Minute))

	_, ok = svc.Results("tab-1")
	assert.True(t, ok)
}
