package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaletbook/internal/app/checkout"
)

func TestIdempotencyStoreRoundTrip(t *testing.T) {
	store := NewIdempotencyStore(time.Minute)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, ok)

	rec := checkout.IdempotencyRecord{
		Key:        "key-1",
		Payload:    []byte(`{"_id":"bk-1"}`),
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, rec))

	got, ok, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestIdempotencyStoreExpiry(t *testing.T) {
	store := NewIdempotencyStore(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, checkout.IdempotencyRecord{
		Key:        "key-1",
		Payload:    []byte(`{}`),
		OccurredAt: time.Now().UTC(),
	}))

	time.Sleep(80 * time.Millisecond)

	_, ok, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, ok, "expired records must not replay")
}

func TestIdempotencyStorePrunesOnSave(t *testing.T) {
	store := NewIdempotencyStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, checkout.IdempotencyRecord{
		Key:        "old",
		Payload:    []byte(`{}`),
		OccurredAt: time.Now().Add(-2 * time.Minute),
	}))
	require.NoError(t, store.Save(ctx, checkout.IdempotencyRecord{
		Key:        "fresh",
		Payload:    []byte(`{}`),
		OccurredAt: time.Now().UTC(),
	}))

	store.mu.RLock()
	_, oldKept := store.items["old"]
	store.mu.RUnlock()
	assert.False(t, oldKept, "stale records are swept on write")
}
