// Package draftstore gives the ephemeral per-tab state a typed surface.
// Raw session KV access stays inside this package; pages deal only in
// validated drafts and fall back to safe defaults instead of trusting
// stored JSON.
package draftstore

import "context"

// Session KV keys. One logical record per key, overwritten wholesale on
// every write.
const (
	KeyBookingDetails = "bookingDetails"
	KeyAppliedCoupon  = "appliedCoupon"
	KeyFilters        = "chalet_filters"
	KeyCurrentPage    = "chalet_current_page"
	KeyScrollPosition = "chalet_scroll_position"
	KeyStayState      = "stayState"
)

// KV is tab-scoped ephemeral storage: values live under a session id,
// disappear when the session expires, and never survive a restart of
// the store backend.
type KV interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, bool, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
	// Drop removes the whole session.
	Drop(ctx context.Context, sessionID string) error
}
