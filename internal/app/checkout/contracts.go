package checkout

import (
	"context"
	"time"

	"chaletbook/internal/infra/backend"
)

// Gateway is the slice of the booking backend checkout needs.
type Gateway interface {
	SubmitBooking(ctx context.Context, req backend.BookingRequest) (*backend.Receipt, error)
}

// IdempotencyRecord is a stored submission outcome keyed by the
// client-provided idempotency key. Only successes are recorded: a
// deliberate retry after a failure must reach the backend again.
type IdempotencyRecord struct {
	Key        string
	Payload    []byte
	OccurredAt time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

// ReceiptPublisher notifies downstream consumers of a recorded booking.
type ReceiptPublisher interface {
	BookingSubmitted(ctx context.Context, receipt *backend.Receipt) error
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) BookingSubmitted(context.Context, *backend.Receipt) error { return nil }
