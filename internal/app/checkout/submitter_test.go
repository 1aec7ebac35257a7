package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaletbook/internal/app/checkout"
	"chaletbook/internal/app/draftstore"
	"chaletbook/internal/domain/booking"
	"chaletbook/internal/domain/pricing"
	"chaletbook/internal/infra/backend"
	"chaletbook/internal/infra/storage/memory"
)

type fakeBookingGateway struct {
	mu       sync.Mutex
	requests []backend.BookingRequest
	err      error
	block    chan struct{}
}

func (g *fakeBookingGateway) SubmitBooking(ctx context.Context, req backend.BookingRequest) (*backend.Receipt, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	block := g.block
	g.mu.Unlock()

	if block != nil {
		<-block
	}
	if g.err != nil {
		return nil, g.err
	}
	return &backend.Receipt{
		ID:       "bk-1",
		Code:     "BK-2024-0001",
		ChaletID: req.ChaletID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		UserID:   req.UserID,
	}, nil
}

func (g *fakeBookingGateway) requestCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

type capturingPublisher struct {
	mu       sync.Mutex
	receipts []*backend.Receipt
}

func (p *capturingPublisher) BookingSubmitted(ctx context.Context, receipt *backend.Receipt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.receipts = append(p.receipts, receipt)
	return nil
}

type checkoutFixture struct {
	submitter *checkout.Submitter
	drafts    *draftstore.BookingDrafts
	gateway   *fakeBookingGateway
	publisher *capturingPublisher
}

func newFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	kv := memory.NewSessionStore(time.Minute)
	t.Cleanup(kv.Close)
	drafts := draftstore.NewBookingDrafts(kv, nil)
	gateway := &fakeBookingGateway{}
	publisher := &capturingPublisher{}
	return &checkoutFixture{
		submitter: checkout.NewSubmitter(drafts, gateway, memory.NewIdempotencyStore(time.Hour), publisher, nil),
		drafts:    drafts,
		gateway:   gateway,
		publisher: publisher,
	}
}

func (f *checkoutFixture) seedDraft(t *testing.T, sessionID string) {
	t.Helper()
	require.NoError(t, f.drafts.Save(context.Background(), sessionID, &booking.Draft{
		ChaletID:    "64f1c2",
		ChaletName:  "Cedar Heights",
		NightlyRate: 1000,
		StartDate:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
		TotalNights: 3,
		GuestCount:  4,
		TotalPrice:  3000,
	}))
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDraft(t, "tab-1")

	receipt, err := f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-1", UserID: "user-7"})
	require.NoError(t, err)
	assert.Equal(t, "BK-2024-0001", receipt.Code)

	require.Len(t, f.gateway.requests, 1)
	sent := f.gateway.requests[0]
	assert.Equal(t, "64f1c2", sent.ChaletID)
	assert.Equal(t, "user-7", sent.UserID)
	assert.Equal(t, 4, sent.Guests)

	// Success clears the draft and publishes the receipt.
	draft, err := f.drafts.Load(ctx, "tab-1")
	require.NoError(t, err)
	assert.Nil(t, draft)
	require.Len(t, f.publisher.receipts, 1)
	assert.Equal(t, "bk-1", f.publisher.receipts[0].ID)
}

func TestSubmitAttachesStoredCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDraft(t, "tab-1")
	require.NoError(t, f.drafts.SaveCoupon(ctx, "tab-1", &pricing.Coupon{
		Code: "SAVE10", DiscountType: pricing.DiscountPercentage, DiscountValue: 10,
	}))

	_, err := f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-1", UserID: "user-7"})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", f.gateway.requests[0].CouponCode)
}

func TestSubmitWithoutDraft(t *testing.T) {
	f := newFixture(t)

	_, err := f.submitter.Submit(context.Background(), checkout.Request{SessionID: "tab-1", UserID: "user-7"})
	assert.ErrorIs(t, err, checkout.ErrDraftMissing)
	assert.Equal(t, 0, f.gateway.requestCount())
}

func TestSubmitRequiresIdentity(t *testing.T) {
	f := newFixture(t)
	f.seedDraft(t, "tab-1")

	_, err := f.submitter.Submit(context.Background(), checkout.Request{SessionID: "tab-1"})
	assert.ErrorIs(t, err, checkout.ErrIdentityRequired)
}

func TestSubmitGuestCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDraft(t, "tab-1")

	_, err := f.submitter.Submit(ctx, checkout.Request{
		SessionID: "tab-1",
		Guest:     &checkout.GuestDetails{Name: "Rami K", Email: "rami@example.com", Phone: "70123456789"},
	})
	require.NoError(t, err)

	sent := f.gateway.requests[0]
	assert.Empty(t, sent.UserID)
	assert.Equal(t, "Rami K", sent.Name)
	assert.Equal(t, "rami@example.com", sent.Email)
}

func TestSubmitGuestValidation(t *testing.T) {
	tests := []struct {
		name  string
		guest checkout.GuestDetails
		field string
	}{
		{"blank name", checkout.GuestDetails{Name: "  ", Email: "a@b.co", Phone: "7012345678"}, "name"},
		{"bad email", checkout.GuestDetails{Name: "Rami", Email: "not-an-email", Phone: "7012345678"}, "email"},
		{"short phone", checkout.GuestDetails{Name: "Rami", Email: "a@b.co", Phone: "123"}, "phone"},
		{"alpha phone", checkout.GuestDetails{Name: "Rami", Email: "a@b.co", Phone: "70-123-4567"}, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedDraft(t, "tab-1")

			guest := tt.guest
			_, err := f.submitter.Submit(context.Background(), checkout.Request{SessionID: "tab-1", Guest: &guest})
			var fieldErr *checkout.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
			assert.Equal(t, 0, f.gateway.requestCount())
		})
	}
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDraft(t, "tab-1")
	f.gateway.err = &backend.APIError{Status: 409, Message: "dates no longer available"}

	_, err := f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-1", UserID: "user-7"})
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)

	draft, loadErr := f.drafts.Load(ctx, "tab-1")
	require.NoError(t, loadErr)
	require.NotNil(t, draft, "a failed submit keeps the draft for retry")
	assert.Empty(t, f.publisher.receipts)

	// The session settled back to idle: a retry goes through.
	f.gateway.err = nil
	_, err = f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-1", UserID: "user-7"})
	assert.NoError(t, err)
}

func TestDoubleSubmitRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDraft(t, "tab-1")
	f.gateway.block = make(chan struct{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-1", UserID: "user-7"})
		firstDone <- err
	}()

	// Wait for the first submission to reach the gateway.
	require.Eventually(t, func() bool { return f.gateway.requestCount() == 1 },
		time.Second, 5*time.Millisecond)

	_, err := f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-1", UserID: "user-7"})
	assert.ErrorIs(t, err, checkout.ErrSubmitInFlight)

	close(f.gateway.block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, f.gateway.requestCount())
}

func TestConcurrentSubmitOtherSessionUnaffected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDraft(t, "tab-1")
	f.seedDraft(t, "tab-2")
	f.gateway.block = make(chan struct{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-1", UserID: "user-7"})
		firstDone <- err
	}()
	require.Eventually(t, func() bool { return f.gateway.requestCount() == 1 },
		time.Second, 5*time.Millisecond)

	secondDone := make(chan error, 1)
	go func() {
		_, err := f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-2", UserID: "user-9"})
		secondDone <- err
	}()
	require.Eventually(t, func() bool { return f.gateway.requestCount() == 2 },
		time.Second, 5*time.Millisecond)

	close(f.gateway.block)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)
}

func TestIdempotencyReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDraft(t, "tab-1")

	first, err := f.submitter.Submit(ctx, checkout.Request{
		SessionID: "tab-1", UserID: "user-7", IdempotencyKey: "key-1",
	})
	require.NoError(t, err)

	// The draft is gone, but the same key replays the stored receipt
	// without a second backend call.
	second, err := f.submitter.Submit(ctx, checkout.Request{
		SessionID: "tab-1", UserID: "user-7", IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, 1, f.gateway.requestCount())
}

func TestFailedSubmitRecordsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDraft(t, "tab-1")
	f.gateway.err = errors.New("backend down")

	_, err := f.submitter.Submit(ctx, checkout.Request{
		SessionID: "tab-1", UserID: "user-7", IdempotencyKey: "key-1",
	})
	require.Error(t, err)

	// Same key retries for real once the backend recovers.
	f.gateway.err = nil
	_, err = f.submitter.Submit(ctx, checkout.Request{
		SessionID: "tab-1", UserID: "user-7", IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.gateway.requestCount())
}

func TestSubmitWithoutKeySkipsReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDraft(t, "tab-1")

	_, err := f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-1", UserID: "user-7"})
	require.NoError(t, err)

	_, err = f.submitter.Submit(ctx, checkout.Request{SessionID: "tab-1", UserID: "user-7"})
	assert.ErrorIs(t, err, checkout.ErrDraftMissing)
}
