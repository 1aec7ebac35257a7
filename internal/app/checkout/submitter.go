package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"chaletbook/internal/app/draftstore"
	"chaletbook/internal/infra/backend"
)

var (
	ErrSubmitInFlight   = errors.New("checkout: a submission is already in flight for this session")
	ErrDraftMissing     = errors.New("checkout: no booking draft to submit")
	ErrIdentityRequired = errors.New("checkout: user id or guest details required")
)

// Submitter turns a stored draft into a booking request. Per session it
// runs idle -> submitting -> settled: a second submit while one is in
// flight is rejected rather than queued, and a failed submit settles
// back to idle with the draft preserved so the user can adjust and
// retry. There is no automatic retry.
type Submitter struct {
	drafts  *draftstore.BookingDrafts
	gateway Gateway
	idem    IdempotencyStore
	events  ReceiptPublisher
	logger  *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewSubmitter(drafts *draftstore.BookingDrafts, gateway Gateway, idem IdempotencyStore, events ReceiptPublisher, logger *slog.Logger) *Submitter {
	if events == nil {
		events = NopPublisher{}
	}
	return &Submitter{
		drafts:   drafts,
		gateway:  gateway,
		idem:     idem,
		events:   events,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// Request carries everything Submit needs beyond the stored draft.
// Exactly one of UserID or Guest must be set.
type Request struct {
	SessionID      string
	UserID         string
	Guest          *GuestDetails
	IdempotencyKey string
}

func (s *Submitter) Submit(ctx context.Context, req Request) (*backend.Receipt, error) {
	if !s.begin(req.SessionID) {
		return nil, ErrSubmitInFlight
	}
	defer s.settle(req.SessionID)

	if receipt, ok, err := s.replay(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if ok {
		return receipt, nil
	}

	draft, err := s.drafts.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, ErrDraftMissing
	}

	payload := backend.BookingRequest{
		ChaletID: draft.ChaletID,
		CheckIn:  draft.StartDate,
		CheckOut: draft.EndDate,
		Guests:   draft.GuestCount,
	}
	switch {
	case req.UserID != "":
		payload.UserID = req.UserID
	case req.Guest != nil:
		if err := req.Guest.Validate(); err != nil {
			return nil, err
		}
		payload.Name = req.Guest.Name
		payload.Email = req.Guest.Email
		payload.Phone = req.Guest.Phone
	default:
		return nil, ErrIdentityRequired
	}

	if coupon, err := s.drafts.LoadCoupon(ctx, req.SessionID); err != nil {
		return nil, err
	} else if coupon != nil {
		payload.CouponCode = coupon.Code
	}

	receipt, err := s.gateway.SubmitBooking(ctx, payload)
	if err != nil {
		// Draft stays in place for a user-initiated retry.
		return nil, err
	}

	s.record(ctx, req.IdempotencyKey, receipt)

	if err := s.drafts.Clear(ctx, req.SessionID); err != nil && s.logger != nil {
		s.logger.Warn("draft cleanup after submit failed", "session_id", req.SessionID, "error", err)
	}
	if err := s.events.BookingSubmitted(ctx, receipt); err != nil && s.logger != nil {
		s.logger.Warn("receipt event publish failed", "booking_id", receipt.ID, "error", err)
	}
	return receipt, nil
}

func (s *Submitter) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *Submitter) settle(sessionID string) {
	s.mu.Lock()
	delete(s.inflight, sessionID)
	s.mu.Unlock()
}

func (s *Submitter) replay(ctx context.Context, key string) (*backend.Receipt, bool, error) {
	if s.idem == nil || key == "" {
		return nil, false, nil
	}
	rec, found, err := s.idem.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	var receipt backend.Receipt
	if err := json.Unmarshal(rec.Payload, &receipt); err != nil {
		return nil, false, err
	}
	return &receipt, true, nil
}

func (s *Submitter) record(ctx context.Context, key string, receipt *backend.Receipt) {
	if s.idem == nil || key == "" {
		return
	}
	payload, err := json.Marshal(receipt)
	if err != nil {
		return
	}
	rec := IdempotencyRecord{Key: key, Payload: payload, OccurredAt: time.Now().UTC()}
	if err := s.idem.Save(ctx, rec); err != nil && s.logger != nil {
		s.logger.Warn("idempotency record save failed", "key", key, "error", err)
	}
}
