package draftstore

import (
	"context"
	"encoding/json"
	"log/slog"

	"chaletbook/internal/domain/booking"
	"chaletbook/internal/domain/pricing"
)

// BookingDrafts hands the in-progress booking across the detail →
// checkout page boundary. Only one checkout can be in flight per tab,
// so Save overwrites unconditionally.
type BookingDrafts struct {
	kv     KV
	logger *slog.Logger
}

func NewBookingDrafts(kv KV, logger *slog.Logger) *BookingDrafts {
	return &BookingDrafts{kv: kv, logger: logger}
}

func (s *BookingDrafts) Save(ctx context.Context, sessionID string, draft *booking.Draft) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, sessionID, KeyBookingDetails, payload)
}

// Load returns the stored draft, or nil when none exists or the stored
// bytes fail validation. Malformed data is logged and treated as
// absent; the consuming page redirects instead of crashing.
func (s *BookingDrafts) Load(ctx context.Context, sessionID string) (*booking.Draft, error) {
	payload, ok, err := s.kv.Get(ctx, sessionID, KeyBookingDetails)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var draft booking.Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		s.warn(sessionID, "stored booking draft is not valid JSON", err)
		return nil, nil
	}
	if err := draft.Validate(); err != nil {
		s.warn(sessionID, "stored booking draft failed validation", err)
		return nil, nil
	}
	return &draft, nil
}

// Clear removes the draft and its coupon together. Best effort: an
// abandoned draft is simply overwritten by the next Save.
func (s *BookingDrafts) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, sessionID, KeyBookingDetails, KeyAppliedCoupon)
}

// SaveCoupon persists the resolved coupon next to the draft so a page
// reload during checkout keeps the discount.
func (s *BookingDrafts) SaveCoupon(ctx context.Context, sessionID string, coupon *pricing.Coupon) error {
	payload, err := json.Marshal(coupon)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, sessionID, KeyAppliedCoupon, payload)
}

// LoadCoupon mirrors Load: nil on absent or malformed.
func (s *BookingDrafts) LoadCoupon(ctx context.Context, sessionID string) (*pricing.Coupon, error) {
	payload, ok, err := s.kv.Get(ctx, sessionID, KeyAppliedCoupon)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var coupon pricing.Coupon
	if err := json.Unmarshal(payload, &coupon); err != nil {
		s.warn(sessionID, "stored coupon is not valid JSON", err)
		return nil, nil
	}
	if coupon.Code == "" || coupon.Validate() != nil {
		s.warn(sessionID, "stored coupon failed validation", nil)
		return nil, nil
	}
	return &coupon, nil
}

func (s *BookingDrafts) RemoveCoupon(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, sessionID, KeyAppliedCoupon)
}

func (s *BookingDrafts) warn(sessionID, msg string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, "session_id", sessionID, "error", err)
}
