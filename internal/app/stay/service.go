// Package stay drives the chalet-detail pipeline for one session:
// fetch the chalet with its reserved periods, build the disabled-day
// calendar, walk the two-slot date picker, keep the price quote
// derived, resolve coupons, and cut the booking draft that crosses to
// checkout.
package stay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"chaletbook/internal/app/draftstore"
	"chaletbook/internal/domain/availability"
	"chaletbook/internal/domain/booking"
	"chaletbook/internal/domain/pricing"
	"chaletbook/internal/domain/selection"
	"chaletbook/internal/infra/backend"
)

var (
	ErrNoStay              = errors.New("stay: no chalet loaded for this session")
	ErrSelectionIncomplete = errors.New("stay: both check-in and check-out are required")
)

// Gateway is the slice of the booking backend the detail page needs.
type Gateway interface {
	Chalet(ctx context.Context, id string) (*backend.Chalet, error)
	ApplyCoupon(ctx context.Context, req backend.CouponRequest) (*pricing.Coupon, error)
}

type Service struct {
	gateway Gateway
	kv      draftstore.KV
	drafts  *draftstore.BookingDrafts
	logger  *slog.Logger
}

func NewService(gateway Gateway, kv draftstore.KV, drafts *draftstore.BookingDrafts, logger *slog.Logger) *Service {
	return &Service{gateway: gateway, kv: kv, drafts: drafts, logger: logger}
}

// state is the session's detail-page snapshot. It is overwritten
// wholesale by every mutation and rebuilt into a calendar + picker on
// every read, so any instance can serve any request.
type state struct {
	ChaletID      string                `json:"chaletId"`
	ChaletName    string                `json:"chaletName"`
	ChaletImage   string                `json:"chaletImage"`
	LocationLabel string                `json:"locationLabel"`
	NightlyRate   float64               `json:"nightlyRate"`
	Periods       []availability.Period `json:"reservedPeriods"`
	Selection     selection.Selection   `json:"selection"`
}

// View is what the detail page renders after any pipeline step.
type View struct {
	ChaletID      string              `json:"chaletId"`
	ChaletName    string              `json:"chaletName"`
	ChaletImage   string              `json:"chaletImage"`
	LocationLabel string              `json:"locationLabel"`
	NightlyRate   float64             `json:"nightlyRate"`
	DisabledDays  []string            `json:"disabledDays"`
	Selection     selection.Selection `json:"selection"`
	Coupon        *pricing.Coupon     `json:"coupon,omitempty"`
	Quote         pricing.Result      `json:"quote"`
}

// LoadCalendar binds a chalet to the session and resets the picker.
func (s *Service) LoadCalendar(ctx context.Context, sessionID, chaletID string) (*View, error) {
	chalet, err := s.gateway.Chalet(ctx, chaletID)
	if err != nil {
		return nil, err
	}
	st := state{
		ChaletID:      chalet.ID,
		ChaletName:    chalet.Name,
		ChaletImage:   chalet.Image,
		LocationLabel: chalet.LocationLabel(),
		NightlyRate:   chalet.Price,
		Periods:       chalet.ReservedPeriods,
		Selection:     selection.Selection{ActiveSlot: selection.SlotStart},
	}
	if err := s.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID, st)
}

// OpenSlot switches the picker's active slot.
func (s *Service) OpenSlot(ctx context.Context, sessionID string, slot selection.Slot) (*View, error) {
	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	picker := selection.Restore(st.Selection, s.calendar(st))
	if err := picker.Open(slot); err != nil {
		return nil, err
	}
	st.Selection = picker.Selection()
	if err := s.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID, st)
}

// Pick applies a date to the active slot and returns the refreshed
// quote. A rejected pick changes nothing and surfaces the reason.
func (s *Service) Pick(ctx context.Context, sessionID string, date time.Time) (*View, error) {
	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	picker := selection.Restore(st.Selection, s.calendar(st))
	if err := picker.Pick(date); err != nil {
		return nil, err
	}
	st.Selection = picker.Selection()
	if err := s.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID, st)
}

// Quote returns the current derived view without mutating anything.
func (s *Service) Quote(ctx context.Context, sessionID string) (*View, error) {
	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID, st)
}

// ApplyCoupon resolves the code against the backend and pins the result
// to the session. An invalid code leaves the quote untouched.
func (s *Service) ApplyCoupon(ctx context.Context, sessionID, code string) (*View, error) {
	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	base := s.baseQuote(st)
	coupon, err := s.gateway.ApplyCoupon(ctx, backend.CouponRequest{
		Code:       code,
		ChaletID:   st.ChaletID,
		TotalPrice: base.BasePrice,
	})
	if err != nil {
		return nil, err
	}
	if err := s.drafts.SaveCoupon(ctx, sessionID, coupon); err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID, st)
}

// RemoveCoupon detaches the coupon; the quote falls back to base price.
func (s *Service) RemoveCoupon(ctx context.Context, sessionID string) (*View, error) {
	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.RemoveCoupon(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.view(ctx, sessionID, st)
}

// CreateDraft is "book now": it freezes the completed selection into a
// draft and hands it to the draft store for the checkout page.
func (s *Service) CreateDraft(ctx context.Context, sessionID string, guests int) (*booking.Draft, error) {
	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !st.Selection.Complete() {
		return nil, ErrSelectionIncomplete
	}
	stayRange, err := st.Selection.Range()
	if err != nil {
		return nil, ErrSelectionIncomplete
	}
	nights := stayRange.Nights()
	draft := &booking.Draft{
		ChaletID:      st.ChaletID,
		ChaletName:    st.ChaletName,
		ChaletImage:   st.ChaletImage,
		LocationLabel: st.LocationLabel,
		NightlyRate:   st.NightlyRate,
		StartDate:     stayRange.Start,
		EndDate:       stayRange.End,
		TotalNights:   nights,
		GuestCount:    guests,
		TotalPrice:    pricing.BasePrice(nights, st.NightlyRate),
	}
	if err := s.drafts.Save(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *Service) calendar(st state) *availability.Calendar {
	return availability.Build(st.Periods, s.logger)
}

func (s *Service) baseQuote(st state) pricing.Result {
	if !st.Selection.Complete() {
		return pricing.Result{}
	}
	return pricing.Quote(*st.Selection.Start, *st.Selection.End, st.NightlyRate, nil)
}

func (s *Service) view(ctx context.Context, sessionID string, st state) (*View, error) {
	coupon, err := s.drafts.LoadCoupon(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var quote pricing.Result
	if st.Selection.Complete() {
		quote = pricing.Quote(*st.Selection.Start, *st.Selection.End, st.NightlyRate, coupon)
	}
	cal := s.calendar(st)
	days := cal.DisabledDays()
	disabled := make([]string, 0, len(days))
	for _, d := range days {
		disabled = append(disabled, d.Format("2006-01-02"))
	}
	return &View{
		ChaletID:      st.ChaletID,
		ChaletName:    st.ChaletName,
		ChaletImage:   st.ChaletImage,
		LocationLabel: st.LocationLabel,
		NightlyRate:   st.NightlyRate,
		DisabledDays:  disabled,
		Selection:     st.Selection,
		Coupon:        coupon,
		Quote:         quote,
	}, nil
}

func (s *Service) loadState(ctx context.Context, sessionID string) (state, error) {
	payload, ok, err := s.kv.Get(ctx, sessionID, draftstore.KeyStayState)
	if err != nil {
		return state{}, err
	}
	if !ok {
		return state{}, ErrNoStay
	}
	var st state
	if err := json.Unmarshal(payload, &st); err != nil {
		if s.logger != nil {
			s.logger.Warn("stored stay state is not valid JSON", "session_id", sessionID, "error", err)
		}
		return state{}, ErrNoStay
	}
	if st.ChaletID == "" {
		return state{}, ErrNoStay
	}
	return st, nil
}

func (s *Service) saveState(ctx context.Context, sessionID string, st state) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, sessionID, draftstore.KeyStayState, payload)
}
