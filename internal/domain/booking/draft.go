package booking

import (
	"errors"
	"math"
	"time"

	"chaletbook/internal/domain/daterange"
)

var (
	ErrDraftIncomplete   = errors.New("booking: draft is missing required fields")
	ErrDraftInconsistent = errors.New("booking: draft totals do not match its dates")
	ErrInvalidGuests     = errors.New("booking: guests count must be positive")
)

// Draft is the in-progress, not-yet-submitted selection that travels
// from the detail page to checkout through the session store. It
// snapshots everything checkout needs so no second chalet fetch is
// required across the page boundary.
type Draft struct {
	ChaletID      string    `json:"chaletId"`
	ChaletName    string    `json:"chaletName"`
	ChaletImage   string    `json:"chaletImage"`
	LocationLabel string    `json:"locationLabel"`
	NightlyRate   float64   `json:"nightlyRate"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	TotalNights   int       `json:"totalNights"`
	GuestCount    int       `json:"guestCount"`
	TotalPrice    float64   `json:"totalPrice"`
}

// Validate checks the fields checkout depends on. A draft that fails
// here is treated as absent, not as an error to surface.
func (d *Draft) Validate() error {
	if d == nil {
		return ErrDraftIncomplete
	}
	if d.ChaletID == "" || d.StartDate.IsZero() || d.EndDate.IsZero() || d.TotalPrice <= 0 {
		return ErrDraftIncomplete
	}
	if d.GuestCount <= 0 {
		return ErrInvalidGuests
	}
	nights := daterange.NightsBetween(d.StartDate, d.EndDate)
	if nights < 1 || nights != d.TotalNights {
		return ErrDraftInconsistent
	}
	if d.NightlyRate > 0 && math.Abs(d.TotalPrice-d.NightlyRate*float64(nights)) > 0.01 {
		return ErrDraftInconsistent
	}
	return nil
}
