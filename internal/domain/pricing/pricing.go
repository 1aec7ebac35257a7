package pricing

import (
	"errors"
	"math"
	"time"

	"chaletbook/internal/domain/daterange"
)

var (
	ErrUnknownDiscountType = errors.New("pricing: unknown discount type")
	ErrPercentageRange     = errors.New("pricing: percentage must be in (0, 100]")
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount descriptor as resolved by the backend. Codes are
// carried verbatim; the backend owns code equality.
type Coupon struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
}

func (c Coupon) Validate() error {
	switch c.DiscountType {
	case DiscountPercentage:
		if c.DiscountValue <= 0 || c.DiscountValue > 100 {
			return ErrPercentageRange
		}
	case DiscountFixed:
		if c.DiscountValue < 0 {
			return ErrPercentageRange
		}
	default:
		return ErrUnknownDiscountType
	}
	return nil
}

// Result is a fully derived price breakdown. It is recomputed from its
// inputs on every change, never patched in place.
type Result struct {
	Nights         int     `json:"nights"`
	BasePrice      float64 `json:"basePrice"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalPrice     float64 `json:"finalPrice"`
	DepositAmount  float64 `json:"depositAmount"`
}

// Nights counts billable nights between two timestamps, day-normalized
// so time-of-day and DST offsets cannot skew the count.
func Nights(start, end time.Time) int {
	return daterange.NightsBetween(start, end)
}

// BasePrice is the undiscounted stay total.
func BasePrice(nights int, nightlyRate float64) float64 {
	if nights <= 0 || nightlyRate <= 0 {
		return 0
	}
	return float64(nights) * nightlyRate
}

// Discount computes the coupon's cut of the base price. Percentage
// discounts round to the nearest whole currency unit; fixed discounts
// cap at the base price so the final price never goes negative. A nil
// coupon discounts nothing.
func Discount(basePrice float64, coupon *Coupon) float64 {
	if coupon == nil || basePrice <= 0 {
		return 0
	}
	switch coupon.DiscountType {
	case DiscountPercentage:
		return math.Round(basePrice * coupon.DiscountValue / 100)
	case DiscountFixed:
		return math.Min(coupon.DiscountValue, basePrice)
	default:
		return 0
	}
}

// Deposit is the up-front amount that holds a pending booking: a third
// of the final price rounded up, but never less than one night's final
// price. Degenerate input yields zero; the caller keeps submission
// disabled until a billable range exists.
func Deposit(finalPrice float64, nights int) float64 {
	if finalPrice <= 0 || nights <= 0 {
		return 0
	}
	third := finalPrice / 3
	oneNight := finalPrice / float64(nights)
	return math.Ceil(math.Max(third, oneNight))
}

// Quote derives the whole breakdown for a stay. It never fails:
// missing rates or an incomplete range resolve to a zero quote.
func Quote(start, end time.Time, nightlyRate float64, coupon *Coupon) Result {
	nights := Nights(start, end)
	base := BasePrice(nights, nightlyRate)
	return breakdown(nights, base, coupon)
}

// Requote recomputes a breakdown from a known base price, for flows
// where nights and base were already derived.
func Requote(nights int, basePrice float64, coupon *Coupon) Result {
	return breakdown(nights, basePrice, coupon)
}

func breakdown(nights int, base float64, coupon *Coupon) Result {
	discount := Discount(base, coupon)
	final := base - discount
	if final < 0 {
		final = 0
	}
	return Result{
		Nights:         nights,
		BasePrice:      base,
		DiscountAmount: discount,
		FinalPrice:     final,
		DepositAmount:  Deposit(final, nights),
	}
}
