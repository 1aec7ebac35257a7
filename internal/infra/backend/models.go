package backend

import (
	"time"

	"chaletbook/internal/domain/availability"
)

// Chalet is the detail record served by GET /chalet/{id}. Price is the
// nightly rate.
type Chalet struct {
	ID              string                `json:"_id"`
	Name            string                `json:"name"`
	Image           string                `json:"image"`
	City            string                `json:"city"`
	Village         string                `json:"village"`
	Price           float64               `json:"price"`
	Bedrooms        int                   `json:"bedrooms"`
	Guests          int                   `json:"guests"`
	ReservedPeriods []availability.Period `json:"reservedPeriods"`
}

// LocationLabel is the human label shown next to the chalet name.
func (c Chalet) LocationLabel() string {
	switch {
	case c.City != "" && c.Village != "":
		return c.Village + ", " + c.City
	case c.City != "":
		return c.City
	default:
		return c.Village
	}
}

// ChaletSummary is one catalog search hit.
type ChaletSummary struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	City     string  `json:"city"`
	Village  string  `json:"village"`
	Price    float64 `json:"price"`
	Bedrooms int     `json:"bedrooms"`
}

// CatalogPage wraps search hits with paging meta.
type CatalogPage struct {
	Items []ChaletSummary `json:"items"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
}

// CouponRequest is the payload of POST /coupon/apply.
type CouponRequest struct {
	Code       string  `json:"code"`
	ChaletID   string  `json:"chaletId,omitempty"`
	TotalPrice float64 `json:"totalPrice,omitempty"`
}

// BookingRequest is the payload of POST /booking. Guest fields are set
// only for unauthenticated checkouts.
type BookingRequest struct {
	ChaletID   string    `json:"chaletId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Guests     int       `json:"guests"`
	CouponCode string    `json:"couponCode,omitempty"`
	UserID     string    `json:"user,omitempty"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
}

// Receipt is the backend's acknowledgement of a recorded booking
// request. Payment happens out of band; the booking stays pending until
// a human confirms the transfer.
type Receipt struct {
	ID         string    `json:"_id"`
	Code       string    `json:"code"`
	ChaletID   string    `json:"chaletId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	TotalPrice float64   `json:"totalPrice"`
	UserID     string    `json:"user,omitempty"`
	GuestName  string    `json:"guestName,omitempty"`
	GuestEmail string    `json:"guestEmail,omitempty"`
	GuestPhone string    `json:"guestPhone,omitempty"`
}
