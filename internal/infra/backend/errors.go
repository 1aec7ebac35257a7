package backend

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoupon  = errors.New("backend: coupon invalid or expired")
	ErrChaletNotFound = errors.New("backend: chalet not found")
)

// APIError carries the backend's own message for a rejected request,
// e.g. a booking whose dates became unavailable between fetch and
// submit. The message is surfaced to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
}
