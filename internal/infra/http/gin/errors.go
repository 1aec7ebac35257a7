package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"chaletbook/internal/app/checkout"
	"chaletbook/internal/app/stay"
	"chaletbook/internal/domain/selection"
	"chaletbook/internal/infra/backend"
)

// respondError maps domain failures onto HTTP statuses. Every failure
// surfaces a message the client can show; nothing is swallowed.
func respondError(c *gin.Context, err error) {
	var fieldErr *checkout.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fieldErr.Error(), "field": fieldErr.Field})
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		c.JSON(status, gin.H{"error": apiErr.Message})
		return
	}

	switch {
	case errors.Is(err, backend.ErrChaletNotFound),
		errors.Is(err, stay.ErrNoStay),
		errors.Is(err, checkout.ErrDraftMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, backend.ErrInvalidCoupon):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "coupon invalid or expired"})
	case errors.Is(err, selection.ErrDateDisabled),
		errors.Is(err, selection.ErrEndNotAfterStart),
		errors.Is(err, selection.ErrRangeBlocked),
		errors.Is(err, selection.ErrStartRequired),
		errors.Is(err, selection.ErrUnknownSlot),
		errors.Is(err, stay.ErrSelectionIncomplete),
		errors.Is(err, checkout.ErrIdentityRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
