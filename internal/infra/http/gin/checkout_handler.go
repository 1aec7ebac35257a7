package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"chaletbook/internal/app/checkout"
)

type CheckoutHandler struct {
	Submitter *checkout.Submitter
}

// checkoutRequest carries identity: either the authenticated user id or
// guest contact fields. Field-level shape checks run again in the
// submitter; the binding tags catch the obvious misses early.
type checkoutRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email" binding:"omitempty,email"`
	Phone  string `json:"phone" binding:"omitempty,numeric"`
}

func (h CheckoutHandler) Submit(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	submit := checkout.Request{
		SessionID:      c.Param("sid"),
		UserID:         req.UserID,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	}
	if req.UserID == "" {
		submit.Guest = &checkout.GuestDetails{Name: req.Name, Email: req.Email, Phone: req.Phone}
	}
	receipt, err := h.Submitter.Submit(c.Request.Context(), submit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

var _ CheckoutHTTP = CheckoutHandler{}
