package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"chaletbook/internal/app/draftstore"
	"chaletbook/internal/app/stay"
	"chaletbook/internal/domain/selection"
)

type StayHandler struct {
	Service *stay.Service
	Drafts  *draftstore.BookingDrafts
}

func (h StayHandler) Calendar(c *gin.Context) {
	view, err := h.Service.LoadCalendar(c.Request.Context(), c.Param("sid"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type openSlotRequest struct {
	Slot selection.Slot `json:"slot" binding:"required"`
}

func (h StayHandler) OpenSlot(c *gin.Context) {
	var req openSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.Service.OpenSlot(c.Request.Context(), c.Param("sid"), req.Slot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type pickRequest struct {
	Date string `json:"date" binding:"required"`
}

func (h StayHandler) Pick(c *gin.Context) {
	var req pickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}
	view, err := h.Service.Pick(c.Request.Context(), c.Param("sid"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h StayHandler) Quote(c *gin.Context) {
	view, err := h.Service.Quote(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type couponRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h StayHandler) ApplyCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.Service.ApplyCoupon(c.Request.Context(), c.Param("sid"), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h StayHandler) RemoveCoupon(c *gin.Context) {
	view, err := h.Service.RemoveCoupon(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type createDraftRequest struct {
	Guests int `json:"guests" binding:"required,min=1"`
}

func (h StayHandler) CreateDraft(c *gin.Context) {
	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft, err := h.Service.CreateDraft(c.Request.Context(), c.Param("sid"), req.Guests)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

// GetDraft is the checkout page's initial load. A missing or malformed
// draft is a 404; the client redirects to the listing page.
func (h StayHandler) GetDraft(c *gin.Context) {
	draft, err := h.Drafts.Load(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if draft == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no booking draft"})
		return
	}
	coupon, err := h.Drafts.LoadCoupon(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft, "coupon": coupon})
}

func (h StayHandler) ClearDraft(c *gin.Context) {
	if err := h.Drafts.Clear(c.Request.Context(), c.Param("sid")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ StayHTTP = StayHandler{}
