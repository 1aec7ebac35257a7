package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"chaletbook/internal/app/draftstore"
	"chaletbook/internal/app/search"
	"chaletbook/internal/domain/booking"
)

type SearchHandler struct {
	Service *search.Service
}

type filterUpdateRequest struct {
	Filters        booking.Filters `json:"filters"`
	Page           int             `json:"page"`
	ScrollPosition float64         `json:"scrollPosition"`
}

// Update accepts a filter edit and returns immediately; the persist and
// catalog refetch happen after the debounce window.
func (h SearchHandler) Update(c *gin.Context) {
	var req filterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.Service.Update(c.Param("sid"), draftstore.FilterDraft{
		Filters:        req.Filters,
		Page:           req.Page,
		ScrollPosition: req.ScrollPosition,
	})
	c.Status(http.StatusAccepted)
}

// Restore returns the persisted search context plus the newest catalog
// results, for a page coming back from a detail visit.
func (h SearchHandler) Restore(c *gin.Context) {
	sid := c.Param("sid")
	draft, err := h.Service.Restore(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	response := gin.H{
		"filters":        draft.Filters,
		"page":           draft.Page,
		"scrollPosition": draft.ScrollPosition,
	}
	if results, ok := h.Service.Results(sid); ok {
		response["results"] = results
	}
	c.JSON(http.StatusOK, response)
}

func (h SearchHandler) Reset(c *gin.Context) {
	if err := h.Service.Reset(c.Request.Context(), c.Param("sid")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ SearchHTTP = SearchHandler{}
