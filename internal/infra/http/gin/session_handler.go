package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chaletbook/internal/app/draftstore"
)

// SessionHandler mints and destroys tab-scoped sessions. A session id
// is the tab's handle on all its ephemeral state; it carries no
// identity and grants nothing beyond its own drafts.
type SessionHandler struct {
	KV draftstore.KV
	// OnDestroy lets services release in-memory state tied to a session.
	OnDestroy func(sessionID string)
}

func (h SessionHandler) Create(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": uuid.NewString()})
}

func (h SessionHandler) Destroy(c *gin.Context) {
	sid := c.Param("sid")
	if h.OnDestroy != nil {
		h.OnDestroy(sid)
	}
	if err := h.KV.Drop(c.Request.Context(), sid); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ SessionHTTP = SessionHandler{}
