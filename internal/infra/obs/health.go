package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadyCheck probes one dependency (session store, idempotency store).
// The booking backend is deliberately not probed: this service must
// come up and serve cached session state even while the backend is
// down.
type ReadyCheck struct {
	Name  string
	Check func() error
}

// HealthHandlers exposes liveness and per-dependency readiness.
type HealthHandlers struct {
	Checks []ReadyCheck
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Readyz runs every check and reports each by name, so a failing probe
// names the dependency instead of a bare 503.
func (h HealthHandlers) Readyz(c *gin.Context) {
	failures := gin.H{}
	for _, check := range h.Checks {
		if check.Check == nil {
			continue
		}
		if err := check.Check(); err != nil {
			failures[check.Name] = err.Error()
		}
	}
	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "failing": failures})
		return
	}
	c.Status(http.StatusOK)
}
