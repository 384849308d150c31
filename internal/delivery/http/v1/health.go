package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HandleHealth reports liveness plus a degraded check for the CSV
// snapshot, which never fails the probe.
func (h *handlerImpl) HandleHealth(c *gin.Context) {
	checks := map[string]string{"snapshot": "ok"}
	if err := h.api.SnapshotWarning(); err != nil {
		checks["snapshot"] = "degraded: " + err.Error()
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
