package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dashsync/internal/middleware"
)

// WebhookRequest is the optional body of POST /webhook/wialon.
type WebhookRequest struct {
	Timestamp *time.Time `json:"timestamp"`
	UnitID    string     `json:"unit_id" validate:"omitempty,max=128"`
}

// APIDashboardStats returns hourly buckets and the webhook total.
func (h *DashboardHandlers) APIDashboardStats(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stats store unavailable"})
		return
	}
	stats, err := h.store.Stats(c.Request.Context(), h.clock.Now())
	if err != nil {
		h.log.WithError(err).Error("failed to read dashboard stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// WebhookWialon records one webhook hit. An empty body counts at the
// current time.
func (h *DashboardHandlers) WebhookWialon(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stats store unavailable"})
		return
	}
	req, ok := middleware.Validated[WebhookRequest](c)
	if !ok {
		return
	}
	at := h.clock.Now()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		at = *req.Timestamp
	}
	if err := h.store.Record(c.Request.Context(), at); err != nil {
		h.log.WithError(err).Error("failed to record webhook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record webhook"})
		return
	}
	h.log.WithField("unit_id", req.UnitID).Debug("webhook recorded")
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded", "at": at.UTC().Format(time.RFC3339)})
}
