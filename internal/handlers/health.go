package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/process"

	"dashsync/internal/format"
	"dashsync/internal/models"
	"dashsync/internal/version"
)

// Healthz reports liveness, process telemetry, connected clients, pending
// alerts and scheduler state.
func (h *DashboardHandlers) Healthz(c *gin.Context) {
	now := h.clock.Now()
	telemetry := h.processTelemetry(c, now)
	body := gin.H{
		"status":     "ok",
		"uptime":     telemetry.Uptime,
		"rss_bytes":  telemetry.RSSBytes,
		"pid":        telemetry.PID,
		"started_at": format.Timestamp(h.started),
		"scheduler":  models.SchedulerStopped.String(),
	}
	if telemetry.Threads > 0 {
		body["threads"] = telemetry.Threads
	}
	if h.clients != nil {
		body["clients"] = h.clients.GetClientCount()
	}
	if h.notifier != nil {
		body["pending_alerts"] = h.notifier.Pending()
	}
	if h.status != nil {
		body["scheduler"] = h.status.State().String()
		if last := h.status.LastApplied(); !last.IsZero() {
			body["last_refresh"] = format.Timestamp(last)
			body["last_refresh_ago"] = format.TimeAgo(last, now)
		}
	}
	c.JSON(http.StatusOK, body)
}

// Version returns build metadata.
func (h *DashboardHandlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Current())
}

func (h *DashboardHandlers) processTelemetry(c *gin.Context, now time.Time) models.ProcessTelemetry {
	pid := int32(os.Getpid())
	t := models.ProcessTelemetry{
		PID:       pid,
		Uptime:    now.Sub(h.started).Truncate(time.Second).String(),
		SampledAt: now,
	}
	proc, err := process.NewProcessWithContext(c.Request.Context(), pid)
	if err != nil {
		h.log.WithError(err).Debug("process telemetry unavailable")
		return t
	}
	if mem, err := proc.MemoryInfoWithContext(c.Request.Context()); err == nil && mem != nil {
		t.RSSBytes = mem.RSS
	}
	if n, err := proc.NumThreadsWithContext(c.Request.Context()); err == nil {
		t.Threads = n
	}
	return t
}
