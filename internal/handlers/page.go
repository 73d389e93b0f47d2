package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIPage returns the current page snapshot.
func (h *DashboardHandlers) APIPage(c *gin.Context) {
	if h.page == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Page unavailable"})
		return
	}
	c.JSON(http.StatusOK, h.page.Snapshot())
}

// ChartSVG renders the latest frame of a mount point, e.g.
// GET /charts/activityChart.svg.
func (h *DashboardHandlers) ChartSVG(c *gin.Context) {
	file := c.Param("file")
	mount, ok := strings.CutSuffix(file, ".svg")
	if !ok || mount == "" || h.page == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chart not found"})
		return
	}
	frame, ok := h.page.Frame(mount)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chart not found"})
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, frame); err != nil {
		h.log.WithError(err).WithField("mount", mount).Warn("chart render failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Chart cannot be rendered", "details": err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}
