package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashsync/internal/clipboard"
	"dashsync/internal/middleware"
)

// ClipboardRequest is the body of POST /api/clipboard.
type ClipboardRequest struct {
	Text string `json:"text" validate:"required,max=65536"`
}

// APIClipboard copies text on the host running the synchronizer.
func (h *DashboardHandlers) APIClipboard(c *gin.Context) {
	if h.clipboard == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Clipboard unavailable"})
		return
	}
	req, ok := middleware.Validated[ClipboardRequest](c)
	if !ok {
		return
	}
	if err := h.clipboard.Copy(c.Request.Context(), req.Text); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, clipboard.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		ToastError(c, "Clipboard", "Copy failed")
		c.JSON(status, gin.H{"error": "Copy failed", "details": err.Error()})
		return
	}
	ToastSuccess(c, "Clipboard", "Copied to clipboard")
	c.JSON(http.StatusOK, gin.H{"status": "copied", "length": len(req.Text)})
}
