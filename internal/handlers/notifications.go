package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dashsync/internal/middleware"
	"dashsync/internal/models"
)

// NotificationRequest is the body of POST /api/notifications.
type NotificationRequest struct {
	Message string `json:"message" validate:"required,max=1024"`
	Kind    string `json:"kind" validate:"omitempty,max=32"`
}

// APINotify shows a transient alert on every connected page.
func (h *DashboardHandlers) APINotify(c *gin.Context) {
	if h.notifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Notifications unavailable"})
		return
	}
	req, ok := middleware.Validated[NotificationRequest](c)
	if !ok {
		return
	}
	msg := middleware.SanitizeString(req.Message)
	if msg == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	n := h.notifier.Show(msg, models.ParseNotificationKind(req.Kind))
	SetToast(c, n.Kind, "Notification", msg)
	c.JSON(http.StatusCreated, n)
}

// APIDismissNotification removes an alert before it expires.
func (h *DashboardHandlers) APIDismissNotification(c *gin.Context) {
	if h.notifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Notifications unavailable"})
		return
	}
	if !h.notifier.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	ToastInfo(c, "Notification", "Dismissed")
	c.Status(http.StatusNoContent)
}
