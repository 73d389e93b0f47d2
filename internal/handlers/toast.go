package handlers

import (
	"github.com/gin-gonic/gin"

	"dashsync/internal/models"
)

// SetToast sets the toast headers a client can surface after an API call.
func SetToast(c *gin.Context, kind models.NotificationKind, title, msg string) {
	if c == nil {
		return
	}
	if kind != "" {
		c.Header("X-Toast-Type", string(kind))
	}
	if title != "" {
		c.Header("X-Toast-Title", title)
	}
	if msg != "" {
		c.Header("X-Toast-Message", msg)
	}
}

func ToastSuccess(c *gin.Context, title, msg string) {
	SetToast(c, models.NotificationSuccess, title, msg)
}
func ToastInfo(c *gin.Context, title, msg string) { SetToast(c, models.NotificationInfo, title, msg) }
func ToastError(c *gin.Context, title, msg string) {
	SetToast(c, models.NotificationError, title, msg)
}
