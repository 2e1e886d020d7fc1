package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pubhub/internal/app/dto"
)

func (h *Handler) NotificationList(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		h.badRequest(c, "user_id is required")
		return
	}

	var unreadOnly bool
	if raw := c.Query("unread_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.badRequest(c, "unread_only must be a boolean")
			return
		}
		unreadOnly = v
	}

	list, err := h.NotificationSvc.List(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := struct {
		UserID        string             `json:"user_id"`
		Notifications []dto.Notification `json:"notifications"`
	}{
		UserID:        userID,
		Notifications: make([]dto.Notification, 0, len(list)),
	}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, dto.Notification{
			NotificationID: n.ID,
			Kind:           string(n.Kind),
			Message:        n.Message,
			Read:           n.Read,
			CreatedAt:      n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) NotificationRead(c *gin.Context) {
	var body struct {
		UserID         string `json:"user_id"`
		NotificationID string `json:"notification_id"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.UserID == "" || body.NotificationID == "" {
		h.badRequest(c, "user_id, notification_id are required")
		return
	}

	if err := h.NotificationSvc.MarkRead(c.Request.Context(), body.UserID, body.NotificationID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
