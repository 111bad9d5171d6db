package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/AhmadFauzanZW/wilopo-cargo/models"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *models.NotificationStore
}

func NewNotificationHandler(notifications *models.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List обрабатывает GET /api/notifications?limit=20
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := currentUser(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	notifications, err := h.notifications.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		log.Printf("❌ Ошибка получения уведомлений: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch notifications"})
		return
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}

// MarkAsRead обрабатывает PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, _ := currentUser(c)

	err := h.notifications.MarkAsRead(c.Request.Context(), c.Param("id"), userID)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "notification not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка отметки уведомления: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to mark notification as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "notification marked as read"})
}

// MarkAllAsRead обрабатывает PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, _ := currentUser(c)

	count, err := h.notifications.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Ошибка отметки уведомлений: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to mark all notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "all notifications marked as read",
		"count":   count,
	})
}
