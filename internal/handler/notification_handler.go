package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"voicehub/internal/model"
	"voicehub/pkg/database"
	"voicehub/pkg/logger"
	"voicehub/prometheus"
)

// ListNotifications returns the caller's notifications, newest first.
func ListNotifications(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var notifications []model.Notification
	if result := database.GetDB().Where("user_id = ?", userID).Order("created_at DESC").Limit(50).Find(&notifications); result.Error != nil {
		log.Error("Failed to list notifications", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list notifications"})
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result := database.GetDB().Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		log.Error("Failed to mark notification read", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notification"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every unread notification of the caller.
func MarkAllNotificationsRead(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		log.Error("Failed to mark notifications read", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notifications"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}
