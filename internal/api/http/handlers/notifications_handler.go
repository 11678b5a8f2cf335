package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
)

// NotificationsHandler serves the admin dashboard feed.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	feed, err := h.service.GetNotifications(c.UserContext(), auth.AccountFromContext(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, notificationFeedResponse(feed))
}

// MarkAllRead POST /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	updated, err := h.service.MarkAllAsRead(c.UserContext(), auth.AccountFromContext(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.MarkReadResponse{Updated: updated})
}
