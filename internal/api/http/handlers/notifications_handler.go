package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wiitel/telecom-ticketing/internal/api/dto"
	"github.com/wiitel/telecom-ticketing/internal/service"
)

// NotificationsHandler serves the per-user feed.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	feed, err := h.notifications.List(c.Context(), actor, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNotificationViews(feed)})
}

// UnreadPeerNotices handles GET /api/notifications/peer.
func (h *NotificationsHandler) UnreadPeerNotices(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	notices, err := h.notifications.UnreadPeerNotices(c.Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNotificationViews(notices)})
}

// MarkRead handles POST /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}
