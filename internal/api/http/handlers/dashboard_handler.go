package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wiitel/telecom-ticketing/internal/service"
)

// DashboardHandler serves the operations console aggregates.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService}
}

// OnlineUsers handles GET /api/dashboard/online.
func (h *DashboardHandler) OnlineUsers(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	online, err := h.dashboard.OnlineUsers(c.Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": online})
}

// UnassignedAlerts handles GET /api/dashboard/alerts.
func (h *DashboardHandler) UnassignedAlerts(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	alerts, err := h.dashboard.UnassignedAlerts(c.Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": alerts})
}

// Stats handles GET /api/dashboard/stats/:kind.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	from, err := queryTime(c, "created_from")
	if err != nil {
		return err
	}
	to, err := queryTime(c, "created_to")
	if err != nil {
		return err
	}
	stats, err := h.dashboard.Stats(c.Context(), actor, kind, service.StatsOptions{CreatedFrom: from, CreatedTo: to})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
