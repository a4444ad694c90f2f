package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wiitel/telecom-ticketing/internal/api/http/handlers"
	"github.com/wiitel/telecom-ticketing/internal/auth"
	"github.com/wiitel/telecom-ticketing/internal/realtime"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Departments    *handlers.DepartmentsHandler
	Enterprises    *handlers.EnterprisesHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	Dashboard      *handlers.DashboardHandler
	Websocket      *realtime.Handler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auth/register", cfg.Auth.Register)
	protected.Get("/auth/me", cfg.Auth.Me)

	protected.Get("/users", cfg.Users.List)
	protected.Get("/users/:id", cfg.Users.Get)
	protected.Put("/users/:id", cfg.Users.Update)
	protected.Delete("/users/:id", cfg.Users.Delete)

	protected.Get("/departments", cfg.Departments.List)
	protected.Get("/departments/:id", cfg.Departments.Get)
	protected.Get("/my-department", cfg.Departments.Mine)
	protected.Post("/departments", cfg.Departments.Create)
	protected.Put("/departments/:id", cfg.Departments.Update)
	protected.Delete("/departments/:id", cfg.Departments.Delete)

	protected.Get("/enterprises", cfg.Enterprises.List)
	protected.Get("/enterprises/:id", cfg.Enterprises.Get)
	protected.Get("/enterprises/:id/trunks", cfg.Enterprises.Trunks)
	protected.Post("/enterprises", cfg.Enterprises.Create)
	protected.Put("/enterprises/:id", cfg.Enterprises.Update)
	protected.Put("/enterprises/:id/contact", cfg.Enterprises.UpdateContact)
	protected.Delete("/enterprises/:id", cfg.Enterprises.Delete)

	protected.Get("/tickets/:kind", cfg.Tickets.List)
	protected.Post("/tickets/:kind", cfg.Tickets.Create)
	protected.Get("/tickets/:kind/:id", cfg.Tickets.Get)
	protected.Put("/tickets/:kind/:id", cfg.Tickets.Update)
	protected.Delete("/tickets/:kind/:id", cfg.Tickets.Delete)
	protected.Post("/tickets/:kind/:id/actions", cfg.Tickets.AddAction)
	protected.Put("/tickets/:kind/:id/actions/:actionId", cfg.Tickets.EditAction)
	protected.Delete("/tickets/:kind/:id/actions/:actionId", cfg.Tickets.DeleteAction)

	protected.Get("/notifications", cfg.Notifications.List)
	protected.Get("/notifications/peer", cfg.Notifications.UnreadPeerNotices)
	protected.Post("/notifications/:id/read", cfg.Notifications.MarkRead)

	protected.Get("/dashboard/online", cfg.Dashboard.OnlineUsers)
	protected.Get("/dashboard/alerts", cfg.Dashboard.UnassignedAlerts)
	protected.Get("/dashboard/stats/:kind", cfg.Dashboard.Stats)

	protected.Get("/ws", cfg.Websocket.Upgrade, cfg.Websocket.Serve())
}
