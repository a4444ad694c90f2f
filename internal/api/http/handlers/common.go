package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wiitel/telecom-ticketing/internal/auth"
	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/service"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// actorFrom converts the authenticated principal to the service-layer actor.
func actorFrom(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	actor := service.Actor{
		ID:       principal.User.ID,
		Username: principal.User.Username,
		Name:     principal.User.Name,
		Role:     principal.Role,
		Scope:    principal.Scope,
	}
	if principal.Department != nil {
		actor.CanCreateTickets = principal.Department.CanCreateTickets
	}
	return actor, nil
}

// kindParam parses the :kind path segment.
func kindParam(c *fiber.Ctx) (domain.TicketKind, error) {
	kind := domain.TicketKind(c.Params("kind"))
	if !kind.Valid() {
		return "", apperrors.NewValidationError("unknown ticket kind", map[string]any{"kind": c.Params("kind")})
	}
	return kind, nil
}

// queryTime parses an optional RFC3339 query parameter.
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid timestamp", map[string]any{name: raw})
	}
	return &parsed, nil
}
