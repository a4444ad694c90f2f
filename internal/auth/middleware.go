package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/presence"
	"github.com/wiitel/telecom-ticketing/internal/repository"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Role and Scope are derived
// from the department on every request, never read from storage.
type Principal struct {
	User       *domain.User
	Department *domain.Department
	Role       domain.Role
	Scope      domain.TicketScope
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	users       repository.UserRepository
	departments repository.DepartmentRepository
	presence    *presence.Tracker
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, departments repository.DepartmentRepository, tracker *presence.Tracker) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, departments: departments, presence: tracker}
}

// Handle enforces authentication for protected routes. The websocket route
// cannot set headers from the browser, so a token query parameter is accepted
// as a fallback.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	tokenStr := bearerToken(c.Get("Authorization"))
	if tokenStr == "" {
		tokenStr = c.Query("token")
	}
	if tokenStr == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	var dept *domain.Department
	if user.DepartmentID != nil {
		dept, err = m.departments.GetByID(c.Context(), *user.DepartmentID)
		if err != nil && err != pgx.ErrNoRows {
			return apperrors.MapError(err)
		}
	}

	principal := &Principal{
		User:       user,
		Department: dept,
		Role:       domain.ResolveRole(dept),
		Scope:      domain.ResolveTicketScope(dept),
	}

	c.Locals(principalKey, principal)
	c.Locals("user_id", user.ID)
	c.Locals("user_name", user.Name)

	go func(userID string) {
		m.presence.Touch(context.Background(), userID)
		_ = m.users.TouchLastActive(context.Background(), userID, time.Now().UTC())
	}(user.ID)

	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
