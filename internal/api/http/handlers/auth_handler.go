package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wiitel/telecom-ticketing/internal/api/dto"
	"github.com/wiitel/telecom-ticketing/internal/auth"
	"github.com/wiitel/telecom-ticketing/internal/service"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// AuthHandler exposes login, registration and session introspection.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Identifier, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user": dto.NewUserView(result.User),
		"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	}})
}

// Register handles POST /api/auth/register. Admin only.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Register(c.Context(), actor, service.RegisterInput{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserView(user)})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	view := dto.NewUserView(principal.User)
	view.Role = principal.Role

	response := fiber.Map{"user": view}
	if principal.Department != nil {
		response["department"] = dto.NewDepartmentView(principal.Department)
	}
	return c.JSON(fiber.Map{"data": response})
}
