package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wiitel/telecom-ticketing/internal/api/dto"
	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/service"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// EnterprisesHandler exposes enterprise management endpoints.
type EnterprisesHandler struct {
	enterprises *service.EnterpriseService
}

// NewEnterprisesHandler constructs handler.
func NewEnterprisesHandler(enterpriseService *service.EnterpriseService) *EnterprisesHandler {
	return &EnterprisesHandler{enterprises: enterpriseService}
}

// List handles GET /api/enterprises.
func (h *EnterprisesHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var entType *domain.EnterpriseType
	if raw := c.Query("type"); raw != "" {
		t := domain.EnterpriseType(raw)
		if t != domain.EnterpriseTypeSMS && t != domain.EnterpriseTypeVoice {
			return apperrors.NewValidationError("unknown enterprise type", map[string]any{"type": raw})
		}
		entType = &t
	}
	enterprises, err := h.enterprises.List(c.Context(), actor, entType)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnterpriseViews(enterprises)})
}

// Get handles GET /api/enterprises/:id.
func (h *EnterprisesHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	ent, err := h.enterprises.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnterpriseView(ent)})
}

// Create handles POST /api/enterprises.
func (h *EnterprisesHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.EnterpriseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ent, err := h.enterprises.Create(c.Context(), actor, enterpriseInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEnterpriseView(ent)})
}

// Update handles PUT /api/enterprises/:id.
func (h *EnterprisesHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.EnterpriseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ent, err := h.enterprises.Update(c.Context(), actor, c.Params("id"), enterpriseInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnterpriseView(ent)})
}

// UpdateContact handles PUT /api/enterprises/:id/contact.
func (h *EnterprisesHandler) UpdateContact(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.EnterpriseContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ent, err := h.enterprises.UpdateContact(c.Context(), actor, c.Params("id"), req.ContactPerson, req.ContactEmail, req.ContactPhone)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnterpriseView(ent)})
}

// Trunks handles GET /api/enterprises/:id/trunks.
func (h *EnterprisesHandler) Trunks(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	customer, vendor, err := h.enterprises.Trunks(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"customer_trunks": customer,
		"vendor_trunks":   vendor,
	}})
}

// Delete handles DELETE /api/enterprises/:id.
func (h *EnterprisesHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.enterprises.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func enterpriseInput(req dto.EnterpriseRequest) service.EnterpriseInput {
	return service.EnterpriseInput{
		Name:           req.Name,
		ContactPerson:  req.ContactPerson,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		AssignedAMID:   req.AssignedAMID,
		Tier:           req.Tier,
		NOCEmails:      req.NOCEmails,
		Notes:          req.Notes,
		Type:           req.Type,
		CustomerTrunks: req.CustomerTrunks,
		VendorTrunks:   req.VendorTrunks,
	}
}
