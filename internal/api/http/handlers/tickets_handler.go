package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wiitel/telecom-ticketing/internal/api/dto"
	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/service"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// TicketsHandler manages ticket endpoints for both pipelines. The pipeline
// is selected by the :kind path segment.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// List handles GET /api/tickets/:kind.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	opts, err := parseListOptions(c)
	if err != nil {
		return err
	}

	tickets, err := h.tickets.List(c.Context(), actor, kind, opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketViews(tickets)})
}

// Get handles GET /api/tickets/:kind/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Get(c.Context(), actor, kind, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketView(ticket)})
}

// Create handles POST /api/tickets/:kind.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EnterpriseID == "" {
		return apperrors.NewValidationError("enterprise_id required", nil)
	}

	ticket, err := h.tickets.Create(c.Context(), actor, kind, ticketInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketView(ticket)})
}

// Update handles PUT /api/tickets/:kind/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Update(c.Context(), actor, kind, c.Params("id"), ticketInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketView(ticket)})
}

// Delete handles DELETE /api/tickets/:kind/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	if err := h.tickets.Delete(c.Context(), actor, kind, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// AddAction handles POST /api/tickets/:kind/:id/actions.
func (h *TicketsHandler) AddAction(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	var req dto.ActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.AddAction(c.Context(), actor, kind, c.Params("id"), strings.TrimSpace(req.Text))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketView(ticket)})
}

// EditAction handles PUT /api/tickets/:kind/:id/actions/:actionId.
func (h *TicketsHandler) EditAction(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	var req dto.ActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.EditAction(c.Context(), actor, kind, c.Params("id"), c.Params("actionId"), strings.TrimSpace(req.Text))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketView(ticket)})
}

// DeleteAction handles DELETE /api/tickets/:kind/:id/actions/:actionId.
func (h *TicketsHandler) DeleteAction(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.DeleteAction(c.Context(), actor, kind, c.Params("id"), c.Params("actionId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketView(ticket)})
}

func parseListOptions(c *fiber.Ctx) (service.ListOptions, error) {
	var opts service.ListOptions
	if raw := c.Query("statuses"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			opts.Statuses = append(opts.Statuses, domain.TicketStatus(strings.TrimSpace(s)))
		}
	}
	from, err := queryTime(c, "created_from")
	if err != nil {
		return opts, err
	}
	to, err := queryTime(c, "created_to")
	if err != nil {
		return opts, err
	}
	opts.CreatedFrom = from
	opts.CreatedTo = to
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return opts, apperrors.NewValidationError("invalid limit", map[string]any{"limit": raw})
		}
		opts.Limit = limit
	}
	return opts, nil
}

func ticketInput(req dto.TicketRequest) service.TicketInput {
	return service.TicketInput{
		EnterpriseID:   req.EnterpriseID,
		ClientOrVendor: req.ClientOrVendor,
		Priority:       req.Priority,
		Volume:         req.Volume,
		CustomerTrunk:  req.CustomerTrunk,
		Destination:    req.Destination,
		IssueTypes:     req.IssueTypes,
		IssueOther:     req.IssueOther,
		FASType:        req.FASType,
		SMSDetails:     req.SMSDetails,
		OpenedVia:      req.OpenedVia,
		Rate:           req.Rate,
		VendorTrunks:   req.VendorTrunks,
		Cost:           req.Cost,
		IsLCR:          req.IsLCR,
		RootCause:      req.RootCause,
		ActionTaken:    req.ActionTaken,
		InternalNotes:  req.InternalNotes,
		Status:         req.Status,
		AssignedTo:     req.AssignedTo,
	}
}
