package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wiitel/telecom-ticketing/internal/audit"
	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/events"
	"github.com/wiitel/telecom-ticketing/internal/repository"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// Actor is the caller of a service operation with the role, scope and
// ticket-create capability already derived from their department.
type Actor struct {
	ID               string
	Username         string
	Name             string
	Role             domain.Role
	Scope            domain.TicketScope
	CanCreateTickets bool
}

// TicketService coordinates ticket workflows for both pipelines.
type TicketService struct {
	tickets     repository.TicketRepository
	enterprises repository.EnterpriseRepository
	dispatcher  events.Dispatcher
	audit       audit.Recorder
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	EnterpriseRepo repository.EnterpriseRepository
	Dispatcher     events.Dispatcher
	Audit          audit.Recorder
}

// NewTicketService wires dependencies.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		enterprises: deps.EnterpriseRepo,
		dispatcher:  deps.Dispatcher,
		audit:       deps.Audit,
	}
}

// TicketInput carries the caller-settable fields for create and update. An
// update replaces all of them; the service deliberately applies last-write-
// wins with no version check.
type TicketInput struct {
	EnterpriseID   string
	ClientOrVendor string
	Priority       domain.TicketPriority
	Volume         string
	CustomerTrunk  string
	Destination    string
	IssueTypes     []string
	IssueOther     string
	FASType        string
	SMSDetails     []domain.SMSDetail
	OpenedVia      []string
	Rate           string
	VendorTrunks   []domain.VendorTrunkShare
	Cost           string
	IsLCR          string
	RootCause      string
	ActionTaken    string
	InternalNotes  string
	Status         domain.TicketStatus
	AssignedTo     *string
}

// ListOptions narrows a ticket listing.
type ListOptions struct {
	Statuses    []domain.TicketStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
}

// Create opens a new ticket in the given pipeline.
func (s *TicketService) Create(ctx context.Context, actor Actor, kind domain.TicketKind, input TicketInput) (*domain.Ticket, error) {
	if !kind.Valid() {
		return nil, apperrors.NewValidationError("unknown ticket kind", map[string]any{"kind": kind})
	}
	if err := requireRole(actor, domain.RoleAM, domain.RoleNOC, domain.RoleAdmin); err != nil {
		return nil, err
	}
	// Creation follows the capability flag, not the derived role: a
	// department can grant ticket editing without ticket creation.
	if !actor.CanCreateTickets {
		return nil, apperrors.NewForbidden("department does not grant ticket creation")
	}
	if err := requireScope(actor, kind); err != nil {
		return nil, err
	}

	enterprise, err := s.enterprises.GetByID(ctx, input.EnterpriseID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("enterprise", map[string]any{"enterprise_id": input.EnterpriseID})
		}
		return nil, apperrors.MapError(err)
	}

	status := input.Status
	if status == "" {
		status = domain.StatusUnassigned
	}
	if err := domain.ValidateStatus(status, input.AssignedTo); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	ticket := &domain.Ticket{
		ID:             id,
		Kind:           kind,
		TicketNumber:   ticketNumber(now, id),
		EnterpriseID:   enterprise.ID,
		EnterpriseName: enterprise.Name,
		ClientOrVendor: input.ClientOrVendor,
		Priority:       input.Priority,
		Volume:         input.Volume,
		CustomerTrunk:  input.CustomerTrunk,
		Destination:    input.Destination,
		IssueTypes:     input.IssueTypes,
		IssueOther:     input.IssueOther,
		FASType:        input.FASType,
		SMSDetails:     input.SMSDetails,
		OpenedVia:      input.OpenedVia,
		Rate:           input.Rate,
		VendorTrunks:   input.VendorTrunks,
		Cost:           input.Cost,
		IsLCR:          input.IsLCR,
		RootCause:      input.RootCause,
		ActionTaken:    input.ActionTaken,
		InternalNotes:  input.InternalNotes,
		Status:         status,
		AssignedTo:     input.AssignedTo,
		AssignedAt:     domain.StampAssignedAt(nil, input.AssignedTo, nil, status, now),
		Actions:        []domain.TicketAction{},
		CreatedBy:      actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordAudit(ctx, actor, audit.ActionCreate, ticket, nil)
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		Ticket:    ticket,
		Actor:     eventActor(actor),
		Timestamp: now,
	})
	return ticket, nil
}

// Update replaces the caller-settable fields of a ticket. Concurrent editors
// race; the last write wins and the loser's changes are silently overwritten.
func (s *TicketService) Update(ctx context.Context, actor Actor, kind domain.TicketKind, id string, input TicketInput) (*domain.Ticket, error) {
	if err := requireRole(actor, domain.RoleNOC, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := requireScope(actor, kind); err != nil {
		return nil, err
	}

	before, err := s.getTicket(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateStatus(input.Status, input.AssignedTo); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	now := time.Now().UTC()
	after := *before
	after.ClientOrVendor = input.ClientOrVendor
	after.Priority = input.Priority
	after.Volume = input.Volume
	after.CustomerTrunk = input.CustomerTrunk
	after.Destination = input.Destination
	after.IssueTypes = input.IssueTypes
	after.IssueOther = input.IssueOther
	after.FASType = input.FASType
	after.SMSDetails = input.SMSDetails
	after.OpenedVia = input.OpenedVia
	after.Rate = input.Rate
	after.VendorTrunks = input.VendorTrunks
	after.Cost = input.Cost
	after.IsLCR = input.IsLCR
	after.RootCause = input.RootCause
	after.ActionTaken = input.ActionTaken
	after.InternalNotes = input.InternalNotes
	after.Status = input.Status
	after.AssignedTo = input.AssignedTo
	after.AssignedAt = domain.StampAssignedAt(before.AssignedTo, input.AssignedTo, before.AssignedAt, input.Status, now)
	after.UpdatedAt = now

	changes := domain.DiffTickets(before, &after)
	if len(changes) == 0 {
		return before, nil
	}

	if err := s.tickets.Update(ctx, &after); err != nil {
		return nil, apperrors.MapError(err)
	}

	auditChanges := make(map[string]any, len(changes))
	for field, change := range changes {
		auditChanges[field] = change
	}
	s.recordAudit(ctx, actor, audit.ActionUpdate, &after, auditChanges)
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketUpdated,
		Ticket:    &after,
		Previous:  before,
		Changes:   changes,
		Actor:     eventActor(actor),
		Timestamp: now,
	})
	return &after, nil
}

// Get loads one ticket. AMs only see tickets of enterprises assigned to them.
func (s *TicketService) Get(ctx context.Context, actor Actor, kind domain.TicketKind, id string) (*domain.Ticket, error) {
	if err := requireRole(actor, domain.RoleAM, domain.RoleNOC, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := requireScope(actor, kind); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleAM {
		enterprise, err := s.enterprises.GetByID(ctx, ticket.EnterpriseID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if enterprise.AssignedAMID == nil || *enterprise.AssignedAMID != actor.ID {
			return nil, apperrors.NewForbidden("ticket belongs to another account manager's enterprise")
		}
	}
	return ticket, nil
}

// List returns recent tickets of one pipeline, scope- and ownership-filtered.
func (s *TicketService) List(ctx context.Context, actor Actor, kind domain.TicketKind, opts ListOptions) ([]domain.Ticket, error) {
	if err := requireRole(actor, domain.RoleAM, domain.RoleNOC, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := requireScope(actor, kind); err != nil {
		return nil, err
	}

	filter := repository.TicketFilter{
		Kind:        kind,
		Statuses:    opts.Statuses,
		CreatedFrom: opts.CreatedFrom,
		CreatedTo:   opts.CreatedTo,
		Limit:       opts.Limit,
	}
	if actor.Role == domain.RoleAM {
		owned, err := s.enterprises.List(ctx, repository.EnterpriseFilter{AssignedAMID: &actor.ID})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if len(owned) == 0 {
			return []domain.Ticket{}, nil
		}
		for _, ent := range owned {
			filter.EnterpriseIDs = append(filter.EnterpriseIDs, ent.ID)
		}
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Delete removes a ticket.
func (s *TicketService) Delete(ctx context.Context, actor Actor, kind domain.TicketKind, id string) error {
	if err := requireRole(actor, domain.RoleNOC, domain.RoleAdmin); err != nil {
		return err
	}
	if err := requireScope(actor, kind); err != nil {
		return err
	}
	ticket, err := s.getTicket(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, kind, id); err != nil {
		return apperrors.MapError(err)
	}
	s.recordAudit(ctx, actor, audit.ActionDelete, ticket, nil)
	return nil
}

// AddAction appends a remark to the ticket's action trail.
func (s *TicketService) AddAction(ctx context.Context, actor Actor, kind domain.TicketKind, ticketID, text string) (*domain.Ticket, error) {
	if err := requireRole(actor, domain.RoleAM, domain.RoleNOC, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := requireScope(actor, kind); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, apperrors.NewValidationError("action text is required", nil)
	}

	ticket, err := s.getTicket(ctx, kind, ticketID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	action := domain.TicketAction{
		ID:                uuid.NewString(),
		Text:              text,
		CreatedBy:         actor.ID,
		CreatedByUsername: actor.Username,
		CreatedAt:         now,
	}
	ticket.Actions = append(ticket.Actions, action)
	ticket.UpdatedAt = now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordAudit(ctx, actor, audit.ActionUpdate, ticket, map[string]any{"action_added": action.Text})
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketActionAdded,
		Ticket:    ticket,
		Action:    &action,
		Actor:     eventActor(actor),
		Timestamp: now,
	})
	return ticket, nil
}

// EditAction rewrites an action's text. Only the author may edit; the action
// keeps an edited flag and timestamp.
func (s *TicketService) EditAction(ctx context.Context, actor Actor, kind domain.TicketKind, ticketID, actionID, text string) (*domain.Ticket, error) {
	if err := requireScope(actor, kind); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, apperrors.NewValidationError("action text is required", nil)
	}
	ticket, err := s.getTicket(ctx, kind, ticketID)
	if err != nil {
		return nil, err
	}
	action := ticket.FindAction(actionID)
	if action == nil {
		return nil, apperrors.NewNotFound("action", map[string]any{"action_id": actionID})
	}
	if action.CreatedBy != actor.ID {
		return nil, apperrors.NewForbidden("only the author may edit an action")
	}

	now := time.Now().UTC()
	action.Text = text
	action.Edited = true
	action.EditedAt = &now
	ticket.UpdatedAt = now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// DeleteAction removes an action. Only the author may delete.
func (s *TicketService) DeleteAction(ctx context.Context, actor Actor, kind domain.TicketKind, ticketID, actionID string) (*domain.Ticket, error) {
	if err := requireScope(actor, kind); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, kind, ticketID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range ticket.Actions {
		if ticket.Actions[i].ID == actionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.NewNotFound("action", map[string]any{"action_id": actionID})
	}
	if ticket.Actions[idx].CreatedBy != actor.ID {
		return nil, apperrors.NewForbidden("only the author may delete an action")
	}

	ticket.Actions = append(ticket.Actions[:idx], ticket.Actions[idx+1:]...)
	ticket.UpdatedAt = time.Now().UTC()

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) getTicket(ctx context.Context, kind domain.TicketKind, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, kind, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) recordAudit(ctx context.Context, actor Actor, action audit.Action, ticket *domain.Ticket, changes map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		EntityType: "ticket",
		EntityID:   ticket.ID,
		EntityName: ticket.TicketNumber,
		Changes:    changes,
	})
}

// ticketNumber renders the human-facing number: creation date plus a short
// unique suffix taken from the ticket id.
func ticketNumber(now time.Time, id string) string {
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("#%s%s", now.Format("20060102"), suffix)
}

func requireRole(actor Actor, allowed ...domain.Role) error {
	for _, role := range allowed {
		if actor.Role == role {
			return nil
		}
	}
	return apperrors.NewForbidden("insufficient role")
}

func requireScope(actor Actor, kind domain.TicketKind) error {
	if !domain.ScopeAllows(actor.Scope, kind) {
		return apperrors.NewForbidden("department scope does not cover this ticket type")
	}
	return nil
}

func eventActor(actor Actor) events.Actor {
	return events.Actor{ID: actor.ID, Username: actor.Username, Role: actor.Role}
}
