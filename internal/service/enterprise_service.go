package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wiitel/telecom-ticketing/internal/audit"
	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/repository"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// EnterpriseService manages customer/vendor accounts.
type EnterpriseService struct {
	enterprises repository.EnterpriseRepository
	audit       audit.Recorder
}

// NewEnterpriseService wires dependencies.
func NewEnterpriseService(enterprises repository.EnterpriseRepository, recorder audit.Recorder) *EnterpriseService {
	return &EnterpriseService{enterprises: enterprises, audit: recorder}
}

// EnterpriseInput carries the settable enterprise fields.
type EnterpriseInput struct {
	Name           string
	ContactPerson  string
	ContactEmail   string
	ContactPhone   string
	AssignedAMID   *string
	Tier           string
	NOCEmails      string
	Notes          string
	Type           domain.EnterpriseType
	CustomerTrunks []string
	VendorTrunks   []string
}

// List returns enterprises. AMs only see their own accounts.
func (s *EnterpriseService) List(ctx context.Context, actor Actor, entType *domain.EnterpriseType) ([]domain.Enterprise, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleNOC, domain.RoleAM); err != nil {
		return nil, err
	}
	filter := repository.EnterpriseFilter{Type: entType}
	if actor.Role == domain.RoleAM {
		filter.AssignedAMID = &actor.ID
	}
	enterprises, err := s.enterprises.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return enterprises, nil
}

// Get returns one enterprise. AMs only see their own accounts.
func (s *EnterpriseService) Get(ctx context.Context, actor Actor, id string) (*domain.Enterprise, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleNOC, domain.RoleAM); err != nil {
		return nil, err
	}
	ent, err := s.getEnterprise(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleAM && (ent.AssignedAMID == nil || *ent.AssignedAMID != actor.ID) {
		return nil, apperrors.NewForbidden("enterprise belongs to another account manager")
	}
	return ent, nil
}

// Create adds an enterprise. NOC and admin only.
func (s *EnterpriseService) Create(ctx context.Context, actor Actor, input EnterpriseInput) (*domain.Enterprise, error) {
	if err := requireRole(actor, domain.RoleNOC, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("enterprise name is required", nil)
	}
	if input.Type != domain.EnterpriseTypeSMS && input.Type != domain.EnterpriseTypeVoice {
		return nil, apperrors.NewValidationError("unknown enterprise type", map[string]any{"type": input.Type})
	}

	ent := &domain.Enterprise{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(input.Name),
		ContactPerson:  input.ContactPerson,
		ContactEmail:   input.ContactEmail,
		ContactPhone:   input.ContactPhone,
		AssignedAMID:   input.AssignedAMID,
		Tier:           input.Tier,
		NOCEmails:      input.NOCEmails,
		Notes:          input.Notes,
		Type:           input.Type,
		CustomerTrunks: input.CustomerTrunks,
		VendorTrunks:   input.VendorTrunks,
	}
	if err := s.enterprises.Create(ctx, ent); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.record(ctx, actor, audit.ActionCreate, ent)
	return ent, nil
}

// Update replaces the enterprise's settable fields. NOC and admin only.
func (s *EnterpriseService) Update(ctx context.Context, actor Actor, id string, input EnterpriseInput) (*domain.Enterprise, error) {
	if err := requireRole(actor, domain.RoleNOC, domain.RoleAdmin); err != nil {
		return nil, err
	}
	ent, err := s.getEnterprise(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) != "" {
		ent.Name = strings.TrimSpace(input.Name)
	}
	ent.ContactPerson = input.ContactPerson
	ent.ContactEmail = input.ContactEmail
	ent.ContactPhone = input.ContactPhone
	ent.AssignedAMID = input.AssignedAMID
	ent.Tier = input.Tier
	ent.NOCEmails = input.NOCEmails
	ent.Notes = input.Notes
	if input.Type != "" {
		ent.Type = input.Type
	}
	ent.CustomerTrunks = input.CustomerTrunks
	ent.VendorTrunks = input.VendorTrunks

	if err := s.enterprises.Update(ctx, ent); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.record(ctx, actor, audit.ActionUpdate, ent)
	return ent, nil
}

// UpdateContact lets the assigned AM maintain contact details without wider
// edit rights.
func (s *EnterpriseService) UpdateContact(ctx context.Context, actor Actor, id, person, email, phone string) (*domain.Enterprise, error) {
	ent, err := s.getEnterprise(ctx, id)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleNOC:
	case domain.RoleAM:
		if ent.AssignedAMID == nil || *ent.AssignedAMID != actor.ID {
			return nil, apperrors.NewForbidden("enterprise belongs to another account manager")
		}
	default:
		return nil, apperrors.NewForbidden("insufficient role")
	}

	ent.ContactPerson = person
	ent.ContactEmail = email
	ent.ContactPhone = phone
	if err := s.enterprises.Update(ctx, ent); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.record(ctx, actor, audit.ActionUpdate, ent)
	return ent, nil
}

// Delete removes an enterprise. Admin only.
func (s *EnterpriseService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	ent, err := s.getEnterprise(ctx, id)
	if err != nil {
		return err
	}
	if err := s.enterprises.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.record(ctx, actor, audit.ActionDelete, ent)
	return nil
}

// Trunks returns the trunk inventory relevant to the enterprise's traffic
// direction: customer trunks for tickets opened on behalf of clients, vendor
// trunks for vendor-side issues.
func (s *EnterpriseService) Trunks(ctx context.Context, actor Actor, id string) (customer, vendor []string, err error) {
	ent, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	return ent.CustomerTrunks, ent.VendorTrunks, nil
}

func (s *EnterpriseService) getEnterprise(ctx context.Context, id string) (*domain.Enterprise, error) {
	ent, err := s.enterprises.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("enterprise", map[string]any{"enterprise_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ent, nil
}

func (s *EnterpriseService) record(ctx context.Context, actor Actor, action audit.Action, ent *domain.Enterprise) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		EntityType: "enterprise",
		EntityID:   ent.ID,
		EntityName: ent.Name,
	})
}
