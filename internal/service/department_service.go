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

// DepartmentService manages capability bundles.
type DepartmentService struct {
	departments repository.DepartmentRepository
	audit       audit.Recorder
}

// NewDepartmentService wires dependencies.
func NewDepartmentService(departments repository.DepartmentRepository, recorder audit.Recorder) *DepartmentService {
	return &DepartmentService{departments: departments, audit: recorder}
}

// List returns all departments.
func (s *DepartmentService) List(ctx context.Context, actor Actor) ([]domain.Department, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleNOC, domain.RoleAM); err != nil {
		return nil, err
	}
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// DepartmentInput carries the settable department fields.
type DepartmentInput struct {
	Name         string
	Description  string
	Type         domain.DepartmentType
	Capabilities domain.Capabilities
}

// Create adds a department. Admin only.
func (s *DepartmentService) Create(ctx context.Context, actor Actor, input DepartmentInput) (*domain.Department, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("department name is required", nil)
	}
	if input.Type == "" {
		input.Type = domain.DepartmentTypeAll
	}

	dept := &domain.Department{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Type:         input.Type,
		Capabilities: input.Capabilities,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.record(ctx, actor, audit.ActionCreate, dept)
	return dept, nil
}

// Update edits a department. Admin only. Capability edits take effect for
// all members on their next request because roles are derived, not stored.
func (s *DepartmentService) Update(ctx context.Context, actor Actor, id string, input DepartmentInput) (*domain.Department, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	dept, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) != "" {
		dept.Name = strings.TrimSpace(input.Name)
	}
	dept.Description = input.Description
	if input.Type != "" {
		dept.Type = input.Type
	}
	dept.Capabilities = input.Capabilities

	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.record(ctx, actor, audit.ActionUpdate, dept)
	return dept, nil
}

// Delete removes a department. Admin only; the seeded four are protected.
func (s *DepartmentService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	dept, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if dept.IsDefault() {
		return apperrors.NewValidationError("default departments cannot be deleted", map[string]any{"department_id": id})
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.record(ctx, actor, audit.ActionDelete, dept)
	return nil
}

func (s *DepartmentService) record(ctx context.Context, actor Actor, action audit.Action, dept *domain.Department) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		EntityType: "department",
		EntityID:   dept.ID,
		EntityName: dept.Name,
	})
}
