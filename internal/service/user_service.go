package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/wiitel/telecom-ticketing/internal/audit"
	"github.com/wiitel/telecom-ticketing/internal/auth"
	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/repository"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// UserService manages operator accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	audit      audit.Recorder
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	BcryptCost int
	Audit      audit.Recorder
}

// NewUserService wires dependencies.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{users: deps.UserRepo, bcryptCost: deps.BcryptCost, audit: deps.Audit}
}

// List returns all operator accounts.
func (s *UserService) List(ctx context.Context, actor Actor) ([]domain.User, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleNOC, domain.RoleAM); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, actor Actor, id string) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin && actor.ID != id {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	return s.getUser(ctx, id)
}

// UserUpdateInput carries the admin-editable account fields. Nil pointers
// leave the current value in place.
type UserUpdateInput struct {
	Name         *string
	Email        *string
	Phone        *string
	Password     *string
	DepartmentID *string
	ClearDept    bool
	Prefs        domain.NotificationPrefs
}

// Update edits an account. Admins edit anyone; everyone may edit their own
// notification preferences and contact fields, but not their department.
func (s *UserService) Update(ctx context.Context, actor Actor, id string, input UserUpdateInput) (*domain.User, error) {
	self := actor.ID == id
	if actor.Role != domain.RoleAdmin && !self {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	if actor.Role != domain.RoleAdmin && (input.DepartmentID != nil || input.ClearDept) {
		return nil, apperrors.NewForbidden("only admins may change department membership")
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	if input.ClearDept {
		user.DepartmentID = nil
	} else if input.DepartmentID != nil {
		user.DepartmentID = input.DepartmentID
	}
	if input.Prefs != nil {
		user.Prefs = input.Prefs
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, audit.Entry{
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			Action:     audit.ActionUpdate,
			EntityType: "user",
			EntityID:   user.ID,
			EntityName: user.Username,
		})
	}
	return user, nil
}

// Delete removes an account. Admin only; self-deletion is rejected.
func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if actor.ID == id {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, audit.Entry{
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			Action:     audit.ActionDelete,
			EntityType: "user",
			EntityID:   user.ID,
			EntityName: user.Username,
		})
	}
	return nil
}

func (s *UserService) getUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
