package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wiitel/telecom-ticketing/internal/audit"
	"github.com/wiitel/telecom-ticketing/internal/auth"
	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/repository"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// AuthService handles login and account registration.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	audit      audit.Recorder
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	BcryptCost int
	Audit      audit.Recorder
}

// NewAuthService wires dependencies.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		bcryptCost: deps.BcryptCost,
		audit:      deps.Audit,
	}
}

// LoginResult carries the issued session.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login authenticates by username, email or phone. The same error is
// returned for unknown identifier and wrong password.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.NewValidationError("identifier and password are required", nil)
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := time.Now().UTC()
	_ = s.users.TouchLastActive(ctx, user.ID, now)
	if s.audit != nil {
		_ = s.audit.Record(ctx, audit.Entry{
			ActorID:    user.ID,
			ActorName:  user.Name,
			Action:     audit.ActionLogin,
			EntityType: "user",
			EntityID:   user.ID,
			EntityName: user.Username,
		})
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// RegisterInput describes a new operator account.
type RegisterInput struct {
	Username     string
	Name         string
	Email        string
	Phone        string
	Password     string
	DepartmentID *string
}

// Register creates an operator account. Admin only.
func (s *AuthService) Register(ctx context.Context, actor Actor, input RegisterInput) (*domain.User, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(input.Username),
		Name:         input.Name,
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		DepartmentID: input.DepartmentID,
		Prefs:        domain.NotificationPrefs{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, audit.Entry{
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			Action:     audit.ActionCreate,
			EntityType: "user",
			EntityID:   user.ID,
			EntityName: user.Username,
		})
	}
	return user, nil
}
