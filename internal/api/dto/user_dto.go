package dto

import (
	"time"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// UserView is the account representation returned to clients. The password
// hash never leaves the service.
type UserView struct {
	ID           string                   `json:"id"`
	Username     string                   `json:"username"`
	Name         string                   `json:"name"`
	Email        string                   `json:"email"`
	Phone        string                   `json:"phone"`
	DepartmentID *string                  `json:"department_id"`
	Role         domain.Role              `json:"role,omitempty"`
	Prefs        domain.NotificationPrefs `json:"notification_prefs"`
	CreatedAt    time.Time                `json:"created_at"`
	LastActive   *time.Time               `json:"last_active,omitempty"`
}

// NewUserView converts a domain user.
func NewUserView(user *domain.User) UserView {
	return UserView{
		ID:           user.ID,
		Username:     user.Username,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		DepartmentID: user.DepartmentID,
		Prefs:        user.Prefs,
		CreatedAt:    user.CreatedAt,
		LastActive:   user.LastActive,
	}
}

// NewUserViews converts a slice.
func NewUserViews(users []domain.User) []UserView {
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, NewUserView(&users[i]))
	}
	return views
}

// UserUpdateRequest payload. Absent fields are left unchanged.
type UserUpdateRequest struct {
	Name         *string                  `json:"name"`
	Email        *string                  `json:"email"`
	Phone        *string                  `json:"phone"`
	Password     *string                  `json:"password"`
	DepartmentID *string                  `json:"department_id"`
	ClearDept    bool                     `json:"clear_department"`
	Prefs        domain.NotificationPrefs `json:"notification_prefs"`
}
