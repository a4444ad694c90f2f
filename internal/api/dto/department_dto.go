package dto

import (
	"time"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// DepartmentView is the client representation of a department.
type DepartmentView struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Type        domain.DepartmentType `json:"type"`
	domain.Capabilities
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDepartmentView converts a domain department.
func NewDepartmentView(dept *domain.Department) DepartmentView {
	return DepartmentView{
		ID:           dept.ID,
		Name:         dept.Name,
		Description:  dept.Description,
		Type:         dept.Type,
		Capabilities: dept.Capabilities,
		IsDefault:    dept.IsDefault(),
		CreatedAt:    dept.CreatedAt,
	}
}

// NewDepartmentViews converts a slice.
func NewDepartmentViews(departments []domain.Department) []DepartmentView {
	views := make([]DepartmentView, 0, len(departments))
	for i := range departments {
		views = append(views, NewDepartmentView(&departments[i]))
	}
	return views
}

// DepartmentRequest payload for create and update.
type DepartmentRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Type        domain.DepartmentType `json:"type"`
	domain.Capabilities
}
