package domain

import "time"

// DepartmentType scopes which ticket kind a department's members may touch.
type DepartmentType string

const (
	DepartmentTypeSMS   DepartmentType = "sms"
	DepartmentTypeVoice DepartmentType = "voice"
	DepartmentTypeAll   DepartmentType = "all"
)

// Default department IDs seeded at startup. These four always exist and
// cannot be deleted.
const (
	DeptAdmin      = "dept_admin"
	DeptSMSSales   = "dept_sms_sales"
	DeptVoiceSales = "dept_voice_sales"
	DeptNOC        = "dept_noc"
)

// Capabilities is the boolean permission bundle carried by a department.
// A user's effective role is derived from these flags, never stored.
type Capabilities struct {
	CanViewEnterprises   bool `json:"can_view_enterprises"`
	CanCreateEnterprises bool `json:"can_create_enterprises"`
	CanEditEnterprises   bool `json:"can_edit_enterprises"`
	CanDeleteEnterprises bool `json:"can_delete_enterprises"`
	CanViewTickets       bool `json:"can_view_tickets"`
	CanCreateTickets     bool `json:"can_create_tickets"`
	CanEditTickets       bool `json:"can_edit_tickets"`
	CanDeleteTickets     bool `json:"can_delete_tickets"`
	CanViewUsers         bool `json:"can_view_users"`
	CanEditUsers         bool `json:"can_edit_users"`
	CanViewAllTickets    bool `json:"can_view_all_tickets"`
}

// Department is a named capability bundle plus a ticket-type scope.
type Department struct {
	ID          string
	Name        string
	Description string
	Type        DepartmentType
	Capabilities
	CreatedAt time.Time
}

// IsDefault reports whether the department is one of the seeded four.
func (d *Department) IsDefault() bool {
	switch d.ID {
	case DeptAdmin, DeptSMSSales, DeptVoiceSales, DeptNOC:
		return true
	}
	return false
}

// DefaultDepartments returns the four fixed departments upserted at process
// startup.
func DefaultDepartments() []Department {
	return []Department{
		{
			ID:          DeptAdmin,
			Name:        "Admin",
			Description: "Administrator Department with full access",
			Type:        DepartmentTypeAll,
			Capabilities: Capabilities{
				CanViewEnterprises: true, CanCreateEnterprises: true, CanEditEnterprises: true, CanDeleteEnterprises: true,
				CanViewTickets: true, CanCreateTickets: true, CanEditTickets: true, CanDeleteTickets: true,
				CanViewUsers: true, CanEditUsers: true, CanViewAllTickets: true,
			},
		},
		{
			ID:          DeptSMSSales,
			Name:        "SMS Sales",
			Description: "SMS Account Managers Department",
			Type:        DepartmentTypeSMS,
			Capabilities: Capabilities{
				CanViewEnterprises: true,
				CanViewTickets:     true,
			},
		},
		{
			ID:          DeptVoiceSales,
			Name:        "Voice Sales",
			Description: "Voice Account Managers Department",
			Type:        DepartmentTypeVoice,
			Capabilities: Capabilities{
				CanViewEnterprises: true,
				CanViewTickets:     true,
			},
		},
		{
			ID:          DeptNOC,
			Name:        "NOC",
			Description: "Network Operations Center Department",
			Type:        DepartmentTypeAll,
			Capabilities: Capabilities{
				CanViewEnterprises: true, CanCreateEnterprises: true, CanEditEnterprises: true,
				CanViewTickets: true, CanCreateTickets: true, CanEditTickets: true,
				CanViewAllTickets: true,
			},
		},
	}
}
