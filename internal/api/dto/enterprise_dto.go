package dto

import (
	"time"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// EnterpriseView is the client representation of an enterprise.
type EnterpriseView struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	ContactPerson  string                `json:"contact_person"`
	ContactEmail   string                `json:"contact_email"`
	ContactPhone   string                `json:"contact_phone"`
	AssignedAMID   *string               `json:"assigned_am_id"`
	Tier           string                `json:"tier"`
	NOCEmails      string                `json:"noc_emails"`
	Notes          string                `json:"notes"`
	Type           domain.EnterpriseType `json:"type"`
	CustomerTrunks []string              `json:"customer_trunks"`
	VendorTrunks   []string              `json:"vendor_trunks"`
	CreatedAt      time.Time             `json:"created_at"`
}

// NewEnterpriseView converts a domain enterprise.
func NewEnterpriseView(ent *domain.Enterprise) EnterpriseView {
	return EnterpriseView{
		ID:             ent.ID,
		Name:           ent.Name,
		ContactPerson:  ent.ContactPerson,
		ContactEmail:   ent.ContactEmail,
		ContactPhone:   ent.ContactPhone,
		AssignedAMID:   ent.AssignedAMID,
		Tier:           ent.Tier,
		NOCEmails:      ent.NOCEmails,
		Notes:          ent.Notes,
		Type:           ent.Type,
		CustomerTrunks: ent.CustomerTrunks,
		VendorTrunks:   ent.VendorTrunks,
		CreatedAt:      ent.CreatedAt,
	}
}

// NewEnterpriseViews converts a slice.
func NewEnterpriseViews(enterprises []domain.Enterprise) []EnterpriseView {
	views := make([]EnterpriseView, 0, len(enterprises))
	for i := range enterprises {
		views = append(views, NewEnterpriseView(&enterprises[i]))
	}
	return views
}

// EnterpriseRequest payload for create and update.
type EnterpriseRequest struct {
	Name           string                `json:"name"`
	ContactPerson  string                `json:"contact_person"`
	ContactEmail   string                `json:"contact_email"`
	ContactPhone   string                `json:"contact_phone"`
	AssignedAMID   *string               `json:"assigned_am_id"`
	Tier           string                `json:"tier"`
	NOCEmails      string                `json:"noc_emails"`
	Notes          string                `json:"notes"`
	Type           domain.EnterpriseType `json:"type"`
	CustomerTrunks []string              `json:"customer_trunks"`
	VendorTrunks   []string              `json:"vendor_trunks"`
}

// EnterpriseContactRequest payload for the AM contact-only update.
type EnterpriseContactRequest struct {
	ContactPerson string `json:"contact_person"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
}
