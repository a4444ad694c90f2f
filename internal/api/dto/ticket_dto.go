package dto

import (
	"time"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// TicketRequest payload for create and full update.
type TicketRequest struct {
	EnterpriseID   string                    `json:"enterprise_id"`
	ClientOrVendor string                    `json:"client_or_vendor"`
	Priority       domain.TicketPriority     `json:"priority"`
	Volume         string                    `json:"volume"`
	CustomerTrunk  string                    `json:"customer_trunk"`
	Destination    string                    `json:"destination"`
	IssueTypes     []string                  `json:"issue_types"`
	IssueOther     string                    `json:"issue_other"`
	FASType        string                    `json:"fas_type"`
	SMSDetails     []domain.SMSDetail        `json:"sms_details"`
	OpenedVia      []string                  `json:"opened_via"`
	Rate           string                    `json:"rate"`
	VendorTrunks   []domain.VendorTrunkShare `json:"vendor_trunks"`
	Cost           string                    `json:"cost"`
	IsLCR          string                    `json:"is_lcr"`
	RootCause      string                    `json:"root_cause"`
	ActionTaken    string                    `json:"action_taken"`
	InternalNotes  string                    `json:"internal_notes"`
	Status         domain.TicketStatus       `json:"status"`
	AssignedTo     *string                   `json:"assigned_to"`
}

// TicketView is the client representation of a ticket.
type TicketView struct {
	ID             string                    `json:"id"`
	Kind           domain.TicketKind         `json:"kind"`
	TicketNumber   string                    `json:"ticket_number"`
	EnterpriseID   string                    `json:"enterprise_id"`
	EnterpriseName string                    `json:"enterprise_name"`
	ClientOrVendor string                    `json:"client_or_vendor"`
	Priority       domain.TicketPriority     `json:"priority"`
	Volume         string                    `json:"volume"`
	CustomerTrunk  string                    `json:"customer_trunk"`
	Destination    string                    `json:"destination"`
	IssueTypes     []string                  `json:"issue_types"`
	IssueOther     string                    `json:"issue_other"`
	FASType        string                    `json:"fas_type,omitempty"`
	SMSDetails     []domain.SMSDetail        `json:"sms_details,omitempty"`
	OpenedVia      []string                  `json:"opened_via"`
	Rate           string                    `json:"rate"`
	VendorTrunks   []domain.VendorTrunkShare `json:"vendor_trunks"`
	Cost           string                    `json:"cost"`
	IsLCR          string                    `json:"is_lcr"`
	RootCause      string                    `json:"root_cause"`
	ActionTaken    string                    `json:"action_taken"`
	InternalNotes  string                    `json:"internal_notes"`
	Status         domain.TicketStatus       `json:"status"`
	AssignedTo     *string                   `json:"assigned_to"`
	AssignedAt     *time.Time                `json:"assigned_at,omitempty"`
	Actions        []domain.TicketAction     `json:"actions"`
	CreatedBy      string                    `json:"created_by"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// NewTicketView converts a domain ticket.
func NewTicketView(ticket *domain.Ticket) TicketView {
	return TicketView{
		ID:             ticket.ID,
		Kind:           ticket.Kind,
		TicketNumber:   ticket.TicketNumber,
		EnterpriseID:   ticket.EnterpriseID,
		EnterpriseName: ticket.EnterpriseName,
		ClientOrVendor: ticket.ClientOrVendor,
		Priority:       ticket.Priority,
		Volume:         ticket.Volume,
		CustomerTrunk:  ticket.CustomerTrunk,
		Destination:    ticket.Destination,
		IssueTypes:     ticket.IssueTypes,
		IssueOther:     ticket.IssueOther,
		FASType:        ticket.FASType,
		SMSDetails:     ticket.SMSDetails,
		OpenedVia:      ticket.OpenedVia,
		Rate:           ticket.Rate,
		VendorTrunks:   ticket.VendorTrunks,
		Cost:           ticket.Cost,
		IsLCR:          ticket.IsLCR,
		RootCause:      ticket.RootCause,
		ActionTaken:    ticket.ActionTaken,
		InternalNotes:  ticket.InternalNotes,
		Status:         ticket.Status,
		AssignedTo:     ticket.AssignedTo,
		AssignedAt:     ticket.AssignedAt,
		Actions:        ticket.Actions,
		CreatedBy:      ticket.CreatedBy,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

// NewTicketViews converts a slice.
func NewTicketViews(tickets []domain.Ticket) []TicketView {
	views := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		views = append(views, NewTicketView(&tickets[i]))
	}
	return views
}

// ActionRequest payload for adding or editing a ticket action.
type ActionRequest struct {
	Text string `json:"text"`
}
