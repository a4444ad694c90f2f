package domain

import "time"

// TicketKind distinguishes the two parallel ticket pipelines. Lifecycle,
// permission and notification semantics are identical across kinds.
type TicketKind string

const (
	TicketKindSMS   TicketKind = "sms"
	TicketKindVoice TicketKind = "voice"
)

// Valid reports whether the kind is one of the two known pipelines.
func (k TicketKind) Valid() bool {
	return k == TicketKindSMS || k == TicketKindVoice
}

// TicketStatus enumerates lifecycle states.
type TicketStatus string

const (
	StatusUnassigned     TicketStatus = "Unassigned"
	StatusAssigned       TicketStatus = "Assigned"
	StatusAwaitingVendor TicketStatus = "Awaiting Vendor"
	StatusAwaitingClient TicketStatus = "Awaiting Client"
	StatusAwaitingAM     TicketStatus = "Awaiting AM"
	StatusResolved       TicketStatus = "Resolved"
	StatusUnresolved     TicketStatus = "Unresolved"
)

// Pending reports whether the status counts as open in reporting terms.
func (s TicketStatus) Pending() bool {
	return s != StatusResolved && s != StatusUnresolved
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	PriorityUrgent TicketPriority = "Urgent"
	PriorityHigh   TicketPriority = "High"
	PriorityMedium TicketPriority = "Medium"
	PriorityLow    TicketPriority = "Low"
)

// TicketAction is an append-only NOC/AM remark on a ticket, editable only by
// its author.
type TicketAction struct {
	ID                string     `json:"id"`
	Text              string     `json:"text"`
	CreatedBy         string     `json:"created_by"`
	CreatedByUsername string     `json:"created_by_username"`
	CreatedAt         time.Time  `json:"created_at"`
	Edited            bool       `json:"edited"`
	EditedAt          *time.Time `json:"edited_at,omitempty"`
}

// SMSDetail is one SID/content pair attached to an SMS ticket.
type SMSDetail struct {
	SID     string `json:"sid"`
	Content string `json:"content"`
}

// VendorTrunkShare records a vendor trunk carrying a share of the traffic.
type VendorTrunkShare struct {
	Trunk      string `json:"trunk"`
	Percentage string `json:"percentage"`
	Position   int    `json:"position"`
}

// Ticket is the aggregate for one trouble ticket, parameterized by kind.
type Ticket struct {
	ID             string
	Kind           TicketKind
	TicketNumber   string
	EnterpriseID   string
	EnterpriseName string
	ClientOrVendor string
	Priority       TicketPriority
	Volume         string
	CustomerTrunk  string
	Destination    string
	IssueTypes     []string
	IssueOther     string
	FASType        string      // voice only
	SMSDetails     []SMSDetail // sms only
	OpenedVia      []string
	Rate           string
	VendorTrunks   []VendorTrunkShare
	Cost           string
	IsLCR          string
	RootCause      string
	ActionTaken    string
	InternalNotes  string
	Status         TicketStatus
	AssignedTo     *string
	AssignedAt     *time.Time
	Actions        []TicketAction
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FindAction returns the action with the given id, or nil.
func (t *Ticket) FindAction(actionID string) *TicketAction {
	for i := range t.Actions {
		if t.Actions[i].ID == actionID {
			return &t.Actions[i]
		}
	}
	return nil
}
