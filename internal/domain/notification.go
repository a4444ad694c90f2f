package domain

import "time"

// NotificationEvent tags the ticket event a notification was fanned out for.
type NotificationEvent string

const (
	EventTicketCreated      NotificationEvent = "created"
	EventTicketAssigned     NotificationEvent = "assigned"
	EventAwaitingVendor     NotificationEvent = "awaiting_vendor"
	EventAwaitingClient     NotificationEvent = "awaiting_client"
	EventAwaitingAM         NotificationEvent = "awaiting_am"
	EventTicketResolved     NotificationEvent = "resolved"
	EventTicketUnresolved   NotificationEvent = "unresolved"
	EventAMAction           NotificationEvent = "am_action"
	EventNOCModification    NotificationEvent = "noc_modification"
	EventTicketModification NotificationEvent = "ticket_modification"
)

// EventForStatus maps a new ticket status to its AM notification event.
func EventForStatus(status TicketStatus) (NotificationEvent, bool) {
	switch status {
	case StatusAssigned:
		return EventTicketAssigned, true
	case StatusAwaitingVendor:
		return EventAwaitingVendor, true
	case StatusAwaitingClient:
		return EventAwaitingClient, true
	case StatusAwaitingAM:
		return EventAwaitingAM, true
	case StatusResolved:
		return EventTicketResolved, true
	case StatusUnresolved:
		return EventTicketUnresolved, true
	default:
		return "", false
	}
}

// NotificationAudience identifies which listing family a record belongs to.
type NotificationAudience string

const (
	AudienceAM       NotificationAudience = "am"
	AudienceNOC      NotificationAudience = "noc"
	AudienceAssignee NotificationAudience = "assignee"
)

// Notification is one persisted (event, recipient) record. The payload is
// immutable once written; only the read flag flips.
type Notification struct {
	ID           string
	TicketID     string
	TicketNumber string
	TicketKind   TicketKind
	RecipientID  string
	Event        NotificationEvent
	Audience     NotificationAudience
	ActorID      string
	ActorName    string
	Message      string
	Changes      Changes
	Read         bool
	CreatedAt    time.Time
}
