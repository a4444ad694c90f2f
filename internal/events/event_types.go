package events

import (
	"time"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated     EventType = "ticket_created"
	EventTicketUpdated     EventType = "ticket_updated"
	EventTicketActionAdded EventType = "ticket_action_added"
)

// Actor identifies who triggered the event, with the role resolved at
// event time.
type Actor struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Event is a ticket mutation emitted by services. Ticket is the post-mutation
// snapshot; Previous carries the pre-mutation snapshot for updates so
// handlers can reason about transitions without re-reading storage.
type Event struct {
	ID        string               `json:"id"`
	Type      EventType            `json:"type"`
	Ticket    *domain.Ticket       `json:"ticket"`
	Previous  *domain.Ticket       `json:"previous,omitempty"`
	Changes   domain.Changes       `json:"changes,omitempty"`
	Action    *domain.TicketAction `json:"action,omitempty"`
	Actor     Actor                `json:"actor"`
	Timestamp time.Time            `json:"timestamp"`
}
