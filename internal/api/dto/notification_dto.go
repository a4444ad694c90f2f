package dto

import (
	"time"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// NotificationView is the client representation of a feed entry.
type NotificationView struct {
	ID           string                      `json:"id"`
	TicketID     string                      `json:"ticket_id"`
	TicketNumber string                      `json:"ticket_number"`
	TicketKind   domain.TicketKind           `json:"ticket_kind"`
	Event        domain.NotificationEvent    `json:"event"`
	Audience     domain.NotificationAudience `json:"audience"`
	ActorName    string                      `json:"actor_name"`
	Message      string                      `json:"message"`
	Changes      domain.Changes              `json:"changes,omitempty"`
	Read         bool                        `json:"read"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// NewNotificationView converts a domain notification.
func NewNotificationView(n *domain.Notification) NotificationView {
	return NotificationView{
		ID:           n.ID,
		TicketID:     n.TicketID,
		TicketNumber: n.TicketNumber,
		TicketKind:   n.TicketKind,
		Event:        n.Event,
		Audience:     n.Audience,
		ActorName:    n.ActorName,
		Message:      n.Message,
		Changes:      n.Changes,
		Read:         n.Read,
		CreatedAt:    n.CreatedAt,
	}
}

// NewNotificationViews converts a slice.
func NewNotificationViews(notifications []domain.Notification) []NotificationView {
	views := make([]NotificationView, 0, len(notifications))
	for i := range notifications {
		views = append(views, NewNotificationView(&notifications[i]))
	}
	return views
}
