package domain

import "time"

// Notification preference keys. Absent keys default to true so that newly
// added event kinds never silently suppress existing behavior.
const (
	PrefTicketCreated     = "ticket_created"
	PrefStatusChanged     = "status_changed"
	PrefAMAction          = "am_action"
	PrefNOCTicketModified = "noc_ticket_modification"
)

// NotificationPrefs maps an event-kind key to an opt-in flag.
type NotificationPrefs map[string]bool

// Allows reports whether the preference for key permits a notification.
// Only an explicit false suppresses.
func (p NotificationPrefs) Allows(key string) bool {
	if p == nil {
		return true
	}
	enabled, ok := p[key]
	if !ok {
		return true
	}
	return enabled
}

// User is an operator account (NOC engineer, account manager or admin).
type User struct {
	ID           string
	Username     string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	DepartmentID *string
	Prefs        NotificationPrefs
	CreatedAt    time.Time
	LastActive   *time.Time
}
