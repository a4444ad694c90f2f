package audit

import (
	"context"
	"time"
)

// Action enumerates auditable operations.
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionLogin        Action = "login"
	ActionLogout       Action = "logout"
	ActionToggleActive Action = "toggle_active"
)

// Entry is one append-only compliance record.
type Entry struct {
	ID         string
	ActorID    string
	ActorName  string
	Action     Action
	EntityType string
	EntityID   string
	EntityName string
	Changes    map[string]any
	CreatedAt  time.Time
}

// Recorder is the append-only audit sink. Implementations must never be
// load-bearing for the primary operation; callers treat failures as
// non-fatal.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}
