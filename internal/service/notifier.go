package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/events"
	"github.com/wiitel/telecom-ticketing/internal/observability"
	"github.com/wiitel/telecom-ticketing/internal/repository"
)

// Pusher delivers a payload to a user's live connections. Satisfied by the
// realtime registry; fanout treats delivery as best-effort.
type Pusher interface {
	SendToUser(userID string, payload any) int
}

// PushFrame builds the websocket envelope for a persisted notification.
// Injected so the service layer does not depend on the realtime wire format.
type PushFrame func(n *domain.Notification) any

// Notifier turns ticket events into per-recipient notification records plus
// best-effort pushes. Every recipient is handled independently: a failed
// insert or push for one never affects the others, and no failure ever
// propagates back to the mutation that raised the event.
type Notifier struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	departments   repository.DepartmentRepository
	enterprises   repository.EnterpriseRepository
	pusher        Pusher
	frame         PushFrame
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NotifierDependencies bundles collaborators for the notifier.
type NotifierDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	DepartmentRepo   repository.DepartmentRepository
	EnterpriseRepo   repository.EnterpriseRepository
	Pusher           Pusher
	Frame            PushFrame
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// NewNotifier wires dependencies.
func NewNotifier(deps NotifierDependencies) *Notifier {
	frame := deps.Frame
	if frame == nil {
		frame = func(n *domain.Notification) any { return n }
	}
	return &Notifier{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		departments:   deps.DepartmentRepo,
		enterprises:   deps.EnterpriseRepo,
		pusher:        deps.Pusher,
		frame:         frame,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
	}
}

// Register subscribes the notifier's handlers to the dispatcher.
func (n *Notifier) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, n.HandleTicketCreated)
	dispatcher.Subscribe(events.EventTicketUpdated, n.HandleTicketUpdated)
	dispatcher.Subscribe(events.EventTicketActionAdded, n.HandleActionAdded)
}

// HandleTicketCreated notifies the enterprise's account manager.
func (n *Notifier) HandleTicketCreated(ctx context.Context, event events.Event) error {
	ticket := event.Ticket
	message := fmt.Sprintf("Ticket %s created for %s", ticket.TicketNumber, ticket.EnterpriseName)
	n.notifyAM(ctx, event, domain.EventTicketCreated, domain.PrefTicketCreated, message, nil)
	return nil
}

// HandleTicketUpdated fans out the three update-driven notification families.
func (n *Notifier) HandleTicketUpdated(ctx context.Context, event events.Event) error {
	ticket := event.Ticket

	// AM family: only when the status actually changed and the new status
	// maps to an AM-facing event.
	if _, changed := event.Changes["status"]; changed {
		if amEvent, ok := domain.EventForStatus(ticket.Status); ok {
			message := fmt.Sprintf("Ticket %s is now %s", ticket.TicketNumber, ticket.Status)
			n.notifyAM(ctx, event, amEvent, domain.PrefStatusChanged, message, nil)
		}
	}

	// Peer notice to the current assignee: ungated, but only while the
	// ticket is actively assigned and someone else made the change.
	peerNotified := ""
	if ticket.AssignedTo != nil && *ticket.AssignedTo != "" &&
		ticket.Status == domain.StatusAssigned && *ticket.AssignedTo != event.Actor.ID {
		message := fmt.Sprintf("Ticket %s assigned to you was modified by %s: %s",
			ticket.TicketNumber, event.Actor.Username, event.Changes.Summary())
		n.deliver(ctx, event, &domain.Notification{
			RecipientID: *ticket.AssignedTo,
			Event:       domain.EventTicketModification,
			Audience:    domain.AudienceAssignee,
			Message:     message,
			Changes:     event.Changes,
		})
		peerNotified = *ticket.AssignedTo
	}

	// NOC roster: everyone with a NOC-deriving department except the
	// modifier and the assignee who already got the peer notice.
	message := fmt.Sprintf("Ticket %s modified by %s: %s",
		ticket.TicketNumber, event.Actor.Username, event.Changes.Summary())
	for _, member := range n.nocRoster(ctx) {
		if member.ID == event.Actor.ID || member.ID == peerNotified {
			continue
		}
		if !member.Prefs.Allows(domain.PrefNOCTicketModified) {
			continue
		}
		n.deliver(ctx, event, &domain.Notification{
			RecipientID: member.ID,
			Event:       domain.EventNOCModification,
			Audience:    domain.AudienceNOC,
			Message:     message,
			Changes:     event.Changes,
		})
	}
	return nil
}

// HandleActionAdded notifies the NOC roster when an account manager leaves a
// remark on a ticket.
func (n *Notifier) HandleActionAdded(ctx context.Context, event events.Event) error {
	if event.Actor.Role != domain.RoleAM || event.Action == nil {
		return nil
	}
	ticket := event.Ticket
	message := fmt.Sprintf("AM %s commented on ticket %s: %s",
		event.Actor.Username, ticket.TicketNumber, event.Action.Text)
	for _, member := range n.nocRoster(ctx) {
		if member.ID == event.Actor.ID {
			continue
		}
		if !member.Prefs.Allows(domain.PrefAMAction) {
			continue
		}
		n.deliver(ctx, event, &domain.Notification{
			RecipientID: member.ID,
			Event:       domain.EventAMAction,
			Audience:    domain.AudienceNOC,
			Message:     message,
		})
	}
	return nil
}

// notifyAM delivers one AM-family notification to the enterprise's assigned
// account manager. Missing AM, self-triggered events, out-of-scope ticket
// kinds and disabled preferences are all silent no-ops.
func (n *Notifier) notifyAM(ctx context.Context, event events.Event, kind domain.NotificationEvent, prefKey, message string, changes domain.Changes) {
	ticket := event.Ticket
	enterprise, err := n.enterprises.GetByID(ctx, ticket.EnterpriseID)
	if err != nil {
		n.logger.Warn("notify: enterprise lookup failed",
			zap.String("enterprise_id", ticket.EnterpriseID), zap.Error(err))
		return
	}
	if enterprise.AssignedAMID == nil || *enterprise.AssignedAMID == "" {
		return
	}
	amID := *enterprise.AssignedAMID
	if amID == event.Actor.ID {
		return
	}
	am, err := n.users.GetByID(ctx, amID)
	if err != nil {
		n.logger.Warn("notify: am lookup failed", zap.String("user_id", amID), zap.Error(err))
		return
	}

	// A voice-scoped manager never hears about SMS tickets and vice versa.
	var amDept *domain.Department
	if am.DepartmentID != nil {
		amDept, err = n.departments.GetByID(ctx, *am.DepartmentID)
		if err != nil {
			n.logger.Warn("notify: am department lookup failed",
				zap.String("user_id", amID), zap.Error(err))
			return
		}
	}
	if !domain.ScopeAllows(domain.ResolveTicketScope(amDept), ticket.Kind) {
		return
	}

	if !am.Prefs.Allows(prefKey) {
		return
	}
	n.deliver(ctx, event, &domain.Notification{
		RecipientID: amID,
		Event:       kind,
		Audience:    domain.AudienceAM,
		Message:     message,
		Changes:     changes,
	})
}

// deliver persists one notification and pushes it to the recipient's live
// connections. Failures are logged and swallowed.
func (n *Notifier) deliver(ctx context.Context, event events.Event, notification *domain.Notification) {
	ticket := event.Ticket
	notification.ID = uuid.NewString()
	notification.TicketID = ticket.ID
	notification.TicketNumber = ticket.TicketNumber
	notification.TicketKind = ticket.Kind
	notification.ActorID = event.Actor.ID
	notification.ActorName = event.Actor.Username
	notification.CreatedAt = time.Now().UTC()

	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("notification persist failed",
			zap.String("recipient_id", notification.RecipientID),
			zap.String("event", string(notification.Event)),
			zap.String("ticket_id", notification.TicketID),
			zap.Error(err))
		return
	}

	if n.pusher == nil {
		return
	}
	if delivered := n.pusher.SendToUser(notification.RecipientID, n.frame(notification)); delivered > 0 {
		n.metrics.RecordPush("delivered")
	} else {
		n.metrics.RecordPush("offline")
	}
}

// nocRoster returns all users whose department currently derives the NOC
// role. Derived on every event so department edits apply immediately.
func (n *Notifier) nocRoster(ctx context.Context) []domain.User {
	departments, err := n.departments.List(ctx)
	if err != nil {
		n.logger.Warn("notify: department list failed", zap.Error(err))
		return nil
	}
	var roster []domain.User
	for i := range departments {
		dept := &departments[i]
		if domain.ResolveRole(dept) != domain.RoleNOC {
			continue
		}
		members, err := n.users.ListByDepartment(ctx, dept.ID)
		if err != nil {
			n.logger.Warn("notify: roster load failed",
				zap.String("department_id", dept.ID), zap.Error(err))
			continue
		}
		roster = append(roster, members...)
	}
	return roster
}
