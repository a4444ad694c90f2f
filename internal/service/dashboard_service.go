package service

import (
	"context"
	"time"

	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/presence"
	"github.com/wiitel/telecom-ticketing/internal/repository"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// DashboardService aggregates the operations console views.
type DashboardService struct {
	tickets     repository.TicketRepository
	enterprises repository.EnterpriseRepository
	users       repository.UserRepository
	presence    *presence.Tracker
}

// DashboardDependencies bundles collaborators for the dashboard service.
type DashboardDependencies struct {
	TicketRepo     repository.TicketRepository
	EnterpriseRepo repository.EnterpriseRepository
	UserRepo       repository.UserRepository
	Presence       *presence.Tracker
}

// NewDashboardService wires dependencies.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	return &DashboardService{
		tickets:     deps.TicketRepo,
		enterprises: deps.EnterpriseRepo,
		users:       deps.UserRepo,
		presence:    deps.Presence,
	}
}

// OnlineUser is one currently-active operator.
type OnlineUser struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Name       string     `json:"name"`
	LastActive *time.Time `json:"last_active,omitempty"`
}

// OnlineUsers lists operators active within the presence window.
func (s *DashboardService) OnlineUsers(ctx context.Context, actor Actor) ([]OnlineUser, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleNOC, domain.RoleAM); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	online := s.presence.OnlineSet(ctx, ids)

	result := make([]OnlineUser, 0, len(online))
	for _, u := range users {
		if !online[u.ID] {
			continue
		}
		result = append(result, OnlineUser{ID: u.ID, Username: u.Username, Name: u.Name, LastActive: u.LastActive})
	}
	return result, nil
}

// unassignedAlertThresholds maps priority to how long a ticket may sit
// Unassigned before the console flags it.
var unassignedAlertThresholds = map[domain.TicketPriority]time.Duration{
	domain.PriorityUrgent: 5 * time.Minute,
	domain.PriorityHigh:   10 * time.Minute,
	domain.PriorityMedium: 15 * time.Minute,
	domain.PriorityLow:    20 * time.Minute,
}

// UnassignedAlert flags one ticket sitting unassigned past its priority
// threshold.
type UnassignedAlert struct {
	Ticket  domain.Ticket `json:"ticket"`
	Waiting time.Duration `json:"waiting"`
}

// UnassignedAlerts returns tickets that have sat Unassigned longer than
// their priority allows, across every kind the caller's scope covers.
func (s *DashboardService) UnassignedAlerts(ctx context.Context, actor Actor) ([]UnassignedAlert, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleNOC); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var alerts []UnassignedAlert
	for _, kind := range scopedKinds(actor.Scope) {
		tickets, err := s.tickets.List(ctx, repository.TicketFilter{
			Kind:     kind,
			Statuses: []domain.TicketStatus{domain.StatusUnassigned},
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, ticket := range tickets {
			threshold, ok := unassignedAlertThresholds[ticket.Priority]
			if !ok {
				threshold = unassignedAlertThresholds[domain.PriorityLow]
			}
			waiting := now.Sub(ticket.CreatedAt)
			if waiting >= threshold {
				alerts = append(alerts, UnassignedAlert{Ticket: ticket, Waiting: waiting})
			}
		}
	}
	return alerts, nil
}

// Stats is one pipeline's dashboard summary.
type Stats struct {
	Total      int                           `json:"total"`
	Pending    int                           `json:"pending"`
	ByStatus   map[domain.TicketStatus]int   `json:"by_status"`
	ByPriority map[domain.TicketPriority]int `json:"by_priority"`
	Recent     []domain.Ticket               `json:"recent"`
}

// StatsOptions narrows the stats window.
type StatsOptions struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

const recentTicketCount = 10

// Stats summarizes one pipeline. AMs see only their own enterprises'
// tickets; a caller whose scope excludes the kind is rejected.
func (s *DashboardService) Stats(ctx context.Context, actor Actor, kind domain.TicketKind, opts StatsOptions) (*Stats, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleNOC, domain.RoleAM); err != nil {
		return nil, err
	}
	if err := requireScope(actor, kind); err != nil {
		return nil, err
	}

	filter := repository.TicketFilter{
		Kind:        kind,
		CreatedFrom: opts.CreatedFrom,
		CreatedTo:   opts.CreatedTo,
	}
	if actor.Role == domain.RoleAM {
		owned, err := s.enterprises.List(ctx, repository.EnterpriseFilter{AssignedAMID: &actor.ID})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if len(owned) == 0 {
			return emptyStats(), nil
		}
		for _, ent := range owned {
			filter.EnterpriseIDs = append(filter.EnterpriseIDs, ent.ID)
		}
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := emptyStats()
	for _, ticket := range tickets {
		stats.Total++
		stats.ByStatus[ticket.Status]++
		stats.ByPriority[ticket.Priority]++
		if ticket.Status.Pending() {
			stats.Pending++
		}
	}
	if len(tickets) > recentTicketCount {
		stats.Recent = tickets[:recentTicketCount]
	} else {
		stats.Recent = tickets
	}
	return stats, nil
}

func emptyStats() *Stats {
	return &Stats{
		ByStatus:   make(map[domain.TicketStatus]int),
		ByPriority: make(map[domain.TicketPriority]int),
		Recent:     []domain.Ticket{},
	}
}

func scopedKinds(scope domain.TicketScope) []domain.TicketKind {
	switch scope {
	case domain.ScopeSMS:
		return []domain.TicketKind{domain.TicketKindSMS}
	case domain.ScopeVoice:
		return []domain.TicketKind{domain.TicketKindVoice}
	default:
		return []domain.TicketKind{domain.TicketKindSMS, domain.TicketKindVoice}
	}
}
