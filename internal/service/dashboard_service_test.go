package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/presence"
)

func dashboardFixture(tickets *fakeTicketRepo) *DashboardService {
	enterprises := newFakeEnterpriseRepo(
		domain.Enterprise{ID: "ent-1", Name: "Acme Telecom", Type: domain.EnterpriseTypeSMS, AssignedAMID: amID("am-1")},
	)
	return NewDashboardService(DashboardDependencies{
		TicketRepo:     tickets,
		EnterpriseRepo: enterprises,
		UserRepo:       newFakeUserRepo(),
		Presence:       presence.NewTracker(nil, 5*time.Minute, zap.NewNop()),
	})
}

func unassignedTicket(id string, priority domain.TicketPriority, age time.Duration) domain.Ticket {
	return domain.Ticket{
		ID:        id,
		Kind:      domain.TicketKindSMS,
		Priority:  priority,
		Status:    domain.StatusUnassigned,
		CreatedAt: time.Now().UTC().Add(-age),
	}
}

func TestUnassignedAlertThresholds(t *testing.T) {
	tickets := newFakeTicketRepo()
	fresh := unassignedTicket("t-urgent-new", domain.PriorityUrgent, 2*time.Minute)
	lateUrgent := unassignedTicket("t-urgent-old", domain.PriorityUrgent, 6*time.Minute)
	okHigh := unassignedTicket("t-high", domain.PriorityHigh, 6*time.Minute)
	lateLow := unassignedTicket("t-low", domain.PriorityLow, 25*time.Minute)
	for _, ticket := range []domain.Ticket{fresh, lateUrgent, okHigh, lateLow} {
		tickets.tickets[ticket.ID] = ticket
	}

	svc := dashboardFixture(tickets)
	alerts, err := svc.UnassignedAlerts(context.Background(), Actor{ID: "noc-1", Role: domain.RoleNOC, Scope: domain.ScopeAll})
	require.NoError(t, err)

	flagged := make(map[string]bool)
	for _, alert := range alerts {
		flagged[alert.Ticket.ID] = true
	}
	assert.True(t, flagged["t-urgent-old"], "urgent past 5 minutes is flagged")
	assert.True(t, flagged["t-low"], "low past 20 minutes is flagged")
	assert.False(t, flagged["t-urgent-new"], "urgent within 5 minutes is not")
	assert.False(t, flagged["t-high"], "high within 10 minutes is not")
}

func TestUnassignedAlertsRejectedForAM(t *testing.T) {
	svc := dashboardFixture(newFakeTicketRepo())
	_, err := svc.UnassignedAlerts(context.Background(), Actor{ID: "am-1", Role: domain.RoleAM, Scope: domain.ScopeSMS})
	require.Error(t, err)
}

func TestStatsCounts(t *testing.T) {
	tickets := newFakeTicketRepo()
	tickets.tickets["t-1"] = domain.Ticket{ID: "t-1", Kind: domain.TicketKindSMS, EnterpriseID: "ent-1", Status: domain.StatusAssigned, Priority: domain.PriorityHigh, AssignedTo: amID("noc-1")}
	tickets.tickets["t-2"] = domain.Ticket{ID: "t-2", Kind: domain.TicketKindSMS, EnterpriseID: "ent-1", Status: domain.StatusResolved, Priority: domain.PriorityHigh}
	tickets.tickets["t-3"] = domain.Ticket{ID: "t-3", Kind: domain.TicketKindSMS, EnterpriseID: "ent-2", Status: domain.StatusUnresolved, Priority: domain.PriorityLow}

	svc := dashboardFixture(tickets)
	stats, err := svc.Stats(context.Background(), Actor{ID: "noc-1", Role: domain.RoleNOC, Scope: domain.ScopeAll}, domain.TicketKindSMS, StatsOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending, "resolved and unresolved are not pending")
	assert.Equal(t, 2, stats.ByPriority[domain.PriorityHigh])
	assert.Equal(t, 1, stats.ByStatus[domain.StatusResolved])
}

func TestStatsScopedToAMEnterprises(t *testing.T) {
	tickets := newFakeTicketRepo()
	tickets.tickets["t-1"] = domain.Ticket{ID: "t-1", Kind: domain.TicketKindSMS, EnterpriseID: "ent-1", Status: domain.StatusAssigned, AssignedTo: amID("noc-1")}
	tickets.tickets["t-2"] = domain.Ticket{ID: "t-2", Kind: domain.TicketKindSMS, EnterpriseID: "ent-other", Status: domain.StatusUnassigned}

	svc := dashboardFixture(tickets)
	stats, err := svc.Stats(context.Background(), Actor{ID: "am-1", Role: domain.RoleAM, Scope: domain.ScopeSMS}, domain.TicketKindSMS, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total, "AM only counts their own enterprises")

	stranger := Actor{ID: "am-9", Role: domain.RoleAM, Scope: domain.ScopeSMS}
	stats, err = svc.Stats(context.Background(), stranger, domain.TicketKindSMS, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestStatsScopeRejected(t *testing.T) {
	svc := dashboardFixture(newFakeTicketRepo())
	_, err := svc.Stats(context.Background(), Actor{ID: "am-1", Role: domain.RoleAM, Scope: domain.ScopeSMS}, domain.TicketKindVoice, StatsOptions{})
	require.Error(t, err)
}
