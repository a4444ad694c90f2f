package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/events"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

var (
	nocActor   = Actor{ID: "noc-1", Username: "noc.one", Name: "NOC One", Role: domain.RoleNOC, Scope: domain.ScopeAll, CanCreateTickets: true}
	adminActor = Actor{ID: "admin-1", Username: "admin", Name: "Admin", Role: domain.RoleAdmin, Scope: domain.ScopeAll, CanCreateTickets: true}
	amActor    = Actor{ID: "am-1", Username: "am.one", Name: "AM One", Role: domain.RoleAM, Scope: domain.ScopeSMS, CanCreateTickets: true}
)

func amID(id string) *string { return &id }

func newTicketFixture() (*TicketService, *fakeTicketRepo, *fakeDispatcher, *fakeRecorder) {
	tickets := newFakeTicketRepo()
	enterprises := newFakeEnterpriseRepo(
		domain.Enterprise{ID: "ent-1", Name: "Acme Telecom", Type: domain.EnterpriseTypeSMS, AssignedAMID: amID("am-1")},
		domain.Enterprise{ID: "ent-2", Name: "Orbit Voice", Type: domain.EnterpriseTypeVoice, AssignedAMID: amID("am-2")},
	)
	dispatcher := &fakeDispatcher{}
	recorder := &fakeRecorder{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		EnterpriseRepo: enterprises,
		Dispatcher:     dispatcher,
		Audit:          recorder,
	})
	return svc, tickets, dispatcher, recorder
}

func TestCreateTicketDefaults(t *testing.T) {
	svc, tickets, dispatcher, recorder := newTicketFixture()

	ticket, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{
		EnterpriseID: "ent-1",
		Priority:     domain.PriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusUnassigned, ticket.Status)
	assert.Equal(t, "Acme Telecom", ticket.EnterpriseName)
	assert.Nil(t, ticket.AssignedAt)
	assert.True(t, strings.HasPrefix(ticket.TicketNumber, "#"+time.Now().UTC().Format("20060102")), "got %q", ticket.TicketNumber)
	assert.Len(t, ticket.TicketNumber, 17, "date plus eight id characters")

	assert.Len(t, tickets.tickets, 1)
	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
	assert.Equal(t, "noc-1", published[0].Actor.ID)
	assert.Len(t, recorder.recorded(), 1)
}

func TestCreateTicketAssignedRequiresAssignee(t *testing.T) {
	svc, tickets, dispatcher, recorder := newTicketFixture()

	_, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{
		EnterpriseID: "ent-1",
		Status:       domain.StatusAssigned,
	})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	// Rejection leaves no trace: no persistence, no events, no audit.
	assert.Empty(t, tickets.tickets)
	assert.Empty(t, dispatcher.published())
	assert.Empty(t, recorder.recorded())
}

func TestCreateTicketScopeRejected(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	_, err := svc.Create(context.Background(), amActor, domain.TicketKindVoice, TicketInput{EnterpriseID: "ent-2"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestCreateTicketRequiresCreateCapability(t *testing.T) {
	svc, tickets, dispatcher, _ := newTicketFixture()
	// Edit-only department: NOC role without the create flag.
	editOnly := Actor{ID: "noc-9", Username: "noc.nine", Role: domain.RoleNOC, Scope: domain.ScopeAll}

	_, err := svc.Create(context.Background(), editOnly, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
	assert.Empty(t, tickets.tickets)
	assert.Empty(t, dispatcher.published())
}

func TestCreateTicketUnknownRoleRejected(t *testing.T) {
	svc, _, _, _ := newTicketFixture()
	unknown := Actor{ID: "u-1", Role: domain.RoleUnknown, Scope: domain.ScopeAll}

	_, err := svc.Create(context.Background(), unknown, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestUpdateStampsAssignedAtOnce(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	created, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1"})
	require.NoError(t, err)

	input := TicketInput{
		EnterpriseID: "ent-1",
		Status:       domain.StatusAssigned,
		AssignedTo:   amID("noc-2"),
	}
	updated, err := svc.Update(context.Background(), nocActor, domain.TicketKindSMS, created.ID, input)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedAt)
	firstStamp := *updated.AssignedAt

	// Re-submitting the same assignment must not move the stamp.
	input.InternalNotes = "checked the trunk"
	again, err := svc.Update(context.Background(), nocActor, domain.TicketKindSMS, created.ID, input)
	require.NoError(t, err)
	require.NotNil(t, again.AssignedAt)
	assert.Equal(t, firstStamp, *again.AssignedAt)

	// Reassignment moves it.
	input.AssignedTo = amID("noc-3")
	moved, err := svc.Update(context.Background(), nocActor, domain.TicketKindSMS, created.ID, input)
	require.NoError(t, err)
	require.NotNil(t, moved.AssignedAt)
	assert.True(t, moved.AssignedAt.After(firstStamp) || moved.AssignedAt.Equal(firstStamp))
	assert.NotEqual(t, firstStamp, *moved.AssignedAt)
}

func TestUpdateNoChangesPublishesNothing(t *testing.T) {
	svc, tickets, dispatcher, _ := newTicketFixture()

	created, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1", Priority: domain.PriorityLow})
	require.NoError(t, err)
	publishedBefore := len(dispatcher.published())
	updatesBefore := tickets.updates

	_, err = svc.Update(context.Background(), nocActor, domain.TicketKindSMS, created.ID, TicketInput{
		EnterpriseID: "ent-1",
		Priority:     domain.PriorityLow,
		Status:       created.Status,
	})
	require.NoError(t, err)
	assert.Equal(t, publishedBefore, len(dispatcher.published()))
	assert.Equal(t, updatesBefore, tickets.updates)
}

func TestUpdateCarriesDiffAndPrevious(t *testing.T) {
	svc, _, dispatcher, _ := newTicketFixture()

	created, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1", Priority: domain.PriorityLow})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), nocActor, domain.TicketKindSMS, created.ID, TicketInput{
		EnterpriseID: "ent-1",
		Priority:     domain.PriorityUrgent,
		Status:       domain.StatusAwaitingVendor,
	})
	require.NoError(t, err)

	published := dispatcher.published()
	require.Len(t, published, 2)
	event := published[1]
	assert.Equal(t, events.EventTicketUpdated, event.Type)
	require.NotNil(t, event.Previous)
	assert.Equal(t, domain.PriorityLow, event.Previous.Priority)
	assert.Contains(t, event.Changes, "priority")
	assert.Contains(t, event.Changes, "status")
}

func TestUpdateRejectedForAM(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	created, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), amActor, domain.TicketKindSMS, created.ID, TicketInput{EnterpriseID: "ent-1"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestListScopesAMToOwnEnterprises(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	_, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1"})
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), amActor, domain.TicketKindSMS, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other := Actor{ID: "am-9", Username: "am.nine", Role: domain.RoleAM, Scope: domain.ScopeSMS}
	none, err := svc.List(context.Background(), other, domain.TicketKindSMS, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, none, "an AM with no enterprises sees nothing")
}

func TestGetForbiddenForForeignAM(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	created, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1"})
	require.NoError(t, err)

	foreign := Actor{ID: "am-9", Role: domain.RoleAM, Scope: domain.ScopeSMS}
	_, err = svc.Get(context.Background(), foreign, domain.TicketKindSMS, created.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestActionsAuthorOnly(t *testing.T) {
	svc, _, dispatcher, _ := newTicketFixture()

	created, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1"})
	require.NoError(t, err)

	withAction, err := svc.AddAction(context.Background(), nocActor, domain.TicketKindSMS, created.ID, "rerouted via backup trunk")
	require.NoError(t, err)
	require.Len(t, withAction.Actions, 1)
	actionID := withAction.Actions[0].ID

	published := dispatcher.published()
	assert.Equal(t, events.EventTicketActionAdded, published[len(published)-1].Type)

	// Another user cannot edit or delete the author's action.
	_, err = svc.EditAction(context.Background(), adminActor, domain.TicketKindSMS, created.ID, actionID, "edited")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	_, err = svc.DeleteAction(context.Background(), adminActor, domain.TicketKindSMS, created.ID, actionID)
	require.Error(t, err)

	// The author can, and the edit is flagged.
	edited, err := svc.EditAction(context.Background(), nocActor, domain.TicketKindSMS, created.ID, actionID, "rerouted twice")
	require.NoError(t, err)
	require.Len(t, edited.Actions, 1)
	assert.True(t, edited.Actions[0].Edited)
	assert.NotNil(t, edited.Actions[0].EditedAt)

	deleted, err := svc.DeleteAction(context.Background(), nocActor, domain.TicketKindSMS, created.ID, actionID)
	require.NoError(t, err)
	assert.Empty(t, deleted.Actions)
}

func TestDeleteTicket(t *testing.T) {
	svc, tickets, _, recorder := newTicketFixture()

	created, err := svc.Create(context.Background(), nocActor, domain.TicketKindSMS, TicketInput{EnterpriseID: "ent-1"})
	require.NoError(t, err)

	require.Error(t, svc.Delete(context.Background(), amActor, domain.TicketKindSMS, created.ID), "AMs cannot delete")

	require.NoError(t, svc.Delete(context.Background(), adminActor, domain.TicketKindSMS, created.ID))
	assert.Empty(t, tickets.tickets)

	entries := recorder.recorded()
	assert.Equal(t, "delete", string(entries[len(entries)-1].Action))
}
