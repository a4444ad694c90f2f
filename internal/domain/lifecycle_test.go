package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateStatusAssignedRequiresAssignee(t *testing.T) {
	assert.Error(t, ValidateStatus(StatusAssigned, nil))
	empty := ""
	assert.Error(t, ValidateStatus(StatusAssigned, &empty))
	assert.NoError(t, ValidateStatus(StatusAssigned, strPtr("noc-1")))

	// Every other status is free of the constraint.
	for _, status := range []TicketStatus{StatusUnassigned, StatusAwaitingVendor, StatusAwaitingClient, StatusAwaitingAM, StatusResolved, StatusUnresolved} {
		assert.NoError(t, ValidateStatus(status, nil), "status %s must not require assignee", status)
	}
}

func TestStampAssignedAtNewAssignment(t *testing.T) {
	now := time.Now().UTC()
	stamp := StampAssignedAt(nil, strPtr("noc-1"), nil, StatusAssigned, now)
	require.NotNil(t, stamp)
	assert.Equal(t, now, *stamp)
}

func TestStampAssignedAtRepeatKeepsOriginal(t *testing.T) {
	original := time.Now().UTC().Add(-time.Hour)
	now := time.Now().UTC()

	stamp := StampAssignedAt(strPtr("noc-1"), strPtr("noc-1"), &original, StatusAssigned, now)
	require.NotNil(t, stamp)
	assert.Equal(t, original, *stamp, "re-applying the same assignee keeps the stamp")
}

func TestStampAssignedAtReassignmentMoves(t *testing.T) {
	original := time.Now().UTC().Add(-time.Hour)
	now := time.Now().UTC()

	stamp := StampAssignedAt(strPtr("noc-1"), strPtr("noc-2"), &original, StatusAssigned, now)
	require.NotNil(t, stamp)
	assert.Equal(t, now, *stamp)
}

func TestStampAssignedAtNonAssignedStatus(t *testing.T) {
	original := time.Now().UTC().Add(-time.Hour)
	now := time.Now().UTC()

	stamp := StampAssignedAt(strPtr("noc-1"), strPtr("noc-2"), &original, StatusAwaitingVendor, now)
	assert.Equal(t, &original, stamp, "stamp only moves while entering Assigned")
}

func TestDiffTickets(t *testing.T) {
	before := &Ticket{Priority: PriorityLow, Status: StatusUnassigned, Destination: "UK"}
	after := *before
	after.Priority = PriorityUrgent
	after.Status = StatusAssigned
	after.AssignedTo = strPtr("noc-1")

	changes := DiffTickets(before, &after)
	assert.Len(t, changes, 3)
	assert.Equal(t, PriorityLow, changes["priority"].Old)
	assert.Equal(t, PriorityUrgent, changes["priority"].New)
	assert.Contains(t, changes, "status")
	assert.Contains(t, changes, "assigned_to")
	assert.NotContains(t, changes, "destination")
}

func TestDiffTicketsNoChanges(t *testing.T) {
	ticket := &Ticket{Priority: PriorityHigh, Status: StatusAssigned, AssignedTo: strPtr("noc-1")}
	copied := *ticket
	assert.Empty(t, DiffTickets(ticket, &copied))
}

func TestChangesSummaryTruncation(t *testing.T) {
	changes := Changes{
		"a": {Old: "1", New: "2"},
		"b": {Old: "1", New: "2"},
		"c": {Old: "1", New: "2"},
		"d": {Old: "1", New: "2"},
		"e": {Old: "1", New: "2"},
	}
	summary := changes.Summary()
	assert.True(t, strings.HasSuffix(summary, "(+2 more)"), "got %q", summary)
	assert.Equal(t, 3, strings.Count(summary, "->"), "only three fields rendered")
}

func TestChangesSummaryEmpty(t *testing.T) {
	assert.Empty(t, Changes{}.Summary())
}

func TestEventForStatus(t *testing.T) {
	event, ok := EventForStatus(StatusResolved)
	assert.True(t, ok)
	assert.Equal(t, EventTicketResolved, event)

	_, ok = EventForStatus(StatusUnassigned)
	assert.False(t, ok, "Unassigned has no AM-facing event")
}

func TestStatusPending(t *testing.T) {
	assert.True(t, StatusAssigned.Pending())
	assert.True(t, StatusAwaitingAM.Pending())
	assert.False(t, StatusResolved.Pending())
	assert.False(t, StatusUnresolved.Pending())
}
