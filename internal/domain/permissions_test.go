package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRolePriority(t *testing.T) {
	admin := &Department{Capabilities: Capabilities{CanEditUsers: true, CanCreateTickets: true, CanEditTickets: true, CanEditEnterprises: true}}
	assert.Equal(t, RoleAdmin, ResolveRole(admin), "edit_users wins over everything")

	am := &Department{Capabilities: Capabilities{CanCreateTickets: true}}
	assert.Equal(t, RoleAM, ResolveRole(am))

	noc := &Department{Capabilities: Capabilities{CanCreateTickets: true, CanEditTickets: true, CanEditEnterprises: true}}
	assert.Equal(t, RoleNOC, ResolveRole(noc), "create+edit_enterprises disqualifies am, edit_tickets derives noc")

	viewer := &Department{Capabilities: Capabilities{CanViewTickets: true}}
	assert.Equal(t, RoleUnknown, ResolveRole(viewer))
}

func TestResolveRoleNilDepartment(t *testing.T) {
	assert.Equal(t, RoleUnknown, ResolveRole(nil))
	assert.Equal(t, ScopeAll, ResolveTicketScope(nil))
}

func TestResolveRoleDefaults(t *testing.T) {
	byID := map[string]Department{}
	for _, dept := range DefaultDepartments() {
		byID[dept.ID] = dept
	}

	adminDept := byID[DeptAdmin]
	nocDept := byID[DeptNOC]
	assert.Equal(t, RoleAdmin, ResolveRole(&adminDept))
	assert.Equal(t, RoleNOC, ResolveRole(&nocDept))
}

func TestResolveTicketScope(t *testing.T) {
	assert.Equal(t, ScopeSMS, ResolveTicketScope(&Department{Type: DepartmentTypeSMS}))
	assert.Equal(t, ScopeVoice, ResolveTicketScope(&Department{Type: DepartmentTypeVoice}))
	assert.Equal(t, ScopeAll, ResolveTicketScope(&Department{Type: DepartmentTypeAll}))
}

func TestScopeAllows(t *testing.T) {
	assert.True(t, ScopeAllows(ScopeAll, TicketKindSMS))
	assert.True(t, ScopeAllows(ScopeAll, TicketKindVoice))
	assert.True(t, ScopeAllows(ScopeSMS, TicketKindSMS))
	assert.False(t, ScopeAllows(ScopeSMS, TicketKindVoice))
	assert.False(t, ScopeAllows(ScopeVoice, TicketKindSMS))
}

func TestNotificationPrefsDefaults(t *testing.T) {
	var nilPrefs NotificationPrefs
	assert.True(t, nilPrefs.Allows(PrefTicketCreated), "nil prefs allow everything")

	prefs := NotificationPrefs{PrefAMAction: false}
	assert.False(t, prefs.Allows(PrefAMAction), "explicit false suppresses")
	assert.True(t, prefs.Allows(PrefStatusChanged), "absent key defaults to true")
}
