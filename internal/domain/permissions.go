package domain

// Role is the effective role derived from department capabilities. It is
// recomputed on every access so department edits take effect immediately for
// all members.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleNOC     Role = "noc"
	RoleAM      Role = "am"
	RoleUnknown Role = "unknown"
)

// TicketScope restricts which ticket kind a department's members may touch.
type TicketScope string

const (
	ScopeSMS   TicketScope = "sms"
	ScopeVoice TicketScope = "voice"
	ScopeAll   TicketScope = "all"
)

// ResolveRole derives the effective role from capability flags. Evaluation
// order is fixed so overlapping capability sets remain deterministic: admin
// wins over am, am over noc. A missing department fails closed to unknown.
func ResolveRole(dept *Department) Role {
	if dept == nil {
		return RoleUnknown
	}
	if dept.CanEditUsers {
		return RoleAdmin
	}
	if dept.CanCreateTickets && !dept.CanEditEnterprises {
		return RoleAM
	}
	if dept.CanEditTickets {
		return RoleNOC
	}
	return RoleUnknown
}

// ResolveTicketScope derives the ticket-type scope. A missing department
// fails open to all; callers must still treat RoleUnknown as unprivileged.
func ResolveTicketScope(dept *Department) TicketScope {
	if dept == nil {
		return ScopeAll
	}
	switch dept.Type {
	case DepartmentTypeSMS:
		return ScopeSMS
	case DepartmentTypeVoice:
		return ScopeVoice
	default:
		return ScopeAll
	}
}

// ScopeAllows reports whether a scope permits touching the given ticket kind.
func ScopeAllows(scope TicketScope, kind TicketKind) bool {
	return scope == ScopeAll || string(scope) == string(kind)
}
