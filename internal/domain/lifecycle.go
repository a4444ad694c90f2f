package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ValidateStatus enforces the one hard lifecycle invariant: entering
// Assigned requires a non-null assignee in the same update. Everything else
// is freely settable by callers holding ticket-edit capability.
func ValidateStatus(status TicketStatus, assignedTo *string) error {
	if status == StatusAssigned && (assignedTo == nil || *assignedTo == "") {
		return fmt.Errorf("status cannot be %q unless a NOC member is assigned", StatusAssigned)
	}
	return nil
}

// StampAssignedAt returns the assigned_at value after an update. The stamp
// moves to now only when the assignee is non-null, changed from the previous
// value, and the resulting status is Assigned. Re-applying the same
// assignment keeps the original stamp, which is the basis for
// assigned-too-long reminders.
func StampAssignedAt(prevAssignee, newAssignee *string, prevStamp *time.Time, newStatus TicketStatus, now time.Time) *time.Time {
	if newStatus != StatusAssigned || newAssignee == nil || *newAssignee == "" {
		return prevStamp
	}
	if prevAssignee != nil && *prevAssignee == *newAssignee {
		return prevStamp
	}
	return &now
}

// FieldChange holds the before/after pair for one changed field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Changes maps field name to its old/new pair.
type Changes map[string]FieldChange

// DiffTickets computes the field-level diff between two snapshots of the
// same ticket. The result feeds both the audit recorder and the
// NOC peer-modification notification.
func DiffTickets(before, after *Ticket) Changes {
	changes := Changes{}
	cmp := func(field string, old, new any) {
		if fmt.Sprint(old) != fmt.Sprint(new) {
			changes[field] = FieldChange{Old: old, New: new}
		}
	}
	cmp("priority", before.Priority, after.Priority)
	cmp("volume", before.Volume, after.Volume)
	cmp("customer_trunk", before.CustomerTrunk, after.CustomerTrunk)
	cmp("destination", before.Destination, after.Destination)
	cmp("issue_types", strings.Join(before.IssueTypes, ","), strings.Join(after.IssueTypes, ","))
	cmp("issue_other", before.IssueOther, after.IssueOther)
	cmp("fas_type", before.FASType, after.FASType)
	cmp("opened_via", strings.Join(before.OpenedVia, ","), strings.Join(after.OpenedVia, ","))
	cmp("rate", before.Rate, after.Rate)
	cmp("cost", before.Cost, after.Cost)
	cmp("is_lcr", before.IsLCR, after.IsLCR)
	cmp("root_cause", before.RootCause, after.RootCause)
	cmp("action_taken", before.ActionTaken, after.ActionTaken)
	cmp("internal_notes", before.InternalNotes, after.InternalNotes)
	cmp("status", before.Status, after.Status)
	cmp("assigned_to", strPtrValue(before.AssignedTo), strPtrValue(after.AssignedTo))
	return changes
}

// Summary renders the diff for human-readable notification text, truncated
// to at most three fields plus a "+N more" suffix.
func (c Changes) Summary() string {
	if len(c) == 0 {
		return ""
	}
	fields := make([]string, 0, len(c))
	for field := range c {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	const maxShown = 3
	shown := fields
	if len(shown) > maxShown {
		shown = shown[:maxShown]
	}
	parts := make([]string, 0, len(shown))
	for _, field := range shown {
		change := c[field]
		parts = append(parts, fmt.Sprintf("%s: %v -> %v", field, change.Old, change.New))
	}
	summary := strings.Join(parts, "; ")
	if rest := len(fields) - maxShown; rest > 0 {
		summary += fmt.Sprintf(" (+%d more)", rest)
	}
	return summary
}

func strPtrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
