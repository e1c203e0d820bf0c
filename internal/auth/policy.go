package auth

import (
	"errors"
	"fmt"
)

// Action names a protected operation checked by the policy table.
type Action string

const (
	ActionCreateInternship    Action = "create_internship"
	ActionApplyInternship     Action = "apply_internship"
	ActionListOwnApplications Action = "list_own_applications"
	ActionCreateLogbookEntry  Action = "create_logbook_entry"
	ActionListLogbookEntries  Action = "list_logbook_entries"
	ActionApproveLogbookEntry Action = "approve_logbook_entry"
	ActionListUsers           Action = "list_users"
)

// ErrForbidden means the caller is authenticated but its role may not perform the action.
var ErrForbidden = errors.New("forbidden")

// policy is the single source of truth for role-gated actions.
// Row ownership (a student seeing only their own rows) is enforced by the services.
var policy = map[Action][]Role{
	ActionCreateInternship:    {RoleIndustry, RoleAdmin},
	ActionApplyInternship:     {RoleStudent},
	ActionListOwnApplications: {RoleStudent},
	ActionCreateLogbookEntry:  {RoleStudent},
	ActionListLogbookEntries:  {RoleStudent, RoleFaculty, RoleAdmin},
	ActionApproveLogbookEntry: {RoleFaculty, RoleAdmin},
	ActionListUsers:           {RoleAdmin},
}

// Actions returns every action known to the policy table.
func Actions() []Action {
	return []Action{
		ActionCreateInternship,
		ActionApplyInternship,
		ActionListOwnApplications,
		ActionCreateLogbookEntry,
		ActionListLogbookEntries,
		ActionApproveLogbookEntry,
		ActionListUsers,
	}
}

// AllowedRoles returns a copy of the roles permitted to perform action.
func AllowedRoles(action Action) []Role {
	roles := policy[action]
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// Allowed reports whether role may perform action. Unknown roles and actions are denied.
func Allowed(role Role, action Action) bool {
	if !role.Valid() {
		return false
	}
	return HasRole(role, policy[action]...)
}

// Authorize returns ErrForbidden (wrapped with the action) when identity may not perform action.
func Authorize(identity Identity, action Action) error {
	if !Allowed(identity.Role, action) {
		return fmt.Errorf("%s as %q: %w", action, identity.Role, ErrForbidden)
	}
	return nil
}
