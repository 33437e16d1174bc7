// Package rbac implements the static role-permission table. Each role maps
// to a flat set of permission tokens; the ALL sentinel grants every check.
package rbac

import (
	"fmt"
	"sort"
)

// PermissionAll is the sentinel permission: a role holding it passes every
// permission check unconditionally.
const PermissionAll = "ALL"

// Permission names used by the core's own operations.
const (
	PermissionViewUsers   = "VIEW_USERS"
	PermissionAddUser     = "ADD_USER"
	PermissionEditUser    = "EDIT_USER"
	PermissionDeleteUser  = "DELETE_USER"
	PermissionViewLogs    = "VIEW_LOGS"
	PermissionViewProfile = "VIEW_PROFILE"
	PermissionEditProfile = "EDIT_PROFILE"
)

// Table maps role names to their permission sets. It is built once at
// startup and never mutated afterwards, so lookups are safe for concurrent
// use.
type Table map[string]map[string]struct{}

// NewTable builds a Table from a role -> permission list map.
func NewTable(roles map[string][]string) (Table, error) {
	if len(roles) == 0 {
		return nil, fmt.Errorf("role table is empty")
	}

	t := make(Table, len(roles))
	for role, perms := range roles {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		t[role] = set
	}

	return t, nil
}

// HasRole reports whether role is present in the table.
func (t Table) HasRole(role string) bool {
	_, ok := t[role]
	return ok
}

// Grants reports whether role holds permission, either directly or through
// the ALL sentinel. Unknown roles grant nothing.
func (t Table) Grants(role, permission string) bool {
	set, ok := t[role]
	if !ok {
		return false
	}
	if _, ok := set[PermissionAll]; ok {
		return true
	}
	_, ok = set[permission]
	return ok
}

// RoleWithAll returns the first role (in sorted order) whose set contains
// the ALL sentinel, used to pick the bootstrap user's role.
func (t Table) RoleWithAll() (string, bool) {
	for _, role := range t.Roles() {
		if _, ok := t[role][PermissionAll]; ok {
			return role, true
		}
	}
	return "", false
}

// Roles returns all role names in sorted order.
func (t Table) Roles() []string {
	names := make([]string, 0, len(t))
	for role := range t {
		names = append(names, role)
	}
	sort.Strings(names)
	return names
}

// Validate returns an error naming the first role that is not present in
// the table. It backs the startup data-integrity check: a persisted user
// with an unknown role is a configuration error, not a per-request one.
func (t Table) Validate(roles []string) error {
	for _, role := range roles {
		if !t.HasRole(role) {
			return fmt.Errorf("unknown role %q", role)
		}
	}
	return nil
}
