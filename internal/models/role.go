package models

import "strings"

// Role is the access level of the current user.
type Role int

const (
	// RoleStaff may edit daily values.
	RoleStaff Role = iota
	// RoleManager may export reports.
	RoleManager
	// RoleAdmin may do everything.
	RoleAdmin
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleStaff:
		return "staff"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseRole parses a role name; unknown names fall back to staff.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "manager":
		return RoleManager
	default:
		return RoleStaff
	}
}

// CanExport reports whether the role may produce reports and workbooks.
func (r Role) CanExport() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanEdit reports whether the role may edit daily values.
func (r Role) CanEdit() bool {
	return r == RoleAdmin || r == RoleStaff
}

// CanPlan reports whether the role may create or import production lines.
func (r Role) CanPlan() bool {
	return r == RoleAdmin
}
