// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The set is closed: every stored role is one of the three constants below.
// All permission decisions across the API go through the predicates in this
// file rather than ad-hoc string comparisons.
type UserRole string

const (
	// Unrestricted system access, full user administration
	RoleAdmin UserRole = "admin"

	// Can edit or remove any review and comment
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// Valid reports whether r is one of the closed set of roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// CanModerate reports whether the role may mutate content it does not own
// (reviews and comments by other authors).
func (r UserRole) CanModerate() bool {
	return r.AtLeast(RoleModerator)
}

// IsAdmin reports whether the role grants user and catalog administration.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Ownership Policy

// CanManageResource decides whether an actor may mutate an owned resource
// (a review or comment). The author always may; moderators and admins may
// regardless of ownership.
func CanManageResource(role UserRole, actorID, ownerID string) bool {
	if actorID != "" && actorID == ownerID {
		return true
	}
	return role.CanModerate()
}
