// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kritika/internal/platform/sec"
)

/*
TestUserRole_AtLeast verifies the total order over the closed role set.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.UserRole
		target   sec.UserRole
		expected bool
	}{
		{"admin_at_least_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"admin_at_least_moderator", sec.RoleAdmin, sec.RoleModerator, true},
		{"moderator_at_least_user", sec.RoleModerator, sec.RoleUser, true},
		{"moderator_not_admin", sec.RoleModerator, sec.RoleAdmin, false},
		{"user_not_moderator", sec.RoleUser, sec.RoleModerator, false},
		{"unknown_below_everything", sec.UserRole("superuser"), sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.AtLeast(tt.target))
		})
	}
}

/*
TestUserRole_Predicates covers the centralized moderation and admin checks.
*/
func TestUserRole_Predicates(t *testing.T) {
	assert.True(t, sec.RoleAdmin.CanModerate())
	assert.True(t, sec.RoleModerator.CanModerate())
	assert.False(t, sec.RoleUser.CanModerate())

	assert.True(t, sec.RoleAdmin.IsAdmin())
	assert.False(t, sec.RoleModerator.IsAdmin())

	assert.True(t, sec.RoleUser.Valid())
	assert.False(t, sec.UserRole("owner").Valid())
}

/*
TestCanManageResource verifies the ownership policy consumed by the
review/comment services.
*/
func TestCanManageResource(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.UserRole
		actorID  string
		ownerID  string
		expected bool
	}{
		{"author_can_manage_own", sec.RoleUser, "u1", "u1", true},
		{"stranger_cannot_manage", sec.RoleUser, "u2", "u1", false},
		{"moderator_can_manage_any", sec.RoleModerator, "u2", "u1", true},
		{"admin_can_manage_any", sec.RoleAdmin, "u2", "u1", true},
		{"empty_actor_never_owner", sec.RoleUser, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sec.CanManageResource(tt.role, tt.actorID, tt.ownerID))
		})
	}
}
