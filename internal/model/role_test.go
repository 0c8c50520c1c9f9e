package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanManageStaff(t *testing.T) {
	assert.True(t, CanManageStaff(RoleSuperAdmin))
	assert.True(t, CanManageStaff(RoleBusinessAdmin))
	assert.False(t, CanManageStaff(RoleEducator))
	assert.False(t, CanManageStaff(RoleParent))
	assert.False(t, CanManageStaff(""))
}

func TestCanManageChildren(t *testing.T) {
	assert.True(t, CanManageChildren(RoleSuperAdmin))
	assert.True(t, CanManageChildren(RoleBusinessAdmin))
	assert.True(t, CanManageChildren(RoleEducator))
	assert.False(t, CanManageChildren(RoleParent))
}

func TestInvitableRole(t *testing.T) {
	assert.True(t, InvitableRole(RoleBusinessAdmin))
	assert.True(t, InvitableRole(RoleEducator))
	assert.False(t, InvitableRole(RoleParent))
	assert.False(t, InvitableRole(RoleSuperAdmin))
	assert.False(t, InvitableRole("OWNER"))
}

func TestValidRelationship(t *testing.T) {
	for _, rel := range []string{RelMother, RelFather, RelGuardian, RelOther} {
		assert.True(t, ValidRelationship(rel))
	}
	assert.False(t, ValidRelationship("COUSIN"))
	assert.False(t, ValidRelationship(""))
	assert.False(t, ValidRelationship("mother"))
}
