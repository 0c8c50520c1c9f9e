package model

// User roles. SUPER_ADMIN is platform staff and the only role without a
// tenant; everyone else belongs to exactly one daycare.
const (
	RoleSuperAdmin    = "SUPER_ADMIN"
	RoleBusinessAdmin = "BUSINESS_ADMIN"
	RoleEducator      = "EDUCATOR"
	RoleParent        = "PARENT"
)

// CanManageStaff reports whether a role may invite, resend or cancel staff
// invitations. Centralized so call sites cannot drift.
func CanManageStaff(role string) bool {
	return role == RoleBusinessAdmin || role == RoleSuperAdmin
}

// CanManageChildren reports whether a role may create or modify child records.
func CanManageChildren(role string) bool {
	return role == RoleBusinessAdmin || role == RoleSuperAdmin || role == RoleEducator
}

// InvitableRole reports whether staff with the given role can be created
// through the invitation flow. Parents get accounts through the
// parent-relationship flow and SUPER_ADMIN is never provisioned per tenant.
func InvitableRole(role string) bool {
	return role == RoleBusinessAdmin || role == RoleEducator
}

// ValidRole reports whether the string is a known role
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleBusinessAdmin, RoleEducator, RoleParent:
		return true
	}
	return false
}
