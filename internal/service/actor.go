package service

// Actor is the authenticated caller as carried by the JWT claims. TenantID is
// nil only for SUPER_ADMIN.
type Actor struct {
	UserID   uint
	Email    string
	Role     string
	TenantID *uint
}

// Tenant returns the tenant the actor operates on. SUPER_ADMIN actors have no
// tenant of their own, so operations they perform are scoped by the explicit
// tenant on the target records instead.
func (a Actor) Tenant() uint {
	if a.TenantID == nil {
		return 0
	}
	return *a.TenantID
}

// sameTenant reports whether the actor may touch a record in the given
// tenant. SUPER_ADMIN may touch any tenant.
func (a Actor) sameTenant(tenantID *uint) bool {
	if a.TenantID == nil {
		return true
	}
	return tenantID != nil && *tenantID == *a.TenantID
}
