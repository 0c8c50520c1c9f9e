package service

import (
	"net/http"
	"testing"

	"daycare-api/internal/model"
	"daycare-api/internal/store/memory"
	"daycare-api/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterTenantInput {
	return RegisterTenantInput{
		Name:           "Sunshine Daycare",
		Subdomain:      "sunshine",
		Email:          "hello@sunshine.test",
		AdminFirstName: "Alice",
		AdminLastName:  "Morgan",
		AdminEmail:     "alice@sunshine.test",
		AdminPassword:  "correct-horse",
	}
}

func TestRegisterTenant(t *testing.T) {
	m := memory.New()
	svc := NewRegistrationService(m, testLogger)

	result, err := svc.RegisterTenant(validRegistration())
	require.NoError(t, err)

	assert.Equal(t, model.TenantActive, result.Tenant.Status)
	assert.Equal(t, model.RoleBusinessAdmin, result.Admin.Role)
	assert.True(t, result.Admin.EmailVerified)
	require.NotNil(t, result.Admin.TenantID)
	assert.Equal(t, result.Tenant.ID, *result.Admin.TenantID)

	// The returned token logs the admin straight in
	claims, err := jwtutil.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Admin.ID, claims.UserID)

	// Default document-type catalog is seeded with the tenant
	docs := m.DocumentTypesByTenant(result.Tenant.ID)
	assert.NotEmpty(t, docs)
	for _, d := range docs {
		assert.Equal(t, result.Tenant.ID, d.TenantID)
	}

	// The admin can log in with the chosen password
	auth := NewAuthService(m, testLogger)
	_, _, err = auth.Login("alice@sunshine.test", "correct-horse")
	require.NoError(t, err)
}

func TestRegisterTenantSubdomainNormalized(t *testing.T) {
	m := memory.New()
	svc := NewRegistrationService(m, testLogger)

	in := validRegistration()
	in.Subdomain = "  SunShine  "
	result, err := svc.RegisterTenant(in)
	require.NoError(t, err)
	assert.Equal(t, "sunshine", result.Tenant.Subdomain)
}

func TestRegisterTenantConflicts(t *testing.T) {
	m := memory.New()
	svc := NewRegistrationService(m, testLogger)

	_, err := svc.RegisterTenant(validRegistration())
	require.NoError(t, err)

	dup := validRegistration()
	dup.Email = "other@sunshine.test"
	dup.AdminEmail = "other-admin@sunshine.test"
	_, err = svc.RegisterTenant(dup)
	requireServiceError(t, err, http.StatusConflict)

	dup = validRegistration()
	dup.Subdomain = "rainbow"
	dup.AdminEmail = "other-admin@sunshine.test"
	_, err = svc.RegisterTenant(dup)
	requireServiceError(t, err, http.StatusConflict)

	dup = validRegistration()
	dup.Subdomain = "meadow"
	dup.Email = "hi@meadow.test"
	_, err = svc.RegisterTenant(dup)
	requireServiceError(t, err, http.StatusConflict)
}

func TestRegisterTenantValidation(t *testing.T) {
	m := memory.New()
	svc := NewRegistrationService(m, testLogger)

	in := validRegistration()
	in.Subdomain = "Bad_Subdomain!"
	_, err := svc.RegisterTenant(in)
	requireServiceError(t, err, http.StatusBadRequest)

	in = validRegistration()
	in.AdminPassword = "short"
	_, err = svc.RegisterTenant(in)
	requireServiceError(t, err, http.StatusBadRequest)

	in = validRegistration()
	in.Name = ""
	_, err = svc.RegisterTenant(in)
	requireServiceError(t, err, http.StatusBadRequest)
}
