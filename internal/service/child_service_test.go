package service

import (
	"net/http"
	"testing"
	"time"

	"daycare-api/internal/model"
	"daycare-api/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChildEnv(t *testing.T) (*memory.Mem, *ChildService, Actor) {
	t.Helper()
	m := memory.New()
	svc := NewChildService(m, testLogger)
	tenant := seedTenant(m, "sunshine")
	admin := seedUser(m, tenant.ID, "admin@sunshine.test", model.RoleBusinessAdmin, "adminpass123")
	return m, svc, adminActor(admin)
}

func TestCreateChild(t *testing.T) {
	m, svc, admin := newChildEnv(t)

	child, err := svc.CreateChild(admin, ChildInput{
		FirstName:   "Mia",
		LastName:    "Doe",
		DateOfBirth: time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ChildActive, child.Status)
	assert.Equal(t, admin.Tenant(), child.TenantID)

	parent := seedUser(m, admin.Tenant(), "anna@example.test", model.RoleParent, "pass12345")
	_, err = svc.CreateChild(adminActor(parent), ChildInput{FirstName: "No", LastName: "Go"})
	requireServiceError(t, err, http.StatusForbidden)
}

func TestGetChildDetail(t *testing.T) {
	m, svc, admin := newChildEnv(t)
	child := seedChild(m, admin.Tenant(), "Mia")

	detail, err := svc.GetChild(admin, child.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, detail.Child.ID)
	assert.Empty(t, detail.Parents)
	assert.Nil(t, detail.MedicalInfo)

	_, err = svc.GetChild(admin, 9999)
	requireServiceError(t, err, http.StatusNotFound)
}

func TestUpdateChildPatchesNonEmptyFields(t *testing.T) {
	m, svc, admin := newChildEnv(t)
	child := seedChild(m, admin.Tenant(), "Mia")

	updated, err := svc.UpdateChild(admin, child.ID, ChildInput{FirstName: "Amelia"})
	require.NoError(t, err)
	assert.Equal(t, "Amelia", updated.FirstName)
	assert.Equal(t, child.LastName, updated.LastName)
	assert.Equal(t, child.DateOfBirth, updated.DateOfBirth)
}

func TestDeleteChildHidesRecord(t *testing.T) {
	m, svc, admin := newChildEnv(t)
	child := seedChild(m, admin.Tenant(), "Mia")

	require.NoError(t, svc.DeleteChild(admin, child.ID))

	_, err := svc.GetChild(admin, child.ID)
	requireServiceError(t, err, http.StatusNotFound)

	children, err := svc.ListChildren(admin)
	require.NoError(t, err)
	assert.Empty(t, children)

	err = svc.DeleteChild(admin, child.ID)
	requireServiceError(t, err, http.StatusNotFound)
}

func TestChildTenantIsolation(t *testing.T) {
	m, svc, admin := newChildEnv(t)
	child := seedChild(m, admin.Tenant(), "Mia")

	other := seedTenant(m, "rainbow")
	otherAdmin := seedUser(m, other.ID, "admin@rainbow.test", model.RoleBusinessAdmin, "pass12345")

	_, err := svc.GetChild(adminActor(otherAdmin), child.ID)
	requireServiceError(t, err, http.StatusNotFound)

	children, err := svc.ListChildren(adminActor(otherAdmin))
	require.NoError(t, err)
	assert.Empty(t, children)
}
