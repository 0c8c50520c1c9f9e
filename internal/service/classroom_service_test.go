package service

import (
	"net/http"
	"testing"

	"daycare-api/internal/model"
	"daycare-api/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassroomEnv(t *testing.T) (*memory.Mem, *ClassroomService, Actor) {
	t.Helper()
	m := memory.New()
	svc := NewClassroomService(m, testLogger)
	tenant := seedTenant(m, "sunshine")
	admin := seedUser(m, tenant.ID, "admin@sunshine.test", model.RoleBusinessAdmin, "adminpass123")
	return m, svc, adminActor(admin)
}

func TestCreateClassroom(t *testing.T) {
	_, svc, admin := newClassroomEnv(t)

	room, err := svc.CreateClassroom(admin, "Toddlers", 0)
	require.NoError(t, err)
	assert.Equal(t, 20, room.Capacity)

	small, err := svc.CreateClassroom(admin, "Infants", 6)
	require.NoError(t, err)
	assert.Equal(t, 6, small.Capacity)
}

func TestAssignChildReplacesActivePlacement(t *testing.T) {
	m, svc, admin := newClassroomEnv(t)
	child := seedChild(m, admin.Tenant(), "Mia")

	first, err := svc.CreateClassroom(admin, "Toddlers", 5)
	require.NoError(t, err)
	second, err := svc.CreateClassroom(admin, "Preschool", 5)
	require.NoError(t, err)

	_, err = svc.AssignChild(admin, first.ID, child.ID)
	require.NoError(t, err)
	_, err = svc.AssignChild(admin, second.ID, child.ID)
	require.NoError(t, err)

	firstCount, err := m.ActiveAssignmentCount(first.ID)
	require.NoError(t, err)
	assert.Zero(t, firstCount)

	secondCount, err := m.ActiveAssignmentCount(second.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, secondCount)
}

func TestAssignChildCapacityCheck(t *testing.T) {
	m, svc, admin := newClassroomEnv(t)
	room, err := svc.CreateClassroom(admin, "Tiny", 1)
	require.NoError(t, err)

	first := seedChild(m, admin.Tenant(), "Mia")
	second := seedChild(m, admin.Tenant(), "Noah")

	_, err = svc.AssignChild(admin, room.ID, first.ID)
	require.NoError(t, err)

	_, err = svc.AssignChild(admin, room.ID, second.ID)
	requireServiceError(t, err, http.StatusBadRequest)
}

func TestAssignChildUnknownTargets(t *testing.T) {
	m, svc, admin := newClassroomEnv(t)
	child := seedChild(m, admin.Tenant(), "Mia")

	_, err := svc.AssignChild(admin, 9999, child.ID)
	requireServiceError(t, err, http.StatusNotFound)

	room, err := svc.CreateClassroom(admin, "Toddlers", 5)
	require.NoError(t, err)
	_, err = svc.AssignChild(admin, room.ID, 9999)
	requireServiceError(t, err, http.StatusNotFound)
}
