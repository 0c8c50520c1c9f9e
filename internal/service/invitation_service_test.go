package service

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"daycare-api/internal/model"
	"daycare-api/internal/store"
	"daycare-api/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvitationEnv(t *testing.T) (*memory.Mem, *fakeMailer, *InvitationService, Actor) {
	t.Helper()
	m := memory.New()
	mail := &fakeMailer{}
	svc := NewInvitationService(m, mail, testConfig(), testLogger)
	tenant := seedTenant(m, "sunshine")
	admin := seedUser(m, tenant.ID, "admin@sunshine.test", model.RoleBusinessAdmin, "adminpass123")
	return m, mail, svc, adminActor(admin)
}

func TestInviteStaff(t *testing.T) {
	_, mail, svc, admin := newInvitationEnv(t)

	user, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:     "jane@example.test",
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      model.RoleEducator,
	})
	require.NoError(t, err)

	assert.True(t, user.IsInvited)
	assert.False(t, user.EmailVerified)
	assert.Empty(t, user.Password)
	require.NotNil(t, user.InvitationToken)
	assert.Len(t, *user.InvitationToken, 64)
	require.NotNil(t, user.InvitationExpiresAt)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), *user.InvitationExpiresAt, time.Minute)
	require.NotNil(t, user.InvitedBy)
	assert.Equal(t, admin.UserID, *user.InvitedBy)

	require.Len(t, mail.invitations, 1)
	assert.Equal(t, "jane@example.test", mail.invitations[0])
	assert.Contains(t, mail.acceptURLs[0], *user.InvitationToken)
}

func TestInviteStaffRequiresAdmin(t *testing.T) {
	m, _, svc, admin := newInvitationEnv(t)
	educator := seedUser(m, admin.Tenant(), "edu@sunshine.test", model.RoleEducator, "pass12345")

	_, err := svc.InviteStaff(adminActor(educator), InviteStaffInput{
		Email:     "new@example.test",
		FirstName: "New",
		LastName:  "Hire",
		Role:      model.RoleEducator,
	})
	requireServiceError(t, err, http.StatusForbidden)
}

func TestInviteStaffRejectsUninvitableRoles(t *testing.T) {
	_, _, svc, admin := newInvitationEnv(t)

	for _, role := range []string{model.RoleParent, model.RoleSuperAdmin, "JANITOR", ""} {
		_, err := svc.InviteStaff(admin, InviteStaffInput{
			Email:     "x@example.test",
			FirstName: "X",
			LastName:  "Y",
			Role:      role,
		})
		requireServiceError(t, err, http.StatusBadRequest)
	}
}

func TestInviteStaffConflictsWithActiveUser(t *testing.T) {
	m, _, svc, admin := newInvitationEnv(t)
	seedUser(m, admin.Tenant(), "taken@example.test", model.RoleEducator, "pass12345")

	_, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:     "taken@example.test",
		FirstName: "Dup",
		LastName:  "User",
		Role:      model.RoleEducator,
	})
	requireServiceError(t, err, http.StatusConflict)
}

func TestInviteStaffRepeatInviteResends(t *testing.T) {
	_, mail, svc, admin := newInvitationEnv(t)

	in := InviteStaffInput{
		Email:     "jane@example.test",
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      model.RoleEducator,
	}
	first, err := svc.InviteStaff(admin, in)
	require.NoError(t, err)
	firstToken := *first.InvitationToken

	second, err := svc.InviteStaff(admin, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, firstToken, *second.InvitationToken)
	assert.Len(t, mail.invitations, 2)
}

func TestInviteEducatorWithClassrooms(t *testing.T) {
	m, _, svc, admin := newInvitationEnv(t)
	room := &model.Classroom{TenantID: admin.Tenant(), Name: "Toddlers", Capacity: 12}
	require.NoError(t, m.CreateClassroom(room))

	user, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:        "edu@example.test",
		FirstName:    "Eva",
		LastName:     "Lopez",
		Role:         model.RoleEducator,
		ClassroomIDs: []uint{room.ID},
	})
	require.NoError(t, err)

	links := m.EducatorsByUser(user.ID)
	require.Len(t, links, 1)
	assert.Equal(t, room.ID, links[0].ClassroomID)
}

func TestInviteEducatorUnknownClassroom(t *testing.T) {
	_, _, svc, admin := newInvitationEnv(t)

	_, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:        "edu@example.test",
		FirstName:    "Eva",
		LastName:     "Lopez",
		Role:         model.RoleEducator,
		ClassroomIDs: []uint{999},
	})
	requireServiceError(t, err, http.StatusNotFound)
}

func TestInviteStaffSurvivesMailFailure(t *testing.T) {
	m, mail, svc, admin := newInvitationEnv(t)
	mail.failNext = true

	user, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:     "jane@example.test",
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      model.RoleEducator,
	})
	require.NoError(t, err)

	stored, err := m.UserByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsInvited)
	assert.Empty(t, mail.invitations)
}

func TestAcceptInvitation(t *testing.T) {
	m, _, svc, admin := newInvitationEnv(t)
	auth := NewAuthService(m, testLogger)

	invited, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:     "jane@example.test",
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      model.RoleEducator,
	})
	require.NoError(t, err)
	token := *invited.InvitationToken

	// Login before acceptance is refused with the invitation-specific message
	_, _, err = auth.Login("jane@example.test", "Passw0rd1")
	requireServiceError(t, err, http.StatusUnauthorized)

	accepted, err := svc.AcceptInvitation(token, "Passw0rd1")
	require.NoError(t, err)
	assert.False(t, accepted.IsInvited)
	assert.True(t, accepted.EmailVerified)
	assert.Nil(t, accepted.InvitationToken)
	assert.Nil(t, accepted.InvitationExpiresAt)
	assert.NotEmpty(t, accepted.Password)

	user, jwt, err := auth.Login("jane@example.test", "Passw0rd1")
	require.NoError(t, err)
	assert.NotEmpty(t, jwt)
	assert.Equal(t, accepted.ID, user.ID)

	// The consumed token is gone
	_, err = svc.AcceptInvitation(token, "Passw0rd1")
	requireServiceError(t, err, http.StatusBadRequest)
}

func TestAcceptInvitationShortPassword(t *testing.T) {
	_, _, svc, admin := newInvitationEnv(t)
	invited, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:     "jane@example.test",
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      model.RoleEducator,
	})
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(*invited.InvitationToken, "short")
	requireServiceError(t, err, http.StatusBadRequest)
}

func TestAcceptInvitationBadTokensFailIdentically(t *testing.T) {
	m, _, svc, admin := newInvitationEnv(t)

	invited, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:     "jane@example.test",
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      model.RoleEducator,
	})
	require.NoError(t, err)

	// Force expiry
	stored, err := m.UserByID(invited.ID)
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	stored.InvitationExpiresAt = &past
	require.NoError(t, m.UpdateUser(stored))

	_, expiredErr := svc.AcceptInvitation(*invited.InvitationToken, "Passw0rd1")
	_, unknownErr := svc.AcceptInvitation("deadbeef", "Passw0rd1")

	var e1, e2 *Error
	require.ErrorAs(t, expiredErr, &e1)
	require.ErrorAs(t, unknownErr, &e2)
	assert.Equal(t, e1.Status, e2.Status)
	assert.Equal(t, e1.Message, e2.Message)
}

func TestResendInvitation(t *testing.T) {
	_, mail, svc, admin := newInvitationEnv(t)

	invited, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:     "jane@example.test",
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      model.RoleEducator,
	})
	require.NoError(t, err)
	oldToken := *invited.InvitationToken

	resent, err := svc.ResendInvitation(admin, invited.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, *resent.InvitationToken)
	assert.True(t, resent.InvitationExpiresAt.After(time.Now().Add(71*time.Hour)))
	assert.Len(t, mail.invitations, 2)
}

func TestResendInvitationNotPending(t *testing.T) {
	m, _, svc, admin := newInvitationEnv(t)
	active := seedUser(m, admin.Tenant(), "active@sunshine.test", model.RoleEducator, "pass12345")

	_, err := svc.ResendInvitation(admin, active.ID)
	requireServiceError(t, err, http.StatusBadRequest)
}

func TestResendInvitationCrossTenantHidden(t *testing.T) {
	m, _, svc, _ := newInvitationEnv(t)
	other := seedTenant(m, "rainbow")
	otherAdmin := seedUser(m, other.ID, "admin@rainbow.test", model.RoleBusinessAdmin, "pass12345")

	invitedAt := time.Now()
	token := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	expires := time.Now().Add(time.Hour)
	tenantOne, err := m.TenantBySubdomain("sunshine")
	require.NoError(t, err)
	invited := &model.User{
		Email:               "pending@sunshine.test",
		Role:                model.RoleEducator,
		TenantID:            &tenantOne.ID,
		IsActive:            true,
		IsInvited:           true,
		InvitationToken:     &token,
		InvitationExpiresAt: &expires,
		InvitedAt:           &invitedAt,
	}
	require.NoError(t, m.CreateUser(invited))

	// Admin of another tenant cannot see the invitation, not even as a 403
	_, err = svc.ResendInvitation(adminActor(otherAdmin), invited.ID)
	requireServiceError(t, err, http.StatusNotFound)

	err = svc.CancelInvitation(adminActor(otherAdmin), invited.ID)
	requireServiceError(t, err, http.StatusNotFound)
}

func TestCancelInvitation(t *testing.T) {
	m, _, svc, admin := newInvitationEnv(t)

	invited, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:     "jane@example.test",
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      model.RoleEducator,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelInvitation(admin, invited.ID))

	_, err = m.UserByID(invited.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	// Token no longer accepted
	_, err = svc.AcceptInvitation(*invited.InvitationToken, "Passw0rd1")
	requireServiceError(t, err, http.StatusBadRequest)
}

func TestCancelInvitationNotPending(t *testing.T) {
	m, _, svc, admin := newInvitationEnv(t)
	active := seedUser(m, admin.Tenant(), "active@sunshine.test", model.RoleEducator, "pass12345")

	err := svc.CancelInvitation(admin, active.ID)
	requireServiceError(t, err, http.StatusBadRequest)
}

func TestListInvitedUsers(t *testing.T) {
	m, _, svc, admin := newInvitationEnv(t)

	for _, email := range []string{"a@example.test", "b@example.test"} {
		_, err := svc.InviteStaff(admin, InviteStaffInput{
			Email:     email,
			FirstName: "Pending",
			LastName:  "User",
			Role:      model.RoleEducator,
		})
		require.NoError(t, err)
	}
	// Accepted users never show up in the pending list
	third, err := svc.InviteStaff(admin, InviteStaffInput{
		Email:     "c@example.test",
		FirstName: "Accepted",
		LastName:  "User",
		Role:      model.RoleEducator,
	})
	require.NoError(t, err)
	_, err = svc.AcceptInvitation(*third.InvitationToken, "Passw0rd1")
	require.NoError(t, err)

	users, err := svc.ListInvitedUsers(admin)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.True(t, u.IsInvited)
		assert.False(t, u.EmailVerified)
	}

	educator := seedUser(m, admin.Tenant(), "edu@sunshine.test", model.RoleEducator, "pass12345")
	_, err = svc.ListInvitedUsers(adminActor(educator))
	requireServiceError(t, err, http.StatusForbidden)
}

func requireServiceError(t *testing.T, err error, status int) {
	t.Helper()
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, status, svcErr.Status)
}
