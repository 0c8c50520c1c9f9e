package service

import (
	"time"

	"daycare-api/internal/model"
	"daycare-api/internal/store/memory"
	"daycare-api/pkg/config"
	"daycare-api/pkg/jwtutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
}

// fakeMailer records sent emails so tests can assert on delivery without SMTP.
type fakeMailer struct {
	invitations   []string
	acceptURLs    []string
	welcomes      []string
	tempPasswords []string
	verifyURLs    []string
	failNext      bool
}

func (f *fakeMailer) SendStaffInvitation(to, firstName, acceptURL string) error {
	if f.failNext {
		f.failNext = false
		return errSMTPDown
	}
	f.invitations = append(f.invitations, to)
	f.acceptURLs = append(f.acceptURLs, acceptURL)
	return nil
}

func (f *fakeMailer) SendParentWelcome(to, firstName, tempPassword, verifyURL string) error {
	if f.failNext {
		f.failNext = false
		return errSMTPDown
	}
	f.welcomes = append(f.welcomes, to)
	f.tempPasswords = append(f.tempPasswords, tempPassword)
	f.verifyURLs = append(f.verifyURLs, verifyURL)
	return nil
}

var errSMTPDown = &smtpError{}

type smtpError struct{}

func (*smtpError) Error() string { return "smtp relay unreachable" }

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1},
		App: config.AppConfig{
			FrontendBaseURL: "http://localhost:3000",
			InvitationTTL:   72 * time.Hour,
			VerificationTTL: 24 * time.Hour,
		},
	}
}

func seedTenant(m *memory.Mem, subdomain string) *model.Tenant {
	t := &model.Tenant{
		Name:      "Sunshine Daycare",
		Subdomain: subdomain,
		Email:     subdomain + "@daycare.test",
		Status:    model.TenantActive,
	}
	if err := m.CreateTenant(t); err != nil {
		panic(err)
	}
	return t
}

func seedUser(m *memory.Mem, tenantID uint, email, role, password string) *model.User {
	u := &model.User{
		Email:         email,
		FirstName:     "Test",
		LastName:      "User",
		Role:          role,
		TenantID:      &tenantID,
		EmailVerified: true,
		IsActive:      true,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		u.Password = string(hash)
	}
	if err := m.CreateUser(u); err != nil {
		panic(err)
	}
	return u
}

func seedChild(m *memory.Mem, tenantID uint, firstName string) *model.Child {
	c := &model.Child{
		TenantID:    tenantID,
		FirstName:   firstName,
		LastName:    "Doe",
		DateOfBirth: time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:      model.ChildActive,
	}
	if err := m.CreateChild(c); err != nil {
		panic(err)
	}
	return c
}

func adminActor(admin *model.User) Actor {
	return Actor{UserID: admin.ID, Email: admin.Email, Role: admin.Role, TenantID: admin.TenantID}
}

func boolPtr(b bool) *bool { return &b }

var testLogger = zap.NewNop()
