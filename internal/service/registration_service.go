package service

import (
	"errors"
	"regexp"
	"strings"

	"daycare-api/internal/model"
	"daycare-api/internal/store"
	"daycare-api/pkg/jwtutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var subdomainRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// RegistrationService creates tenants together with their first admin user.
type RegistrationService struct {
	store store.Store
	log   *zap.Logger
}

// NewRegistrationService creates the registration service
func NewRegistrationService(st store.Store, log *zap.Logger) *RegistrationService {
	return &RegistrationService{store: st, log: log}
}

// RegisterTenantInput is everything needed to onboard a daycare
type RegisterTenantInput struct {
	Name           string
	Subdomain      string
	Email          string
	AdminFirstName string
	AdminLastName  string
	AdminEmail     string
	AdminPassword  string
}

// RegisterTenantResult carries the created records and a session for the
// admin so the dashboard can log them straight in.
type RegisterTenantResult struct {
	Tenant *model.Tenant
	Admin  *model.User
	Token  string
}

// RegisterTenant creates the tenant, its BUSINESS_ADMIN user and the default
// document-type catalog in one transaction.
func (s *RegistrationService) RegisterTenant(in RegisterTenantInput) (*RegisterTenantResult, error) {
	in.Subdomain = strings.ToLower(strings.TrimSpace(in.Subdomain))

	if in.Name == "" || in.Subdomain == "" || in.Email == "" ||
		in.AdminEmail == "" || in.AdminPassword == "" {
		return nil, BadRequest("name, subdomain, email, admin email and admin password are required")
	}
	if !subdomainRe.MatchString(in.Subdomain) {
		return nil, BadRequest("subdomain may only contain lowercase letters, digits and hyphens")
	}
	if len(in.AdminPassword) < 8 {
		return nil, BadRequest("password must be at least 8 characters")
	}

	if _, err := s.store.TenantBySubdomain(in.Subdomain); err == nil {
		return nil, Conflict("subdomain is already taken")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if _, err := s.store.TenantByEmail(in.Email); err == nil {
		return nil, Conflict("a daycare with this email is already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if _, err := s.store.UserByEmail(in.AdminEmail); err == nil {
		return nil, Conflict("a user with this email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tenant := &model.Tenant{
		Name:      in.Name,
		Subdomain: in.Subdomain,
		Email:     in.Email,
		Status:    model.TenantActive,
	}
	admin := &model.User{
		Email:         in.AdminEmail,
		Password:      string(hash),
		FirstName:     in.AdminFirstName,
		LastName:      in.AdminLastName,
		Role:          model.RoleBusinessAdmin,
		EmailVerified: true,
		IsActive:      true,
	}

	err = s.store.Transaction(func(tx store.Store) error {
		if err := tx.CreateTenant(tenant); err != nil {
			return err
		}
		admin.TenantID = &tenant.ID
		if err := tx.CreateUser(admin); err != nil {
			return err
		}
		return tx.CreateDocumentTypes(model.DefaultDocumentTypes(tenant.ID))
	})
	if err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(admin.Email, admin.ID, admin.Role, admin.TenantID)
	if err != nil {
		return nil, err
	}

	s.log.Info("tenant registered",
		zap.String("subdomain", tenant.Subdomain),
		zap.Uint("tenant_id", tenant.ID),
		zap.String("admin_email", admin.Email))

	return &RegisterTenantResult{Tenant: tenant, Admin: admin, Token: token}, nil
}
