package service

import (
	"errors"
	"time"

	"daycare-api/internal/model"
	"daycare-api/internal/store"
	"daycare-api/pkg/jwtutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles credential checks and session issuance.
type AuthService struct {
	store store.Store
	log   *zap.Logger
}

// NewAuthService creates the auth service
func NewAuthService(st store.Store, log *zap.Logger) *AuthService {
	return &AuthService{store: st, log: log}
}

// Login verifies the credentials and returns the user with a signed JWT.
// A user who was invited but has not accepted yet gets a distinct error so
// the dashboard can point them at the invitation email instead of a password
// reset.
func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	user, err := s.store.UserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", Unauthorized("invalid credentials")
		}
		return nil, "", err
	}

	if user.IsInvited && !user.EmailVerified {
		return nil, "", Unauthorized("please accept your invitation before logging in")
	}

	if !user.IsActive {
		return nil, "", Unauthorized("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Info("login failed with wrong password", zap.String("email", email))
		return nil, "", Unauthorized("invalid credentials")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(user); err != nil {
		return nil, "", err
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.Role, user.TenantID)
	if err != nil {
		s.log.Error("failed to generate token", zap.Error(err))
		return nil, "", err
	}

	s.log.Info("user logged in",
		zap.String("email", user.Email),
		zap.String("role", user.Role))

	return user, token, nil
}

// VerifyEmail consumes an email-verification token. Unknown and expired
// tokens fail identically so callers cannot probe which tokens exist.
func (s *AuthService) VerifyEmail(token string) (*model.User, error) {
	user, err := s.store.UserByVerificationToken(token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, BadRequest("invalid or expired verification token")
		}
		return nil, err
	}

	if user.VerificationExpiresAt == nil || user.VerificationExpiresAt.Before(time.Now()) {
		return nil, BadRequest("invalid or expired verification token")
	}

	user.EmailVerified = true
	user.VerificationToken = nil
	user.VerificationExpiresAt = nil
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}

	s.log.Info("email verified", zap.String("email", user.Email))
	return user, nil
}

// Profile returns the authenticated user's own record
func (s *AuthService) Profile(userID uint) (*model.User, error) {
	user, err := s.store.UserByID(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}
