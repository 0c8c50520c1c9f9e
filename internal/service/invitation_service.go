package service

import (
	"errors"
	"fmt"
	"time"

	"daycare-api/internal/model"
	"daycare-api/internal/store"
	"daycare-api/pkg/config"
	"daycare-api/pkg/mailer"
	"daycare-api/pkg/tokenutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// InvitationService runs the staff invitation lifecycle:
// NONE -> INVITED -> ACCEPTED | CANCELED, with EXPIRED evaluated lazily
// whenever a token or target is inspected.
type InvitationService struct {
	store store.Store
	mail  mailer.Sender
	cfg   *config.Config
	log   *zap.Logger
}

// NewInvitationService creates the invitation service
func NewInvitationService(st store.Store, mail mailer.Sender, cfg *config.Config, log *zap.Logger) *InvitationService {
	return &InvitationService{store: st, mail: mail, cfg: cfg, log: log}
}

// InviteStaffInput describes a new staff invitation
type InviteStaffInput struct {
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	Role         string
	ClassroomIDs []uint
}

// InviteStaff creates a passwordless user in INVITED state and emails them an
// acceptance link. Inviting an address that is already in INVITED state
// resends instead of erroring so an admin retrying a lost email does not hit
// a conflict.
func (s *InvitationService) InviteStaff(actor Actor, in InviteStaffInput) (*model.User, error) {
	if !model.CanManageStaff(actor.Role) {
		return nil, Forbidden("insufficient permissions to manage staff")
	}
	if in.Email == "" || in.FirstName == "" || in.LastName == "" {
		return nil, BadRequest("email, first name and last name are required")
	}
	if !model.InvitableRole(in.Role) {
		return nil, BadRequest("cannot invite users with this role")
	}

	existing, err := s.store.UserByEmail(in.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.IsInvited && !existing.EmailVerified && actor.sameTenant(existing.TenantID) {
			// Recovery path: treat a repeat invite as a resend
			return s.resend(existing)
		}
		return nil, Conflict("a user with this email already exists")
	}

	token, err := tokenutil.Generate()
	if err != nil {
		return nil, err
	}

	tenantID := actor.Tenant()
	if tenantID == 0 {
		return nil, BadRequest("tenant context required")
	}

	now := time.Now()
	expires := now.Add(s.cfg.App.InvitationTTL)

	user := &model.User{
		Email:               in.Email,
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		Phone:               in.Phone,
		Role:                in.Role,
		TenantID:            &tenantID,
		IsActive:            true,
		IsInvited:           true,
		InvitationToken:     &token,
		InvitationExpiresAt: &expires,
		InvitedBy:           &actor.UserID,
		InvitedAt:           &now,
	}

	err = s.store.Transaction(func(tx store.Store) error {
		if err := tx.CreateUser(user); err != nil {
			return err
		}
		if user.Role != model.RoleEducator {
			return nil
		}
		for _, classroomID := range in.ClassroomIDs {
			if _, err := tx.ClassroomByID(tenantID, classroomID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return NotFound("classroom not found")
				}
				return err
			}
			assignment := &model.ClassroomEducator{ClassroomID: classroomID, UserID: user.ID}
			if err := tx.CreateClassroomEducator(assignment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendInvitationEmail(user, token)

	s.log.Info("staff invited",
		zap.String("email", user.Email),
		zap.String("role", user.Role),
		zap.Uint("invited_by", actor.UserID))

	return user, nil
}

// AcceptInvitation consumes an invitation token and activates the account.
// Unknown, already-used and expired tokens all fail with the same error so
// the endpoint leaks nothing about which tokens exist.
func (s *InvitationService) AcceptInvitation(token, password string) (*model.User, error) {
	if token == "" {
		return nil, BadRequest("invalid or expired invitation token")
	}
	if len(password) < 8 {
		return nil, BadRequest("password must be at least 8 characters")
	}

	user, err := s.store.UserByInvitationToken(token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, BadRequest("invalid or expired invitation token")
		}
		return nil, err
	}
	if !user.IsInvited || user.InvitationExpiresAt == nil || user.InvitationExpiresAt.Before(time.Now()) {
		return nil, BadRequest("invalid or expired invitation token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Single update covering password, flags and token fields; a partially
	// accepted invitation must never be observable.
	user.Password = string(hash)
	user.EmailVerified = true
	user.IsInvited = false
	user.InvitationToken = nil
	user.InvitationExpiresAt = nil

	err = s.store.Transaction(func(tx store.Store) error {
		return tx.UpdateUser(user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invitation accepted", zap.String("email", user.Email))
	return user, nil
}

// ResendInvitation regenerates the token and expiry for a pending invitation
// and re-sends the email. Role and classroom assignments are untouched.
func (s *InvitationService) ResendInvitation(actor Actor, targetUserID uint) (*model.User, error) {
	if !model.CanManageStaff(actor.Role) {
		return nil, Forbidden("insufficient permissions to manage staff")
	}

	target, err := s.store.UserByID(targetUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("user not found")
		}
		return nil, err
	}
	if !actor.sameTenant(target.TenantID) {
		return nil, NotFound("user not found")
	}
	if !target.IsInvited || target.EmailVerified {
		return nil, BadRequest("user does not have a pending invitation")
	}

	return s.resend(target)
}

func (s *InvitationService) resend(target *model.User) (*model.User, error) {
	token, err := tokenutil.Generate()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(s.cfg.App.InvitationTTL)

	target.InvitationToken = &token
	target.InvitationExpiresAt = &expires
	if err := s.store.UpdateUser(target); err != nil {
		return nil, err
	}

	s.sendInvitationEmail(target, token)

	s.log.Info("invitation resent", zap.String("email", target.Email))
	return target, nil
}

// CancelInvitation hard-deletes a pending invitation. An invitation that was
// never accepted leaves no retrievable trace.
func (s *InvitationService) CancelInvitation(actor Actor, targetUserID uint) error {
	if !model.CanManageStaff(actor.Role) {
		return Forbidden("insufficient permissions to manage staff")
	}

	target, err := s.store.UserByID(targetUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("user not found")
		}
		return err
	}
	if !actor.sameTenant(target.TenantID) {
		return NotFound("user not found")
	}
	if !target.IsInvited || target.EmailVerified {
		return BadRequest("user does not have a pending invitation")
	}

	if err := s.store.DeleteUser(target.ID); err != nil {
		return err
	}

	s.log.Info("invitation canceled",
		zap.String("email", target.Email),
		zap.Uint("canceled_by", actor.UserID))
	return nil
}

// ListInvitedUsers returns the tenant's pending invitations, newest first.
func (s *InvitationService) ListInvitedUsers(actor Actor) ([]model.User, error) {
	if !model.CanManageStaff(actor.Role) {
		return nil, Forbidden("insufficient permissions to manage staff")
	}
	return s.store.InvitedUsers(actor.Tenant())
}

// sendInvitationEmail is best effort: a failed send never rolls back the
// invitation, resend is the recovery path.
func (s *InvitationService) sendInvitationEmail(user *model.User, token string) {
	link := fmt.Sprintf("%s/accept-invitation?token=%s", s.cfg.App.FrontendBaseURL, token)
	if err := s.mail.SendStaffInvitation(user.Email, user.FirstName, link); err != nil {
		s.log.Error("failed to send invitation email",
			zap.String("email", user.Email),
			zap.Error(err))
	}
}
