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

// RelationshipService maintains parent-child links and their invariants:
// at most one primary contact per child, no duplicate parent-child pairs, and
// every child keeps at least one parent.
type RelationshipService struct {
	store store.Store
	mail  mailer.Sender
	cfg   *config.Config
	log   *zap.Logger
}

// NewRelationshipService creates the relationship service
func NewRelationshipService(st store.Store, mail mailer.Sender, cfg *config.Config, log *zap.Logger) *RelationshipService {
	return &RelationshipService{store: st, mail: mail, cfg: cfg, log: log}
}

// RelationshipFlags are the caller-settable flags on a relationship. Explicit
// values always win over the defaults (primary false, emergency contact
// false, pickup true).
type RelationshipFlags struct {
	IsPrimary          *bool
	IsEmergencyContact *bool
	CanPickup          *bool
}

func (f RelationshipFlags) resolve() (primary, emergency, pickup bool) {
	pickup = true
	if f.IsPrimary != nil {
		primary = *f.IsPrimary
	}
	if f.IsEmergencyContact != nil {
		emergency = *f.IsEmergencyContact
	}
	if f.CanPickup != nil {
		pickup = *f.CanPickup
	}
	return
}

// AddNewParentInput describes a parent to link, creating their account if the
// email is unknown.
type AddNewParentInput struct {
	ChildID      uint
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Relationship string
	Flags        RelationshipFlags
}

// AddParentResult is the outcome of linking a parent to a child
type AddParentResult struct {
	Relationship   *model.ParentChildRelationship
	Parent         *model.User
	CreatedAccount bool
}

// AddNewParent links a parent identified by email to a child, creating a
// PARENT account with a temporary password when the email is unknown. The
// temporary password is delivered only in the welcome email.
func (s *RelationshipService) AddNewParent(actor Actor, in AddNewParentInput) (*AddParentResult, error) {
	if in.Email == "" || in.FirstName == "" || in.LastName == "" {
		return nil, BadRequest("email, first name and last name are required")
	}
	if !model.ValidRelationship(in.Relationship) {
		return nil, BadRequest("invalid relationship type")
	}

	tenantID := actor.Tenant()
	child, err := s.childInTenant(tenantID, in.ChildID)
	if err != nil {
		return nil, err
	}

	parent, err := s.store.UserByEmail(in.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	var tempPassword, verifyToken string
	createdAccount := false

	if parent != nil {
		if parent.TenantID == nil || *parent.TenantID != tenantID {
			return nil, Conflict("email is already registered to another account")
		}
		if parent.Role != model.RoleParent {
			return nil, Conflict("email belongs to a staff account")
		}
	} else {
		tempPassword, err = tokenutil.TempPassword()
		if err != nil {
			return nil, err
		}
		verifyToken, err = tokenutil.Generate()
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		expires := time.Now().Add(s.cfg.App.VerificationTTL)
		parent = &model.User{
			Email:                 in.Email,
			Password:              string(hash),
			FirstName:             in.FirstName,
			LastName:              in.LastName,
			Phone:                 in.Phone,
			Role:                  model.RoleParent,
			TenantID:              &tenantID,
			IsActive:              true,
			VerificationToken:     &verifyToken,
			VerificationExpiresAt: &expires,
		}
		createdAccount = true
	}

	if !createdAccount {
		if _, err := s.store.RelationshipByPair(parent.ID, child.ID); err == nil {
			return nil, Conflict("parent is already linked to this child")
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	primary, emergency, pickup := in.Flags.resolve()
	rel := &model.ParentChildRelationship{
		ChildID:            child.ID,
		Relationship:       in.Relationship,
		IsPrimary:          primary,
		IsEmergencyContact: emergency,
		CanPickup:          pickup,
	}

	err = s.store.Transaction(func(tx store.Store) error {
		if createdAccount {
			if err := tx.CreateUser(parent); err != nil {
				return err
			}
		}
		rel.ParentID = parent.ID
		if primary {
			if err := tx.DemotePrimary(child.ID, 0); err != nil {
				return err
			}
		}
		return tx.CreateRelationship(rel)
	})
	if err != nil {
		return nil, err
	}

	if createdAccount {
		link := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.App.FrontendBaseURL, verifyToken)
		if err := s.mail.SendParentWelcome(parent.Email, parent.FirstName, tempPassword, link); err != nil {
			s.log.Error("failed to send parent welcome email",
				zap.String("email", parent.Email),
				zap.Error(err))
		}
	}

	s.log.Info("parent linked to child",
		zap.Uint("child_id", child.ID),
		zap.Uint("parent_id", parent.ID),
		zap.Bool("created_account", createdAccount))

	return &AddParentResult{Relationship: rel, Parent: parent, CreatedAccount: createdAccount}, nil
}

// AddExistingParent links a parent who already has an account in the tenant.
func (s *RelationshipService) AddExistingParent(actor Actor, childID, parentID uint, relationship string, flags RelationshipFlags) (*model.ParentChildRelationship, error) {
	if !model.ValidRelationship(relationship) {
		return nil, BadRequest("invalid relationship type")
	}

	tenantID := actor.Tenant()
	child, err := s.childInTenant(tenantID, childID)
	if err != nil {
		return nil, err
	}

	parent, err := s.store.UserByID(parentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("parent not found")
		}
		return nil, err
	}
	if parent.TenantID == nil || *parent.TenantID != tenantID || parent.Role != model.RoleParent {
		return nil, NotFound("parent not found")
	}

	if _, err := s.store.RelationshipByPair(parent.ID, child.ID); err == nil {
		return nil, Conflict("parent is already linked to this child")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	primary, emergency, pickup := flags.resolve()
	rel := &model.ParentChildRelationship{
		ParentID:           parent.ID,
		ChildID:            child.ID,
		Relationship:       relationship,
		IsPrimary:          primary,
		IsEmergencyContact: emergency,
		CanPickup:          pickup,
	}

	err = s.store.Transaction(func(tx store.Store) error {
		if primary {
			if err := tx.DemotePrimary(child.ID, 0); err != nil {
				return err
			}
		}
		return tx.CreateRelationship(rel)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("existing parent linked to child",
		zap.Uint("child_id", child.ID),
		zap.Uint("parent_id", parent.ID))

	return rel, nil
}

// UpdateRelationshipInput is a partial update of relationship flags
type UpdateRelationshipInput struct {
	Relationship *string
	Flags        RelationshipFlags
}

// UpdateRelationship patches a relationship. Setting isPrimary demotes every
// other relationship of the child in the same transaction.
func (s *RelationshipService) UpdateRelationship(actor Actor, relationshipID uint, in UpdateRelationshipInput) (*model.ParentChildRelationship, error) {
	rel, err := s.relationshipInTenant(actor.Tenant(), relationshipID)
	if err != nil {
		return nil, err
	}

	if in.Relationship != nil {
		if !model.ValidRelationship(*in.Relationship) {
			return nil, BadRequest("invalid relationship type")
		}
		rel.Relationship = *in.Relationship
	}
	if in.Flags.IsEmergencyContact != nil {
		rel.IsEmergencyContact = *in.Flags.IsEmergencyContact
	}
	if in.Flags.CanPickup != nil {
		rel.CanPickup = *in.Flags.CanPickup
	}

	makePrimary := in.Flags.IsPrimary != nil && *in.Flags.IsPrimary
	if in.Flags.IsPrimary != nil {
		rel.IsPrimary = *in.Flags.IsPrimary
	}

	err = s.store.Transaction(func(tx store.Store) error {
		if makePrimary {
			if err := tx.DemotePrimary(rel.ChildID, rel.ID); err != nil {
				return err
			}
		}
		return tx.UpdateRelationship(rel)
	})
	if err != nil {
		return nil, err
	}

	return rel, nil
}

// RemoveRelationship deletes a parent-child link. A child's last relationship
// cannot be removed; removing the primary promotes the oldest remaining
// relationship (by creation time, then id) before the delete.
func (s *RelationshipService) RemoveRelationship(actor Actor, relationshipID uint) error {
	rel, err := s.relationshipInTenant(actor.Tenant(), relationshipID)
	if err != nil {
		return err
	}

	siblings, err := s.store.RelationshipsByChild(rel.ChildID)
	if err != nil {
		return err
	}
	if len(siblings) <= 1 {
		return BadRequest("cannot remove the last parent of a child")
	}

	return s.store.Transaction(func(tx store.Store) error {
		if rel.IsPrimary {
			successor := pickSuccessor(siblings, rel.ID)
			if successor != nil {
				successor.IsPrimary = true
				if err := tx.UpdateRelationship(successor); err != nil {
					return err
				}
			}
		}
		return tx.DeleteRelationship(rel.ID)
	})
}

// pickSuccessor returns the oldest remaining relationship, deterministic by
// (CreatedAt, ID).
func pickSuccessor(rels []model.ParentChildRelationship, removedID uint) *model.ParentChildRelationship {
	var successor *model.ParentChildRelationship
	for i := range rels {
		r := &rels[i]
		if r.ID == removedID {
			continue
		}
		if successor == nil ||
			r.CreatedAt.Before(successor.CreatedAt) ||
			(r.CreatedAt.Equal(successor.CreatedAt) && r.ID < successor.ID) {
			successor = r
		}
	}
	return successor
}

// GetChildParents returns a child's relationships, primary first.
func (s *RelationshipService) GetChildParents(actor Actor, childID uint) ([]model.ParentChildRelationship, error) {
	child, err := s.childInTenant(actor.Tenant(), childID)
	if err != nil {
		return nil, err
	}
	return s.store.RelationshipsByChild(child.ID)
}

// AvailableParent is a tenant parent with their current links
type AvailableParent struct {
	Parent     model.User    `json:"parent"`
	ChildCount int           `json:"child_count"`
	Children   []model.Child `json:"children"`
}

// GetAvailableParents lists the tenant's PARENT users, optionally filtered by
// a case-insensitive substring on name or email, with their linked children.
func (s *RelationshipService) GetAvailableParents(actor Actor, search string) ([]AvailableParent, error) {
	parents, err := s.store.ParentsByTenant(actor.Tenant(), search)
	if err != nil {
		return nil, err
	}

	out := make([]AvailableParent, 0, len(parents))
	for _, p := range parents {
		rels, err := s.store.RelationshipsByParent(p.ID)
		if err != nil {
			return nil, err
		}
		children := make([]model.Child, 0, len(rels))
		for _, r := range rels {
			children = append(children, r.Child)
		}
		out = append(out, AvailableParent{
			Parent:     p,
			ChildCount: len(rels),
			Children:   children,
		})
	}
	return out, nil
}

func (s *RelationshipService) childInTenant(tenantID, childID uint) (*model.Child, error) {
	child, err := s.store.ChildByID(tenantID, childID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("child not found")
		}
		return nil, err
	}
	return child, nil
}

func (s *RelationshipService) relationshipInTenant(tenantID, relationshipID uint) (*model.ParentChildRelationship, error) {
	rel, err := s.store.RelationshipByID(relationshipID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("relationship not found")
		}
		return nil, err
	}
	if _, err := s.childInTenant(tenantID, rel.ChildID); err != nil {
		return nil, NotFound("relationship not found")
	}
	return rel, nil
}
