package service

import (
	"errors"
	"time"

	"daycare-api/internal/model"
	"daycare-api/internal/store"

	"go.uber.org/zap"
)

// ChildService manages child records within a tenant.
type ChildService struct {
	store store.Store
	log   *zap.Logger
}

// NewChildService creates the child service
func NewChildService(st store.Store, log *zap.Logger) *ChildService {
	return &ChildService{store: st, log: log}
}

// ChildInput describes a child record
type ChildInput struct {
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	Status       string
	ProfilePhoto *string
}

// ChildDetail is a child with everything the dashboard shows on the profile
// page.
type ChildDetail struct {
	Child             model.Child                     `json:"child"`
	Parents           []model.ParentChildRelationship `json:"parents"`
	MedicalInfo       *model.MedicalInformation       `json:"medical_info,omitempty"`
	EmergencyContacts []model.EmergencyContact        `json:"emergency_contacts"`
}

// CreateChild adds a child to the actor's tenant
func (s *ChildService) CreateChild(actor Actor, in ChildInput) (*model.Child, error) {
	if !model.CanManageChildren(actor.Role) {
		return nil, Forbidden("insufficient permissions to manage children")
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, BadRequest("first name and last name are required")
	}
	status := in.Status
	if status == "" {
		status = model.ChildActive
	}

	child := &model.Child{
		TenantID:     actor.Tenant(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DateOfBirth:  in.DateOfBirth,
		Status:       status,
		ProfilePhoto: in.ProfilePhoto,
	}
	if err := s.store.CreateChild(child); err != nil {
		return nil, err
	}

	s.log.Info("child created",
		zap.Uint("child_id", child.ID),
		zap.Uint("tenant_id", child.TenantID))
	return child, nil
}

// ListChildren returns the tenant's children
func (s *ChildService) ListChildren(actor Actor) ([]model.Child, error) {
	return s.store.ChildrenByTenant(actor.Tenant())
}

// GetChild returns a child's full profile
func (s *ChildService) GetChild(actor Actor, childID uint) (*ChildDetail, error) {
	child, err := s.store.ChildByID(actor.Tenant(), childID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("child not found")
		}
		return nil, err
	}

	parents, err := s.store.RelationshipsByChild(child.ID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.store.EmergencyContactsByChild(child.ID)
	if err != nil {
		return nil, err
	}

	detail := &ChildDetail{Child: *child, Parents: parents, EmergencyContacts: contacts}
	if mi, err := s.store.MedicalInfoByChild(child.ID); err == nil {
		detail.MedicalInfo = mi
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return detail, nil
}

// UpdateChild patches a child record
func (s *ChildService) UpdateChild(actor Actor, childID uint, in ChildInput) (*model.Child, error) {
	if !model.CanManageChildren(actor.Role) {
		return nil, Forbidden("insufficient permissions to manage children")
	}

	child, err := s.store.ChildByID(actor.Tenant(), childID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("child not found")
		}
		return nil, err
	}

	if in.FirstName != "" {
		child.FirstName = in.FirstName
	}
	if in.LastName != "" {
		child.LastName = in.LastName
	}
	if !in.DateOfBirth.IsZero() {
		child.DateOfBirth = in.DateOfBirth
	}
	if in.Status != "" {
		child.Status = in.Status
	}
	if in.ProfilePhoto != nil {
		child.ProfilePhoto = in.ProfilePhoto
	}

	if err := s.store.UpdateChild(child); err != nil {
		return nil, err
	}
	return child, nil
}

// DeleteChild soft-deletes a child
func (s *ChildService) DeleteChild(actor Actor, childID uint) error {
	if !model.CanManageChildren(actor.Role) {
		return Forbidden("insufficient permissions to manage children")
	}
	if err := s.store.DeleteChild(actor.Tenant(), childID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("child not found")
		}
		return err
	}
	s.log.Info("child removed", zap.Uint("child_id", childID))
	return nil
}
