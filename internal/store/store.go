package store

import (
	"errors"

	"daycare-api/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for all services. The SQL implementation
// is backed by gorm; tests use the in-memory implementation.
type Store interface {
	// Transaction runs fn against a store whose writes commit together or not
	// at all. Invariant-maintenance sequences (demote-then-create,
	// promote-then-delete, tenant registration) must run inside one.
	Transaction(fn func(Store) error) error

	// Users
	CreateUser(u *model.User) error
	UserByID(id uint) (*model.User, error)
	UserByEmail(email string) (*model.User, error)
	UserByInvitationToken(token string) (*model.User, error)
	UserByVerificationToken(token string) (*model.User, error)
	UpdateUser(u *model.User) error
	DeleteUser(id uint) error
	InvitedUsers(tenantID uint) ([]model.User, error)
	ParentsByTenant(tenantID uint, search string) ([]model.User, error)

	// Tenants
	CreateTenant(t *model.Tenant) error
	TenantBySubdomain(subdomain string) (*model.Tenant, error)
	TenantByEmail(email string) (*model.Tenant, error)

	// Children
	CreateChild(c *model.Child) error
	ChildByID(tenantID, id uint) (*model.Child, error)
	ChildrenByTenant(tenantID uint) ([]model.Child, error)
	UpdateChild(c *model.Child) error
	DeleteChild(tenantID, id uint) error
	MedicalInfoByChild(childID uint) (*model.MedicalInformation, error)
	EmergencyContactsByChild(childID uint) ([]model.EmergencyContact, error)

	// Parent-child relationships
	CreateRelationship(r *model.ParentChildRelationship) error
	RelationshipByID(id uint) (*model.ParentChildRelationship, error)
	RelationshipByPair(parentID, childID uint) (*model.ParentChildRelationship, error)
	// RelationshipsByChild returns a child's relationships ordered primary
	// first, then oldest first.
	RelationshipsByChild(childID uint) ([]model.ParentChildRelationship, error)
	RelationshipsByParent(parentID uint) ([]model.ParentChildRelationship, error)
	UpdateRelationship(r *model.ParentChildRelationship) error
	DeleteRelationship(id uint) error
	// DemotePrimary clears IsPrimary on every relationship of the child except
	// the one with exceptID (0 to demote all).
	DemotePrimary(childID, exceptID uint) error

	// Classrooms
	CreateClassroom(cl *model.Classroom) error
	ClassroomByID(tenantID, id uint) (*model.Classroom, error)
	ClassroomsByTenant(tenantID uint) ([]model.Classroom, error)
	CreateClassroomEducator(a *model.ClassroomEducator) error
	ActiveAssignmentCount(classroomID uint) (int64, error)
	DeactivateChildAssignments(childID uint) error
	CreateClassroomAssignment(a *model.ClassroomAssignment) error

	// Document types and services
	CreateDocumentTypes(types []model.DocumentType) error
	CreateService(s *model.Service) error
	ServicesByTenant(tenantID uint) ([]model.Service, error)
}
