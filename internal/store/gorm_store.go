package store

import (
	"errors"
	"strings"

	"daycare-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ Store = (*DB)(nil)

// DB implements Store on top of gorm/PostgreSQL.
type DB struct {
	db *gorm.DB
}

// New wraps a gorm connection
func New(db *gorm.DB) *DB {
	return &DB{db: db}
}

// Transaction runs fn inside a database transaction. The callback receives a
// store scoped to the transaction connection.
func (s *DB) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&DB{db: tx})
	})
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Users

func (s *DB) CreateUser(u *model.User) error {
	return s.db.Create(u).Error
}

func (s *DB) UserByID(id uint) (*model.User, error) {
	var u model.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *DB) UserByEmail(email string) (*model.User, error) {
	var u model.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *DB) UserByInvitationToken(token string) (*model.User, error) {
	var u model.User
	if err := s.db.Where("invitation_token = ?", token).First(&u).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *DB) UserByVerificationToken(token string) (*model.User, error) {
	var u model.User
	if err := s.db.Where("verification_token = ?", token).First(&u).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *DB) UpdateUser(u *model.User) error {
	return s.db.Save(u).Error
}

// DeleteUser removes the row permanently. Canceled invitations leave no trace.
func (s *DB) DeleteUser(id uint) error {
	return s.db.Unscoped().Delete(&model.User{}, id).Error
}

func (s *DB) InvitedUsers(tenantID uint) ([]model.User, error) {
	var users []model.User
	err := s.db.
		Where("tenant_id = ? AND is_invited = ? AND email_verified = ?", tenantID, true, false).
		Order("invited_at DESC").
		Find(&users).Error
	return users, err
}

func (s *DB) ParentsByTenant(tenantID uint, search string) ([]model.User, error) {
	q := s.db.Where("tenant_id = ? AND role = ?", tenantID, model.RoleParent)
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern)
	}
	var users []model.User
	err := q.Order("last_name, first_name").Find(&users).Error
	return users, err
}

// Tenants

func (s *DB) CreateTenant(t *model.Tenant) error {
	return s.db.Create(t).Error
}

func (s *DB) TenantBySubdomain(subdomain string) (*model.Tenant, error) {
	var t model.Tenant
	if err := s.db.Where("subdomain = ?", subdomain).First(&t).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &t, nil
}

func (s *DB) TenantByEmail(email string) (*model.Tenant, error) {
	var t model.Tenant
	if err := s.db.Where("email = ?", email).First(&t).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &t, nil
}

// Children

func (s *DB) CreateChild(c *model.Child) error {
	return s.db.Create(c).Error
}

func (s *DB) ChildByID(tenantID, id uint) (*model.Child, error) {
	var c model.Child
	if err := s.db.Where("tenant_id = ?", tenantID).First(&c, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &c, nil
}

func (s *DB) ChildrenByTenant(tenantID uint) ([]model.Child, error) {
	var children []model.Child
	err := s.db.Where("tenant_id = ?", tenantID).Order("last_name, first_name").Find(&children).Error
	return children, err
}

func (s *DB) UpdateChild(c *model.Child) error {
	return s.db.Save(c).Error
}

func (s *DB) DeleteChild(tenantID, id uint) error {
	result := s.db.Where("tenant_id = ?", tenantID).Delete(&model.Child{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DB) MedicalInfoByChild(childID uint) (*model.MedicalInformation, error) {
	var mi model.MedicalInformation
	if err := s.db.Where("child_id = ?", childID).First(&mi).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &mi, nil
}

func (s *DB) EmergencyContactsByChild(childID uint) ([]model.EmergencyContact, error) {
	var contacts []model.EmergencyContact
	err := s.db.Where("child_id = ?", childID).Order("id").Find(&contacts).Error
	return contacts, err
}

// Relationships

func (s *DB) CreateRelationship(r *model.ParentChildRelationship) error {
	return s.db.Omit(clause.Associations).Create(r).Error
}

func (s *DB) RelationshipByID(id uint) (*model.ParentChildRelationship, error) {
	var r model.ParentChildRelationship
	if err := s.db.First(&r, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &r, nil
}

func (s *DB) RelationshipByPair(parentID, childID uint) (*model.ParentChildRelationship, error) {
	var r model.ParentChildRelationship
	if err := s.db.Where("parent_id = ? AND child_id = ?", parentID, childID).First(&r).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &r, nil
}

func (s *DB) RelationshipsByChild(childID uint) ([]model.ParentChildRelationship, error) {
	var rels []model.ParentChildRelationship
	err := s.db.Preload("Parent").
		Where("child_id = ?", childID).
		Order("is_primary DESC, created_at ASC, id ASC").
		Find(&rels).Error
	return rels, err
}

func (s *DB) RelationshipsByParent(parentID uint) ([]model.ParentChildRelationship, error) {
	var rels []model.ParentChildRelationship
	err := s.db.Preload("Child").
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&rels).Error
	return rels, err
}

func (s *DB) UpdateRelationship(r *model.ParentChildRelationship) error {
	return s.db.Omit(clause.Associations).Save(r).Error
}

func (s *DB) DeleteRelationship(id uint) error {
	return s.db.Delete(&model.ParentChildRelationship{}, id).Error
}

func (s *DB) DemotePrimary(childID, exceptID uint) error {
	q := s.db.Model(&model.ParentChildRelationship{}).
		Where("child_id = ? AND is_primary = ?", childID, true)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_primary", false).Error
}

// Classrooms

func (s *DB) CreateClassroom(cl *model.Classroom) error {
	return s.db.Create(cl).Error
}

func (s *DB) ClassroomByID(tenantID, id uint) (*model.Classroom, error) {
	var cl model.Classroom
	if err := s.db.Where("tenant_id = ?", tenantID).First(&cl, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &cl, nil
}

func (s *DB) ClassroomsByTenant(tenantID uint) ([]model.Classroom, error) {
	var rooms []model.Classroom
	err := s.db.Where("tenant_id = ?", tenantID).Order("name").Find(&rooms).Error
	return rooms, err
}

func (s *DB) CreateClassroomEducator(a *model.ClassroomEducator) error {
	return s.db.Create(a).Error
}

func (s *DB) ActiveAssignmentCount(classroomID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.ClassroomAssignment{}).
		Where("classroom_id = ? AND active = ?", classroomID, true).
		Count(&count).Error
	return count, err
}

func (s *DB) DeactivateChildAssignments(childID uint) error {
	return s.db.Model(&model.ClassroomAssignment{}).
		Where("child_id = ? AND active = ?", childID, true).
		Update("active", false).Error
}

func (s *DB) CreateClassroomAssignment(a *model.ClassroomAssignment) error {
	return s.db.Create(a).Error
}

// Document types and services

func (s *DB) CreateDocumentTypes(types []model.DocumentType) error {
	if len(types) == 0 {
		return nil
	}
	return s.db.Create(&types).Error
}

func (s *DB) CreateService(svc *model.Service) error {
	return s.db.Create(svc).Error
}

func (s *DB) ServicesByTenant(tenantID uint) ([]model.Service, error) {
	var services []model.Service
	err := s.db.Where("tenant_id = ?", tenantID).Order("name").Find(&services).Error
	return services, err
}
