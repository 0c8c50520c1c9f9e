// Package memory provides an in-memory Store used by unit tests. Writes are
// guarded by a mutex but Transaction offers no rollback; tests exercise logic,
// not isolation.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"daycare-api/internal/model"
	"daycare-api/internal/store"

	"gorm.io/gorm"
)

var _ store.Store = (*Mem)(nil)

type Mem struct {
	mu sync.Mutex

	nextID        uint
	users         map[uint]model.User
	tenants       map[uint]model.Tenant
	children      map[uint]model.Child
	relationships map[uint]model.ParentChildRelationship
	classrooms    map[uint]model.Classroom
	educators     map[uint]model.ClassroomEducator
	assignments   map[uint]model.ClassroomAssignment
	documentTypes map[uint]model.DocumentType
	services      map[uint]model.Service
	medical       map[uint]model.MedicalInformation
	contacts      map[uint]model.EmergencyContact
}

// New returns an empty in-memory store
func New() *Mem {
	return &Mem{
		users:         map[uint]model.User{},
		tenants:       map[uint]model.Tenant{},
		children:      map[uint]model.Child{},
		relationships: map[uint]model.ParentChildRelationship{},
		classrooms:    map[uint]model.Classroom{},
		educators:     map[uint]model.ClassroomEducator{},
		assignments:   map[uint]model.ClassroomAssignment{},
		documentTypes: map[uint]model.DocumentType{},
		services:      map[uint]model.Service{},
		medical:       map[uint]model.MedicalInformation{},
		contacts:      map[uint]model.EmergencyContact{},
	}
}

func (m *Mem) id() uint {
	m.nextID++
	return m.nextID
}

// Transaction runs fn against the same store. There is no rollback; the
// callers under test never rely on partial-failure recovery in memory.
func (m *Mem) Transaction(fn func(store.Store) error) error {
	return fn(m)
}

// Users

func (m *Mem) CreateUser(u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = *u
	return nil
}

func (m *Mem) UserByID(id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func (m *Mem) UserByEmail(email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Mem) UserByInvitationToken(token string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.InvitationToken != nil && *u.InvitationToken == token {
			out := u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Mem) UserByVerificationToken(token string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			out := u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Mem) UpdateUser(u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *Mem) DeleteUser(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *Mem) InvitedUsers(tenantID uint) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		if u.TenantID != nil && *u.TenantID == tenantID && u.IsInvited && !u.EmailVerified {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].InvitedAt, out[j].InvitedAt
		if ti == nil || tj == nil {
			return out[i].ID > out[j].ID
		}
		return ti.After(*tj)
	})
	return out, nil
}

func (m *Mem) ParentsByTenant(tenantID uint, search string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.ToLower(search)
	var out []model.User
	for _, u := range m.users {
		if u.TenantID == nil || *u.TenantID != tenantID || u.Role != model.RoleParent {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.FirstName), needle) &&
			!strings.Contains(strings.ToLower(u.LastName), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

// Tenants

func (m *Mem) CreateTenant(t *model.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	m.tenants[t.ID] = *t
	return nil
}

func (m *Mem) TenantBySubdomain(subdomain string) (*model.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.Subdomain == subdomain {
			out := t
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Mem) TenantByEmail(email string) (*model.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.Email == email {
			out := t
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

// Children

func (m *Mem) CreateChild(c *model.Child) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	m.children[c.ID] = *c
	return nil
}

func (m *Mem) ChildByID(tenantID, id uint) (*model.Child, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.children[id]
	if !ok || c.TenantID != tenantID || c.DeletedAt.Valid {
		return nil, store.ErrNotFound
	}
	out := c
	return &out, nil
}

func (m *Mem) ChildrenByTenant(tenantID uint) ([]model.Child, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Child
	for _, c := range m.children {
		if c.TenantID == tenantID && !c.DeletedAt.Valid {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (m *Mem) UpdateChild(c *model.Child) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.children[c.ID]; !ok {
		return store.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	m.children[c.ID] = *c
	return nil
}

func (m *Mem) DeleteChild(tenantID, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.children[id]
	if !ok || c.TenantID != tenantID || c.DeletedAt.Valid {
		return store.ErrNotFound
	}
	c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	m.children[id] = c
	return nil
}

func (m *Mem) MedicalInfoByChild(childID uint) (*model.MedicalInformation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mi := range m.medical {
		if mi.ChildID == childID {
			out := mi
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Mem) EmergencyContactsByChild(childID uint) ([]model.EmergencyContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.EmergencyContact
	for _, ec := range m.contacts {
		if ec.ChildID == childID {
			out = append(out, ec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Relationships

func (m *Mem) CreateRelationship(r *model.ParentChildRelationship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.id()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.UpdatedAt = r.CreatedAt
	m.relationships[r.ID] = *r
	return nil
}

func (m *Mem) RelationshipByID(id uint) (*model.ParentChildRelationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.relationships[id]; ok {
		out := r
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func (m *Mem) RelationshipByPair(parentID, childID uint) (*model.ParentChildRelationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.relationships {
		if r.ParentID == parentID && r.ChildID == childID {
			out := r
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Mem) RelationshipsByChild(childID uint) ([]model.ParentChildRelationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ParentChildRelationship
	for _, r := range m.relationships {
		if r.ChildID == childID {
			if p, ok := m.users[r.ParentID]; ok {
				r.Parent = p
			}
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Mem) RelationshipsByParent(parentID uint) ([]model.ParentChildRelationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ParentChildRelationship
	for _, r := range m.relationships {
		if r.ParentID == parentID {
			if c, ok := m.children[r.ChildID]; ok {
				r.Child = c
			}
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Mem) UpdateRelationship(r *model.ParentChildRelationship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.relationships[r.ID]; !ok {
		return store.ErrNotFound
	}
	r.UpdatedAt = time.Now()
	stored := *r
	stored.Parent = model.User{}
	stored.Child = model.Child{}
	m.relationships[r.ID] = stored
	return nil
}

func (m *Mem) DeleteRelationship(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.relationships, id)
	return nil
}

func (m *Mem) DemotePrimary(childID, exceptID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.relationships {
		if r.ChildID == childID && r.IsPrimary && id != exceptID {
			r.IsPrimary = false
			r.UpdatedAt = time.Now()
			m.relationships[id] = r
		}
	}
	return nil
}

// Classrooms

func (m *Mem) CreateClassroom(cl *model.Classroom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cl.ID = m.id()
	now := time.Now()
	cl.CreatedAt = now
	cl.UpdatedAt = now
	m.classrooms[cl.ID] = *cl
	return nil
}

func (m *Mem) ClassroomByID(tenantID, id uint) (*model.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cl, ok := m.classrooms[id]
	if !ok || cl.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	out := cl
	return &out, nil
}

func (m *Mem) ClassroomsByTenant(tenantID uint) ([]model.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Classroom
	for _, cl := range m.classrooms {
		if cl.TenantID == tenantID {
			out = append(out, cl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Mem) CreateClassroomEducator(a *model.ClassroomEducator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	a.CreatedAt = time.Now()
	m.educators[a.ID] = *a
	return nil
}

// EducatorsByUser is a test helper for asserting classroom-educator links.
func (m *Mem) EducatorsByUser(userID uint) []model.ClassroomEducator {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ClassroomEducator
	for _, a := range m.educators {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) ActiveAssignmentCount(classroomID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, a := range m.assignments {
		if a.ClassroomID == classroomID && a.Active {
			count++
		}
	}
	return count, nil
}

func (m *Mem) DeactivateChildAssignments(childID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.assignments {
		if a.ChildID == childID && a.Active {
			a.Active = false
			a.UpdatedAt = time.Now()
			m.assignments[id] = a
		}
	}
	return nil
}

func (m *Mem) CreateClassroomAssignment(a *model.ClassroomAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	m.assignments[a.ID] = *a
	return nil
}

// Document types and services

func (m *Mem) CreateDocumentTypes(types []model.DocumentType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range types {
		types[i].ID = m.id()
		now := time.Now()
		types[i].CreatedAt = now
		types[i].UpdatedAt = now
		m.documentTypes[types[i].ID] = types[i]
	}
	return nil
}

// DocumentTypesByTenant is a test helper for asserting catalog seeding.
func (m *Mem) DocumentTypesByTenant(tenantID uint) []model.DocumentType {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.DocumentType
	for _, dt := range m.documentTypes {
		if dt.TenantID == tenantID {
			out = append(out, dt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) CreateService(s *model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	m.services[s.ID] = *s
	return nil
}

func (m *Mem) ServicesByTenant(tenantID uint) ([]model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Service
	for _, s := range m.services {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
