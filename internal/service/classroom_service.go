package service

import (
	"errors"

	"daycare-api/internal/model"
	"daycare-api/internal/store"

	"go.uber.org/zap"
)

// ClassroomService manages classrooms and child placements.
type ClassroomService struct {
	store store.Store
	log   *zap.Logger
}

// NewClassroomService creates the classroom service
func NewClassroomService(st store.Store, log *zap.Logger) *ClassroomService {
	return &ClassroomService{store: st, log: log}
}

// CreateClassroom adds a classroom to the tenant
func (s *ClassroomService) CreateClassroom(actor Actor, name string, capacity int) (*model.Classroom, error) {
	if !model.CanManageStaff(actor.Role) {
		return nil, Forbidden("insufficient permissions to manage classrooms")
	}
	if name == "" {
		return nil, BadRequest("name is required")
	}
	if capacity <= 0 {
		capacity = 20
	}

	classroom := &model.Classroom{
		TenantID: actor.Tenant(),
		Name:     name,
		Capacity: capacity,
	}
	if err := s.store.CreateClassroom(classroom); err != nil {
		return nil, err
	}
	return classroom, nil
}

// ListClassrooms returns the tenant's classrooms
func (s *ClassroomService) ListClassrooms(actor Actor) ([]model.Classroom, error) {
	return s.store.ClassroomsByTenant(actor.Tenant())
}

// AssignChild places a child in a classroom. A full classroom rejects the
// assignment; any previous active assignment of the child is deactivated in
// the same transaction so at most one stays active.
func (s *ClassroomService) AssignChild(actor Actor, classroomID, childID uint) (*model.ClassroomAssignment, error) {
	if !model.CanManageChildren(actor.Role) {
		return nil, Forbidden("insufficient permissions to manage children")
	}

	tenantID := actor.Tenant()
	classroom, err := s.store.ClassroomByID(tenantID, classroomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("classroom not found")
		}
		return nil, err
	}
	child, err := s.store.ChildByID(tenantID, childID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("child not found")
		}
		return nil, err
	}

	count, err := s.store.ActiveAssignmentCount(classroom.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(classroom.Capacity) {
		return nil, BadRequest("classroom is at capacity")
	}

	assignment := &model.ClassroomAssignment{
		ClassroomID: classroom.ID,
		ChildID:     child.ID,
		Active:      true,
	}
	err = s.store.Transaction(func(tx store.Store) error {
		if err := tx.DeactivateChildAssignments(child.ID); err != nil {
			return err
		}
		return tx.CreateClassroomAssignment(assignment)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("child assigned to classroom",
		zap.Uint("child_id", child.ID),
		zap.Uint("classroom_id", classroom.ID))
	return assignment, nil
}
