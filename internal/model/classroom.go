package model

import "time"

// Classroom is a room/group within a daycare with a fixed child capacity.
type Classroom struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Capacity  int       `json:"capacity" gorm:"default:20"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClassroomEducator assigns an educator to a classroom. Rows are created when
// an EDUCATOR invitation specifies classrooms.
type ClassroomEducator struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ClassroomID uint      `json:"classroom_id" gorm:"index;not null;uniqueIndex:idx_classroom_educator"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_classroom_educator"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClassroomAssignment places a child in a classroom. A child has at most one
// active assignment; assigning to a new classroom deactivates the previous
// one.
type ClassroomAssignment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ClassroomID uint      `json:"classroom_id" gorm:"index;not null"`
	ChildID     uint      `json:"child_id" gorm:"index;not null"`
	Active      bool      `json:"active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
