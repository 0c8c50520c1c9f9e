package model

import "time"

// Relationship kinds between a parent user and a child
const (
	RelMother   = "MOTHER"
	RelFather   = "FATHER"
	RelGuardian = "GUARDIAN"
	RelOther    = "OTHER"
)

// ValidRelationship reports whether the string is a known relationship kind
func ValidRelationship(rel string) bool {
	switch rel {
	case RelMother, RelFather, RelGuardian, RelOther:
		return true
	}
	return false
}

// ParentChildRelationship links a PARENT-role user to a child. A parent can be
// linked to a child at most once, and at most one relationship per child
// carries IsPrimary.
type ParentChildRelationship struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	ParentID           uint      `json:"parent_id" gorm:"not null;uniqueIndex:idx_parent_child"`
	ChildID            uint      `json:"child_id" gorm:"not null;uniqueIndex:idx_parent_child;index"`
	Relationship       string    `json:"relationship" gorm:"type:varchar(20);not null"`
	IsPrimary          bool      `json:"is_primary" gorm:"default:false"`
	IsEmergencyContact bool      `json:"is_emergency_contact" gorm:"default:false"`
	CanPickup          bool      `json:"can_pickup" gorm:"default:true"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Relations
	Parent User  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Child  Child `json:"child,omitempty" gorm:"foreignKey:ChildID"`
}
