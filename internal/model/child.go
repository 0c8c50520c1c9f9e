package model

import (
	"time"

	"gorm.io/gorm"
)

// Child statuses
const (
	ChildActive    = "ACTIVE"
	ChildInactive  = "INACTIVE"
	ChildWaitlist  = "WAITLIST"
	ChildWithdrawn = "WITHDRAWN"
)

// Child represents an enrolled (or waitlisted) child within a tenant.
type Child struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	TenantID     uint           `json:"tenant_id" gorm:"index;not null"`
	FirstName    string         `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName     string         `json:"last_name" gorm:"type:varchar(100);not null"`
	DateOfBirth  time.Time      `json:"date_of_birth"`
	Status       string         `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	ProfilePhoto *string        `json:"profile_photo,omitempty" gorm:"type:varchar(500)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// MedicalInformation holds the single medical record a child may have.
type MedicalInformation struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ChildID     uint      `json:"child_id" gorm:"uniqueIndex;not null"`
	Allergies   string    `json:"allergies" gorm:"type:text"`
	Medications string    `json:"medications" gorm:"type:text"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EmergencyContact is an additional person a daycare may call about a child,
// independent of parent accounts.
type EmergencyContact struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ChildID      uint      `json:"child_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"type:varchar(150);not null"`
	Phone        string    `json:"phone" gorm:"type:varchar(30);not null"`
	Relationship string    `json:"relationship" gorm:"type:varchar(50)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
