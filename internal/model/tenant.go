package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant statuses
const (
	TenantActive    = "ACTIVE"
	TenantInactive  = "INACTIVE"
	TenantSuspended = "SUSPENDED"
)

// Tenant represents a daycare business. Each tenant's users, children and
// documents are fully isolated; the subdomain routes dashboard traffic.
type Tenant struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Subdomain string         `json:"subdomain" gorm:"type:varchar(63);uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Status    string         `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
