package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents any person with access to the system: platform staff,
// daycare admins, educators and parents. Invitation and verification token
// fields are never serialized.
type User struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Email     string  `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string  `json:"-" gorm:"type:varchar(255)"` // empty until the user has set one
	FirstName string  `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string  `json:"last_name" gorm:"type:varchar(100)"`
	Phone     string  `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Role      string  `json:"role" gorm:"type:varchar(50);not null"`
	TenantID  *uint   `json:"tenant_id,omitempty" gorm:"index"` // nil only for SUPER_ADMIN

	EmailVerified bool `json:"email_verified" gorm:"default:false"`
	IsActive      bool `json:"is_active" gorm:"default:true"`

	// Invitation lifecycle. IsInvited with a cleared token never occurs: the
	// accept transition updates all four fields atomically.
	IsInvited           bool       `json:"is_invited" gorm:"default:false"`
	InvitationToken     *string    `json:"-" gorm:"type:varchar(64);uniqueIndex"`
	InvitationExpiresAt *time.Time `json:"-"`
	InvitedBy           *uint      `json:"invited_by,omitempty"`
	InvitedAt           *time.Time `json:"invited_at,omitempty"`

	// Email verification for parent accounts created by staff
	VerificationToken     *string    `json:"-" gorm:"type:varchar(64);uniqueIndex"`
	VerificationExpiresAt *time.Time `json:"-"`

	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
