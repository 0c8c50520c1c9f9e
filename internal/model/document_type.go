package model

import "time"

// DocumentType is an entry in a tenant's document catalog. A default catalog
// is seeded when the tenant registers.
type DocumentType struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TenantID    uint      `json:"tenant_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Required    bool      `json:"required" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultDocumentTypes is the catalog seeded for every new tenant.
func DefaultDocumentTypes(tenantID uint) []DocumentType {
	return []DocumentType{
		{TenantID: tenantID, Name: "Enrollment Form", Required: true},
		{TenantID: tenantID, Name: "Immunization Records", Required: true},
		{TenantID: tenantID, Name: "Emergency Contact Form", Required: true},
		{TenantID: tenantID, Name: "Medical Authorization", Required: false},
		{TenantID: tenantID, Name: "Photo Release", Required: false},
	}
}
