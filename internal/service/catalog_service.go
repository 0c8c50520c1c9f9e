package service

import (
	"daycare-api/internal/model"
	"daycare-api/internal/store"

	"go.uber.org/zap"
)

// CatalogService manages the programs a daycare offers.
type CatalogService struct {
	store store.Store
	log   *zap.Logger
}

// NewCatalogService creates the catalog service
func NewCatalogService(st store.Store, log *zap.Logger) *CatalogService {
	return &CatalogService{store: st, log: log}
}

// CreateService adds a program to the tenant's catalog
func (s *CatalogService) CreateService(actor Actor, name, description string) (*model.Service, error) {
	if !model.CanManageStaff(actor.Role) {
		return nil, Forbidden("insufficient permissions to manage services")
	}
	if name == "" {
		return nil, BadRequest("name is required")
	}

	svc := &model.Service{
		TenantID:    actor.Tenant(),
		Name:        name,
		Description: description,
	}
	if err := s.store.CreateService(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// ListServices returns the tenant's program catalog
func (s *CatalogService) ListServices(actor Actor) ([]model.Service, error) {
	return s.store.ServicesByTenant(actor.Tenant())
}
