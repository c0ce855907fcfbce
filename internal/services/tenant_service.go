package services

import (
	"context"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
)

// TenantServiceInterface defines the interface for tenant service operations
type TenantServiceInterface interface {
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	GetTenantByID(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
}

// NewTenantService creates a new tenant service instance
func NewTenantService(tenantRepo repositories.TenantRepository) TenantServiceInterface {
	return &tenantService{tenantRepo: tenantRepo}
}

func (s *tenantService) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if err := common.ValidateRequiredString(tenant.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(tenant.Subdomain, "subdomain"); err != nil {
		return err
	}

	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	if tenant.Currency == "" {
		tenant.Currency = "INR"
	}
	if tenant.Status == "" {
		tenant.Status = "active"
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return common.SecureErrorMessage("create tenant", err)
	}
	return nil
}

func (s *tenantService) GetTenantByID(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, common.SecureErrorMessage("get tenant", err)
	}
	return tenant, nil
}

func (s *tenantService) GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, common.SecureErrorMessage("get tenant", err)
	}
	return tenant, nil
}

func (s *tenantService) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return common.SecureErrorMessage("update tenant", err)
	}
	return nil
}
