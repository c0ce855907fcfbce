package services

import (
	"context"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
)

// SupplierServiceInterface defines the interface for supplier service operations
type SupplierServiceInterface interface {
	CreateSupplier(ctx context.Context, tenantID uuid.UUID, supplier *models.Supplier) error
	GetSupplierByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, tenantID uuid.UUID, supplier *models.Supplier) error
	DeleteSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) error
	ListSuppliers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Supplier, error)
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
}

// NewSupplierService creates a new supplier service instance
func NewSupplierService(supplierRepo repositories.SupplierRepository) SupplierServiceInterface {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) CreateSupplier(ctx context.Context, tenantID uuid.UUID, supplier *models.Supplier) error {
	if err := common.ValidateRequiredString(supplier.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRateBasis(supplier.RateBasis); err != nil {
		return err
	}
	if err := common.ValidatePositiveAmount(supplier.NominalRate, "nominal rate"); err != nil {
		return err
	}

	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	supplier.TenantID = tenantID
	if supplier.PaymentTermsDays <= 0 {
		supplier.PaymentTermsDays = 30
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return common.SecureErrorMessage("create supplier", err)
	}
	return nil
}

func (s *supplierService) GetSupplierByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, tenantID, supplierID)
	if err != nil {
		return nil, common.SecureErrorMessage("get supplier", err)
	}
	return supplier, nil
}

// UpdateSupplier edits supplier details and billing configuration. Rate
// changes only affect trips recorded after the edit.
func (s *supplierService) UpdateSupplier(ctx context.Context, tenantID uuid.UUID, supplier *models.Supplier) error {
	if err := common.ValidateRateBasis(supplier.RateBasis); err != nil {
		return err
	}
	supplier.TenantID = tenantID
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return common.SecureErrorMessage("update supplier", err)
	}
	return nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	if err := s.supplierRepo.Delete(ctx, tenantID, supplierID); err != nil {
		return common.SecureErrorMessage("delete supplier", err)
	}
	return nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Supplier, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	suppliers, err := s.supplierRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, common.SecureErrorMessage("list suppliers", err)
	}
	return suppliers, nil
}
