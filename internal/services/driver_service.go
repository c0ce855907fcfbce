package services

import (
	"context"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
)

// DriverServiceInterface defines the interface for driver service operations
type DriverServiceInterface interface {
	CreateDriver(ctx context.Context, tenantID uuid.UUID, driver *models.Driver) error
	GetDriverByID(ctx context.Context, tenantID, driverID uuid.UUID) (*models.Driver, error)
	UpdateDriver(ctx context.Context, tenantID uuid.UUID, driver *models.Driver) error
	DeleteDriver(ctx context.Context, tenantID, driverID uuid.UUID) error
	ListDrivers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Driver, error)
}

type driverService struct {
	driverRepo repositories.DriverRepository
}

// NewDriverService creates a new driver service instance
func NewDriverService(driverRepo repositories.DriverRepository) DriverServiceInterface {
	return &driverService{driverRepo: driverRepo}
}

func (s *driverService) CreateDriver(ctx context.Context, tenantID uuid.UUID, driver *models.Driver) error {
	if err := common.ValidateRequiredString(driver.Name, "name"); err != nil {
		return err
	}

	if driver.ID == uuid.Nil {
		driver.ID = uuid.New()
	}
	driver.TenantID = tenantID
	if driver.Status == "" {
		driver.Status = "active"
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return common.SecureErrorMessage("create driver", err)
	}
	return nil
}

func (s *driverService) GetDriverByID(ctx context.Context, tenantID, driverID uuid.UUID) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, tenantID, driverID)
	if err != nil {
		return nil, common.SecureErrorMessage("get driver", err)
	}
	return driver, nil
}

func (s *driverService) UpdateDriver(ctx context.Context, tenantID uuid.UUID, driver *models.Driver) error {
	driver.TenantID = tenantID
	if err := s.driverRepo.Update(ctx, driver); err != nil {
		return common.SecureErrorMessage("update driver", err)
	}
	return nil
}

func (s *driverService) DeleteDriver(ctx context.Context, tenantID, driverID uuid.UUID) error {
	if err := s.driverRepo.Delete(ctx, tenantID, driverID); err != nil {
		return common.SecureErrorMessage("delete driver", err)
	}
	return nil
}

func (s *driverService) ListDrivers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Driver, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	drivers, err := s.driverRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, common.SecureErrorMessage("list drivers", err)
	}
	return drivers, nil
}
