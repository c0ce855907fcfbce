package services

import (
	"context"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
)

// VehicleServiceInterface defines the interface for vehicle service operations
type VehicleServiceInterface interface {
	CreateVehicle(ctx context.Context, tenantID uuid.UUID, vehicle *models.Vehicle) error
	GetVehicleByID(ctx context.Context, tenantID, vehicleID uuid.UUID) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, tenantID uuid.UUID, vehicle *models.Vehicle) error
	DeleteVehicle(ctx context.Context, tenantID, vehicleID uuid.UUID) error
	ListVehicles(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Vehicle, error)
}

type vehicleService struct {
	vehicleRepo repositories.VehicleRepository
}

// NewVehicleService creates a new vehicle service instance
func NewVehicleService(vehicleRepo repositories.VehicleRepository) VehicleServiceInterface {
	return &vehicleService{vehicleRepo: vehicleRepo}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, tenantID uuid.UUID, vehicle *models.Vehicle) error {
	if err := common.ValidateRequiredString(vehicle.RegistrationNumber, "registration number"); err != nil {
		return err
	}
	// Capacity feeds tanker-scoped rate resolution and must be usable as a
	// divisor.
	if err := common.ValidatePositiveAmount(vehicle.CapacityLiters, "capacity"); err != nil {
		return err
	}

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	vehicle.TenantID = tenantID
	if vehicle.Status == "" {
		vehicle.Status = "active"
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return common.SecureErrorMessage("create vehicle", err)
	}
	return nil
}

func (s *vehicleService) GetVehicleByID(ctx context.Context, tenantID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, tenantID, vehicleID)
	if err != nil {
		return nil, common.SecureErrorMessage("get vehicle", err)
	}
	return vehicle, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, tenantID uuid.UUID, vehicle *models.Vehicle) error {
	if err := common.ValidatePositiveAmount(vehicle.CapacityLiters, "capacity"); err != nil {
		return err
	}
	vehicle.TenantID = tenantID
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return common.SecureErrorMessage("update vehicle", err)
	}
	return nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, tenantID, vehicleID uuid.UUID) error {
	if err := s.vehicleRepo.Delete(ctx, tenantID, vehicleID); err != nil {
		return common.SecureErrorMessage("delete vehicle", err)
	}
	return nil
}

func (s *vehicleService) ListVehicles(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Vehicle, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	vehicles, err := s.vehicleRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, common.SecureErrorMessage("list vehicles", err)
	}
	return vehicles, nil
}
