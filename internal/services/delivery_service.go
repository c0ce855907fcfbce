package services

import (
	"context"
	"time"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/rates"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
)

// DeliveryServiceInterface defines the interface for delivery service operations
type DeliveryServiceInterface interface {
	CreateDelivery(ctx context.Context, tenantID uuid.UUID, input *TripInput) (*models.Delivery, error)
	GetDeliveryByID(ctx context.Context, tenantID, deliveryID uuid.UUID) (*models.Delivery, error)
	ListDeliveries(ctx context.Context, tenantID uuid.UUID, societyID *uuid.UUID, limit, offset int) ([]*models.Delivery, error)
	CompleteDelivery(ctx context.Context, tenantID, deliveryID uuid.UUID) error
}

type deliveryService struct {
	deliveryRepo repositories.DeliveryRepository
	societyRepo  repositories.SocietyRepository
	vehicleRepo  repositories.VehicleRepository
}

// NewDeliveryService creates a new delivery service instance
func NewDeliveryService(deliveryRepo repositories.DeliveryRepository, societyRepo repositories.SocietyRepository, vehicleRepo repositories.VehicleRepository) DeliveryServiceInterface {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		societyRepo:  societyRepo,
		vehicleRepo:  vehicleRepo,
	}
}

// CreateDelivery mirrors collection creation on the revenue side: the
// society's configured rate is resolved once and frozen on the record.
func (s *deliveryService) CreateDelivery(ctx context.Context, tenantID uuid.UUID, input *TripInput) (*models.Delivery, error) {
	if input.Status == "" {
		input.Status = "completed"
	}
	if err := common.ValidateTripStatus(input.Status); err != nil {
		return nil, err
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = time.Now()
	}

	society, err := s.societyRepo.GetByID(ctx, tenantID, input.CounterpartyID)
	if err != nil {
		return nil, common.SecureErrorMessage("load society", err)
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, tenantID, input.VehicleID)
	if err != nil {
		return nil, common.SecureErrorMessage("load vehicle", err)
	}

	resolution, err := rates.Resolve(rates.Input{
		TankerCount:            input.TankerCount,
		VehicleCapacityLiters:  vehicle.CapacityLiters,
		NominalRate:            society.NominalRate,
		Basis:                  rates.RateBasis(society.RateBasis),
		ExplicitQuantityLiters: input.QuantityLiters,
	})
	if err != nil {
		return nil, err
	}

	delivery := &models.Delivery{
		ID:             uuid.New(),
		TenantID:       tenantID,
		SocietyID:      society.ID,
		VehicleID:      vehicle.ID,
		DriverID:       input.DriverID,
		TankerCount:    input.TankerCount,
		QuantityLiters: resolution.QuantityLiters,
		PerLiterRate:   resolution.PerLiterRate,
		TotalAmount:    resolution.TotalAmount,
		Status:         input.Status,
		OccurredAt:     input.OccurredAt,
		Notes:          input.Notes,
	}

	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, common.SecureErrorMessage("create delivery", err)
	}
	return delivery, nil
}

func (s *deliveryService) GetDeliveryByID(ctx context.Context, tenantID, deliveryID uuid.UUID) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, tenantID, deliveryID)
	if err != nil {
		return nil, common.SecureErrorMessage("get delivery", err)
	}
	return delivery, nil
}

func (s *deliveryService) ListDeliveries(ctx context.Context, tenantID uuid.UUID, societyID *uuid.UUID, limit, offset int) ([]*models.Delivery, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	deliveries, err := s.deliveryRepo.List(ctx, tenantID, societyID, limit, offset)
	if err != nil {
		return nil, common.SecureErrorMessage("list deliveries", err)
	}
	return deliveries, nil
}

func (s *deliveryService) CompleteDelivery(ctx context.Context, tenantID, deliveryID uuid.UUID) error {
	if err := s.deliveryRepo.UpdateStatus(ctx, tenantID, deliveryID, "completed"); err != nil {
		return common.SecureErrorMessage("complete delivery", err)
	}
	return nil
}
