package services

import (
	"context"
	"time"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/rates"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionServiceInterface defines the interface for collection service operations
type CollectionServiceInterface interface {
	CreateCollection(ctx context.Context, tenantID uuid.UUID, input *TripInput) (*models.Collection, error)
	GetCollectionByID(ctx context.Context, tenantID, collectionID uuid.UUID) (*models.Collection, error)
	ListCollections(ctx context.Context, tenantID uuid.UUID, supplierID *uuid.UUID, limit, offset int) ([]*models.Collection, error)
	ListUnbilledCollections(ctx context.Context, tenantID, supplierID uuid.UUID) ([]*models.Collection, error)
	CompleteCollection(ctx context.Context, tenantID, collectionID uuid.UUID) error
}

// TripInput is the operator's raw input for one collection or delivery. The
// counterparty ID field is interpreted by the receiving service.
type TripInput struct {
	CounterpartyID uuid.UUID
	VehicleID      uuid.UUID
	DriverID       *uuid.UUID
	TankerCount    *int
	QuantityLiters *decimal.Decimal
	OccurredAt     time.Time
	Status         string
	Notes          *string
}

type collectionService struct {
	collectionRepo repositories.CollectionRepository
	supplierRepo   repositories.SupplierRepository
	vehicleRepo    repositories.VehicleRepository
}

// NewCollectionService creates a new collection service instance
func NewCollectionService(collectionRepo repositories.CollectionRepository, supplierRepo repositories.SupplierRepository, vehicleRepo repositories.VehicleRepository) CollectionServiceInterface {
	return &collectionService{
		collectionRepo: collectionRepo,
		supplierRepo:   supplierRepo,
		vehicleRepo:    vehicleRepo,
	}
}

// CreateCollection resolves the supplier's configured rate against the
// vehicle's capacity and stores the collection with its quantity, per-liter
// rate and total frozen. Later rate edits never touch recorded trips.
func (s *collectionService) CreateCollection(ctx context.Context, tenantID uuid.UUID, input *TripInput) (*models.Collection, error) {
	if input.Status == "" {
		input.Status = "completed"
	}
	if err := common.ValidateTripStatus(input.Status); err != nil {
		return nil, err
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = time.Now()
	}

	supplier, err := s.supplierRepo.GetByID(ctx, tenantID, input.CounterpartyID)
	if err != nil {
		return nil, common.SecureErrorMessage("load supplier", err)
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, tenantID, input.VehicleID)
	if err != nil {
		return nil, common.SecureErrorMessage("load vehicle", err)
	}

	resolution, err := rates.Resolve(rates.Input{
		TankerCount:            input.TankerCount,
		VehicleCapacityLiters:  vehicle.CapacityLiters,
		NominalRate:            supplier.NominalRate,
		Basis:                  rates.RateBasis(supplier.RateBasis),
		ExplicitQuantityLiters: input.QuantityLiters,
	})
	if err != nil {
		return nil, err
	}

	collection := &models.Collection{
		ID:             uuid.New(),
		TenantID:       tenantID,
		SupplierID:     supplier.ID,
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

	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, common.SecureErrorMessage("create collection", err)
	}
	return collection, nil
}

func (s *collectionService) GetCollectionByID(ctx context.Context, tenantID, collectionID uuid.UUID) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, tenantID, collectionID)
	if err != nil {
		return nil, common.SecureErrorMessage("get collection", err)
	}
	return collection, nil
}

func (s *collectionService) ListCollections(ctx context.Context, tenantID uuid.UUID, supplierID *uuid.UUID, limit, offset int) ([]*models.Collection, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	collections, err := s.collectionRepo.List(ctx, tenantID, supplierID, limit, offset)
	if err != nil {
		return nil, common.SecureErrorMessage("list collections", err)
	}
	return collections, nil
}

func (s *collectionService) ListUnbilledCollections(ctx context.Context, tenantID, supplierID uuid.UUID) ([]*models.Collection, error) {
	collections, err := s.collectionRepo.ListUnbilled(ctx, tenantID, supplierID)
	if err != nil {
		return nil, common.SecureErrorMessage("list unbilled collections", err)
	}
	return collections, nil
}

func (s *collectionService) CompleteCollection(ctx context.Context, tenantID, collectionID uuid.UUID) error {
	if err := s.collectionRepo.UpdateStatus(ctx, tenantID, collectionID, "completed"); err != nil {
		return common.SecureErrorMessage("complete collection", err)
	}
	return nil
}
