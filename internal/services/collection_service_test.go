package services

import (
	"context"
	"testing"

	"tankbill/internal/models"
	"tankbill/internal/rates"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CollectionServiceTestSuite struct {
	suite.Suite
	mockCollectionRepo *MockCollectionRepository
	mockSupplierRepo   *MockSupplierRepository
	mockVehicleRepo    *MockVehicleRepository
	service            CollectionServiceInterface
	tenantID           uuid.UUID
	supplierID         uuid.UUID
	vehicleID          uuid.UUID
}

func (suite *CollectionServiceTestSuite) SetupTest() {
	suite.mockCollectionRepo = &MockCollectionRepository{}
	suite.mockSupplierRepo = &MockSupplierRepository{}
	suite.mockVehicleRepo = &MockVehicleRepository{}
	suite.service = NewCollectionService(suite.mockCollectionRepo, suite.mockSupplierRepo, suite.mockVehicleRepo)
	suite.tenantID = uuid.New()
	suite.supplierID = uuid.New()
	suite.vehicleID = uuid.New()
}

func (suite *CollectionServiceTestSuite) TearDownTest() {
	suite.mockCollectionRepo.AssertExpectations(suite.T())
	suite.mockSupplierRepo.AssertExpectations(suite.T())
	suite.mockVehicleRepo.AssertExpectations(suite.T())
}

func TestCollectionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CollectionServiceTestSuite))
}

func (suite *CollectionServiceTestSuite) supplier(basis, rate string) *models.Supplier {
	return &models.Supplier{
		ID:          suite.supplierID,
		TenantID:    suite.tenantID,
		Name:        "Hillside Borewell",
		RateBasis:   basis,
		NominalRate: decimal.RequireFromString(rate),
	}
}

func (suite *CollectionServiceTestSuite) vehicle(capacity string) *models.Vehicle {
	return &models.Vehicle{
		ID:             suite.vehicleID,
		TenantID:       suite.tenantID,
		CapacityLiters: decimal.RequireFromString(capacity),
	}
}

func (suite *CollectionServiceTestSuite) TestCreateCollection_PerTankerRateNormalized() {
	tankers := 2

	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("per_tanker", "1800"), nil).Once()
	suite.mockVehicleRepo.On("GetByID", mock.Anything, suite.tenantID, suite.vehicleID).Return(suite.vehicle("6000"), nil).Once()
	suite.mockCollectionRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	collection, err := suite.service.CreateCollection(context.Background(), suite.tenantID, &TripInput{
		CounterpartyID: suite.supplierID,
		VehicleID:      suite.vehicleID,
		TankerCount:    &tankers,
	})

	assert.NoError(suite.T(), err)
	// 2 tankers of 6000L at 1800 per tanker: 12000L at 0.3/L, total 3600.
	assert.True(suite.T(), collection.QuantityLiters.Equal(decimal.NewFromInt(12000)), "quantity %s", collection.QuantityLiters)
	assert.True(suite.T(), collection.PerLiterRate.Equal(decimal.RequireFromString("0.3")), "rate %s", collection.PerLiterRate)
	assert.True(suite.T(), collection.TotalAmount.Equal(decimal.NewFromInt(3600)), "total %s", collection.TotalAmount)
	assert.Equal(suite.T(), "completed", collection.Status)
	assert.Nil(suite.T(), collection.InvoiceID)
}

func (suite *CollectionServiceTestSuite) TestCreateCollection_PerLiterExplicitQuantity() {
	quantity := decimal.NewFromInt(8000)

	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("per_liter", "0.45"), nil).Once()
	suite.mockVehicleRepo.On("GetByID", mock.Anything, suite.tenantID, suite.vehicleID).Return(suite.vehicle("6000"), nil).Once()
	suite.mockCollectionRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	collection, err := suite.service.CreateCollection(context.Background(), suite.tenantID, &TripInput{
		CounterpartyID: suite.supplierID,
		VehicleID:      suite.vehicleID,
		QuantityLiters: &quantity,
	})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), collection.QuantityLiters.Equal(quantity))
	assert.True(suite.T(), collection.TotalAmount.Equal(decimal.RequireFromString("3600.00")), "total %s", collection.TotalAmount)
}

func (suite *CollectionServiceTestSuite) TestCreateCollection_MissingQuantityInput() {
	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("per_liter", "0.45"), nil).Once()
	suite.mockVehicleRepo.On("GetByID", mock.Anything, suite.tenantID, suite.vehicleID).Return(suite.vehicle("6000"), nil).Once()

	_, err := suite.service.CreateCollection(context.Background(), suite.tenantID, &TripInput{
		CounterpartyID: suite.supplierID,
		VehicleID:      suite.vehicleID,
	})

	assert.ErrorIs(suite.T(), err, rates.ErrInvalidRateInput)
	suite.mockCollectionRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *CollectionServiceTestSuite) TestCreateCollection_InvalidStatus() {
	tankers := 1

	_, err := suite.service.CreateCollection(context.Background(), suite.tenantID, &TripInput{
		CounterpartyID: suite.supplierID,
		VehicleID:      suite.vehicleID,
		TankerCount:    &tankers,
		Status:         "in_flight",
	})

	assert.Error(suite.T(), err)
}
