package services

import (
	"context"
	"testing"
	"time"

	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockDB             pgxmock.PgxPoolIface
	mockInvoiceRepo    *MockInvoiceRepository
	mockCollectionRepo *MockCollectionRepository
	mockDeliveryRepo   *MockDeliveryRepository
	mockSupplierRepo   *MockSupplierRepository
	mockSocietyRepo    *MockSocietyRepository
	mockCache          *MockCacheService
	service            InvoiceServiceInterface
	tenantID           uuid.UUID
	supplierID         uuid.UUID
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mockDB = mockDB

	suite.mockInvoiceRepo = &MockInvoiceRepository{}
	suite.mockCollectionRepo = &MockCollectionRepository{}
	suite.mockDeliveryRepo = &MockDeliveryRepository{}
	suite.mockSupplierRepo = &MockSupplierRepository{}
	suite.mockSocietyRepo = &MockSocietyRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewInvoiceService(mockDB, suite.mockInvoiceRepo, suite.mockCollectionRepo, suite.mockDeliveryRepo, suite.mockSupplierRepo, suite.mockSocietyRepo, suite.mockCache)
	suite.tenantID = uuid.New()
	suite.supplierID = uuid.New()
}

func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.mockDB.Close()
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockCollectionRepo.AssertExpectations(suite.T())
	suite.mockDeliveryRepo.AssertExpectations(suite.T())
	suite.mockSupplierRepo.AssertExpectations(suite.T())
	suite.mockSocietyRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (suite *InvoiceServiceTestSuite) supplier(taxPercent, discountPercent string, termsDays int) *models.Supplier {
	return &models.Supplier{
		ID:               suite.supplierID,
		TenantID:         suite.tenantID,
		Name:             "Hillside Borewell",
		RateBasis:        "per_liter",
		NominalRate:      decimal.RequireFromString("0.45"),
		TaxPercent:       decimal.RequireFromString(taxPercent),
		DiscountPercent:  decimal.RequireFromString(discountPercent),
		PaymentTermsDays: termsDays,
	}
}

func billableTrip(amount string, occurredAt time.Time) repositories.BillableTrip {
	total := decimal.RequireFromString(amount)
	return repositories.BillableTrip{
		ID:             uuid.New(),
		OccurredAt:     occurredAt,
		QuantityLiters: decimal.NewFromInt(5000),
		PerLiterRate:   decimal.RequireFromString("0.45"),
		TotalAmount:    total,
	}
}

// billedTrip builds a trip already attached to a live invoice covering the
// given period.
func billedTrip(amount string, occurredAt time.Time, status string, periodStart, periodEnd time.Time) repositories.BillableTrip {
	trip := billableTrip(amount, occurredAt)
	invoiceID := uuid.New()
	trip.InvoiceID = &invoiceID
	trip.InvoiceStatus = &status
	trip.InvoicePeriodStart = &periodStart
	trip.InvoicePeriodEnd = &periodEnd
	return trip
}

func monthPeriod(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Second)
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_Success() {
	periodStart, periodEnd := monthPeriod(2025, time.March)
	trips := []repositories.BillableTrip{
		billableTrip("4000.00", periodStart.AddDate(0, 0, 4)),
		billableTrip("6000.00", periodStart.AddDate(0, 0, 18)),
	}

	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("5", "2", 30), nil).Once()
	suite.mockDB.ExpectBegin()
	suite.mockInvoiceRepo.On("AcquireGenerationLock", mock.Anything, mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()
	suite.mockCollectionRepo.On("LockBillable", mock.Anything, mock.Anything, suite.tenantID, suite.supplierID, periodStart, periodEnd).Return(trips, nil).Once()
	suite.mockInvoiceRepo.On("GenerateInvoiceNumber", mock.Anything, mock.Anything, suite.tenantID, mock.Anything).Return("INV-a1b2c3d4-2025-03-000001", nil).Once()
	suite.mockInvoiceRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCollectionRepo.On("AttachInvoice", mock.Anything, mock.Anything, suite.tenantID, mock.Anything, []uuid.UUID{trips[0].ID, trips[1].ID}).Return(nil).Once()
	suite.mockDB.ExpectCommit()
	suite.mockCache.On("InvalidateCounterparty", mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()

	invoice, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "supplier", suite.supplierID, periodStart, periodEnd)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "draft", invoice.Status)
	assert.Equal(suite.T(), "INV-a1b2c3d4-2025-03-000001", invoice.InvoiceNumber)
	// 10000 subtotal, 5% tax, 2% discount
	assert.True(suite.T(), invoice.Subtotal.Equal(decimal.RequireFromString("10000.00")), "subtotal %s", invoice.Subtotal)
	assert.True(suite.T(), invoice.Tax.Equal(decimal.RequireFromString("500.00")), "tax %s", invoice.Tax)
	assert.True(suite.T(), invoice.Discount.Equal(decimal.RequireFromString("200.00")), "discount %s", invoice.Discount)
	assert.True(suite.T(), invoice.TotalAmount.Equal(decimal.RequireFromString("10300.00")), "total %s", invoice.TotalAmount)
	assert.Len(suite.T(), invoice.Items, 2)
	assert.Equal(suite.T(), "collection", invoice.Items[0].SourceType)
	assert.Equal(suite.T(), periodStart, invoice.PeriodStart)
	assert.Equal(suite.T(), periodEnd.AddDate(0, 0, 30), invoice.DueDate)
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_SkipsAlreadyBilledTrips() {
	periodStart, periodEnd := monthPeriod(2025, time.March)
	billed := billedTrip("4000.00", periodStart.AddDate(0, 0, 4), "sent", periodStart, periodStart.AddDate(0, 0, 14))
	fresh := billableTrip("6000.00", periodStart.AddDate(0, 0, 20))
	trips := []repositories.BillableTrip{billed, fresh}

	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("0", "0", 30), nil).Once()
	suite.mockDB.ExpectBegin()
	suite.mockInvoiceRepo.On("AcquireGenerationLock", mock.Anything, mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()
	suite.mockCollectionRepo.On("LockBillable", mock.Anything, mock.Anything, suite.tenantID, suite.supplierID, periodStart, periodEnd).Return(trips, nil).Once()
	suite.mockInvoiceRepo.On("GenerateInvoiceNumber", mock.Anything, mock.Anything, suite.tenantID, mock.Anything).Return("INV-a1b2c3d4-2025-03-000002", nil).Once()
	suite.mockInvoiceRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCollectionRepo.On("AttachInvoice", mock.Anything, mock.Anything, suite.tenantID, mock.Anything, []uuid.UUID{fresh.ID}).Return(nil).Once()
	suite.mockDB.ExpectCommit()
	suite.mockCache.On("InvalidateCounterparty", mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()

	invoice, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "supplier", suite.supplierID, periodStart, periodEnd)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), invoice.Items, 1)
	assert.Equal(suite.T(), fresh.ID, invoice.Items[0].SourceID)
	assert.True(suite.T(), invoice.TotalAmount.Equal(decimal.RequireFromString("6000.00")), "total %s", invoice.TotalAmount)
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_AllTripsBilledIsNoOp() {
	periodStart, periodEnd := monthPeriod(2025, time.March)
	billed := billedTrip("4000.00", periodStart.AddDate(0, 0, 4), "sent", periodStart, periodEnd)

	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("0", "0", 30), nil).Once()
	suite.mockDB.ExpectBegin()
	suite.mockInvoiceRepo.On("AcquireGenerationLock", mock.Anything, mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()
	suite.mockCollectionRepo.On("LockBillable", mock.Anything, mock.Anything, suite.tenantID, suite.supplierID, periodStart, periodEnd).Return([]repositories.BillableTrip{billed}, nil).Once()
	suite.mockDB.ExpectRollback()

	_, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "supplier", suite.supplierID, periodStart, periodEnd)

	assert.ErrorIs(suite.T(), err, ErrNoBillableTransactions)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_CrossPeriodAttachmentRejected() {
	periodStart, periodEnd := monthPeriod(2025, time.March)
	// Attached to a live invoice covering February; it should never have
	// been selected for March in the first place.
	febStart, febEnd := monthPeriod(2025, time.February)
	billed := billedTrip("4000.00", periodStart.AddDate(0, 0, 4), "sent", febStart, febEnd)

	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("0", "0", 30), nil).Once()
	suite.mockDB.ExpectBegin()
	suite.mockInvoiceRepo.On("AcquireGenerationLock", mock.Anything, mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()
	suite.mockCollectionRepo.On("LockBillable", mock.Anything, mock.Anything, suite.tenantID, suite.supplierID, periodStart, periodEnd).Return([]repositories.BillableTrip{billed}, nil).Once()
	suite.mockDB.ExpectRollback()

	_, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "supplier", suite.supplierID, periodStart, periodEnd)

	assert.ErrorIs(suite.T(), err, ErrOverlap)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_CancelledInvoiceTripsRebillable() {
	periodStart, periodEnd := monthPeriod(2025, time.March)
	trip := billedTrip("4000.00", periodStart.AddDate(0, 0, 4), "cancelled", periodStart, periodEnd)

	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("0", "0", 15), nil).Once()
	suite.mockDB.ExpectBegin()
	suite.mockInvoiceRepo.On("AcquireGenerationLock", mock.Anything, mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()
	suite.mockCollectionRepo.On("LockBillable", mock.Anything, mock.Anything, suite.tenantID, suite.supplierID, periodStart, periodEnd).Return([]repositories.BillableTrip{trip}, nil).Once()
	suite.mockInvoiceRepo.On("GenerateInvoiceNumber", mock.Anything, mock.Anything, suite.tenantID, mock.Anything).Return("INV-a1b2c3d4-2025-03-000002", nil).Once()
	suite.mockInvoiceRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCollectionRepo.On("AttachInvoice", mock.Anything, mock.Anything, suite.tenantID, mock.Anything, []uuid.UUID{trip.ID}).Return(nil).Once()
	suite.mockDB.ExpectCommit()
	suite.mockCache.On("InvalidateCounterparty", mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()

	invoice, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "supplier", suite.supplierID, periodStart, periodEnd)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), invoice.TotalAmount.Equal(decimal.RequireFromString("4000.00")))
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_NoBillableTransactions() {
	periodStart, periodEnd := monthPeriod(2025, time.March)

	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("0", "0", 30), nil).Once()
	suite.mockDB.ExpectBegin()
	suite.mockInvoiceRepo.On("AcquireGenerationLock", mock.Anything, mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()
	suite.mockCollectionRepo.On("LockBillable", mock.Anything, mock.Anything, suite.tenantID, suite.supplierID, periodStart, periodEnd).Return([]repositories.BillableTrip{}, nil).Once()
	suite.mockDB.ExpectRollback()

	_, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "supplier", suite.supplierID, periodStart, periodEnd)

	assert.ErrorIs(suite.T(), err, ErrNoBillableTransactions)
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_SocietyUsesDeliveries() {
	periodStart, periodEnd := monthPeriod(2025, time.April)
	societyID := uuid.New()
	society := &models.Society{
		ID:               societyID,
		TenantID:         suite.tenantID,
		Name:             "Green Meadows RWA",
		RateBasis:        "per_tanker",
		NominalRate:      decimal.NewFromInt(1800),
		TaxPercent:       decimal.Zero,
		DiscountPercent:  decimal.Zero,
		PaymentTermsDays: 7,
	}
	trip := billableTrip("3600.00", periodStart.AddDate(0, 0, 10))

	suite.mockSocietyRepo.On("GetByID", mock.Anything, suite.tenantID, societyID).Return(society, nil).Once()
	suite.mockDB.ExpectBegin()
	suite.mockInvoiceRepo.On("AcquireGenerationLock", mock.Anything, mock.Anything, suite.tenantID, "society", societyID).Return(nil).Once()
	suite.mockDeliveryRepo.On("LockBillable", mock.Anything, mock.Anything, suite.tenantID, societyID, periodStart, periodEnd).Return([]repositories.BillableTrip{trip}, nil).Once()
	suite.mockInvoiceRepo.On("GenerateInvoiceNumber", mock.Anything, mock.Anything, suite.tenantID, mock.Anything).Return("INV-a1b2c3d4-2025-04-000001", nil).Once()
	suite.mockInvoiceRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockDeliveryRepo.On("AttachInvoice", mock.Anything, mock.Anything, suite.tenantID, mock.Anything, []uuid.UUID{trip.ID}).Return(nil).Once()
	suite.mockDB.ExpectCommit()
	suite.mockCache.On("InvalidateCounterparty", mock.Anything, suite.tenantID, "society", societyID).Return(nil).Once()

	invoice, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "society", societyID, periodStart, periodEnd)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "delivery", invoice.Items[0].SourceType)
	assert.Equal(suite.T(), periodEnd.AddDate(0, 0, 7), invoice.DueDate)
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_InvalidParty() {
	periodStart, periodEnd := monthPeriod(2025, time.March)

	_, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "driver", uuid.New(), periodStart, periodEnd)

	assert.Error(suite.T(), err)
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_InvertedPeriodRejected() {
	periodStart, periodEnd := monthPeriod(2025, time.March)

	_, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "supplier", suite.supplierID, periodEnd, periodStart)

	assert.Error(suite.T(), err)
	suite.mockSupplierRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGenerateInvoice_DeadlockSignalsRetry() {
	periodStart, periodEnd := monthPeriod(2025, time.March)
	deadlock := &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}

	suite.mockSupplierRepo.On("GetByID", mock.Anything, suite.tenantID, suite.supplierID).Return(suite.supplier("0", "0", 30), nil).Once()
	suite.mockDB.ExpectBegin()
	suite.mockInvoiceRepo.On("AcquireGenerationLock", mock.Anything, mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(deadlock).Once()
	suite.mockDB.ExpectRollback()

	_, err := suite.service.GenerateInvoice(context.Background(), suite.tenantID, "supplier", suite.supplierID, periodStart, periodEnd)

	assert.ErrorIs(suite.T(), err, ErrConcurrentModification)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_OnlyDraft() {
	invoiceID := uuid.New()
	invoice := &models.Invoice{ID: invoiceID, TenantID: suite.tenantID, Status: "sent"}

	suite.mockInvoiceRepo.On("GetByID", mock.Anything, suite.tenantID, invoiceID).Return(invoice, nil).Once()

	err := suite.service.SendInvoice(context.Background(), suite.tenantID, invoiceID)

	assert.Error(suite.T(), err)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_Success() {
	invoiceID := uuid.New()
	invoice := &models.Invoice{ID: invoiceID, TenantID: suite.tenantID, Status: "draft"}

	suite.mockInvoiceRepo.On("GetByID", mock.Anything, suite.tenantID, invoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateStatus", mock.Anything, suite.tenantID, invoiceID, "sent").Return(nil).Once()

	err := suite.service.SendInvoice(context.Background(), suite.tenantID, invoiceID)

	assert.NoError(suite.T(), err)
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_PaidRejected() {
	invoiceID := uuid.New()
	invoice := &models.Invoice{ID: invoiceID, TenantID: suite.tenantID, Status: "paid"}

	suite.mockInvoiceRepo.On("GetByID", mock.Anything, suite.tenantID, invoiceID).Return(invoice, nil).Once()

	err := suite.service.CancelInvoice(context.Background(), suite.tenantID, invoiceID)

	assert.Error(suite.T(), err)
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_Idempotent() {
	invoiceID := uuid.New()
	invoice := &models.Invoice{ID: invoiceID, TenantID: suite.tenantID, Status: "cancelled"}

	suite.mockInvoiceRepo.On("GetByID", mock.Anything, suite.tenantID, invoiceID).Return(invoice, nil).Once()

	err := suite.service.CancelInvoice(context.Background(), suite.tenantID, invoiceID)

	assert.NoError(suite.T(), err)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_Success() {
	invoiceID := uuid.New()
	invoice := &models.Invoice{ID: invoiceID, TenantID: suite.tenantID, Status: "sent", RelatedTo: "supplier", RelatedID: suite.supplierID}

	suite.mockInvoiceRepo.On("GetByID", mock.Anything, suite.tenantID, invoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateStatus", mock.Anything, suite.tenantID, invoiceID, "cancelled").Return(nil).Once()
	suite.mockCache.On("InvalidateCounterparty", mock.Anything, suite.tenantID, "supplier", suite.supplierID).Return(nil).Once()

	err := suite.service.CancelInvoice(context.Background(), suite.tenantID, invoiceID)

	assert.NoError(suite.T(), err)
}

func (suite *InvoiceServiceTestSuite) TestListInvoices_DerivesOverdueAtReadTime() {
	overdue := &models.Invoice{ID: uuid.New(), Status: "sent", DueDate: time.Now().AddDate(0, 0, -3)}
	current := &models.Invoice{ID: uuid.New(), Status: "sent", DueDate: time.Now().AddDate(0, 0, 3)}
	paid := &models.Invoice{ID: uuid.New(), Status: "paid", DueDate: time.Now().AddDate(0, 0, -3)}

	suite.mockInvoiceRepo.On("List", mock.Anything, suite.tenantID, 50, 0).Return([]*models.Invoice{overdue, current, paid}, nil).Once()

	invoices, err := suite.service.ListInvoices(context.Background(), suite.tenantID, 0, 0)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "overdue", invoices[0].Status)
	assert.Equal(suite.T(), "sent", invoices[1].Status)
	assert.Equal(suite.T(), "paid", invoices[2].Status)
}
