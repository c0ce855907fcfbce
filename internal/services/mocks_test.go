package services

import (
	"context"
	"time"

	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Shared mock repositories for the service tests in this package.

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateTx(ctx context.Context, tx pgx.Tx, invoice *models.Invoice) error {
	args := m.Called(ctx, tx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, tx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListByCounterparty(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) ([]*models.Invoice, error) {
	args := m.Called(ctx, tenantID, relatedTo, relatedID)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkPaidTx(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID, paidDate time.Time) error {
	args := m.Called(ctx, tx, tenantID, id, paidDate)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, issuedDate time.Time) (string, error) {
	args := m.Called(ctx, tx, tenantID, issuedDate)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) AcquireGenerationLock(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) error {
	args := m.Called(ctx, tx, tenantID, relatedTo, relatedID)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) CreateTx(ctx context.Context, tx pgx.Tx, payment *models.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, from, to *time.Time) ([]*models.Payment, error) {
	args := m.Called(ctx, tenantID, relatedTo, relatedID, from, to)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*models.Payment, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumCompletedByInvoiceTx(ctx context.Context, tx pgx.Tx, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, tenantID, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SumCompletedByInvoices(ctx context.Context, tenantID uuid.UUID, invoiceIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, invoiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SumUnattributedCredits(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, relatedTo, relatedID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SumCompletedForPeriod(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, relatedTo, relatedID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockCollectionRepository) List(ctx context.Context, tenantID uuid.UUID, supplierID *uuid.UUID, limit, offset int) ([]*models.Collection, error) {
	args := m.Called(ctx, tenantID, supplierID, limit, offset)
	return args.Get(0).([]*models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) ListUnbilled(ctx context.Context, tenantID, supplierID uuid.UUID) ([]*models.Collection, error) {
	args := m.Called(ctx, tenantID, supplierID)
	return args.Get(0).([]*models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) LockBillable(ctx context.Context, tx pgx.Tx, tenantID, supplierID uuid.UUID, periodStart, periodEnd time.Time) ([]repositories.BillableTrip, error) {
	args := m.Called(ctx, tx, tenantID, supplierID, periodStart, periodEnd)
	return args.Get(0).([]repositories.BillableTrip), args.Error(1)
}

func (m *MockCollectionRepository) AttachInvoice(ctx context.Context, tx pgx.Tx, tenantID, invoiceID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, tx, tenantID, invoiceID, ids)
	return args.Error(0)
}

func (m *MockCollectionRepository) MonthlyTotals(ctx context.Context, tenantID, supplierID uuid.UUID, monthStart, monthEnd time.Time) (repositories.PeriodTotals, error) {
	args := m.Called(ctx, tenantID, supplierID, monthStart, monthEnd)
	return args.Get(0).(repositories.PeriodTotals), args.Error(1)
}

type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) Create(ctx context.Context, delivery *models.Delivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *MockDeliveryRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Delivery, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockDeliveryRepository) List(ctx context.Context, tenantID uuid.UUID, societyID *uuid.UUID, limit, offset int) ([]*models.Delivery, error) {
	args := m.Called(ctx, tenantID, societyID, limit, offset)
	return args.Get(0).([]*models.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) LockBillable(ctx context.Context, tx pgx.Tx, tenantID, societyID uuid.UUID, periodStart, periodEnd time.Time) ([]repositories.BillableTrip, error) {
	args := m.Called(ctx, tx, tenantID, societyID, periodStart, periodEnd)
	return args.Get(0).([]repositories.BillableTrip), args.Error(1)
}

func (m *MockDeliveryRepository) AttachInvoice(ctx context.Context, tx pgx.Tx, tenantID, invoiceID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, tx, tenantID, invoiceID, ids)
	return args.Error(0)
}

func (m *MockDeliveryRepository) MonthlyTotals(ctx context.Context, tenantID, societyID uuid.UUID, monthStart, monthEnd time.Time) (repositories.PeriodTotals, error) {
	args := m.Called(ctx, tenantID, societyID, monthStart, monthEnd)
	return args.Get(0).(repositories.PeriodTotals), args.Error(1)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*models.Supplier, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Supplier, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Supplier), args.Error(1)
}

type MockSocietyRepository struct {
	mock.Mock
}

func (m *MockSocietyRepository) Create(ctx context.Context, society *models.Society) error {
	args := m.Called(ctx, society)
	return args.Error(0)
}

func (m *MockSocietyRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Society, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Society), args.Error(1)
}

func (m *MockSocietyRepository) GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*models.Society, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Society), args.Error(1)
}

func (m *MockSocietyRepository) Update(ctx context.Context, society *models.Society) error {
	args := m.Called(ctx, society)
	return args.Error(0)
}

func (m *MockSocietyRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockSocietyRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Society, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Society), args.Error(1)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Expense, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expense), args.Error(1)
}

func (m *MockExpenseRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) (*models.Expense, error) {
	args := m.Called(ctx, tx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID, status string) error {
	args := m.Called(ctx, tx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockExpenseRepository) List(ctx context.Context, tenantID uuid.UUID, driverID *uuid.UUID, status *string, limit, offset int) ([]*models.Expense, error) {
	args := m.Called(ctx, tenantID, driverID, status, limit, offset)
	return args.Get(0).([]*models.Expense), args.Error(1)
}

type MockDriverRepository struct {
	mock.Mock
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

func (m *MockDriverRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Driver, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *models.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

func (m *MockDriverRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockDriverRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Driver, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Driver), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vehicle, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockVehicleRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Vehicle, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Vehicle), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetOutstanding(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (*models.CounterpartyOutstanding, error) {
	args := m.Called(ctx, tenantID, relatedTo, relatedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CounterpartyOutstanding), args.Error(1)
}

func (m *MockCacheService) SetOutstanding(ctx context.Context, tenantID uuid.UUID, summary *models.CounterpartyOutstanding, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteOutstanding(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) error {
	args := m.Called(ctx, tenantID, relatedTo, relatedID)
	return args.Error(0)
}

func (m *MockCacheService) GetMonthlySummary(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, month string) (*models.MonthlySummary, error) {
	args := m.Called(ctx, tenantID, relatedTo, relatedID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlySummary), args.Error(1)
}

func (m *MockCacheService) SetMonthlySummary(ctx context.Context, tenantID uuid.UUID, summary *models.MonthlySummary, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateCounterparty(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) error {
	args := m.Called(ctx, tenantID, relatedTo, relatedID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
