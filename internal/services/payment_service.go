package services

import (
	"context"
	"fmt"
	"time"

	"tankbill/internal/caching"
	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentServiceInterface defines the interface for payment service operations
type PaymentServiceInterface interface {
	RecordPayment(ctx context.Context, tenantID uuid.UUID, input *PaymentInput) (*models.Payment, error)
	PayExpense(ctx context.Context, tenantID, expenseID uuid.UUID, method string, referenceNumber *string) (*models.Payment, error)
	GetPaymentByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*models.Payment, error)
	ListPayments(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, from, to *time.Time) ([]*models.Payment, error)
	ListPaymentsByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*models.Payment, error)
}

// PaymentInput is one settlement reported by the vendor. InvoiceID is
// optional; without it the payment is a running-balance credit against the
// counterparty.
type PaymentInput struct {
	Type            string
	RelatedTo       string
	RelatedID       uuid.UUID
	InvoiceID       *uuid.UUID
	Amount          decimal.Decimal
	PaymentMethod   string
	PaymentDate     time.Time
	ReferenceNumber *string
}

type paymentService struct {
	db          txBeginner
	paymentRepo repositories.PaymentRepository
	invoiceRepo repositories.InvoiceRepository
	expenseRepo repositories.ExpenseRepository
	cache       caching.CacheService
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(db txBeginner, paymentRepo repositories.PaymentRepository, invoiceRepo repositories.InvoiceRepository, expenseRepo repositories.ExpenseRepository, cache caching.CacheService) PaymentServiceInterface {
	return &paymentService{
		db:          db,
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		expenseRepo: expenseRepo,
		cache:       cache,
	}
}

// RecordPayment stores one settlement. Payments against an invoice are
// validated inside a transaction that locks the invoice row, so two
// concurrent payments cannot jointly exceed its balance. When the invoice is
// fully settled it flips to paid in the same transaction.
func (s *paymentService) RecordPayment(ctx context.Context, tenantID uuid.UUID, input *PaymentInput) (*models.Payment, error) {
	if err := common.ValidatePaymentType(input.Type); err != nil {
		return nil, err
	}
	if err := common.ValidatePaymentMethod(input.PaymentMethod); err != nil {
		return nil, err
	}
	if err := common.ValidatePositiveAmount(input.Amount, "amount"); err != nil {
		return nil, err
	}
	if err := common.ValidateCounterpartyType(input.RelatedTo); err != nil {
		return nil, err
	}
	if input.PaymentDate.IsZero() {
		input.PaymentDate = time.Now()
	}

	payment := &models.Payment{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Type:            input.Type,
		RelatedTo:       input.RelatedTo,
		RelatedID:       input.RelatedID,
		InvoiceID:       input.InvoiceID,
		Amount:          input.Amount,
		PaymentMethod:   input.PaymentMethod,
		PaymentDate:     input.PaymentDate,
		ReferenceNumber: input.ReferenceNumber,
		Status:          "completed",
	}

	if input.InvoiceID == nil {
		// Unattributed lump payment. It reduces the counterparty's running
		// balance but is never allocated to specific invoices.
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, common.SecureErrorMessage("record payment", err)
		}
		s.invalidate(ctx, tenantID, input.RelatedTo, input.RelatedID)
		return payment, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, common.SecureErrorMessage("begin payment transaction", err)
	}
	defer tx.Rollback(ctx)

	invoice, err := s.invoiceRepo.GetByIDForUpdate(ctx, tx, tenantID, *input.InvoiceID)
	if err != nil {
		return nil, classifyLockError("lock invoice", err)
	}
	if invoice.Status == "cancelled" {
		return nil, fmt.Errorf("payments cannot be recorded against a cancelled invoice")
	}
	if invoice.Status == "draft" {
		return nil, fmt.Errorf("invoice has not been sent yet")
	}

	alreadyPaid, err := s.paymentRepo.SumCompletedByInvoiceTx(ctx, tx, tenantID, *input.InvoiceID)
	if err != nil {
		return nil, common.SecureErrorMessage("sum invoice payments", err)
	}

	remaining := invoice.TotalAmount.Sub(alreadyPaid)
	if input.Amount.GreaterThan(remaining) {
		return nil, fmt.Errorf("%w: remaining balance is %s, payment is %s", ErrOverpaymentRejected, remaining.StringFixed(2), input.Amount.StringFixed(2))
	}

	if err := s.paymentRepo.CreateTx(ctx, tx, payment); err != nil {
		return nil, common.SecureErrorMessage("record payment", err)
	}

	if alreadyPaid.Add(input.Amount).Equal(invoice.TotalAmount) {
		if err := s.invoiceRepo.MarkPaidTx(ctx, tx, tenantID, invoice.ID, input.PaymentDate); err != nil {
			return nil, common.SecureErrorMessage("mark invoice paid", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyLockError("commit payment transaction", err)
	}

	s.invalidate(ctx, tenantID, invoice.RelatedTo, invoice.RelatedID)
	return payment, nil
}

// PayExpense reimburses an approved expense and marks it paid in one
// transaction. The expense row is locked so a double-submitted payout
// request settles exactly once.
func (s *paymentService) PayExpense(ctx context.Context, tenantID, expenseID uuid.UUID, method string, referenceNumber *string) (*models.Payment, error) {
	if err := common.ValidatePaymentMethod(method); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, common.SecureErrorMessage("begin payout transaction", err)
	}
	defer tx.Rollback(ctx)

	expense, err := s.expenseRepo.GetByIDForUpdate(ctx, tx, tenantID, expenseID)
	if err != nil {
		return nil, classifyLockError("lock expense", err)
	}
	if expense.Status != "approved" {
		return nil, fmt.Errorf("%w: expense is %s, only approved expenses can be paid", ErrInvalidExpenseState, expense.Status)
	}

	payment := &models.Payment{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Type:            "expense",
		RelatedTo:       "driver",
		RelatedID:       expense.DriverID,
		ExpenseID:       &expense.ID,
		Amount:          expense.Amount,
		PaymentMethod:   method,
		PaymentDate:     time.Now(),
		ReferenceNumber: referenceNumber,
		Status:          "completed",
	}

	if err := s.paymentRepo.CreateTx(ctx, tx, payment); err != nil {
		return nil, common.SecureErrorMessage("record payout", err)
	}
	if err := s.expenseRepo.UpdateStatusTx(ctx, tx, tenantID, expenseID, "paid"); err != nil {
		return nil, common.SecureErrorMessage("mark expense paid", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyLockError("commit payout transaction", err)
	}
	return payment, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, common.SecureErrorMessage("get payment", err)
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, from, to *time.Time) ([]*models.Payment, error) {
	payments, err := s.paymentRepo.List(ctx, tenantID, relatedTo, relatedID, from, to)
	if err != nil {
		return nil, common.SecureErrorMessage("list payments", err)
	}
	return payments, nil
}

func (s *paymentService) ListPaymentsByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*models.Payment, error) {
	payments, err := s.paymentRepo.ListByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, common.SecureErrorMessage("list invoice payments", err)
	}
	return payments, nil
}

func (s *paymentService) invalidate(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateCounterparty(ctx, tenantID, relatedTo, relatedID)
	}
}
