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
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// InvoiceServiceInterface defines the interface for invoice service operations
type InvoiceServiceInterface interface {
	GenerateInvoice(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, periodStart, periodEnd time.Time) (*models.Invoice, error)
	GetInvoiceByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	SendInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error
	CancelInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error
}

// billingConfig is the counterparty-level configuration applied at invoice
// generation time.
type billingConfig struct {
	taxPercent       decimal.Decimal
	discountPercent  decimal.Decimal
	paymentTermsDays int
}

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type invoiceService struct {
	db             txBeginner
	invoiceRepo    repositories.InvoiceRepository
	collectionRepo repositories.CollectionRepository
	deliveryRepo   repositories.DeliveryRepository
	supplierRepo   repositories.SupplierRepository
	societyRepo    repositories.SocietyRepository
	cache          caching.CacheService
}

// NewInvoiceService creates a new invoice service instance
func NewInvoiceService(db txBeginner, invoiceRepo repositories.InvoiceRepository, collectionRepo repositories.CollectionRepository, deliveryRepo repositories.DeliveryRepository, supplierRepo repositories.SupplierRepository, societyRepo repositories.SocietyRepository, cache caching.CacheService) InvoiceServiceInterface {
	return &invoiceService{
		db:             db,
		invoiceRepo:    invoiceRepo,
		collectionRepo: collectionRepo,
		deliveryRepo:   deliveryRepo,
		supplierRepo:   supplierRepo,
		societyRepo:    societyRepo,
		cache:          cache,
	}
}

// GenerateInvoice rolls every unbilled completed trip of one counterparty in
// the given period into a single invoice. Trips already attached to a live
// invoice are skipped, so regenerating an overlapping period is a safe no-op
// for them. Generation is serialized per counterparty with an advisory lock
// and the candidate trips are row-locked, so two concurrent requests for the
// same period produce one invoice and one error, never two invoices.
func (s *invoiceService) GenerateInvoice(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, periodStart, periodEnd time.Time) (*models.Invoice, error) {
	if err := common.ValidateInvoiceParty(relatedTo); err != nil {
		return nil, err
	}
	if err := common.ValidateDateRange(periodStart, periodEnd); err != nil {
		return nil, err
	}

	config, err := s.loadBillingConfig(ctx, tenantID, relatedTo, relatedID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, common.SecureErrorMessage("begin invoice transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := s.invoiceRepo.AcquireGenerationLock(ctx, tx, tenantID, relatedTo, relatedID); err != nil {
		return nil, classifyLockError("acquire generation lock", err)
	}

	var trips []repositories.BillableTrip
	switch relatedTo {
	case "supplier":
		trips, err = s.collectionRepo.LockBillable(ctx, tx, tenantID, relatedID, periodStart, periodEnd)
	case "society":
		trips, err = s.deliveryRepo.LockBillable(ctx, tx, tenantID, relatedID, periodStart, periodEnd)
	}
	if err != nil {
		return nil, classifyLockError("lock billable trips", err)
	}

	billable := make([]repositories.BillableTrip, 0, len(trips))
	for _, trip := range trips {
		if trip.InvoiceID != nil && (trip.InvoiceStatus == nil || *trip.InvoiceStatus != "cancelled") {
			// Already billed. A live attachment whose invoice period does
			// not even overlap the requested range means some earlier
			// generation mis-filed the trip; surface that instead of
			// silently skipping it.
			if trip.InvoicePeriodStart != nil && trip.InvoicePeriodEnd != nil &&
				(trip.InvoicePeriodEnd.Before(periodStart) || trip.InvoicePeriodStart.After(periodEnd)) {
				return nil, fmt.Errorf("%w: trip %s is billed on invoice %s for a different period", ErrOverlap, trip.ID, *trip.InvoiceID)
			}
			continue
		}
		billable = append(billable, trip)
	}
	if len(billable) == 0 {
		return nil, ErrNoBillableTransactions
	}

	issuedDate := time.Now()
	invoiceNumber, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tx, tenantID, issuedDate)
	if err != nil {
		return nil, common.SecureErrorMessage("generate invoice number", err)
	}

	sourceType := "collection"
	if relatedTo == "society" {
		sourceType = "delivery"
	}

	invoiceID := uuid.New()
	subtotal := decimal.Zero
	items := make([]*models.InvoiceItem, 0, len(billable))
	tripIDs := make([]uuid.UUID, 0, len(billable))
	for _, trip := range billable {
		subtotal = subtotal.Add(trip.TotalAmount)
		tripIDs = append(tripIDs, trip.ID)
		items = append(items, &models.InvoiceItem{
			ID:             uuid.New(),
			InvoiceID:      invoiceID,
			SourceType:     sourceType,
			SourceID:       trip.ID,
			OccurredAt:     trip.OccurredAt,
			QuantityLiters: trip.QuantityLiters,
			PerLiterRate:   trip.PerLiterRate,
			Amount:         trip.TotalAmount,
		})
	}

	hundred := decimal.NewFromInt(100)
	tax := subtotal.Mul(config.taxPercent).Div(hundred).Round(2)
	discount := subtotal.Mul(config.discountPercent).Div(hundred).Round(2)
	total := subtotal.Add(tax).Sub(discount).Round(2)

	invoice := &models.Invoice{
		ID:            invoiceID,
		TenantID:      tenantID,
		InvoiceNumber: invoiceNumber,
		RelatedTo:     relatedTo,
		RelatedID:     relatedID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      discount,
		TotalAmount:   total,
		Status:        "draft",
		IssuedDate:    issuedDate,
		DueDate:       periodEnd.AddDate(0, 0, config.paymentTermsDays),
		Items:         items,
	}

	if err := s.invoiceRepo.CreateTx(ctx, tx, invoice); err != nil {
		return nil, common.SecureErrorMessage("create invoice", err)
	}

	switch relatedTo {
	case "supplier":
		err = s.collectionRepo.AttachInvoice(ctx, tx, tenantID, invoiceID, tripIDs)
	case "society":
		err = s.deliveryRepo.AttachInvoice(ctx, tx, tenantID, invoiceID, tripIDs)
	}
	if err != nil {
		return nil, common.SecureErrorMessage("attach trips to invoice", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyLockError("commit invoice transaction", err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateCounterparty(ctx, tenantID, relatedTo, relatedID)
	}
	return invoice, nil
}

func (s *invoiceService) loadBillingConfig(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (billingConfig, error) {
	switch relatedTo {
	case "supplier":
		supplier, err := s.supplierRepo.GetByID(ctx, tenantID, relatedID)
		if err != nil {
			return billingConfig{}, common.SecureErrorMessage("load supplier", err)
		}
		return billingConfig{
			taxPercent:       supplier.TaxPercent,
			discountPercent:  supplier.DiscountPercent,
			paymentTermsDays: supplier.PaymentTermsDays,
		}, nil
	case "society":
		society, err := s.societyRepo.GetByID(ctx, tenantID, relatedID)
		if err != nil {
			return billingConfig{}, common.SecureErrorMessage("load society", err)
		}
		return billingConfig{
			taxPercent:       society.TaxPercent,
			discountPercent:  society.DiscountPercent,
			paymentTermsDays: society.PaymentTermsDays,
		}, nil
	}
	return billingConfig{}, fmt.Errorf("invoices can only relate to a supplier or a society")
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, common.SecureErrorMessage("get invoice", err)
	}
	if invoice.IsOverdue(time.Now()) {
		invoice.Status = "overdue"
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	invoices, err := s.invoiceRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, common.SecureErrorMessage("list invoices", err)
	}
	now := time.Now()
	for _, invoice := range invoices {
		if invoice.IsOverdue(now) {
			invoice.Status = "overdue"
		}
	}
	return invoices, nil
}

// SendInvoice issues a draft invoice to the counterparty. Totals are frozen
// from this point on.
func (s *invoiceService) SendInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return common.SecureErrorMessage("get invoice", err)
	}
	if invoice.Status != "draft" {
		return fmt.Errorf("only draft invoices can be sent, invoice is %s", invoice.Status)
	}
	if err := s.invoiceRepo.UpdateStatus(ctx, tenantID, invoiceID, "sent"); err != nil {
		return common.SecureErrorMessage("send invoice", err)
	}
	return nil
}

// CancelInvoice voids an unpaid invoice. Its trips become billable again and
// are picked up by the next generation run.
func (s *invoiceService) CancelInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return common.SecureErrorMessage("get invoice", err)
	}
	if invoice.Status == "paid" {
		return fmt.Errorf("paid invoices cannot be cancelled")
	}
	if invoice.Status == "cancelled" {
		return nil
	}
	if err := s.invoiceRepo.UpdateStatus(ctx, tenantID, invoiceID, "cancelled"); err != nil {
		return common.SecureErrorMessage("cancel invoice", err)
	}
	if s.cache != nil {
		_ = s.cache.InvalidateCounterparty(ctx, tenantID, invoice.RelatedTo, invoice.RelatedID)
	}
	return nil
}
