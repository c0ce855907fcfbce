package services

import (
	"context"
	"time"

	"tankbill/internal/caching"
	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	outstandingCacheTTL    = 5 * time.Minute
	monthlySummaryCacheTTL = 15 * time.Minute
)

// ReconciliationServiceInterface defines the interface for reconciliation views
type ReconciliationServiceInterface interface {
	CounterpartyOutstanding(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (*models.CounterpartyOutstanding, error)
	SupplierOutstanding(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.SupplierOutstanding, error)
	MonthlySummary(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, month time.Time) (*models.MonthlySummary, error)
}

type reconciliationService struct {
	invoiceRepo    repositories.InvoiceRepository
	paymentRepo    repositories.PaymentRepository
	collectionRepo repositories.CollectionRepository
	deliveryRepo   repositories.DeliveryRepository
	supplierRepo   repositories.SupplierRepository
	societyRepo    repositories.SocietyRepository
	cache          caching.CacheService
}

// NewReconciliationService creates a new reconciliation service instance
func NewReconciliationService(invoiceRepo repositories.InvoiceRepository, paymentRepo repositories.PaymentRepository, collectionRepo repositories.CollectionRepository, deliveryRepo repositories.DeliveryRepository, supplierRepo repositories.SupplierRepository, societyRepo repositories.SocietyRepository, cache caching.CacheService) ReconciliationServiceInterface {
	return &reconciliationService{
		invoiceRepo:    invoiceRepo,
		paymentRepo:    paymentRepo,
		collectionRepo: collectionRepo,
		deliveryRepo:   deliveryRepo,
		supplierRepo:   supplierRepo,
		societyRepo:    societyRepo,
		cache:          cache,
	}
}

// CounterpartyOutstanding derives the live balance for one supplier or
// society from its issued invoices and completed payments. A counterparty
// with no history gets a zero summary, not an error.
func (s *reconciliationService) CounterpartyOutstanding(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (*models.CounterpartyOutstanding, error) {
	if err := common.ValidateInvoiceParty(relatedTo); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.GetOutstanding(ctx, tenantID, relatedTo, relatedID); err == nil && cached != nil {
			return cached, nil
		}
	}

	summary, err := s.buildOutstanding(ctx, tenantID, relatedTo, relatedID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetOutstanding(ctx, tenantID, summary, outstandingCacheTTL)
	}
	return summary, nil
}

func (s *reconciliationService) buildOutstanding(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (*models.CounterpartyOutstanding, error) {
	name, err := s.counterpartyName(ctx, tenantID, relatedTo, relatedID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListByCounterparty(ctx, tenantID, relatedTo, relatedID)
	if err != nil {
		return nil, common.SecureErrorMessage("list invoices", err)
	}

	// Draft invoices are not yet issued and cancelled ones are void;
	// neither contributes to the balance.
	issued := make([]*models.Invoice, 0, len(invoices))
	issuedIDs := make([]uuid.UUID, 0, len(invoices))
	for _, invoice := range invoices {
		if invoice.Status == "draft" || invoice.Status == "cancelled" {
			continue
		}
		issued = append(issued, invoice)
		issuedIDs = append(issuedIDs, invoice.ID)
	}

	paidByInvoice, err := s.paymentRepo.SumCompletedByInvoices(ctx, tenantID, issuedIDs)
	if err != nil {
		return nil, common.SecureErrorMessage("sum invoice payments", err)
	}

	now := time.Now()
	invoicedTotal := decimal.Zero
	paidTotal := decimal.Zero
	balances := make([]*models.InvoiceBalance, 0, len(issued))
	for _, invoice := range issued {
		paid, ok := paidByInvoice[invoice.ID]
		if !ok {
			paid = decimal.Zero
		}

		invoicedTotal = invoicedTotal.Add(invoice.TotalAmount)
		paidTotal = paidTotal.Add(paid)
		balances = append(balances, &models.InvoiceBalance{
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			PeriodStart:   invoice.PeriodStart,
			PeriodEnd:     invoice.PeriodEnd,
			TotalAmount:   invoice.TotalAmount,
			PaidAmount:    paid,
			Balance:       invoice.TotalAmount.Sub(paid),
			Status:        invoice.Status,
			DueDate:       invoice.DueDate,
			Overdue:       invoice.IsOverdue(now),
		})
	}

	credits, err := s.paymentRepo.SumUnattributedCredits(ctx, tenantID, relatedTo, relatedID)
	if err != nil {
		return nil, common.SecureErrorMessage("sum unattributed credits", err)
	}

	raw := invoicedTotal.Sub(paidTotal).Sub(credits)
	outstanding := raw
	if outstanding.Sign() < 0 {
		outstanding = decimal.Zero
	}

	return &models.CounterpartyOutstanding{
		RelatedTo:           relatedTo,
		RelatedID:           relatedID,
		Name:                name,
		InvoicedTotal:       invoicedTotal,
		PaidTotal:           paidTotal,
		UnattributedCredits: credits,
		Outstanding:         outstanding,
		RawOutstanding:      raw,
		OverpaymentWarning:  raw.Sign() < 0,
		Invoices:            balances,
		AsOf:                now,
	}, nil
}

// SupplierOutstanding extends the invoice-derived balance with completed
// collections that no invoice has picked up yet.
func (s *reconciliationService) SupplierOutstanding(ctx context.Context, tenantID, supplierID uuid.UUID) (*models.SupplierOutstanding, error) {
	base, err := s.CounterpartyOutstanding(ctx, tenantID, "supplier", supplierID)
	if err != nil {
		return nil, err
	}

	unbilled, err := s.collectionRepo.ListUnbilled(ctx, tenantID, supplierID)
	if err != nil {
		return nil, common.SecureErrorMessage("list unbilled collections", err)
	}

	unbilledAmount := decimal.Zero
	for _, c := range unbilled {
		unbilledAmount = unbilledAmount.Add(c.TotalAmount)
	}

	return &models.SupplierOutstanding{
		CounterpartyOutstanding: *base,
		UnbilledAmount:          unbilledAmount,
		UnbilledTrips:           len(unbilled),
	}, nil
}

// MonthlySummary reconciles one counterparty's month: volume moved, amount
// billed, payments received and the closing balance. A month without
// activity yields zeros.
func (s *reconciliationService) MonthlySummary(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, month time.Time) (*models.MonthlySummary, error) {
	if err := common.ValidateInvoiceParty(relatedTo); err != nil {
		return nil, err
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	monthKey := monthStart.Format("2006-01")

	if s.cache != nil {
		if cached, err := s.cache.GetMonthlySummary(ctx, tenantID, relatedTo, relatedID, monthKey); err == nil && cached != nil {
			return cached, nil
		}
	}

	var totals repositories.PeriodTotals
	var err error
	switch relatedTo {
	case "supplier":
		totals, err = s.collectionRepo.MonthlyTotals(ctx, tenantID, relatedID, monthStart, monthEnd)
	case "society":
		totals, err = s.deliveryRepo.MonthlyTotals(ctx, tenantID, relatedID, monthStart, monthEnd)
	}
	if err != nil {
		return nil, common.SecureErrorMessage("total monthly trips", err)
	}

	invoices, err := s.invoiceRepo.ListByCounterparty(ctx, tenantID, relatedTo, relatedID)
	if err != nil {
		return nil, common.SecureErrorMessage("list invoices", err)
	}

	billed := decimal.Zero
	billedBefore := decimal.Zero
	for _, invoice := range invoices {
		if invoice.Status == "draft" || invoice.Status == "cancelled" {
			continue
		}
		if !invoice.PeriodStart.Before(monthStart) && invoice.PeriodStart.Before(monthEnd) {
			billed = billed.Add(invoice.TotalAmount)
		}
		if invoice.IssuedDate.Before(monthStart) {
			billedBefore = billedBefore.Add(invoice.TotalAmount)
		}
	}

	received, err := s.paymentRepo.SumCompletedForPeriod(ctx, tenantID, relatedTo, relatedID, monthStart, monthEnd.Add(-time.Second))
	if err != nil {
		return nil, common.SecureErrorMessage("sum monthly payments", err)
	}
	receivedBefore, err := s.paymentRepo.SumCompletedForPeriod(ctx, tenantID, relatedTo, relatedID, time.Time{}, monthStart.Add(-time.Second))
	if err != nil {
		return nil, common.SecureErrorMessage("sum prior payments", err)
	}

	previous := billedBefore.Sub(receivedBefore)
	if previous.Sign() < 0 {
		previous = decimal.Zero
	}
	closing := previous.Add(billed).Sub(received)
	if closing.Sign() < 0 {
		closing = decimal.Zero
	}

	summary := &models.MonthlySummary{
		Month:               monthKey,
		RelatedTo:           relatedTo,
		RelatedID:           relatedID,
		QuantityLiters:      totals.QuantityLiters,
		TripCount:           totals.TripCount,
		BilledAmount:        billed,
		PaymentsReceived:    received,
		PreviousOutstanding: previous,
		ClosingOutstanding:  closing,
	}

	if s.cache != nil {
		_ = s.cache.SetMonthlySummary(ctx, tenantID, summary, monthlySummaryCacheTTL)
	}
	return summary, nil
}

func (s *reconciliationService) counterpartyName(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (string, error) {
	switch relatedTo {
	case "supplier":
		supplier, err := s.supplierRepo.GetByID(ctx, tenantID, relatedID)
		if err != nil {
			return "", common.SecureErrorMessage("load supplier", err)
		}
		return supplier.Name, nil
	case "society":
		society, err := s.societyRepo.GetByID(ctx, tenantID, relatedID)
		if err != nil {
			return "", common.SecureErrorMessage("load society", err)
		}
		return society.Name, nil
	}
	return "", nil
}
