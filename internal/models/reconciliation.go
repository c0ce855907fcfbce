package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceBalance is one non-cancelled invoice with its settled and remaining
// amounts, as shown on a counterparty statement.
type InvoiceBalance struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	DueDate       time.Time       `json:"due_date"`
	Overdue       bool            `json:"overdue"`
}

// CounterpartyOutstanding is the live money position against one supplier or
// society. Outstanding is always derived from invoices and payments, never
// stored. RawOutstanding keeps the unclamped figure; when credits exceed the
// invoiced balance it goes negative and OverpaymentWarning is set so the
// surplus is visible instead of silently swallowed.
type CounterpartyOutstanding struct {
	RelatedTo           string            `json:"related_to"`
	RelatedID           uuid.UUID         `json:"related_id"`
	Name                string            `json:"name"`
	InvoicedTotal       decimal.Decimal   `json:"invoiced_total"`
	PaidTotal           decimal.Decimal   `json:"paid_total"`
	UnattributedCredits decimal.Decimal   `json:"unattributed_credits"`
	Outstanding         decimal.Decimal   `json:"outstanding"`
	RawOutstanding      decimal.Decimal   `json:"raw_outstanding"`
	OverpaymentWarning  bool              `json:"overpayment_warning"`
	Invoices            []*InvoiceBalance `json:"invoices"`
	AsOf                time.Time         `json:"as_of"`
}

// SupplierOutstanding extends the counterparty position with collections not
// yet billed, so a vendor sees money owed before any invoice exists.
type SupplierOutstanding struct {
	CounterpartyOutstanding
	UnbilledAmount decimal.Decimal `json:"unbilled_amount"`
	UnbilledTrips  int             `json:"unbilled_trips"`
}

// MonthlySummary is the per-month reconciliation view for one counterparty:
// what moved, what was billed, what came in, and where the balance ended up.
type MonthlySummary struct {
	Month               string          `json:"month"`
	RelatedTo           string          `json:"related_to"`
	RelatedID           uuid.UUID       `json:"related_id"`
	QuantityLiters      decimal.Decimal `json:"quantity_liters"`
	TripCount           int             `json:"trip_count"`
	BilledAmount        decimal.Decimal `json:"billed_amount"`
	PaymentsReceived    decimal.Decimal `json:"payments_received"`
	PreviousOutstanding decimal.Decimal `json:"previous_outstanding"`
	ClosingOutstanding  decimal.Decimal `json:"closing_outstanding"`
}
