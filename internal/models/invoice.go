package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice aggregates the billable trips of one counterparty over a period.
// Total is fixed at generation time.
type Invoice struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TenantID      uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	InvoiceNumber string          `json:"invoice_number" db:"invoice_number"`
	RelatedTo     string          `json:"related_to" db:"related_to"`
	RelatedID     uuid.UUID       `json:"related_id" db:"related_id"`
	PeriodStart   time.Time       `json:"period_start" db:"period_start"`
	PeriodEnd     time.Time       `json:"period_end" db:"period_end"`
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax           decimal.Decimal `json:"tax" db:"tax"`
	Discount      decimal.Decimal `json:"discount" db:"discount"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status        string          `json:"status" db:"status"`
	IssuedDate    time.Time       `json:"issued_date" db:"issued_date"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	PaidDate      *time.Time      `json:"paid_date" db:"paid_date"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	Items []*InvoiceItem `json:"items,omitempty" db:"-"`
}

// InvoiceItem is one billed trip on an invoice.
type InvoiceItem struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	InvoiceID      uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	SourceType     string          `json:"source_type" db:"source_type"`
	SourceID       uuid.UUID       `json:"source_id" db:"source_id"`
	OccurredAt     time.Time       `json:"occurred_at" db:"occurred_at"`
	QuantityLiters decimal.Decimal `json:"quantity_liters" db:"quantity_liters"`
	PerLiterRate   decimal.Decimal `json:"per_liter_rate" db:"per_liter_rate"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
}

// IsOverdue reports whether the invoice should display as overdue. Overdue is
// derived at read time, never persisted by a background job.
func (i *Invoice) IsOverdue(now time.Time) bool {
	switch i.Status {
	case "sent", "overdue":
		return now.After(i.DueDate)
	}
	return false
}
