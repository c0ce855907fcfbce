package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records an out-of-band settlement (cash, bank transfer, UPI ...)
// reconciled against an invoice or a counterparty's running balance.
type Payment struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	TenantID        uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Type            string          `json:"type" db:"type"`
	RelatedTo       string          `json:"related_to" db:"related_to"`
	RelatedID       uuid.UUID       `json:"related_id" db:"related_id"`
	InvoiceID       *uuid.UUID      `json:"invoice_id" db:"invoice_id"`
	ExpenseID       *uuid.UUID      `json:"expense_id" db:"expense_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	PaymentDate     time.Time       `json:"payment_date" db:"payment_date"`
	ReferenceNumber *string         `json:"reference_number" db:"reference_number"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
