package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a water source the vendor collects from. Billing configuration
// lives on the counterparty so rate resolution needs no extra lookups.
type Supplier struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	TenantID         uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Name             string          `json:"name" db:"name"`
	ContactPhone     *string         `json:"contact_phone" db:"contact_phone"`
	Address          *string         `json:"address" db:"address"`
	RateBasis        string          `json:"rate_basis" db:"rate_basis"`
	NominalRate      decimal.Decimal `json:"nominal_rate" db:"nominal_rate"`
	TaxPercent       decimal.Decimal `json:"tax_percent" db:"tax_percent"`
	DiscountPercent  decimal.Decimal `json:"discount_percent" db:"discount_percent"`
	PaymentTermsDays int             `json:"payment_terms_days" db:"payment_terms_days"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}
