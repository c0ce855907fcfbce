package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Delivery is one drop of water to a housing society.
type Delivery struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	TenantID       uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	SocietyID      uuid.UUID       `json:"society_id" db:"society_id"`
	VehicleID      uuid.UUID       `json:"vehicle_id" db:"vehicle_id"`
	DriverID       *uuid.UUID      `json:"driver_id" db:"driver_id"`
	TankerCount    *int            `json:"tanker_count" db:"tanker_count"`
	QuantityLiters decimal.Decimal `json:"quantity_liters" db:"quantity_liters"`
	PerLiterRate   decimal.Decimal `json:"per_liter_rate" db:"per_liter_rate"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status         string          `json:"status" db:"status"`
	OccurredAt     time.Time       `json:"occurred_at" db:"occurred_at"`
	InvoiceID      *uuid.UUID      `json:"invoice_id" db:"invoice_id"`
	Notes          *string         `json:"notes" db:"notes"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}
