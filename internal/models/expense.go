package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a driver-logged operating cost. Fuel always stays on the
// vendor's account; other categories may be charged back to the driver.
type Expense struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TenantID    uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	DriverID    uuid.UUID       `json:"driver_id" db:"driver_id"`
	VehicleID   *uuid.UUID      `json:"vehicle_id" db:"vehicle_id"`
	Category    string          `json:"category" db:"category"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	ChargedTo   string          `json:"charged_to" db:"charged_to"`
	Status      string          `json:"status" db:"status"`
	ReceiptKey  *string         `json:"receipt_key" db:"receipt_key"`
	Description *string         `json:"description" db:"description"`
	OccurredAt  time.Time       `json:"occurred_at" db:"occurred_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
