package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle is a tanker in the vendor's fleet. CapacityLiters feeds rate
// resolution for tanker-scoped rates.
type Vehicle struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	TenantID           uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	RegistrationNumber string          `json:"registration_number" db:"registration_number"`
	CapacityLiters     decimal.Decimal `json:"capacity_liters" db:"capacity_liters"`
	DriverID           *uuid.UUID      `json:"driver_id" db:"driver_id"`
	Status             string          `json:"status" db:"status"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}
