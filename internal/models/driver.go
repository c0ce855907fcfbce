package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Driver struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TenantID      uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Name          string          `json:"name" db:"name"`
	ContactPhone  *string         `json:"contact_phone" db:"contact_phone"`
	LicenseNumber *string         `json:"license_number" db:"license_number"`
	MonthlySalary decimal.Decimal `json:"monthly_salary" db:"monthly_salary"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}
