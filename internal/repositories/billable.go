package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillableTrip is the invoice generator's view of a completed collection or
// delivery, including its current invoice attachment so the generator can
// skip already-billed rows and detect mis-attached ones.
type BillableTrip struct {
	ID                 uuid.UUID
	OccurredAt         time.Time
	QuantityLiters     decimal.Decimal
	PerLiterRate       decimal.Decimal
	TotalAmount        decimal.Decimal
	InvoiceID          *uuid.UUID
	InvoiceStatus      *string
	InvoicePeriodStart *time.Time
	InvoicePeriodEnd   *time.Time
}

// PeriodTotals aggregates quantity and amount over a date range.
type PeriodTotals struct {
	QuantityLiters decimal.Decimal `json:"quantity"`
	Amount         decimal.Decimal `json:"amount"`
	TripCount      int             `json:"trip_count"`
}
