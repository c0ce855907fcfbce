package rates

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidRateInput is returned when a rate input cannot be resolved into a
// billable amount. Resolution fails loudly rather than coercing missing
// fields to zero.
var ErrInvalidRateInput = errors.New("invalid rate input")

// RateBasis declares how a counterparty's nominal rate is quoted.
type RateBasis string

const (
	// PerTanker rates are quoted per full tanker load and must be divided
	// by vehicle capacity to obtain a per-liter rate.
	PerTanker RateBasis = "per_tanker"
	// PerLiter rates are already per-liter and pass through unchanged.
	PerLiter RateBasis = "per_liter"
)

// Input is the raw operator input for one collection or delivery.
type Input struct {
	// TankerCount is the number of tanker loads in the trip. Optional when
	// ExplicitQuantityLiters is supplied.
	TankerCount *int
	// VehicleCapacityLiters is the capacity of the assigned vehicle.
	// Required whenever the rate is tanker-scoped or TankerCount is used.
	VehicleCapacityLiters decimal.Decimal
	// NominalRate is the counterparty's configured price, interpreted per
	// Basis.
	NominalRate decimal.Decimal
	Basis       RateBasis
	// ExplicitQuantityLiters is a manually corrected quantity. It always
	// takes precedence over TankerCount.
	ExplicitQuantityLiters *decimal.Decimal
}

// Resolution is the canonical per-liter view of an Input.
type Resolution struct {
	QuantityLiters decimal.Decimal
	PerLiterRate   decimal.Decimal
	TotalAmount    decimal.Decimal
}

const (
	// Per-liter rates derived from tanker rates keep 4 decimal places so
	// replays of the same input produce identical stored values.
	ratePrecision = 4
	// Monetary totals are rounded to paise.
	amountPrecision = 2
)

// Resolve converts raw operator input into a canonical per-liter rate and a
// derived quantity and amount. It is a pure function: identical input yields
// an identical Resolution.
func Resolve(in Input) (Resolution, error) {
	if in.NominalRate.Sign() < 0 {
		return Resolution{}, fmt.Errorf("%w: nominal rate cannot be negative", ErrInvalidRateInput)
	}

	perLiter := in.NominalRate
	if in.Basis == PerTanker {
		if in.VehicleCapacityLiters.Sign() <= 0 {
			return Resolution{}, fmt.Errorf("%w: vehicle capacity is required for a tanker-scoped rate", ErrInvalidRateInput)
		}
		perLiter = in.NominalRate.Div(in.VehicleCapacityLiters).Round(ratePrecision)
	} else if in.Basis != PerLiter {
		return Resolution{}, fmt.Errorf("%w: unknown rate basis %q", ErrInvalidRateInput, in.Basis)
	}

	quantity, err := resolveQuantity(in)
	if err != nil {
		return Resolution{}, err
	}

	total := quantity.Mul(perLiter).Round(amountPrecision)
	if total.Sign() < 0 {
		return Resolution{}, fmt.Errorf("%w: resolved amount is negative", ErrInvalidRateInput)
	}

	return Resolution{
		QuantityLiters: quantity,
		PerLiterRate:   perLiter,
		TotalAmount:    total,
	}, nil
}

func resolveQuantity(in Input) (decimal.Decimal, error) {
	// A manually corrected quantity wins over the tanker count regardless
	// of which was entered last.
	if in.ExplicitQuantityLiters != nil {
		if in.ExplicitQuantityLiters.Sign() <= 0 {
			return decimal.Zero, fmt.Errorf("%w: explicit quantity must be positive", ErrInvalidRateInput)
		}
		return *in.ExplicitQuantityLiters, nil
	}

	if in.TankerCount == nil {
		return decimal.Zero, fmt.Errorf("%w: either tanker count or explicit quantity is required", ErrInvalidRateInput)
	}
	if *in.TankerCount <= 0 {
		return decimal.Zero, fmt.Errorf("%w: tanker count must be a positive integer", ErrInvalidRateInput)
	}
	if in.VehicleCapacityLiters.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: vehicle capacity is required to derive quantity from tanker count", ErrInvalidRateInput)
	}

	return decimal.NewFromInt(int64(*in.TankerCount)).Mul(in.VehicleCapacityLiters), nil
}
