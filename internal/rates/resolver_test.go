package rates

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		input        Input
		wantQuantity string
		wantRate     string
		wantTotal    string
		wantErr      bool
	}{
		{
			name: "tanker scoped rate divides by capacity",
			input: Input{
				TankerCount:           intPtr(3),
				VehicleCapacityLiters: decimal.NewFromInt(5000),
				NominalRate:           decimal.NewFromInt(8000),
				Basis:                 PerTanker,
			},
			wantQuantity: "15000",
			wantRate:     "1.6",
			wantTotal:    "24000",
		},
		{
			name: "per liter rate passes through",
			input: Input{
				TankerCount:           intPtr(1),
				VehicleCapacityLiters: decimal.NewFromInt(2000),
				NominalRate:           decimal.NewFromInt(2),
				Basis:                 PerLiter,
			},
			wantQuantity: "2000",
			wantRate:     "2",
			wantTotal:    "4000",
		},
		{
			name: "explicit quantity wins over tanker count",
			input: Input{
				TankerCount:            intPtr(3),
				VehicleCapacityLiters:  decimal.NewFromInt(5000),
				NominalRate:            decimal.NewFromInt(2),
				Basis:                  PerLiter,
				ExplicitQuantityLiters: decPtr("4500"),
			},
			wantQuantity: "4500",
			wantRate:     "2",
			wantTotal:    "9000",
		},
		{
			name: "derived per liter rate rounds to four places",
			input: Input{
				TankerCount:           intPtr(1),
				VehicleCapacityLiters: decimal.NewFromInt(3000),
				NominalRate:           decimal.NewFromInt(5000),
				Basis:                 PerTanker,
			},
			wantQuantity: "3000",
			wantRate:     "1.6667",
			wantTotal:    "5000.1",
		},
		{
			name: "explicit quantity without tanker count",
			input: Input{
				NominalRate:            decimal.RequireFromString("1.25"),
				Basis:                  PerLiter,
				ExplicitQuantityLiters: decPtr("10000"),
			},
			wantQuantity: "10000",
			wantRate:     "1.25",
			wantTotal:    "12500",
		},
		{
			name: "missing capacity with tanker scoped rate fails",
			input: Input{
				TankerCount: intPtr(2),
				NominalRate: decimal.NewFromInt(8000),
				Basis:       PerTanker,
			},
			wantErr: true,
		},
		{
			name: "zero capacity with tanker count fails",
			input: Input{
				TankerCount: intPtr(2),
				NominalRate: decimal.NewFromInt(2),
				Basis:       PerLiter,
			},
			wantErr: true,
		},
		{
			name: "zero tanker count fails",
			input: Input{
				TankerCount:           intPtr(0),
				VehicleCapacityLiters: decimal.NewFromInt(5000),
				NominalRate:           decimal.NewFromInt(8000),
				Basis:                 PerTanker,
			},
			wantErr: true,
		},
		{
			name: "negative tanker count fails",
			input: Input{
				TankerCount:           intPtr(-1),
				VehicleCapacityLiters: decimal.NewFromInt(5000),
				NominalRate:           decimal.NewFromInt(8000),
				Basis:                 PerTanker,
			},
			wantErr: true,
		},
		{
			name: "negative nominal rate fails",
			input: Input{
				TankerCount:           intPtr(1),
				VehicleCapacityLiters: decimal.NewFromInt(5000),
				NominalRate:           decimal.NewFromInt(-10),
				Basis:                 PerLiter,
			},
			wantErr: true,
		},
		{
			name: "no quantity source fails",
			input: Input{
				VehicleCapacityLiters: decimal.NewFromInt(5000),
				NominalRate:           decimal.NewFromInt(2),
				Basis:                 PerLiter,
			},
			wantErr: true,
		},
		{
			name: "negative explicit quantity fails",
			input: Input{
				NominalRate:            decimal.NewFromInt(2),
				Basis:                  PerLiter,
				ExplicitQuantityLiters: decPtr("-100"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidRateInput))
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.QuantityLiters.Equal(decimal.RequireFromString(tt.wantQuantity)),
				"quantity = %s, want %s", got.QuantityLiters, tt.wantQuantity)
			assert.True(t, got.PerLiterRate.Equal(decimal.RequireFromString(tt.wantRate)),
				"rate = %s, want %s", got.PerLiterRate, tt.wantRate)
			assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString(tt.wantTotal)),
				"total = %s, want %s", got.TotalAmount, tt.wantTotal)
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	input := Input{
		TankerCount:           intPtr(7),
		VehicleCapacityLiters: decimal.NewFromInt(3000),
		NominalRate:           decimal.RequireFromString("5333.33"),
		Basis:                 PerTanker,
	}

	first, err := Resolve(input)
	assert.NoError(t, err)

	for i := 0; i < 100; i++ {
		again, err := Resolve(input)
		assert.NoError(t, err)
		assert.True(t, first.TotalAmount.Equal(again.TotalAmount))
		assert.True(t, first.PerLiterRate.Equal(again.PerLiterRate))
		assert.True(t, first.QuantityLiters.Equal(again.QuantityLiters))
	}
}
