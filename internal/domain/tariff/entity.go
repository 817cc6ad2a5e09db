package tariff

import (
	"time"

	"github.com/shopspring/decimal"
)

// TariffEntry - Base amount for one distance bracket in one year.
// Brackets form a discrete set (12, 15, 20, ...); trip distances are snapped
// onto them by the compensation calculator, never priced continuously.
type TariffEntry struct {
	ID         string
	Year       int
	KmBracket  int
	BaseAmount decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PeriodConfig - Per-year calculation parameters, shared read-only across
// every driver computation for that year.
type PeriodConfig struct {
	ID                    string
	Year                  int
	AdjustmentCoefficient decimal.Decimal
	WaitingHourlyRate     decimal.Decimal
	LongDistancePerKmRate decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// DefaultPeriodConfig returns the product defaults applied when no
// configuration row exists for a year. Deliberate fallback, not an error.
func DefaultPeriodConfig(year int) PeriodConfig {
	return PeriodConfig{
		Year:                  year,
		AdjustmentCoefficient: decimal.RequireFromString("1.17"),
		WaitingHourlyRate:     decimal.RequireFromString("15.00"),
		LongDistancePerKmRate: decimal.RequireFromString("0.25"),
	}
}
