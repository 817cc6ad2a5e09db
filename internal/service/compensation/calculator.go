package compensation

import (
	"errors"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/tariff"
	"github.com/shopspring/decimal"
)

// ErrNegativeQuantity is a caller bug: negative km or hours must be rejected
// upstream, never clamped here.
var ErrNegativeQuantity = errors.New("compensation quantity must be non-negative")

var (
	floorBracket          = decimal.NewFromInt(12)
	bracketStep           = decimal.NewFromInt(5)
	longDistanceThreshold = decimal.NewFromInt(200)
)

// Calculator prices one year's trips. It is pure: all tariff and
// configuration data is captured at construction, no I/O afterwards.
type Calculator struct {
	config   tariff.PeriodConfig
	brackets map[int]decimal.Decimal
}

// NewCalculator builds a calculator from the year's period configuration and
// its active tariff entries. Inactive entries are ignored.
func NewCalculator(config tariff.PeriodConfig, entries []tariff.TariffEntry) *Calculator {
	brackets := make(map[int]decimal.Decimal, len(entries))
	for _, e := range entries {
		if e.IsActive {
			brackets[e.KmBracket] = e.BaseAmount
		}
	}
	return &Calculator{config: config, brackets: brackets}
}

// Coefficient exposes the adjustment coefficient the calculator applies.
func (c *Calculator) Coefficient() decimal.Decimal {
	return c.config.AdjustmentCoefficient
}

// SnapBracket maps a distance onto the tariff bracket set: 12 km is the floor
// bracket for anything at or below 12, everything above snaps to the nearest
// multiple of 5. Ties round half up.
func SnapBracket(km decimal.Decimal) int {
	if km.LessThanOrEqual(floorBracket) {
		return int(floorBracket.IntPart())
	}
	// decimal.Round rounds half away from zero, which is half-up for km > 0.
	return int(km.Div(bracketStep).Round(0).Mul(bracketStep).IntPart())
}

// KmBase returns the pre-coefficient distance pay: the tariff base amount for
// the snapped bracket up to 200 km, a linear per-km rate beyond. A bracket
// with no tariff entry prices at zero; that is policy, not an error.
func (c *Calculator) KmBase(km decimal.Decimal) (decimal.Decimal, error) {
	if km.IsNegative() {
		return decimal.Zero, ErrNegativeQuantity
	}
	if km.GreaterThan(longDistanceThreshold) {
		return km.Mul(c.config.LongDistancePerKmRate), nil
	}
	base, ok := c.brackets[SnapBracket(km)]
	if !ok {
		return decimal.Zero, nil
	}
	return base, nil
}

// KmCompensation prices a trip distance: the tier-snapped tariff base (or the
// long-distance linear rate) multiplied by the year's adjustment coefficient.
func (c *Calculator) KmCompensation(km decimal.Decimal) (decimal.Decimal, error) {
	base, err := c.KmBase(km)
	if err != nil {
		return decimal.Zero, err
	}
	return base.Mul(c.config.AdjustmentCoefficient), nil
}

// WaitingCompensation pays waiting time at the year's hourly rate, linear in
// hours. No coefficient applies.
func (c *Calculator) WaitingCompensation(hours decimal.Decimal) (decimal.Decimal, error) {
	if hours.IsNegative() {
		return decimal.Zero, ErrNegativeQuantity
	}
	return hours.Mul(c.config.WaitingHourlyRate), nil
}
