package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/payroll"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/tariff"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/trip"
	"github.com/fleetoffice/fleet-backend-go/internal/service/compensation"
	"github.com/shopspring/decimal"
)

// monthBounds returns the half-open period [first day of the month, first
// day of the next month), computed from month/year rather than a 30-day
// window. The exclusive upper bound keeps timestamps late on the last
// calendar day inside the month.
func monthBounds(month, year int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}

// AggregateMonth fetches the driver's eligible trips in one read and folds
// them through the calculator. No eligible trips is a zero result, not an
// error. Cash accumulates only for cash trips: collected amount when
// recorded, expected amount otherwise.
func (s *PayrollServiceImpl) AggregateMonth(ctx context.Context, driverID string, month, year int) (payroll.MonthTotals, error) {
	calc, err := s.calculatorForYear(ctx, year)
	if err != nil {
		return payroll.MonthTotals{}, err
	}
	return s.aggregateMonth(ctx, driverID, month, year, calc)
}

func (s *PayrollServiceImpl) aggregateMonth(ctx context.Context, driverID string, month, year int, calc *compensation.Calculator) (payroll.MonthTotals, error) {
	from, to := monthBounds(month, year)

	trips, err := s.tripRepo.ListEligibleForPeriod(ctx, driverID, from, to)
	if err != nil {
		return payroll.MonthTotals{}, fmt.Errorf("failed to list trips for driver %s: %w", driverID, err)
	}

	totals := payroll.MonthTotals{
		CalculationBasis:   decimal.Zero,
		TotalKmAmount:      decimal.Zero,
		TotalWaitingAmount: decimal.Zero,
		CashCollected:      decimal.Zero,
	}

	for _, t := range trips {
		kmBase, err := calc.KmBase(t.TotalKm)
		if errors.Is(err, compensation.ErrNegativeQuantity) {
			return payroll.MonthTotals{}, fmt.Errorf("trip %s: %w", t.ID, trip.ErrInvalidTripData)
		}
		if err != nil {
			return payroll.MonthTotals{}, err
		}

		waiting, err := calc.WaitingCompensation(t.WaitingHours)
		if errors.Is(err, compensation.ErrNegativeQuantity) {
			return payroll.MonthTotals{}, fmt.Errorf("trip %s: %w", t.ID, trip.ErrInvalidTripData)
		}
		if err != nil {
			return payroll.MonthTotals{}, err
		}

		totals.CalculationBasis = totals.CalculationBasis.Add(kmBase)
		totals.TotalWaitingAmount = totals.TotalWaitingAmount.Add(waiting)
		if t.PaymentMethod == trip.PaymentCash {
			totals.CashCollected = totals.CashCollected.Add(t.CashAmount())
		}
		totals.TripCount++
	}

	totals.TotalKmAmount = totals.CalculationBasis.Mul(calc.Coefficient())

	return totals, nil
}

// calculatorForYear snapshots the year's configuration and active tariff
// entries into a pure calculator for the duration of one computation.
func (s *PayrollServiceImpl) calculatorForYear(ctx context.Context, year int) (*compensation.Calculator, error) {
	config, err := s.tariffRepo.GetConfig(ctx, year)
	if err != nil {
		if !errors.Is(err, tariff.ErrPeriodConfigNotFound) {
			return nil, err
		}
		config = tariff.DefaultPeriodConfig(year)
	}

	entries, err := s.tariffRepo.ListByYear(ctx, year, true)
	if err != nil {
		return nil, err
	}

	return compensation.NewCalculator(config, entries), nil
}
