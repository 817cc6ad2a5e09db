package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum. Draft → Confirmed → Paid, no skips, no backward moves.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusPaid      Status = "paid"
)

// PayrollRecord - Persisted monthly compensation result for one driver.
// Exactly one record per (driver, month, year).
//
// CalculationBasis is the pre-coefficient sum of tariff base amounts and
// long-distance km pay; TotalKmAmount = CalculationBasis * AppliedCoefficient.
// NetTotal = GrossTotal - TotalExpensesDeducted - TotalWithdrawalsDeducted
// + CarryForwardPrevMonth + CashCollected, with signs fixed at computation
// time and never re-derived afterwards.
type PayrollRecord struct {
	ID                       string
	DriverID                 string
	PeriodMonth              int
	PeriodYear               int
	CalculationBasis         decimal.Decimal
	AppliedCoefficient       decimal.Decimal
	FixedBaseAmount          decimal.Decimal
	TotalKmAmount            decimal.Decimal
	TotalWaitingAmount       decimal.Decimal
	GrossTotal               decimal.Decimal
	TotalExpensesDeducted    decimal.Decimal
	TotalWithdrawalsDeducted decimal.Decimal
	CashCollected            decimal.Decimal
	CarryForwardPrevMonth    decimal.Decimal
	NetTotal                 decimal.Decimal
	TripCount                int
	Status                   Status
	ConfirmedAt              *time.Time
	ConfirmedBy              *string
	PaidAt                   *time.Time
	PaidBy                   *string
	Notes                    *string
	CreatedAt                time.Time
	UpdatedAt                time.Time

	// Joined fields
	DriverName *string
}

// MonthTotals - Result of reducing a driver's eligible trips for one month.
type MonthTotals struct {
	CalculationBasis   decimal.Decimal
	TotalKmAmount      decimal.Decimal
	TotalWaitingAmount decimal.Decimal
	CashCollected      decimal.Decimal
	TripCount          int
}
