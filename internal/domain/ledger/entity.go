package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseEntry - One row in the company expense ledger. Payroll payments
// reference their payroll record through SourceReference, which doubles as
// the idempotency key for the paid transition.
type ExpenseEntry struct {
	ID              string
	Amount          decimal.Decimal
	Date            time.Time
	Description     string
	SourceReference string
	CreatedAt       time.Time
}

// DriverDeductions - Monthly amounts withheld from a driver's payout:
// expenses advanced by the company and cash withdrawals (anticipi) taken
// by the driver during the period.
type DriverDeductions struct {
	Expenses    decimal.Decimal
	Withdrawals decimal.Decimal
}
