package driver

import (
	"time"

	"github.com/shopspring/decimal"
)

// Driver - Directory view of a driver as the payroll engine needs it.
// Ownership of the full driver profile lives with the user-management service.
type Driver struct {
	ID                 string
	FullName           string
	FixedMonthlySalary *decimal.Decimal
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FixedBase returns the flat monthly amount added to every computed payroll
// for this driver, zero when none is configured.
func (d Driver) FixedBase() decimal.Decimal {
	if d.FixedMonthlySalary == nil {
		return decimal.Zero
	}
	return *d.FixedMonthlySalary
}
