package ledger

import (
	"context"
	"time"
)

// LedgerRepository is the expense-ledger collaborator. CreateEntry is called
// exclusively by the paid transition, inside its transaction.
type LedgerRepository interface {
	CreateEntry(ctx context.Context, entry ExpenseEntry) (ExpenseEntry, error)
	ExistsBySourceReference(ctx context.Context, sourceReference string) (bool, error)

	// GetDriverDeductions aggregates the driver's expenses and cash
	// withdrawals with a date in the half-open interval [from, to).
	GetDriverDeductions(ctx context.Context, driverID string, from, to time.Time) (DriverDeductions, error)
}
