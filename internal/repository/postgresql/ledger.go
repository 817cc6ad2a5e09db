package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/ledger"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/database"
)

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) ledger.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateEntry(ctx context.Context, entry ledger.ExpenseEntry) (ledger.ExpenseEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expense_entries (id, amount, entry_date, description, source_reference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, amount, entry_date, description, source_reference, created_at
	`

	var e ledger.ExpenseEntry
	err := q.QueryRow(ctx, query,
		uuid.New().String(), entry.Amount, entry.Date, entry.Description, entry.SourceReference,
	).Scan(
		&e.ID, &e.Amount, &e.Date, &e.Description, &e.SourceReference, &e.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_expense_entry_source_reference") {
			return ledger.ExpenseEntry{}, ledger.ErrEntryExists
		}
		return ledger.ExpenseEntry{}, fmt.Errorf("failed to create expense entry: %w", err)
	}

	return e, nil
}

func (r *ledgerRepository) ExistsBySourceReference(ctx context.Context, sourceReference string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM expense_entries WHERE source_reference = $1)",
		sourceReference,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check expense entry existence: %w", err)
	}

	return exists, nil
}

func (r *ledgerRepository) GetDriverDeductions(ctx context.Context, driverID string, from, to time.Time) (ledger.DriverDeductions, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE movement_type = 'expense'), 0),
			COALESCE(SUM(amount) FILTER (WHERE movement_type = 'withdrawal'), 0)
		FROM driver_movements
		WHERE driver_id = $1
		  AND movement_date >= $2
		  AND movement_date < $3
	`

	var d ledger.DriverDeductions
	err := q.QueryRow(ctx, query, driverID, from, to).Scan(&d.Expenses, &d.Withdrawals)
	if err != nil {
		return ledger.DriverDeductions{}, fmt.Errorf("failed to get driver deductions: %w", err)
	}

	return d, nil
}
