package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/payroll"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.driver_id, p.period_month, p.period_year,
	p.calculation_basis, p.applied_coefficient, p.fixed_base_amount,
	p.total_km_amount, p.total_waiting_amount, p.gross_total,
	p.total_expenses_deducted, p.total_withdrawals_deducted,
	p.cash_collected, p.carry_forward_prev_month, p.net_total,
	p.trip_count, p.status, p.confirmed_at, p.confirmed_by,
	p.paid_at, p.paid_by, p.notes, p.created_at, p.updated_at`

func scanPayrollRecord(row pgx.Row, r *payroll.PayrollRecord, withDriverName bool) error {
	dest := []any{
		&r.ID, &r.DriverID, &r.PeriodMonth, &r.PeriodYear,
		&r.CalculationBasis, &r.AppliedCoefficient, &r.FixedBaseAmount,
		&r.TotalKmAmount, &r.TotalWaitingAmount, &r.GrossTotal,
		&r.TotalExpensesDeducted, &r.TotalWithdrawalsDeducted,
		&r.CashCollected, &r.CarryForwardPrevMonth, &r.NetTotal,
		&r.TripCount, &r.Status, &r.ConfirmedAt, &r.ConfirmedBy,
		&r.PaidAt, &r.PaidBy, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	}
	if withDriverName {
		dest = append(dest, &r.DriverName)
	}
	return row.Scan(dest...)
}

// UpsertDraft inserts or fully replaces the computed fields of an existing
// draft. The conflict update is status-guarded in SQL, so a record that has
// moved past draft between the caller's read and this write is still
// rejected. Notes survive a recompute.
func (r *payrollRepository) UpsertDraft(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			id, driver_id, period_month, period_year,
			calculation_basis, applied_coefficient, fixed_base_amount,
			total_km_amount, total_waiting_amount, gross_total,
			total_expenses_deducted, total_withdrawals_deducted,
			cash_collected, carry_forward_prev_month, net_total,
			trip_count, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 'draft')
		ON CONFLICT (driver_id, period_month, period_year) DO UPDATE SET
			calculation_basis = EXCLUDED.calculation_basis,
			applied_coefficient = EXCLUDED.applied_coefficient,
			fixed_base_amount = EXCLUDED.fixed_base_amount,
			total_km_amount = EXCLUDED.total_km_amount,
			total_waiting_amount = EXCLUDED.total_waiting_amount,
			gross_total = EXCLUDED.gross_total,
			total_expenses_deducted = EXCLUDED.total_expenses_deducted,
			total_withdrawals_deducted = EXCLUDED.total_withdrawals_deducted,
			cash_collected = EXCLUDED.cash_collected,
			carry_forward_prev_month = EXCLUDED.carry_forward_prev_month,
			net_total = EXCLUDED.net_total,
			trip_count = EXCLUDED.trip_count,
			updated_at = NOW()
		WHERE payroll_records.status = 'draft'
		RETURNING id, driver_id, period_month, period_year,
			calculation_basis, applied_coefficient, fixed_base_amount,
			total_km_amount, total_waiting_amount, gross_total,
			total_expenses_deducted, total_withdrawals_deducted,
			cash_collected, carry_forward_prev_month, net_total,
			trip_count, status, confirmed_at, confirmed_by,
			paid_at, paid_by, notes, created_at, updated_at
	`

	var saved payroll.PayrollRecord
	err := q.QueryRow(ctx, query,
		uuid.New().String(), record.DriverID, record.PeriodMonth, record.PeriodYear,
		record.CalculationBasis, record.AppliedCoefficient, record.FixedBaseAmount,
		record.TotalKmAmount, record.TotalWaitingAmount, record.GrossTotal,
		record.TotalExpensesDeducted, record.TotalWithdrawalsDeducted,
		record.CashCollected, record.CarryForwardPrevMonth, record.NetTotal,
		record.TripCount,
	).Scan(
		&saved.ID, &saved.DriverID, &saved.PeriodMonth, &saved.PeriodYear,
		&saved.CalculationBasis, &saved.AppliedCoefficient, &saved.FixedBaseAmount,
		&saved.TotalKmAmount, &saved.TotalWaitingAmount, &saved.GrossTotal,
		&saved.TotalExpensesDeducted, &saved.TotalWithdrawalsDeducted,
		&saved.CashCollected, &saved.CarryForwardPrevMonth, &saved.NetTotal,
		&saved.TripCount, &saved.Status, &saved.ConfirmedAt, &saved.ConfirmedBy,
		&saved.PaidAt, &saved.PaidBy, &saved.Notes, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		// The guarded conflict update returns no row when the existing
		// record is no longer draft.
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrInvalidStateTransition
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return saved, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, d.full_name
		FROM payroll_records p
		JOIN drivers d ON d.id = p.driver_id
		WHERE p.id = $1
	`, payrollColumns)

	var record payroll.PayrollRecord
	err := scanPayrollRecord(q.QueryRow(ctx, query, id), &record, true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetByDriverPeriod(ctx context.Context, driverID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records p
		WHERE p.driver_id = $1 AND p.period_month = $2 AND p.period_year = $3
	`, payrollColumns)

	var record payroll.PayrollRecord
	err := scanPayrollRecord(q.QueryRow(ctx, query, driverID, month, year), &record, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

// payrollOrderBy builds the ORDER BY clause from caller-supplied sort
// parameters. Sortable columns are allow-listed; any other value falls back
// to period ordering and the direction is ignored with it.
func payrollOrderBy(sortBy, sortOrder string) string {
	var column string
	switch sortBy {
	case "driver_name":
		column = "d.full_name"
	case "net_total":
		column = "p.net_total"
	case "status":
		column = "p.status"
	default:
		return "p.period_year DESC, p.period_month DESC, d.full_name ASC"
	}

	direction := "ASC"
	if sortOrder == "desc" {
		direction = "DESC"
	}
	return column + " " + direction
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []any{}
	argIdx := 1

	if filter.PeriodMonth != nil {
		baseWhere += fmt.Sprintf(" AND p.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseWhere += fmt.Sprintf(" AND p.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DriverID != nil {
		baseWhere += fmt.Sprintf(" AND p.driver_id = $%d", argIdx)
		args = append(args, *filter.DriverID)
		argIdx++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payroll_records p WHERE %s", baseWhere)

	var totalCount int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	orderBy := payrollOrderBy(filter.SortBy, filter.SortOrder)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s, d.full_name
		FROM payroll_records p
		JOIN drivers d ON d.id = p.driver_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, payrollColumns, baseWhere, orderBy, argIdx, argIdx+1)

	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		var record payroll.PayrollRecord
		if err := scanPayrollRecord(rows, &record, true); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}

	return records, totalCount, rows.Err()
}

func (r *payrollRepository) UpdateNotes(ctx context.Context, id string, notes *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		"UPDATE payroll_records SET notes = $2, updated_at = NOW() WHERE id = $1",
		id, notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll notes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}

	return nil
}

func (r *payrollRepository) Confirm(ctx context.Context, id, actor string) error {
	return r.transition(ctx, id, actor, payroll.StatusDraft, payroll.StatusConfirmed,
		"confirmed_at", "confirmed_by")
}

func (r *payrollRepository) SetPaid(ctx context.Context, id, actor string) error {
	return r.transition(ctx, id, actor, payroll.StatusConfirmed, payroll.StatusPaid,
		"paid_at", "paid_by")
}

// transition performs a status-guarded update. Zero rows affected means
// either the record is missing or it is not in the expected state; a probe
// query tells the two apart.
func (r *payrollRepository) transition(ctx context.Context, id, actor string, from, to payroll.Status, atColumn, byColumn string) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE payroll_records
		SET status = $3, %s = NOW(), %s = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, atColumn, byColumn)

	tag, err := q.Exec(ctx, query, id, from, to, actor)
	if err != nil {
		return fmt.Errorf("failed to transition payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM payroll_records WHERE id = $1)", id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to probe payroll record: %w", err)
		}
		if !exists {
			return payroll.ErrPayrollRecordNotFound
		}
		return payroll.ErrInvalidStateTransition
	}

	return nil
}

func (r *payrollRepository) GetSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_km_amount), 0),
			COALESCE(SUM(total_waiting_amount), 0),
			COALESCE(SUM(gross_total), 0),
			COALESCE(SUM(net_total), 0),
			COALESCE(SUM(cash_collected), 0),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'paid')
		FROM payroll_records
		WHERE period_month = $1 AND period_year = $2
	`

	summary := payroll.PayrollSummaryResponse{PeriodMonth: month, PeriodYear: year}
	err := q.QueryRow(ctx, query, month, year).Scan(
		&summary.TotalDrivers,
		&summary.TotalKmAmount, &summary.TotalWaiting,
		&summary.TotalGross, &summary.TotalNet, &summary.TotalCashHandled,
		&summary.DraftCount, &summary.ConfirmedCount, &summary.PaidCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	return summary, nil
}
