package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/tariff"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/database"
)

type tariffRepository struct {
	db *database.DB
}

func NewTariffRepository(db *database.DB) tariff.TariffRepository {
	return &tariffRepository{db: db}
}

// ========== ENTRIES ==========

func (r *tariffRepository) LookupBaseAmount(ctx context.Context, year, kmBracket int) (tariff.TariffEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, year, km_bracket, base_amount, is_active, created_at, updated_at
		FROM tariff_entries
		WHERE year = $1 AND km_bracket = $2
	`

	var e tariff.TariffEntry
	err := q.QueryRow(ctx, query, year, kmBracket).Scan(
		&e.ID, &e.Year, &e.KmBracket, &e.BaseAmount, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return tariff.TariffEntry{}, tariff.ErrTariffEntryNotFound
		}
		return tariff.TariffEntry{}, fmt.Errorf("failed to lookup tariff entry: %w", err)
	}

	return e, nil
}

func (r *tariffRepository) ListByYear(ctx context.Context, year int, activeOnly bool) ([]tariff.TariffEntry, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "year = $1"
	if activeOnly {
		whereClause += " AND is_active = true"
	}

	query := fmt.Sprintf(`
		SELECT id, year, km_bracket, base_amount, is_active, created_at, updated_at
		FROM tariff_entries
		WHERE %s
		ORDER BY km_bracket ASC
	`, whereClause)

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariff entries: %w", err)
	}
	defer rows.Close()

	var entries []tariff.TariffEntry
	for rows.Next() {
		var e tariff.TariffEntry
		if err := rows.Scan(&e.ID, &e.Year, &e.KmBracket, &e.BaseAmount, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tariff entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *tariffRepository) Upsert(ctx context.Context, entry tariff.TariffEntry) (tariff.TariffEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tariff_entries (id, year, km_bracket, base_amount, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year, km_bracket) DO UPDATE SET
			base_amount = EXCLUDED.base_amount,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, year, km_bracket, base_amount, is_active, created_at, updated_at
	`

	var e tariff.TariffEntry
	err := q.QueryRow(ctx, query,
		uuid.New().String(), entry.Year, entry.KmBracket, entry.BaseAmount, entry.IsActive,
	).Scan(
		&e.ID, &e.Year, &e.KmBracket, &e.BaseAmount, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return tariff.TariffEntry{}, fmt.Errorf("failed to upsert tariff entry: %w", err)
	}

	return e, nil
}

func (r *tariffRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM tariff_entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete tariff entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tariff.ErrTariffEntryNotFound
	}

	return nil
}

func (r *tariffRepository) CountByYear(ctx context.Context, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, "SELECT COUNT(*) FROM tariff_entries WHERE year = $1", year).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tariff entries: %w", err)
	}

	return count, nil
}

func (r *tariffRepository) CloneYear(ctx context.Context, sourceYear, targetYear int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tariff_entries (id, year, km_bracket, base_amount, is_active)
		SELECT gen_random_uuid(), $2, km_bracket, base_amount, true
		FROM tariff_entries
		WHERE year = $1 AND is_active = true
	`

	tag, err := q.Exec(ctx, query, sourceYear, targetYear)
	if err != nil {
		if strings.Contains(err.Error(), "uk_tariff_entry_year_bracket") {
			return 0, tariff.ErrTariffYearNotEmpty
		}
		return 0, fmt.Errorf("failed to clone tariff year: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// ========== PERIOD CONFIGURATION ==========

func (r *tariffRepository) GetConfig(ctx context.Context, year int) (tariff.PeriodConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, year, adjustment_coefficient, waiting_hourly_rate, long_distance_per_km_rate,
			   created_at, updated_at
		FROM period_configs
		WHERE year = $1
	`

	var c tariff.PeriodConfig
	err := q.QueryRow(ctx, query, year).Scan(
		&c.ID, &c.Year, &c.AdjustmentCoefficient, &c.WaitingHourlyRate, &c.LongDistancePerKmRate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return tariff.PeriodConfig{}, tariff.ErrPeriodConfigNotFound
		}
		return tariff.PeriodConfig{}, fmt.Errorf("failed to get period config: %w", err)
	}

	return c, nil
}

func (r *tariffRepository) UpsertConfig(ctx context.Context, config tariff.PeriodConfig) (tariff.PeriodConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO period_configs (id, year, adjustment_coefficient, waiting_hourly_rate, long_distance_per_km_rate)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year) DO UPDATE SET
			adjustment_coefficient = EXCLUDED.adjustment_coefficient,
			waiting_hourly_rate = EXCLUDED.waiting_hourly_rate,
			long_distance_per_km_rate = EXCLUDED.long_distance_per_km_rate,
			updated_at = NOW()
		RETURNING id, year, adjustment_coefficient, waiting_hourly_rate, long_distance_per_km_rate,
			created_at, updated_at
	`

	var c tariff.PeriodConfig
	err := q.QueryRow(ctx, query,
		uuid.New().String(), config.Year, config.AdjustmentCoefficient,
		config.WaitingHourlyRate, config.LongDistancePerKmRate,
	).Scan(
		&c.ID, &c.Year, &c.AdjustmentCoefficient, &c.WaitingHourlyRate, &c.LongDistancePerKmRate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return tariff.PeriodConfig{}, fmt.Errorf("failed to upsert period config: %w", err)
	}

	return c, nil
}
