package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/driver"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/database"
)

type driverRepository struct {
	db *database.DB
}

func NewDriverRepository(db *database.DB) driver.DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) GetByID(ctx context.Context, id string) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, fixed_monthly_salary, is_active, created_at, updated_at
		FROM drivers
		WHERE id = $1
	`

	var d driver.Driver
	err := q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.FullName, &d.FixedMonthlySalary, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return driver.Driver{}, driver.ErrDriverNotFound
		}
		return driver.Driver{}, fmt.Errorf("failed to get driver: %w", err)
	}

	return d, nil
}
