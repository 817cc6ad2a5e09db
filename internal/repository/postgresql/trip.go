package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/trip"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/database"
)

type tripRepository struct {
	db *database.DB
}

func NewTripRepository(db *database.DB) trip.TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) ListEligibleForPeriod(ctx context.Context, driverID string, from, to time.Time) ([]trip.TripFinancial, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, driver_id, service_date, total_km, waiting_hours,
			   payment_method, amount_collected, amount_expected, status
		FROM trips
		WHERE driver_id = $1
		  AND service_date >= $2
		  AND service_date < $3
		  AND status IN ('completed', 'finalized')
		ORDER BY service_date ASC
	`

	rows, err := q.Query(ctx, query, driverID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible trips: %w", err)
	}
	defer rows.Close()

	var trips []trip.TripFinancial
	for rows.Next() {
		var t trip.TripFinancial
		if err := rows.Scan(
			&t.ID, &t.DriverID, &t.ServiceDate, &t.TotalKm, &t.WaitingHours,
			&t.PaymentMethod, &t.AmountCollected, &t.AmountExpected, &t.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}

	return trips, rows.Err()
}
