package trip

import (
	"context"
	"time"
)

// TripRepository is the trip/service source consumed by the payroll engine.
// The engine never writes trips.
type TripRepository interface {
	// ListEligibleForPeriod returns completed and finalized trips for the
	// driver with a service date in the half-open interval [from, to), in
	// one read.
	ListEligibleForPeriod(ctx context.Context, driverID string, from, to time.Time) ([]TripFinancial, error)
}
