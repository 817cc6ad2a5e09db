package payroll

import "context"

// PayrollRepository defines data access for payroll records. State-changing
// methods carry their own status guards so that a concurrent recompute or
// confirm cannot invalidate a payment in flight.
type PayrollRepository interface {
	// UpsertDraft inserts the record or fully replaces the computed fields of
	// an existing draft for the same (driver, month, year). Returns
	// ErrInvalidStateTransition when the existing record is no longer draft.
	UpsertDraft(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	GetByDriverPeriod(ctx context.Context, driverID string, month, year int) (PayrollRecord, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)

	// UpdateNotes touches the annotation field only; allowed in any state.
	UpdateNotes(ctx context.Context, id string, notes *string) error

	// Confirm flips draft → confirmed with an audit stamp.
	Confirm(ctx context.Context, id, actor string) error

	// SetPaid flips confirmed → paid with an audit stamp. Called inside the
	// payment transaction; the WHERE-status guard is the optimistic check.
	SetPaid(ctx context.Context, id, actor string) error

	GetSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}
