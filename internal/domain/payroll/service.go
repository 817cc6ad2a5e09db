package payroll

import "context"

type PayrollService interface {
	// AggregateMonth reduces the driver's eligible trips for the month into
	// period totals without persisting anything.
	AggregateMonth(ctx context.Context, driverID string, month, year int) (MonthTotals, error)

	// ComputeForDriver computes and saves the monthly record (state draft).
	// Recomputation while draft fully replaces the computed fields.
	ComputeForDriver(ctx context.Context, req ComputePayrollRequest) (PayrollRecordResponse, error)

	GetRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	UpdateNotes(ctx context.Context, req UpdateNotesRequest) error
	GetSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)

	// Lifecycle
	Confirm(ctx context.Context, id, actor string) error
	MarkPaid(ctx context.Context, id, actor string) error
}
