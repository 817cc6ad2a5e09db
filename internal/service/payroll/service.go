package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/driver"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/ledger"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/payroll"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/tariff"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/trip"
)

// TxRunner executes fn atomically. Backed by a database transaction in
// production; tests substitute an in-memory implementation.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type PayrollServiceImpl struct {
	payrollRepo payroll.PayrollRepository
	tariffRepo  tariff.TariffRepository
	tripRepo    trip.TripRepository
	driverRepo  driver.DriverRepository
	ledgerRepo  ledger.LedgerRepository
	tx          TxRunner
	now         func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	tariffRepo tariff.TariffRepository,
	tripRepo trip.TripRepository,
	driverRepo driver.DriverRepository,
	ledgerRepo ledger.LedgerRepository,
	tx TxRunner,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo: payrollRepo,
		tariffRepo:  tariffRepo,
		tripRepo:    tripRepo,
		driverRepo:  driverRepo,
		ledgerRepo:  ledgerRepo,
		tx:          tx,
		now:         time.Now,
	}
}

// ========== COMPUTATION ==========

// ComputeForDriver computes the driver's monthly record and saves it as a
// draft. Recomputation fully replaces the computed fields while the record
// is draft and is rejected once it is confirmed or paid.
func (s *PayrollServiceImpl) ComputeForDriver(ctx context.Context, req payroll.ComputePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	d, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	calc, err := s.calculatorForYear(ctx, req.Year)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	totals, err := s.aggregateMonth(ctx, req.DriverID, req.Month, req.Year, calc)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	from, to := monthBounds(req.Month, req.Year)
	deductions, err := s.ledgerRepo.GetDriverDeductions(ctx, req.DriverID, from, to)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to get deductions for driver %s: %w", req.DriverID, err)
	}

	carryForward, err := s.carryForward(ctx, req.DriverID, req.Month, req.Year)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	// The fixed base is additive and unconditional, never a replacement for
	// the computed amounts.
	fixedBase := d.FixedBase()
	gross := fixedBase.Add(totals.TotalKmAmount).Add(totals.TotalWaitingAmount)
	net := gross.
		Sub(deductions.Expenses).
		Sub(deductions.Withdrawals).
		Add(carryForward).
		Add(totals.CashCollected)

	record := payroll.PayrollRecord{
		DriverID:                 req.DriverID,
		PeriodMonth:              req.Month,
		PeriodYear:               req.Year,
		CalculationBasis:         totals.CalculationBasis,
		AppliedCoefficient:       calc.Coefficient(),
		FixedBaseAmount:          fixedBase,
		TotalKmAmount:            totals.TotalKmAmount,
		TotalWaitingAmount:       totals.TotalWaitingAmount,
		GrossTotal:               gross,
		TotalExpensesDeducted:    deductions.Expenses,
		TotalWithdrawalsDeducted: deductions.Withdrawals,
		CashCollected:            totals.CashCollected,
		CarryForwardPrevMonth:    carryForward,
		NetTotal:                 net,
		TripCount:                totals.TripCount,
		Status:                   payroll.StatusDraft,
	}

	saved, err := s.payrollRepo.UpsertDraft(ctx, record)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(saved), nil
}

// carryForward reads the immediately preceding month's record and rolls its
// balance forward only when that balance is still outstanding: the record is
// not paid and its net total is negative. Positive balances never roll.
func (s *PayrollServiceImpl) carryForward(ctx context.Context, driverID string, month, year int) (decimal.Decimal, error) {
	prevMonth, prevYear := month-1, year
	if prevMonth == 0 {
		prevMonth, prevYear = 12, year-1
	}

	prev, err := s.payrollRepo.GetByDriverPeriod(ctx, driverID, prevMonth, prevYear)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	if prev.Status != payroll.StatusPaid && prev.NetTotal.IsNegative() {
		return prev.NetTotal, nil
	}
	return decimal.Zero, nil
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	records, totalCount, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}

	return payroll.ListPayrollRecordResponse{
		Data:       result,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) UpdateNotes(ctx context.Context, req payroll.UpdateNotesRequest) error {
	return s.payrollRepo.UpdateNotes(ctx, req.ID, req.Notes)
}

func (s *PayrollServiceImpl) GetSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	return s.payrollRepo.GetSummary(ctx, month, year)
}

// ========== LIFECYCLE ==========

func (s *PayrollServiceImpl) Confirm(ctx context.Context, id, actor string) error {
	return s.payrollRepo.Confirm(ctx, id, actor)
}

// MarkPaid flips a confirmed record to paid and writes the expense-ledger
// entry in one transaction. A ledger failure rolls back the state flip, so a
// failed payment leaves the record visibly confirmed and the retry safe. The
// ledger write is retried once before the failure is surfaced.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id, actor string) error {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record.Status != payroll.StatusConfirmed {
		return payroll.ErrInvalidStateTransition
	}

	attempt := func() error {
		return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			if err := s.payrollRepo.SetPaid(txCtx, id, actor); err != nil {
				return err
			}

			// SourceReference dedupe: if an earlier attempt committed the
			// entry server-side, do not create a second one.
			exists, err := s.ledgerRepo.ExistsBySourceReference(txCtx, record.ID)
			if err != nil {
				return fmt.Errorf("%w: %v", payroll.ErrLedgerWriteFailed, err)
			}
			if exists {
				return nil
			}

			entry := ledger.ExpenseEntry{
				Amount:          record.NetTotal,
				Date:            s.now(),
				Description:     fmt.Sprintf("Driver payroll %02d/%d", record.PeriodMonth, record.PeriodYear),
				SourceReference: record.ID,
			}
			if _, err := s.ledgerRepo.CreateEntry(txCtx, entry); err != nil {
				return fmt.Errorf("%w: %v", payroll.ErrLedgerWriteFailed, err)
			}
			return nil
		})
	}

	err = attempt()
	if errors.Is(err, payroll.ErrLedgerWriteFailed) {
		err = attempt()
	}
	return err
}

// ========== HELPERS ==========

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	var confirmedAtStr, paidAtStr *string
	if r.ConfirmedAt != nil {
		str := r.ConfirmedAt.Format(time.RFC3339)
		confirmedAtStr = &str
	}
	if r.PaidAt != nil {
		str := r.PaidAt.Format(time.RFC3339)
		paidAtStr = &str
	}

	driverName := ""
	if r.DriverName != nil {
		driverName = *r.DriverName
	}

	return payroll.PayrollRecordResponse{
		ID:                       r.ID,
		DriverID:                 r.DriverID,
		DriverName:               driverName,
		PeriodMonth:              r.PeriodMonth,
		PeriodYear:               r.PeriodYear,
		CalculationBasis:         r.CalculationBasis,
		AppliedCoefficient:       r.AppliedCoefficient,
		FixedBaseAmount:          r.FixedBaseAmount,
		TotalKmAmount:            r.TotalKmAmount,
		TotalWaitingAmount:       r.TotalWaitingAmount,
		GrossTotal:               r.GrossTotal,
		TotalExpensesDeducted:    r.TotalExpensesDeducted,
		TotalWithdrawalsDeducted: r.TotalWithdrawalsDeducted,
		CashCollected:            r.CashCollected,
		CarryForwardPrevMonth:    r.CarryForwardPrevMonth,
		NetTotal:                 r.NetTotal,
		TripCount:                r.TripCount,
		Status:                   string(r.Status),
		ConfirmedAt:              confirmedAtStr,
		PaidAt:                   paidAtStr,
		Notes:                    r.Notes,
	}
}
