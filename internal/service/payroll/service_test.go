package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/driver"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/ledger"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/payroll"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/tariff"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/trip"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/validator"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// ========== FAKES ==========

type fakePayrollRepo struct {
	records map[string]payroll.PayrollRecord
	nextID  int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{records: map[string]payroll.PayrollRecord{}}
}

func (f *fakePayrollRepo) periodKey(driverID string, month, year int) string {
	return fmt.Sprintf("%s/%d/%d", driverID, month, year)
}

func (f *fakePayrollRepo) findByPeriod(driverID string, month, year int) (payroll.PayrollRecord, bool) {
	for _, r := range f.records {
		if r.DriverID == driverID && r.PeriodMonth == month && r.PeriodYear == year {
			return r, true
		}
	}
	return payroll.PayrollRecord{}, false
}

func (f *fakePayrollRepo) UpsertDraft(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if existing, ok := f.findByPeriod(record.DriverID, record.PeriodMonth, record.PeriodYear); ok {
		if existing.Status != payroll.StatusDraft {
			return payroll.PayrollRecord{}, payroll.ErrInvalidStateTransition
		}
		record.ID = existing.ID
		record.Notes = existing.Notes
		record.CreatedAt = existing.CreatedAt
	} else {
		f.nextID++
		record.ID = fmt.Sprintf("rec-%d", f.nextID)
		record.CreatedAt = time.Now()
	}
	record.Status = payroll.StatusDraft
	record.UpdatedAt = time.Now()
	f.records[record.ID] = record
	return record, nil
}

func (f *fakePayrollRepo) GetByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) GetByDriverPeriod(_ context.Context, driverID string, month, year int) (payroll.PayrollRecord, error) {
	if r, ok := f.findByPeriod(driverID, month, year); ok {
		return r, nil
	}
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakePayrollRepo) List(_ context.Context, _ payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	result := make([]payroll.PayrollRecord, 0, len(f.records))
	for _, r := range f.records {
		result = append(result, r)
	}
	return result, int64(len(result)), nil
}

func (f *fakePayrollRepo) UpdateNotes(_ context.Context, id string, notes *string) error {
	r, ok := f.records[id]
	if !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	r.Notes = notes
	f.records[id] = r
	return nil
}

func (f *fakePayrollRepo) Confirm(_ context.Context, id, actor string) error {
	r, ok := f.records[id]
	if !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	if r.Status != payroll.StatusDraft {
		return payroll.ErrInvalidStateTransition
	}
	now := time.Now()
	r.Status = payroll.StatusConfirmed
	r.ConfirmedAt = &now
	r.ConfirmedBy = &actor
	f.records[id] = r
	return nil
}

func (f *fakePayrollRepo) SetPaid(_ context.Context, id, actor string) error {
	r, ok := f.records[id]
	if !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	if r.Status != payroll.StatusConfirmed {
		return payroll.ErrInvalidStateTransition
	}
	now := time.Now()
	r.Status = payroll.StatusPaid
	r.PaidAt = &now
	r.PaidBy = &actor
	f.records[id] = r
	return nil
}

func (f *fakePayrollRepo) GetSummary(_ context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	return payroll.PayrollSummaryResponse{PeriodMonth: month, PeriodYear: year}, nil
}

type fakeTariffRepo struct {
	entries []tariff.TariffEntry
	config  *tariff.PeriodConfig
}

func (f *fakeTariffRepo) LookupBaseAmount(_ context.Context, year, kmBracket int) (tariff.TariffEntry, error) {
	for _, e := range f.entries {
		if e.Year == year && e.KmBracket == kmBracket {
			return e, nil
		}
	}
	return tariff.TariffEntry{}, tariff.ErrTariffEntryNotFound
}

func (f *fakeTariffRepo) ListByYear(_ context.Context, year int, activeOnly bool) ([]tariff.TariffEntry, error) {
	var result []tariff.TariffEntry
	for _, e := range f.entries {
		if e.Year == year && (!activeOnly || e.IsActive) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeTariffRepo) Upsert(_ context.Context, entry tariff.TariffEntry) (tariff.TariffEntry, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeTariffRepo) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeTariffRepo) CountByYear(_ context.Context, year int) (int, error) {
	count := 0
	for _, e := range f.entries {
		if e.Year == year {
			count++
		}
	}
	return count, nil
}

func (f *fakeTariffRepo) CloneYear(_ context.Context, _, _ int) (int, error) { return 0, nil }

func (f *fakeTariffRepo) GetConfig(_ context.Context, year int) (tariff.PeriodConfig, error) {
	if f.config != nil && f.config.Year == year {
		return *f.config, nil
	}
	return tariff.PeriodConfig{}, tariff.ErrPeriodConfigNotFound
}

func (f *fakeTariffRepo) UpsertConfig(_ context.Context, config tariff.PeriodConfig) (tariff.PeriodConfig, error) {
	f.config = &config
	return config, nil
}

type fakeTripRepo struct {
	trips []trip.TripFinancial
}

func (f *fakeTripRepo) ListEligibleForPeriod(_ context.Context, driverID string, from, to time.Time) ([]trip.TripFinancial, error) {
	var result []trip.TripFinancial
	for _, t := range f.trips {
		if t.DriverID == driverID && !t.ServiceDate.Before(from) && t.ServiceDate.Before(to) {
			result = append(result, t)
		}
	}
	return result, nil
}

type fakeDriverRepo struct {
	drivers map[string]driver.Driver
}

func (f *fakeDriverRepo) GetByID(_ context.Context, id string) (driver.Driver, error) {
	d, ok := f.drivers[id]
	if !ok {
		return driver.Driver{}, driver.ErrDriverNotFound
	}
	return d, nil
}

type fakeLedgerRepo struct {
	entries     []ledger.ExpenseEntry
	deductions  map[string]ledger.DriverDeductions
	failCreates int
	nextID      int
}

func (f *fakeLedgerRepo) CreateEntry(_ context.Context, entry ledger.ExpenseEntry) (ledger.ExpenseEntry, error) {
	if f.failCreates > 0 {
		f.failCreates--
		return ledger.ExpenseEntry{}, fmt.Errorf("ledger unavailable")
	}
	f.nextID++
	entry.ID = fmt.Sprintf("exp-%d", f.nextID)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeLedgerRepo) ExistsBySourceReference(_ context.Context, sourceReference string) (bool, error) {
	for _, e := range f.entries {
		if e.SourceReference == sourceReference {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedgerRepo) GetDriverDeductions(_ context.Context, driverID string, _, _ time.Time) (ledger.DriverDeductions, error) {
	if d, ok := f.deductions[driverID]; ok {
		return d, nil
	}
	return ledger.DriverDeductions{Expenses: decimal.Zero, Withdrawals: decimal.Zero}, nil
}

// fakeTxRunner snapshots the mutable fakes before running fn and restores
// them when fn fails, mimicking a rollback.
type fakeTxRunner struct {
	payrollRepo *fakePayrollRepo
	ledgerRepo  *fakeLedgerRepo
}

func (f *fakeTxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	recordsSnap := make(map[string]payroll.PayrollRecord, len(f.payrollRepo.records))
	for k, v := range f.payrollRepo.records {
		recordsSnap[k] = v
	}
	entriesSnap := append([]ledger.ExpenseEntry(nil), f.ledgerRepo.entries...)

	if err := fn(ctx); err != nil {
		f.payrollRepo.records = recordsSnap
		f.ledgerRepo.entries = entriesSnap
		return err
	}
	return nil
}

// ========== FIXTURE ==========

type fixture struct {
	svc     *PayrollServiceImpl
	payroll *fakePayrollRepo
	tariffs *fakeTariffRepo
	trips   *fakeTripRepo
	drivers *fakeDriverRepo
	ledger  *fakeLedgerRepo
}

func newFixture() *fixture {
	payrollRepo := newFakePayrollRepo()
	tariffRepo := &fakeTariffRepo{
		entries: []tariff.TariffEntry{
			{ID: "t-12", Year: 2025, KmBracket: 12, BaseAmount: dec("20.00"), IsActive: true},
			{ID: "t-15", Year: 2025, KmBracket: 15, BaseAmount: dec("22.00"), IsActive: true},
			{ID: "t-20", Year: 2025, KmBracket: 20, BaseAmount: dec("24.00"), IsActive: true},
			{ID: "t-25", Year: 2025, KmBracket: 25, BaseAmount: dec("27.50"), IsActive: true},
		},
	}
	tripRepo := &fakeTripRepo{}
	driverRepo := &fakeDriverRepo{drivers: map[string]driver.Driver{
		"drv-1": {ID: "drv-1", FullName: "Mario Bianchi", IsActive: true},
		"drv-2": {ID: "drv-2", FullName: "Luca Verdi", FixedMonthlySalary: decPtr("500.00"), IsActive: true},
	}}
	ledgerRepo := &fakeLedgerRepo{deductions: map[string]ledger.DriverDeductions{}}
	tx := &fakeTxRunner{payrollRepo: payrollRepo, ledgerRepo: ledgerRepo}

	svc := NewPayrollService(payrollRepo, tariffRepo, tripRepo, driverRepo, ledgerRepo, tx).(*PayrollServiceImpl)

	return &fixture{
		svc:     svc,
		payroll: payrollRepo,
		tariffs: tariffRepo,
		trips:   tripRepo,
		drivers: driverRepo,
		ledger:  ledgerRepo,
	}
}

func juneTrip(id, driverID string, day int, km, waiting string) trip.TripFinancial {
	return trip.TripFinancial{
		ID:            id,
		DriverID:      driverID,
		ServiceDate:   time.Date(2025, time.June, day, 0, 0, 0, 0, time.UTC),
		TotalKm:       dec(km),
		WaitingHours:  dec(waiting),
		PaymentMethod: trip.PaymentInvoice,
		Status:        trip.StatusCompleted,
	}
}

// ========== COMPUTE ==========

func TestComputeForDriver_WorkedExample(t *testing.T) {
	f := newFixture()
	f.trips.trips = []trip.TripFinancial{
		juneTrip("trip-1", "drv-1", 3, "8", "0"),
		juneTrip("trip-2", "drv-1", 10, "20", "1.5"),
	}

	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)

	// 8 km snaps to the 12 km floor bracket (20.00); 20 km is an exact
	// bracket (24.00). Basis 44.00, coefficient 1.17, waiting 1.5h * 15.00.
	assert.True(t, resp.CalculationBasis.Equal(dec("44.00")), "basis = %s", resp.CalculationBasis)
	assert.True(t, resp.AppliedCoefficient.Equal(dec("1.17")))
	assert.True(t, resp.TotalKmAmount.Equal(dec("51.48")), "km amount = %s", resp.TotalKmAmount)
	assert.True(t, resp.TotalWaitingAmount.Equal(dec("22.50")))
	assert.True(t, resp.GrossTotal.Equal(dec("73.98")), "gross = %s", resp.GrossTotal)
	assert.True(t, resp.NetTotal.Equal(dec("73.98")))
	assert.Equal(t, 2, resp.TripCount)
	assert.Equal(t, string(payroll.StatusDraft), resp.Status)
	assert.Equal(t, "drv-1", resp.DriverID)
}

func TestComputeForDriver_FixedBaseIsAdditive(t *testing.T) {
	f := newFixture()
	f.trips.trips = []trip.TripFinancial{
		juneTrip("trip-1", "drv-2", 3, "20", "0"),
	}

	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-2", Month: 6, Year: 2025,
	})
	require.NoError(t, err)

	assert.True(t, resp.FixedBaseAmount.Equal(dec("500.00")))
	// 24.00 * 1.17 = 28.08, plus the fixed base. Never one or the other.
	assert.True(t, resp.GrossTotal.Equal(dec("528.08")), "gross = %s", resp.GrossTotal)
}

func TestComputeForDriver_NoTripsIsZeroRecord(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TripCount)
	assert.True(t, resp.GrossTotal.IsZero())
	assert.True(t, resp.NetTotal.IsZero())
}

func TestComputeForDriver_RecomputeReplacesDraft(t *testing.T) {
	f := newFixture()
	f.trips.trips = []trip.TripFinancial{juneTrip("trip-1", "drv-1", 3, "8", "0")}
	req := payroll.ComputePayrollRequest{DriverID: "drv-1", Month: 6, Year: 2025}

	first, err := f.svc.ComputeForDriver(context.Background(), req)
	require.NoError(t, err)

	f.trips.trips = append(f.trips.trips, juneTrip("trip-2", "drv-1", 10, "20", "1.5"))

	second, err := f.svc.ComputeForDriver(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "recompute must replace, not duplicate")
	assert.Equal(t, 2, second.TripCount)
	assert.Len(t, f.payroll.records, 1)
}

func TestComputeForDriver_RejectsConfirmedRecord(t *testing.T) {
	f := newFixture()
	req := payroll.ComputePayrollRequest{DriverID: "drv-1", Month: 6, Year: 2025}

	resp, err := f.svc.ComputeForDriver(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, f.svc.Confirm(context.Background(), resp.ID, "admin-1"))

	_, err = f.svc.ComputeForDriver(context.Background(), req)
	assert.ErrorIs(t, err, payroll.ErrInvalidStateTransition)
}

func TestComputeForDriver_DeductionsAndCash(t *testing.T) {
	f := newFixture()
	cashTrip := juneTrip("trip-1", "drv-1", 3, "20", "0")
	cashTrip.PaymentMethod = trip.PaymentCash
	cashTrip.AmountCollected = decPtr("35.00")
	cardTrip := juneTrip("trip-2", "drv-1", 5, "20", "0")
	cardTrip.PaymentMethod = trip.PaymentCard
	cardTrip.AmountCollected = decPtr("40.00")
	f.trips.trips = []trip.TripFinancial{cashTrip, cardTrip}
	f.ledger.deductions["drv-1"] = ledger.DriverDeductions{
		Expenses:    dec("10.00"),
		Withdrawals: dec("50.00"),
	}

	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)

	// Cash accumulates for the cash trip only; the card trip's collected
	// amount belongs to the company, not the driver's pocket.
	assert.True(t, resp.CashCollected.Equal(dec("35.00")), "cash = %s", resp.CashCollected)
	assert.True(t, resp.TotalExpensesDeducted.Equal(dec("10.00")))
	assert.True(t, resp.TotalWithdrawalsDeducted.Equal(dec("50.00")))

	// gross 2 * 24.00 * 1.17 = 56.16; net = 56.16 - 10 - 50 + 0 + 35 = 31.16
	assert.True(t, resp.NetTotal.Equal(dec("31.16")), "net = %s", resp.NetTotal)
}

func TestComputeForDriver_CashTripFallsBackToExpected(t *testing.T) {
	f := newFixture()
	cashTrip := juneTrip("trip-1", "drv-1", 8, "20", "0")
	cashTrip.PaymentMethod = trip.PaymentCash
	cashTrip.AmountExpected = decPtr("28.00")
	f.trips.trips = []trip.TripFinancial{cashTrip}

	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)
	assert.True(t, resp.CashCollected.Equal(dec("28.00")))
}

func TestComputeForDriver_InvalidTripData(t *testing.T) {
	f := newFixture()
	f.trips.trips = []trip.TripFinancial{juneTrip("trip-1", "drv-1", 3, "-5", "0")}

	_, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	assert.ErrorIs(t, err, trip.ErrInvalidTripData)
}

func TestComputeForDriver_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 13, Year: 2025,
	})

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	assert.Contains(t, vErrs.ToMap(), "month")
}

func TestComputeForDriver_DriverNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-missing", Month: 6, Year: 2025,
	})
	assert.ErrorIs(t, err, driver.ErrDriverNotFound)
}

// ========== CARRY-FORWARD ==========

func TestCarryForward_NegativeUnpaidRolls(t *testing.T) {
	f := newFixture()
	f.payroll.records["rec-may"] = payroll.PayrollRecord{
		ID: "rec-may", DriverID: "drv-1", PeriodMonth: 5, PeriodYear: 2025,
		NetTotal: dec("-120.00"), Status: payroll.StatusConfirmed,
	}
	f.trips.trips = []trip.TripFinancial{juneTrip("trip-1", "drv-1", 3, "20", "0")}

	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)

	assert.True(t, resp.CarryForwardPrevMonth.Equal(dec("-120.00")))
	// 28.08 - 120.00
	assert.True(t, resp.NetTotal.Equal(dec("-91.92")), "net = %s", resp.NetTotal)
}

func TestCarryForward_PositiveBalanceNeverRolls(t *testing.T) {
	f := newFixture()
	f.payroll.records["rec-may"] = payroll.PayrollRecord{
		ID: "rec-may", DriverID: "drv-1", PeriodMonth: 5, PeriodYear: 2025,
		NetTotal: dec("300.00"), Status: payroll.StatusConfirmed,
	}

	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)
	assert.True(t, resp.CarryForwardPrevMonth.IsZero())
}

func TestCarryForward_PaidDebtDoesNotRoll(t *testing.T) {
	f := newFixture()
	f.payroll.records["rec-may"] = payroll.PayrollRecord{
		ID: "rec-may", DriverID: "drv-1", PeriodMonth: 5, PeriodYear: 2025,
		NetTotal: dec("-120.00"), Status: payroll.StatusPaid,
	}

	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)
	assert.True(t, resp.CarryForwardPrevMonth.IsZero())
}

func TestCarryForward_JanuaryLooksAtDecember(t *testing.T) {
	f := newFixture()
	f.tariffs.entries = append(f.tariffs.entries,
		tariff.TariffEntry{ID: "t-12-26", Year: 2026, KmBracket: 12, BaseAmount: dec("20.00"), IsActive: true})
	f.payroll.records["rec-dec"] = payroll.PayrollRecord{
		ID: "rec-dec", DriverID: "drv-1", PeriodMonth: 12, PeriodYear: 2025,
		NetTotal: dec("-40.00"), Status: payroll.StatusDraft,
	}

	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 1, Year: 2026,
	})
	require.NoError(t, err)
	assert.True(t, resp.CarryForwardPrevMonth.Equal(dec("-40.00")))
}

// ========== LIFECYCLE ==========

func TestLifecycle_Transitions(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)

	// Draft cannot be paid directly.
	assert.ErrorIs(t, f.svc.MarkPaid(context.Background(), resp.ID, "admin-1"), payroll.ErrInvalidStateTransition)

	require.NoError(t, f.svc.Confirm(context.Background(), resp.ID, "admin-1"))

	// Confirming twice is rejected.
	assert.ErrorIs(t, f.svc.Confirm(context.Background(), resp.ID, "admin-1"), payroll.ErrInvalidStateTransition)

	require.NoError(t, f.svc.MarkPaid(context.Background(), resp.ID, "admin-2"))

	paid, err := f.payroll.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidBy)
	assert.Equal(t, "admin-2", *paid.PaidBy)

	// Paying twice is rejected and leaves exactly one ledger entry.
	assert.ErrorIs(t, f.svc.MarkPaid(context.Background(), resp.ID, "admin-2"), payroll.ErrInvalidStateTransition)
	assert.Len(t, f.ledger.entries, 1)
}

func TestMarkPaid_WritesLedgerEntry(t *testing.T) {
	f := newFixture()
	f.trips.trips = []trip.TripFinancial{juneTrip("trip-1", "drv-1", 3, "20", "0")}
	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Confirm(context.Background(), resp.ID, "admin-1"))

	require.NoError(t, f.svc.MarkPaid(context.Background(), resp.ID, "admin-1"))

	require.Len(t, f.ledger.entries, 1)
	entry := f.ledger.entries[0]
	assert.Equal(t, resp.ID, entry.SourceReference)
	assert.True(t, entry.Amount.Equal(dec("28.08")))
	assert.Contains(t, entry.Description, "06/2025")
}

func TestMarkPaid_LedgerFailureRollsBack(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Confirm(context.Background(), resp.ID, "admin-1"))

	// Both the first attempt and the single retry fail.
	f.ledger.failCreates = 2

	err = f.svc.MarkPaid(context.Background(), resp.ID, "admin-1")
	assert.ErrorIs(t, err, payroll.ErrLedgerWriteFailed)

	record, getErr := f.payroll.GetByID(context.Background(), resp.ID)
	require.NoError(t, getErr)
	assert.Equal(t, payroll.StatusConfirmed, record.Status, "failed payment must not leave the record paid")
	assert.Empty(t, f.ledger.entries)
}

func TestMarkPaid_RetriesLedgerOnce(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Confirm(context.Background(), resp.ID, "admin-1"))

	f.ledger.failCreates = 1

	require.NoError(t, f.svc.MarkPaid(context.Background(), resp.ID, "admin-1"))
	assert.Len(t, f.ledger.entries, 1)

	record, getErr := f.payroll.GetByID(context.Background(), resp.ID)
	require.NoError(t, getErr)
	assert.Equal(t, payroll.StatusPaid, record.Status)
}

func TestMarkPaid_DedupesBySourceReference(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Confirm(context.Background(), resp.ID, "admin-1"))

	// A previous attempt committed the entry but the caller retried anyway.
	f.ledger.entries = append(f.ledger.entries, ledger.ExpenseEntry{
		ID: "exp-old", Amount: resp.NetTotal, SourceReference: resp.ID,
	})

	require.NoError(t, f.svc.MarkPaid(context.Background(), resp.ID, "admin-1"))
	assert.Len(t, f.ledger.entries, 1, "dedupe must not create a second entry")
}

// ========== QUERIES ==========

func TestAggregateMonth_EmptyIsZero(t *testing.T) {
	f := newFixture()

	totals, err := f.svc.AggregateMonth(context.Background(), "drv-1", 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, 0, totals.TripCount)
	assert.True(t, totals.CalculationBasis.IsZero())
	assert.True(t, totals.TotalKmAmount.IsZero())
}

func TestAggregateMonth_RespectsMonthBounds(t *testing.T) {
	f := newFixture()
	mayTrip := juneTrip("trip-may", "drv-1", 1, "20", "0")
	mayTrip.ServiceDate = time.Date(2025, time.May, 31, 23, 30, 0, 0, time.UTC)
	lateJuneTrip := juneTrip("trip-late-june", "drv-1", 30, "20", "0")
	lateJuneTrip.ServiceDate = time.Date(2025, time.June, 30, 23, 45, 0, 0, time.UTC)
	julyTrip := juneTrip("trip-july", "drv-1", 1, "20", "0")
	julyTrip.ServiceDate = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	f.trips.trips = []trip.TripFinancial{
		mayTrip,
		juneTrip("trip-1", "drv-1", 1, "20", "0"),
		lateJuneTrip,
		julyTrip,
	}

	totals, err := f.svc.AggregateMonth(context.Background(), "drv-1", 6, 2025)
	require.NoError(t, err)

	// A trip timestamped late on the last calendar day still belongs to the
	// month; midnight of the next month does not.
	assert.Equal(t, 2, totals.TripCount)
}

func TestUpdateNotes(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.ComputeForDriver(context.Background(), payroll.ComputePayrollRequest{
		DriverID: "drv-1", Month: 6, Year: 2025,
	})
	require.NoError(t, err)

	notes := "advance agreed verbally"
	require.NoError(t, f.svc.UpdateNotes(context.Background(), payroll.UpdateNotesRequest{ID: resp.ID, Notes: &notes}))

	record, err := f.payroll.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, record.Notes)
	assert.Equal(t, notes, *record.Notes)
}
