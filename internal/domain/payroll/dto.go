package payroll

import (
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== COMPUTE DTOs ==========

type ComputePayrollRequest struct {
	DriverID string `json:"driver_id"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
}

func (r *ComputePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "is required"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a valid year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateNotesRequest struct {
	ID    string
	Notes *string `json:"notes"`
}

// ========== RECORD DTOs ==========

type PayrollRecordResponse struct {
	ID                       string          `json:"id"`
	DriverID                 string          `json:"driver_id"`
	DriverName               string          `json:"driver_name,omitempty"`
	PeriodMonth              int             `json:"period_month"`
	PeriodYear               int             `json:"period_year"`
	CalculationBasis         decimal.Decimal `json:"calculation_basis"`
	AppliedCoefficient       decimal.Decimal `json:"applied_coefficient"`
	FixedBaseAmount          decimal.Decimal `json:"fixed_base_amount"`
	TotalKmAmount            decimal.Decimal `json:"total_km_amount"`
	TotalWaitingAmount       decimal.Decimal `json:"total_waiting_amount"`
	GrossTotal               decimal.Decimal `json:"gross_total"`
	TotalExpensesDeducted    decimal.Decimal `json:"total_expenses_deducted"`
	TotalWithdrawalsDeducted decimal.Decimal `json:"total_withdrawals_deducted"`
	CashCollected            decimal.Decimal `json:"cash_collected"`
	CarryForwardPrevMonth    decimal.Decimal `json:"carry_forward_prev_month"`
	NetTotal                 decimal.Decimal `json:"net_total"`
	TripCount                int             `json:"trip_count"`
	Status                   string          `json:"status"`
	ConfirmedAt              *string         `json:"confirmed_at,omitempty"`
	PaidAt                   *string         `json:"paid_at,omitempty"`
	Notes                    *string         `json:"notes,omitempty"`
}

type PayrollFilter struct {
	PeriodMonth *int
	PeriodYear  *int
	Status      *string
	DriverID    *string
	Page        int
	Limit       int
	SortBy      string
	SortOrder   string
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

type PayrollSummaryResponse struct {
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	TotalDrivers     int             `json:"total_drivers"`
	TotalKmAmount    decimal.Decimal `json:"total_km_amount"`
	TotalWaiting     decimal.Decimal `json:"total_waiting_amount"`
	TotalGross       decimal.Decimal `json:"total_gross"`
	TotalNet         decimal.Decimal `json:"total_net"`
	TotalCashHandled decimal.Decimal `json:"total_cash_handled"`
	DraftCount       int             `json:"draft_count"`
	ConfirmedCount   int             `json:"confirmed_count"`
	PaidCount        int             `json:"paid_count"`
}
