package payroll

import "errors"

var (
	ErrPayrollRecordNotFound  = errors.New("payroll record not found")
	ErrInvalidStateTransition = errors.New("payroll record is not in the required state for this operation")
	ErrLedgerWriteFailed      = errors.New("expense ledger write failed, payment not recorded")
)
