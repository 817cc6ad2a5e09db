package response

import (
	"errors"
	"net/http"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/auth"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/driver"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/ledger"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/payroll"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/tariff"
	"github.com/fleetoffice/fleet-backend-go/internal/domain/trip"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Tariff domain errors
	case errors.Is(err, tariff.ErrTariffEntryNotFound):
		NotFound(w, "Tariff entry not found")
	case errors.Is(err, tariff.ErrPeriodConfigNotFound):
		NotFound(w, "Period configuration not found")
	case errors.Is(err, tariff.ErrTariffYearNotEmpty):
		Conflict(w, "Target year already has tariff entries")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrInvalidStateTransition):
		Conflict(w, "Payroll record is not in a state that allows this operation")
	case errors.Is(err, payroll.ErrLedgerWriteFailed):
		BadGateway(w, "Expense ledger write failed; payment was not recorded")

	// Collaborator domain errors
	case errors.Is(err, driver.ErrDriverNotFound):
		NotFound(w, "Driver not found")
	case errors.Is(err, trip.ErrInvalidTripData):
		BadRequest(w, "Trip data is invalid for payroll computation", nil)
	case errors.Is(err, ledger.ErrEntryExists):
		Conflict(w, "Expense entry already exists for this payroll record")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
