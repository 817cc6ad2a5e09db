package tariff

import "errors"

var (
	ErrTariffEntryNotFound  = errors.New("tariff entry not found")
	ErrTariffYearNotEmpty   = errors.New("target year already has tariff entries")
	ErrPeriodConfigNotFound = errors.New("period configuration not found")
)
