package tariff

import (
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== TARIFF ENTRY DTOs ==========

type UpsertTariffEntryRequest struct {
	Year       int             `json:"year"`
	KmBracket  int             `json:"km"`
	BaseAmount decimal.Decimal `json:"importo_base"`
	IsActive   *bool           `json:"is_active,omitempty"`
}

func (r *UpsertTariffEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a valid year"})
	}
	if r.KmBracket <= 0 {
		errs = append(errs, validator.ValidationError{Field: "km", Message: "must be positive"})
	}
	if r.BaseAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "importo_base", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TariffEntryResponse struct {
	ID         string          `json:"id"`
	Year       int             `json:"year"`
	KmBracket  int             `json:"km"`
	BaseAmount decimal.Decimal `json:"importo_base"`
	IsActive   bool            `json:"is_active"`
}

// ========== CLONE / IMPORT DTOs ==========

type CloneYearRequest struct {
	SourceYear int `json:"source_year"`
	TargetYear int `json:"target_year"`
}

func (r *CloneYearRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.SourceYear) {
		errs = append(errs, validator.ValidationError{Field: "source_year", Message: "must be a valid year"})
	}
	if !validator.IsValidYear(r.TargetYear) {
		errs = append(errs, validator.ValidationError{Field: "target_year", Message: "must be a valid year"})
	}
	if r.SourceYear == r.TargetYear {
		errs = append(errs, validator.ValidationError{Field: "target_year", Message: "must differ from source_year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CloneYearResponse struct {
	SourceYear int `json:"source_year"`
	TargetYear int `json:"target_year"`
	Copied     int `json:"copied"`
}

// ImportRow is the tabular bulk-import row shape: one row per bracket.
type ImportRow struct {
	Km         int             `json:"km"`
	BaseAmount decimal.Decimal `json:"importo_base"`
}

type BulkImportRequest struct {
	Year int         `json:"year"`
	Rows []ImportRow `json:"rows"`
}

func (r *BulkImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a valid year"})
	}
	if len(r.Rows) == 0 {
		errs = append(errs, validator.ValidationError{Field: "rows", Message: "at least one row is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ImportRowResult reports the outcome of a single import row. Partial success
// is expected: malformed rows are rejected individually, valid rows commit.
type ImportRowResult struct {
	Index int    `json:"index"`
	Km    int    `json:"km"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type BulkImportResponse struct {
	Year     int               `json:"year"`
	Imported int               `json:"imported"`
	Results  []ImportRowResult `json:"results"`
}

// ========== PERIOD CONFIG DTOs ==========

type UpdatePeriodConfigRequest struct {
	AdjustmentCoefficient *decimal.Decimal `json:"adjustment_coefficient,omitempty"`
	WaitingHourlyRate     *decimal.Decimal `json:"waiting_hourly_rate,omitempty"`
	LongDistancePerKmRate *decimal.Decimal `json:"long_distance_per_km_rate,omitempty"`
}

func (r *UpdatePeriodConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AdjustmentCoefficient != nil && r.AdjustmentCoefficient.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "adjustment_coefficient", Message: "must be non-negative"})
	}
	if r.WaitingHourlyRate != nil && r.WaitingHourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "waiting_hourly_rate", Message: "must be non-negative"})
	}
	if r.LongDistancePerKmRate != nil && r.LongDistancePerKmRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "long_distance_per_km_rate", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PeriodConfigResponse struct {
	Year                  int             `json:"year"`
	AdjustmentCoefficient decimal.Decimal `json:"adjustment_coefficient"`
	WaitingHourlyRate     decimal.Decimal `json:"waiting_hourly_rate"`
	LongDistancePerKmRate decimal.Decimal `json:"long_distance_per_km_rate"`
}
