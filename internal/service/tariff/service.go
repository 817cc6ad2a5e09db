package tariff

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/tariff"
)

type TariffServiceImpl struct {
	tariffRepo tariff.TariffRepository
}

func NewTariffService(tariffRepo tariff.TariffRepository) tariff.TariffService {
	return &TariffServiceImpl{tariffRepo: tariffRepo}
}

// ========== ENTRIES ==========

// LookupEntry resolves one exact (year, bracket) entry. No snapping happens
// here; distance snapping is the calculator's job.
func (s *TariffServiceImpl) LookupEntry(ctx context.Context, year, kmBracket int) (tariff.TariffEntryResponse, error) {
	entry, err := s.tariffRepo.LookupBaseAmount(ctx, year, kmBracket)
	if err != nil {
		return tariff.TariffEntryResponse{}, err
	}
	return mapToEntryResponse(entry), nil
}

func (s *TariffServiceImpl) ListEntries(ctx context.Context, year int, activeOnly bool) ([]tariff.TariffEntryResponse, error) {
	entries, err := s.tariffRepo.ListByYear(ctx, year, activeOnly)
	if err != nil {
		return nil, err
	}

	result := make([]tariff.TariffEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, mapToEntryResponse(e))
	}
	return result, nil
}

func (s *TariffServiceImpl) UpsertEntry(ctx context.Context, req tariff.UpsertTariffEntryRequest) (tariff.TariffEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return tariff.TariffEntryResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	entry, err := s.tariffRepo.Upsert(ctx, tariff.TariffEntry{
		Year:       req.Year,
		KmBracket:  req.KmBracket,
		BaseAmount: req.BaseAmount,
		IsActive:   isActive,
	})
	if err != nil {
		return tariff.TariffEntryResponse{}, err
	}

	return mapToEntryResponse(entry), nil
}

func (s *TariffServiceImpl) DeleteEntry(ctx context.Context, id string) error {
	return s.tariffRepo.Delete(ctx, id)
}

// CloneYear copies the source year's active entries re-keyed to the target
// year. It fails loudly when the target already has entries; silent
// duplication is the failure mode this guards against.
func (s *TariffServiceImpl) CloneYear(ctx context.Context, req tariff.CloneYearRequest) (tariff.CloneYearResponse, error) {
	if err := req.Validate(); err != nil {
		return tariff.CloneYearResponse{}, err
	}

	existing, err := s.tariffRepo.CountByYear(ctx, req.TargetYear)
	if err != nil {
		return tariff.CloneYearResponse{}, err
	}
	if existing > 0 {
		return tariff.CloneYearResponse{}, tariff.ErrTariffYearNotEmpty
	}

	copied, err := s.tariffRepo.CloneYear(ctx, req.SourceYear, req.TargetYear)
	if err != nil {
		return tariff.CloneYearResponse{}, err
	}

	return tariff.CloneYearResponse{
		SourceYear: req.SourceYear,
		TargetYear: req.TargetYear,
		Copied:     copied,
	}, nil
}

// BulkImport merges tabular rows into the year's tariff table. Rows are
// validated individually: malformed rows are reported with their index while
// the valid ones still commit.
func (s *TariffServiceImpl) BulkImport(ctx context.Context, req tariff.BulkImportRequest) (tariff.BulkImportResponse, error) {
	if err := req.Validate(); err != nil {
		return tariff.BulkImportResponse{}, err
	}

	seen := make(map[int]bool, len(req.Rows))
	results := make([]tariff.ImportRowResult, 0, len(req.Rows))
	imported := 0

	for i, row := range req.Rows {
		res := tariff.ImportRowResult{Index: i, Km: row.Km}

		switch {
		case row.Km <= 0:
			res.Error = "km must be positive"
		case row.BaseAmount.IsNegative():
			res.Error = "importo_base must be non-negative"
		case seen[row.Km]:
			res.Error = fmt.Sprintf("duplicate bracket %d in import", row.Km)
		default:
			seen[row.Km] = true
			_, err := s.tariffRepo.Upsert(ctx, tariff.TariffEntry{
				Year:       req.Year,
				KmBracket:  row.Km,
				BaseAmount: row.BaseAmount,
				IsActive:   true,
			})
			if err != nil {
				res.Error = err.Error()
			} else {
				res.OK = true
				imported++
			}
		}

		results = append(results, res)
	}

	return tariff.BulkImportResponse{
		Year:     req.Year,
		Imported: imported,
		Results:  results,
	}, nil
}

// ========== PERIOD CONFIGURATION ==========

func (s *TariffServiceImpl) GetConfig(ctx context.Context, year int) (tariff.PeriodConfigResponse, error) {
	config, err := s.tariffRepo.GetConfig(ctx, year)
	if err != nil {
		if errors.Is(err, tariff.ErrPeriodConfigNotFound) {
			return mapToConfigResponse(tariff.DefaultPeriodConfig(year)), nil
		}
		return tariff.PeriodConfigResponse{}, err
	}

	return mapToConfigResponse(config), nil
}

func (s *TariffServiceImpl) UpdateConfig(ctx context.Context, year int, req tariff.UpdatePeriodConfigRequest) (tariff.PeriodConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return tariff.PeriodConfigResponse{}, err
	}

	current, err := s.tariffRepo.GetConfig(ctx, year)
	if err != nil {
		if !errors.Is(err, tariff.ErrPeriodConfigNotFound) {
			return tariff.PeriodConfigResponse{}, err
		}
		current = tariff.DefaultPeriodConfig(year)
	}

	if req.AdjustmentCoefficient != nil {
		current.AdjustmentCoefficient = *req.AdjustmentCoefficient
	}
	if req.WaitingHourlyRate != nil {
		current.WaitingHourlyRate = *req.WaitingHourlyRate
	}
	if req.LongDistancePerKmRate != nil {
		current.LongDistancePerKmRate = *req.LongDistancePerKmRate
	}

	updated, err := s.tariffRepo.UpsertConfig(ctx, current)
	if err != nil {
		return tariff.PeriodConfigResponse{}, err
	}

	return mapToConfigResponse(updated), nil
}

// ========== HELPERS ==========

func mapToEntryResponse(e tariff.TariffEntry) tariff.TariffEntryResponse {
	return tariff.TariffEntryResponse{
		ID:         e.ID,
		Year:       e.Year,
		KmBracket:  e.KmBracket,
		BaseAmount: e.BaseAmount,
		IsActive:   e.IsActive,
	}
}

func mapToConfigResponse(c tariff.PeriodConfig) tariff.PeriodConfigResponse {
	return tariff.PeriodConfigResponse{
		Year:                  c.Year,
		AdjustmentCoefficient: c.AdjustmentCoefficient,
		WaitingHourlyRate:     c.WaitingHourlyRate,
		LongDistancePerKmRate: c.LongDistancePerKmRate,
	}
}
