package tariff

import "context"

type TariffService interface {
	// Entries
	LookupEntry(ctx context.Context, year, kmBracket int) (TariffEntryResponse, error)
	ListEntries(ctx context.Context, year int, activeOnly bool) ([]TariffEntryResponse, error)
	UpsertEntry(ctx context.Context, req UpsertTariffEntryRequest) (TariffEntryResponse, error)
	DeleteEntry(ctx context.Context, id string) error
	CloneYear(ctx context.Context, req CloneYearRequest) (CloneYearResponse, error)
	BulkImport(ctx context.Context, req BulkImportRequest) (BulkImportResponse, error)

	// Period configuration
	GetConfig(ctx context.Context, year int) (PeriodConfigResponse, error)
	UpdateConfig(ctx context.Context, year int, req UpdatePeriodConfigRequest) (PeriodConfigResponse, error)
}
