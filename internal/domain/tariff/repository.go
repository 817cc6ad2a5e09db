package tariff

import "context"

// TariffRepository defines data access for tariff entries and period
// configurations. Lookup is exact-match only; bracket snapping happens in the
// compensation calculator, not here.
type TariffRepository interface {
	// Entries
	LookupBaseAmount(ctx context.Context, year, kmBracket int) (TariffEntry, error)
	ListByYear(ctx context.Context, year int, activeOnly bool) ([]TariffEntry, error)
	Upsert(ctx context.Context, entry TariffEntry) (TariffEntry, error)
	Delete(ctx context.Context, id string) error
	CountByYear(ctx context.Context, year int) (int, error)
	CloneYear(ctx context.Context, sourceYear, targetYear int) (int, error)

	// Period configuration
	GetConfig(ctx context.Context, year int) (PeriodConfig, error)
	UpsertConfig(ctx context.Context, config PeriodConfig) (PeriodConfig, error)
}
