package driver

import "context"

// DriverRepository resolves driver identity and base-salary configuration.
type DriverRepository interface {
	GetByID(ctx context.Context, id string) (Driver, error)
}
