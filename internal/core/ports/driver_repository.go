package ports

import (
	"context"

	"orderapi/internal/core/domain/model/driver"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	// Add persists a new driver. A second driver with the same id yields
	// errs.ErrObjectAlreadyExists.
	Add(ctx context.Context, aggregate *driver.Driver) error

	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get returns errs.ErrObjectNotFound for unknown driver ids.
	Get(ctx context.Context, driverID string) (*driver.Driver, error)

	// GetForUpdate is Get plus a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, driverID string) (*driver.Driver, error)

	// ListAvailable returns available drivers, most recent location report
	// first; drivers that never reported come last.
	ListAvailable(ctx context.Context) ([]*driver.Driver, error)
}
