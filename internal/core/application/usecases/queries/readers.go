// Package queries contains the read side: handlers that load orders and
// drivers and render them as views. They never open a transaction.
package queries

import (
	"context"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/ports"
)

// Read-only slices of the repositories, satisfied by the postgres adapters.
type (
	OrderReader interface {
		Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
		List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error)
	}

	DriverReader interface {
		Get(ctx context.Context, driverID string) (*driver.Driver, error)
		ListAvailable(ctx context.Context) ([]*driver.Driver, error)
	}
)
