// Package ports defines the contracts between the application core and its
// adapters: record storage, real-time notification and geocoding.
package ports

import (
	"context"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
)

// OrderFilter narrows List. Zero-valued fields do not filter.
type OrderFilter struct {
	ShopID     string
	CustomerID string
	CourierID  string
	Status     order.Status
	// UnclaimedOnly keeps orders without a courier.
	UnclaimedOnly bool
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. The order must be valid and not exist yet.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update saves the full state of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ErrObjectNotFound for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get plus a row lock held until the surrounding
	// transaction ends. Outside a transaction it behaves like Get.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns matching orders, newest first.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
