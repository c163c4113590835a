package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary over one database transaction.
// A transaction only ever covers a single aggregate; orders and drivers are
// never written in the same one.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error if no transaction is active, which makes it
	// safe to defer after Commit.
	Rollback(ctx context.Context) error

	// OrderRepository is bound to the transaction started by Begin, if any.
	OrderRepository() OrderRepository

	// DriverRepository is bound to the transaction started by Begin, if any.
	DriverRepository() DriverRepository
}
