package commands

import (
	"errors"
	"strings"
	"time"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

// CreateDriverCommand registers a driver announced by a driver.created event.
type CreateDriverCommand struct { //nolint:recvcheck //using for validation
	driverID  string
	createdAt time.Time

	guard guard.ConstructorGuard
}

func NewCreateDriverCommand(driverID string, createdAt time.Time) (CreateDriverCommand, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return CreateDriverCommand{}, driver.ErrDriverIDIsRequired
	}

	return CreateDriverCommand{
		driverID:  driverID,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

func (c CreateDriverCommand) DriverID() string {
	return c.driverID
}

// CreatedAt may be zero; the handler then uses its clock.
func (c CreateDriverCommand) CreatedAt() time.Time {
	return c.createdAt
}
