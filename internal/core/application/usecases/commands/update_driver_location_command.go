package commands

import (
	"errors"
	"strings"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

// UpdateDriverLocationCommand is a location ping. OrderID names the order the
// driver is delivering, whose customer gets the live position.
type UpdateDriverLocationCommand struct { //nolint:recvcheck //using for validation
	driverID    string
	coordinates kernel.Coordinates
	orderID     *kernel.UUID

	guard guard.ConstructorGuard
}

func NewUpdateDriverLocationCommand(
	driverID string,
	coordinates kernel.Coordinates,
	orderID *kernel.UUID,
) (UpdateDriverLocationCommand, error) {
	var idErr error
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		idErr = driver.ErrDriverIDIsRequired
	}

	var orderErr error
	if orderID != nil {
		orderErr = orderID.Validate()
	}

	if err := errors.Join(idErr, coordinates.Validate(), orderErr); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	cmd := UpdateDriverLocationCommand{
		driverID:    driverID,
		coordinates: coordinates,
		guard:       guard.NewConstructorGuard(),
	}
	if orderID != nil {
		id := *orderID
		cmd.orderID = &id
	}

	return cmd, nil
}

func (c UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}

func (c UpdateDriverLocationCommand) DriverID() string {
	return c.driverID
}

func (c UpdateDriverLocationCommand) Coordinates() kernel.Coordinates {
	return c.coordinates
}

func (c UpdateDriverLocationCommand) OrderID() *kernel.UUID {
	if c.orderID == nil {
		return nil
	}
	id := *c.orderID
	return &id
}
