package commands

import (
	"errors"
	"strings"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/pkg/guard"
)

var ErrSetDriverAvailabilityCommandIsNotConstructed = errors.New(
	"SetDriverAvailabilityCommand must be created via NewSetDriverAvailabilityCommand constructor",
)

type SetDriverAvailabilityCommand struct { //nolint:recvcheck //using for validation
	driverID    string
	isAvailable bool
	location    *kernel.Coordinates

	guard guard.ConstructorGuard
}

// NewSetDriverAvailabilityCommand accepts an optional location reported along
// with the availability toggle.
func NewSetDriverAvailabilityCommand(
	driverID string,
	isAvailable bool,
	location *kernel.Coordinates,
) (SetDriverAvailabilityCommand, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return SetDriverAvailabilityCommand{}, driver.ErrDriverIDIsRequired
	}

	cmd := SetDriverAvailabilityCommand{
		driverID:    driverID,
		isAvailable: isAvailable,
		guard:       guard.NewConstructorGuard(),
	}

	if location != nil {
		if err := location.Validate(); err != nil {
			return SetDriverAvailabilityCommand{}, err
		}
		c := *location
		cmd.location = &c
	}

	return cmd, nil
}

func (c SetDriverAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverAvailabilityCommandIsNotConstructed)
}

func (c SetDriverAvailabilityCommand) DriverID() string {
	return c.driverID
}

func (c SetDriverAvailabilityCommand) IsAvailable() bool {
	return c.isAvailable
}

func (c SetDriverAvailabilityCommand) Location() *kernel.Coordinates {
	if c.location == nil {
		return nil
	}
	l := *c.location
	return &l
}
