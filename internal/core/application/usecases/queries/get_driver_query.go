package queries

import (
	"errors"
	"strings"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/pkg/guard"
)

var ErrGetDriverQueryIsNotConstructed = errors.New(
	"GetDriverQuery must be created via NewGetDriverQuery constructor",
)

type GetDriverQuery struct {
	driverID string

	guard guard.ConstructorGuard
}

func NewGetDriverQuery(driverID string) (GetDriverQuery, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return GetDriverQuery{}, driver.ErrDriverIDIsRequired
	}

	return GetDriverQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetDriverQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverQueryIsNotConstructed)
}

func (q GetDriverQuery) DriverID() string {
	return q.driverID
}
