package queries

import (
	"context"

	"orderapi/internal/core/application/views"
)

type GetAvailableDriversQueryHandler struct {
	drivers DriverReader
}

func NewGetAvailableDriversQueryHandler(drivers DriverReader) GetAvailableDriversQueryHandler {
	return GetAvailableDriversQueryHandler{drivers: drivers}
}

func (h GetAvailableDriversQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableDriversQuery,
) ([]views.DriverView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	drivers, err := h.drivers.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	return views.NewDriverViews(drivers), nil
}
