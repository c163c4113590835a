package queries

import (
	"context"

	"orderapi/internal/core/application/views"
)

type GetDriverQueryHandler struct {
	drivers DriverReader
}

func NewGetDriverQueryHandler(drivers DriverReader) GetDriverQueryHandler {
	return GetDriverQueryHandler{drivers: drivers}
}

func (h GetDriverQueryHandler) Handle(ctx context.Context, query GetDriverQuery) (views.DriverView, error) {
	if err := query.Validate(); err != nil {
		return views.DriverView{}, err
	}

	d, err := h.drivers.Get(ctx, query.DriverID())
	if err != nil {
		return views.DriverView{}, err
	}

	return views.NewDriverView(d), nil
}
