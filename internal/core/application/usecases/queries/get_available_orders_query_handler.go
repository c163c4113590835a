package queries

import (
	"context"

	"orderapi/internal/core/application/views"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/ports"
)

type GetAvailableOrdersQueryHandler struct {
	orders OrderReader
}

func NewGetAvailableOrdersQueryHandler(orders OrderReader) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{orders: orders}
}

func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]views.OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.List(ctx, ports.OrderFilter{
		Status:        order.Prepared,
		UnclaimedOnly: true,
	})
	if err != nil {
		return nil, err
	}

	return views.NewOrderViews(orders), nil
}
