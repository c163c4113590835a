package queries

import (
	"context"

	"orderapi/internal/core/application/views"
)

type GetOrdersQueryHandler struct {
	orders OrderReader
}

func NewGetOrdersQueryHandler(orders OrderReader) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{orders: orders}
}

func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]views.OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.List(ctx, query.Filter())
	if err != nil {
		return nil, err
	}

	return views.NewOrderViews(orders), nil
}
