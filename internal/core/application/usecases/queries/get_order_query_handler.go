package queries

import (
	"context"

	"orderapi/internal/core/application/views"
)

type GetOrderQueryHandler struct {
	orders OrderReader
}

func NewGetOrderQueryHandler(orders OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

// Handle returns the full order, delivery code included. Unknown ids yield
// errs.ErrObjectNotFound.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (views.OrderView, error) {
	if err := query.Validate(); err != nil {
		return views.OrderView{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return views.OrderView{}, err
	}

	return views.NewOrderView(o), nil
}
