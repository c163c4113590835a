package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/ports"
)

type OfferPreparedOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     CourierOfferer
	logger     *slog.Logger
}

func NewOfferPreparedOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	policy CourierOfferer,
	logger *slog.Logger,
) OfferPreparedOrdersCommandHandler {
	return OfferPreparedOrdersCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		logger:     logger.With("component", "offer-prepared-orders"),
	}
}

// Handle returns the number of orders offered. A failing offer does not stop
// the others; their errors are joined.
func (h OfferPreparedOrdersCommandHandler) Handle(ctx context.Context, cmd OfferPreparedOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	orders, err := h.uowFactory.Create().OrderRepository().List(ctx, ports.OrderFilter{
		Status:        order.Prepared,
		UnclaimedOnly: true,
	})
	if err != nil {
		return 0, err
	}

	var (
		offered int
		errList []error
	)
	for _, o := range orders {
		if err = h.policy.OfferOrderToCouriers(ctx, o); err != nil {
			errList = append(errList, err)
			continue
		}
		offered++
	}

	if len(errList) > 0 {
		h.logger.WarnContext(ctx, "some offers failed", "failed", len(errList), "offered", offered)
	}

	return offered, errors.Join(errList...)
}
