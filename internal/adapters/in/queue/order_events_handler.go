package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderapi/internal/core/application/usecases/commands"
	"orderapi/internal/core/application/views"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/ports"
)

type OrderCreator interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

// OrderEventsHandler turns order.created messages into orders and tells the
// shops about them.
type OrderEventsHandler struct {
	creator  OrderCreator
	notifier ports.Notifier
	logger   *slog.Logger
}

func NewOrderEventsHandler(creator OrderCreator, notifier ports.Notifier, logger *slog.Logger) *OrderEventsHandler {
	return &OrderEventsHandler{
		creator:  creator,
		notifier: notifier,
		logger:   logger.With("component", "order-events"),
	}
}

func (h *OrderEventsHandler) Handle(ctx context.Context, body []byte) error {
	e, err := decodeEnvelope(body)
	if err != nil {
		return err
	}

	switch e.Event {
	case EventOrderCreated:
		return h.orderCreated(ctx, e)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEvent, e.Event)
	}
}

func (h *OrderEventsHandler) orderCreated(ctx context.Context, e envelope) error {
	var payload orderCreatedPayload
	if err := decodeData(e, &payload); err != nil {
		return err
	}

	pickup, pickupErr := payload.ShopAddress.toAddress("shopAddress")
	delivery, deliveryErr := payload.DeliveryAddress.toAddress("deliveryAddress")
	if err := errors.Join(pickupErr, deliveryErr); err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(
		payload.MenuID,
		payload.ShopID,
		payload.CustomerID,
		payload.Items,
		pickup,
		delivery,
		timeOrZero(payload.CreatedAt),
	)
	if err != nil {
		return err
	}

	created, err := h.creator.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	h.logger.Info("order created", "order_id", created.ID().String(), "shop_id", created.ShopID())

	h.notifier.NotifyRole(ports.RoleShop, views.OrderEvent{
		Type:  views.EventOrderCreated,
		Order: views.NewPublicOrderView(created),
	})

	return nil
}
