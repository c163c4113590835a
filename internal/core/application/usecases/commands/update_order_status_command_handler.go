package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderapi/internal/core/application/views"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/ports"
	"orderapi/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler applies a status transition in its own
// transaction, then keeps the courier's current order in sync, runs the
// assignment policy for prepared orders and notifies customers.
type UpdateOrderStatusCommandHandler struct {
	orderUoWFactory  OrderUoWFactory
	driverUoWFactory DriverUoWFactory
	policy           CourierOfferer
	notifier         ports.Notifier
	logger           *slog.Logger
	now              func() time.Time
}

func NewUpdateOrderStatusCommandHandler(
	orderUoWFactory OrderUoWFactory,
	driverUoWFactory DriverUoWFactory,
	policy CourierOfferer,
	notifier ports.Notifier,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		orderUoWFactory:  orderUoWFactory,
		driverUoWFactory: driverUoWFactory,
		policy:           policy,
		notifier:         notifier,
		logger:           logger.With("component", "update-order-status"),
		now:              time.Now,
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	aggregate, claimed, err := h.transition(ctx, cmd)
	if err != nil {
		return nil, err
	}

	h.syncDriver(ctx, aggregate, claimed)

	if aggregate.Status() == order.Prepared {
		if err = h.policy.OfferOrderToCouriers(ctx, aggregate); err != nil {
			h.logger.WarnContext(ctx, "assignment policy failed",
				"order_id", aggregate.ID().String(), "error", err)
		}
	}

	h.notifier.NotifyRole(ports.RoleCustomer, views.OrderEvent{
		Type:  views.EventOrderUpdated,
		Order: views.NewPublicOrderView(aggregate),
	})

	return aggregate, nil
}

// transition reports whether this call claimed the order for a courier.
func (h UpdateOrderStatusCommandHandler) transition(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, bool, error) {
	uow := h.orderUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, false, err
	}

	unclaimed := aggregate.CourierID() == nil

	if err = aggregate.Transition(cmd.Status(), cmd.CourierID(), cmd.DeliveryCode(), h.now().UTC()); err != nil {
		return nil, false, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return aggregate, unclaimed && aggregate.CourierID() != nil, nil
}

// syncDriver records the order on the courier's driver record when it was
// just claimed and clears it once the order is finished. Failures are logged:
// the order itself is already committed.
func (h UpdateOrderStatusCommandHandler) syncDriver(ctx context.Context, aggregate *order.Order, claimed bool) {
	courierID := aggregate.CourierID()
	if courierID == nil || (!claimed && !aggregate.Status().IsTerminal()) {
		return
	}

	err := h.updateDriver(ctx, func(uow DriverUoW, at time.Time) error {
		driverRepo := uow.DriverRepository()

		d, err := driverRepo.GetForUpdate(ctx, *courierID)
		if err != nil {
			return err
		}

		if aggregate.Status().IsTerminal() {
			if !d.ReleaseOrder(aggregate.ID(), at) {
				return nil
			}
		} else if err = d.AssignOrder(aggregate.ID(), at); err != nil {
			return err
		}

		return driverRepo.Update(ctx, d)
	})

	switch {
	case err == nil:
	case errors.Is(err, errs.ErrObjectNotFound):
		h.logger.DebugContext(ctx, "courier has no driver record", "courier_id", *courierID)
	default:
		h.logger.WarnContext(ctx, "failed to sync driver current order",
			"courier_id", *courierID, "order_id", aggregate.ID().String(), "error", err)
	}
}

func (h UpdateOrderStatusCommandHandler) updateDriver(
	ctx context.Context,
	mutate func(uow DriverUoW, at time.Time) error,
) error {
	uow := h.driverUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := mutate(uow, h.now().UTC()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
